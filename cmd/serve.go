package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/order-inbox/internal/backenddate"
	"github.com/sells-group/order-inbox/internal/extract"
	"github.com/sells-group/order-inbox/internal/model"
	"github.com/sells-group/order-inbox/internal/submission"
)

const maxBodyBytes = 10 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the normalization HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		cfg.Server.Port = port
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(extract.NewNormalizer(), submission.NewTransformer(cfg.SalesOrder)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type payloadRequest struct {
	Model    *model.ReviewModel         `json:"model"`
	Decision string                     `json:"decision"`
	Context  map[string]json.RawMessage `json:"context"`
}

type dateResponse struct {
	Value       string `json:"value"`
	BackendDate string `json:"backendDate"`
	Valid       bool   `json:"valid"`
}

func buildRouter(n *extract.Normalizer, tr *submission.Transformer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/normalize", func(w http.ResponseWriter, r *http.Request) {
			var raw model.RawDocument
			if err := decodeBody(w, r, &raw); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			writeJSON(w, http.StatusOK, n.Normalize(&raw))
		})

		r.Post("/payload", func(w http.ResponseWriter, r *http.Request) {
			var req payloadRequest
			if err := decodeBody(w, r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if req.Model == nil {
				writeError(w, http.StatusBadRequest, "model is required")
				return
			}
			d, err := model.ParseDecision(req.Decision)
			if err != nil {
				writeError(w, http.StatusBadRequest, "decision must be approve or reject")
				return
			}

			tc, err := tr.Build(req.Model, d, req.Context)
			if err != nil {
				zap.L().Error("build payload failed",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Error(err),
				)
				writeError(w, http.StatusInternalServerError, "could not build payload")
				return
			}
			writeJSON(w, http.StatusOK, tc)
		})

		r.Get("/date", func(w http.ResponseWriter, r *http.Request) {
			value := r.URL.Query().Get("value")
			if value == "" {
				writeError(w, http.StatusBadRequest, "value is required")
				return
			}
			out := backenddate.ToBackendDate(value)
			writeJSON(w, http.StatusOK, dateResponse{Value: value, BackendDate: out, Valid: out != ""})
		})
	})

	return r
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
