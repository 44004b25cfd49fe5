package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/order-inbox/internal/extract"
	"github.com/sells-group/order-inbox/internal/model"
)

var (
	normalizeFormat      string
	normalizeConcurrency int
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize FILE...",
	Short: "Normalize extracted documents into review models",
	Long:  "Reads raw extraction documents (headerData, lineItems, enrichment) from JSON files and prints the review model for each.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := normalizeFiles(cmd.Context(), extract.NewNormalizer(), args, normalizeConcurrency)
		if err != nil {
			return err
		}

		if len(results) == 1 {
			return writeOutput(cmd.OutOrStdout(), normalizeFormat, results[0].Model)
		}
		return writeOutput(cmd.OutOrStdout(), normalizeFormat, results)
	},
}

type normalizeResult struct {
	File  string             `json:"file"`
	Model *model.ReviewModel `json:"model"`
}

// normalizeFiles normalizes each file concurrently. Results keep the order
// of paths. The first read or decode failure cancels the rest.
func normalizeFiles(ctx context.Context, n *extract.Normalizer, paths []string, limit int) ([]normalizeResult, error) {
	results := make([]normalizeResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var raw model.RawDocument
			if err := readJSON(path, &raw); err != nil {
				return err
			}
			results[i] = normalizeResult{File: path, Model: n.Normalize(&raw)}
			zap.L().Debug("normalized document",
				zap.String("file", path),
				zap.String("purchase_order", results[i].Model.PurchaseOrder),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeFormat, "format", formatJSON, "output format (json or yaml)")
	normalizeCmd.Flags().IntVar(&normalizeConcurrency, "concurrency", 4, "files normalized in parallel")
	rootCmd.AddCommand(normalizeCmd)
}
