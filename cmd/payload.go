package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sells-group/order-inbox/internal/model"
	"github.com/sells-group/order-inbox/internal/submission"
)

var (
	payloadModel    string
	payloadDecision string
	payloadContext  string
	payloadFormat   string
)

var payloadCmd = &cobra.Command{
	Use:   "payload",
	Short: "Print the task completion for a reviewed model",
	Long:  "Builds the completion request, including the backend sales order, that the inbox would send for a review model and decision. Nothing is sent.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("local"); err != nil {
			return err
		}

		tc, err := buildPayload(submission.NewTransformer(cfg.SalesOrder), payloadModel, payloadDecision, payloadContext)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), payloadFormat, tc)
	},
}

func buildPayload(tr *submission.Transformer, modelPath, decision, contextPath string) (*model.TaskCompletion, error) {
	d, err := model.ParseDecision(decision)
	if err != nil {
		return nil, err
	}

	var m model.ReviewModel
	if err := readJSON(modelPath, &m); err != nil {
		return nil, err
	}

	var taskCtx map[string]json.RawMessage
	if contextPath != "" {
		if err := readJSON(contextPath, &taskCtx); err != nil {
			return nil, err
		}
	}

	return tr.Build(&m, d, taskCtx)
}

func init() {
	payloadCmd.Flags().StringVar(&payloadModel, "model", "", "review model JSON file")
	payloadCmd.Flags().StringVar(&payloadDecision, "decision", "", "approve or reject")
	payloadCmd.Flags().StringVar(&payloadContext, "context", "", "task context JSON file to pass through")
	payloadCmd.Flags().StringVar(&payloadFormat, "format", formatJSON, "output format (json or yaml)")
	_ = payloadCmd.MarkFlagRequired("model")
	_ = payloadCmd.MarkFlagRequired("decision")
	rootCmd.AddCommand(payloadCmd)
}
