package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/order-inbox/internal/config"
	"github.com/sells-group/order-inbox/internal/inbox"
	"github.com/sells-group/order-inbox/internal/model"
	"github.com/sells-group/order-inbox/internal/submission"
	"github.com/sells-group/order-inbox/pkg/workflow"
)

var (
	completeInstance string
	completeDecision string
	completeEdit     string
	completeFormat   string
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Load a review task and submit a decision",
	Long:  "Fetches the task context from the workflow runtime, normalizes it, and completes the task with the given decision. --edit replaces the normalized model with a reviewer-edited one.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("complete"); err != nil {
			return err
		}

		client := newWorkflowClient(cfg.Workflow)
		tc, err := completeTask(cmd.Context(), client, inbox.NewLogAPI(), cfg.SalesOrder, completeInstance, completeDecision, completeEdit)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), completeFormat, tc)
	},
}

func newWorkflowClient(wc config.WorkflowConfig) workflow.Client {
	return workflow.NewClient(wc.BaseURL,
		workflow.WithTimeout(time.Duration(wc.TimeoutSecs)*time.Second),
		workflow.WithRateLimit(wc.RateLimit),
		workflow.WithRetryPolicy(wc.Retry.Policy()),
	)
}

// completeTask runs one review task end to end.
func completeTask(ctx context.Context, client workflow.Client, api inbox.API, so submission.Config, instance, decision, editPath string) (*model.TaskCompletion, error) {
	id, err := uuid.Parse(instance)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid task instance id %q", instance)
	}
	d, err := model.ParseDecision(decision)
	if err != nil {
		return nil, err
	}

	var edited *model.ReviewModel
	if editPath != "" {
		edited = &model.ReviewModel{}
		if err := readJSON(editPath, edited); err != nil {
			return nil, err
		}
	}

	task := inbox.NewTask(id.String(), client, api,
		inbox.WithTransformer(submission.NewTransformer(so)),
	)

	if _, err := task.Load(ctx); err != nil {
		return nil, err
	}
	if edited != nil {
		if err := task.Edit(edited); err != nil {
			return nil, err
		}
	}
	return task.Complete(ctx, d)
}

func init() {
	completeCmd.Flags().StringVar(&completeInstance, "instance", "", "task instance id (UUID)")
	completeCmd.Flags().StringVar(&completeDecision, "decision", "", "approve or reject")
	completeCmd.Flags().StringVar(&completeEdit, "edit", "", "reviewer-edited model JSON file")
	completeCmd.Flags().StringVar(&completeFormat, "format", formatJSON, "output format (json or yaml)")
	_ = completeCmd.MarkFlagRequired("instance")
	_ = completeCmd.MarkFlagRequired("decision")
	rootCmd.AddCommand(completeCmd)
}
