package storyrun

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/lumabyte/storypipe/internal/types"
)

// Workflow runs the two pipeline stages strictly in sequence and carries the
// object handle between them. Activities get a single attempt each; retries
// of the whole run are owned by the retry policy the trigger attaches to the
// workflow itself.
func Workflow(ctx workflow.Context) error {
	runID := workflow.GetInfo(ctx).WorkflowExecution.ID

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	var handle types.ObjectHandle
	if err := workflow.ExecuteActivity(ctx, ActivityGenerateUpload, runID).Get(ctx, &handle); err != nil {
		return err
	}
	if err := workflow.ExecuteActivity(ctx, ActivityExtractRecord, handle).Get(ctx, nil); err != nil {
		return err
	}
	return nil
}
