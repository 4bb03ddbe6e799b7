package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/lumabyte/storypipe/internal/platform/envutil"
	"github.com/lumabyte/storypipe/internal/platform/logger"
	"github.com/lumabyte/storypipe/internal/temporalx"
	"github.com/lumabyte/storypipe/internal/temporalx/storyrun"
)

// trigger starts one story-run workflow. With STORY_CRON set it registers a
// recurring schedule instead of a single run. Retry policy lives here, on
// the workflow, never inside the pipeline stages.
func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	tc, err := temporalx.NewClient(log)
	if err != nil {
		log.Fatal("Temporal client init failed", "error", err)
	}
	if tc == nil {
		log.Fatal("Temporal is required; set TEMPORAL_ADDRESS")
	}
	defer tc.Close()

	cfg := temporalx.LoadConfig()
	opts := client.StartWorkflowOptions{
		ID:        "story-run-" + uuid.NewString(),
		TaskQueue: cfg.TaskQueue,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    30 * time.Second,
			BackoffCoefficient: 1.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	}
	if cron := strings.TrimSpace(os.Getenv("STORY_CRON")); cron != "" {
		opts.CronSchedule = cron
		opts.ID = "story-run-cron"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	run, err := tc.ExecuteWorkflow(ctx, opts, storyrun.WorkflowName)
	if err != nil {
		log.Fatal("Failed to start story run", "error", err)
	}
	log.Info("Story run started", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "cron", opts.CronSchedule)
}
