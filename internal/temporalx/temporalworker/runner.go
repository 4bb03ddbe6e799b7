package temporalworker

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/lumabyte/storypipe/internal/platform/envutil"
	"github.com/lumabyte/storypipe/internal/platform/logger"
	"github.com/lumabyte/storypipe/internal/temporalx"
	"github.com/lumabyte/storypipe/internal/temporalx/storyrun"
)

type Runner struct {
	log  *logger.Logger
	tc   temporalsdkclient.Client
	acts *storyrun.Activities
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, acts *storyrun.Activities) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if acts == nil || acts.Generator == nil || acts.Recorder == nil {
		return nil, fmt.Errorf("temporal worker missing pipeline activities")
	}
	return &Runner{log: log, tc: tc, acts: acts}, nil
}

func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}

	cfg := temporalx.LoadConfig()
	if r.log != nil {
		r.log.Info("Starting Temporal worker", "address", cfg.Address, "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)
	}

	maxWait := time.Duration(envutil.Int("TEMPORAL_WORKER_START_MAX_WAIT_SECONDS", 60)) * time.Second
	backoff := time.Duration(envutil.Int("TEMPORAL_WORKER_START_BACKOFF_MS", 250)) * time.Millisecond

	deadline := time.Now().Add(maxWait)
	for attempt := 1; ; attempt++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		w := r.newWorker(cfg)
		startErr := w.Start()
		if startErr == nil {
			if ctx != nil {
				go func() {
					<-ctx.Done()
					w.Stop()
				}()
			}
			if r.log != nil {
				r.log.Info("Temporal worker started", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempts", attempt)
			}
			return nil
		}
		w.Stop()

		if maxWait <= 0 || time.Now().After(deadline) {
			return startErr
		}
		if r.log != nil {
			r.log.Warn("Temporal worker failed to start; retrying", "task_queue", cfg.TaskQueue, "attempt", attempt, "error", startErr)
		}
		sleep := backoff * time.Duration(attempt)
		if sleep > 5*time.Second {
			sleep = 5 * time.Second
		}
		time.Sleep(sleep)
	}
}

func (r *Runner) newWorker(cfg temporalx.Config) worker.Worker {
	concurrency := envutil.Int("WORKER_CONCURRENCY", 4)
	if concurrency < 1 {
		concurrency = 1
	}

	w := worker.New(r.tc, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	w.RegisterWorkflowWithOptions(storyrun.Workflow, workflow.RegisterOptions{Name: storyrun.WorkflowName})
	w.RegisterActivityWithOptions(r.acts.GenerateUpload, activity.RegisterOptions{Name: storyrun.ActivityGenerateUpload})
	w.RegisterActivityWithOptions(r.acts.ExtractRecord, activity.RegisterOptions{Name: storyrun.ActivityExtractRecord})
	return w
}
