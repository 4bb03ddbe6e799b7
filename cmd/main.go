package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumabyte/storypipe/internal/app"
	"github.com/lumabyte/storypipe/internal/clients/gcp"
	"github.com/lumabyte/storypipe/internal/db"
	"github.com/lumabyte/storypipe/internal/observability"
	"github.com/lumabyte/storypipe/internal/pipeline"
	"github.com/lumabyte/storypipe/internal/platform/logger"
	"github.com/lumabyte/storypipe/internal/platform/openai"
	"github.com/lumabyte/storypipe/internal/repos"
	"github.com/lumabyte/storypipe/internal/server"
	"github.com/lumabyte/storypipe/internal/story"
	"github.com/lumabyte/storypipe/internal/temporalx"
	"github.com/lumabyte/storypipe/internal/temporalx/storyrun"
	"github.com/lumabyte/storypipe/internal/temporalx/temporalworker"
)

func main() {
	cfg := app.LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "storypipe",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	if shutdownOtel != nil {
		defer func() {
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOtel(shCtx)
		}()
	}

	// Postgres + ledger repo. The schema is also ensured lazily by the
	// recorder stage; doing it here just surfaces connectivity problems at
	// boot instead of on the first run.
	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	recordRepo := repos.NewStoryRecordRepo(pg.DB(), log)
	if err := recordRepo.EnsureSchema(ctx); err != nil {
		log.Warn("Ledger schema ensure failed at boot; recorder will retry per run", "error", err)
	}

	bucket, err := gcp.NewBucketService(ctx, log, cfg.Storage)
	if err != nil {
		log.Fatal("Bucket service init failed", "error", err)
	}

	aiClient, err := openai.NewClient(log, cfg.OpenAI)
	if err != nil {
		log.Fatal("OpenAI client init failed", "error", err)
	}

	prompts := story.DefaultPromptSet()
	if cfg.PromptsFile != "" {
		prompts, err = story.LoadPromptSet(cfg.PromptsFile)
		if err != nil {
			log.Fatal("Prompt set load failed", "path", cfg.PromptsFile, "error", err)
		}
		log.Info("Loaded prompt set", "path", cfg.PromptsFile, "prompts", prompts.Len())
	}

	generator := pipeline.NewGenerator(log, aiClient, bucket, prompts, cfg.ObjectPrefix)
	recorder := pipeline.NewRecorder(log, bucket, recordRepo)

	tc, err := temporalx.NewClient(log)
	if err != nil {
		log.Fatal("Temporal client init failed", "error", err)
	}
	if tc == nil {
		log.Fatal("Temporal is required; set TEMPORAL_ADDRESS")
	}
	defer tc.Close()

	runner, err := temporalworker.NewRunner(log, tc, &storyrun.Activities{
		Log:       log,
		Generator: generator,
		Recorder:  recorder,
	})
	if err != nil {
		log.Fatal("Temporal worker init failed", "error", err)
	}

	srv := server.New(log, recordRepo)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Start(gctx)
	})
	g.Go(func() error {
		log.Info("HTTP server listening", "port", cfg.HTTPPort)
		return srv.Run(gctx, ":"+cfg.HTTPPort)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("storypipe exited", "error", err)
	}
}
