package storyrun

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.temporal.io/sdk/activity"

	"github.com/lumabyte/storypipe/internal/observability"
	"github.com/lumabyte/storypipe/internal/pipeline"
	"github.com/lumabyte/storypipe/internal/platform/logger"
	"github.com/lumabyte/storypipe/internal/types"
)

type Activities struct {
	Log       *logger.Logger
	Generator *pipeline.Generator
	Recorder  *pipeline.Recorder
}

func (a *Activities) GenerateUpload(ctx context.Context, runID string) (types.ObjectHandle, error) {
	if a == nil || a.Generator == nil {
		return types.ObjectHandle{}, fmt.Errorf("storyrun: generator activity not configured")
	}

	ctx, span := observability.Tracer().Start(ctx, "GenerateAndUpload")
	defer span.End()
	span.SetAttributes(attribute.String("story.run_id", runID))

	info := activity.GetInfo(ctx)
	if a.Log != nil {
		a.Log.Info("Generate/upload stage starting", "run_id", runID, "attempt", info.Attempt)
	}

	handle, err := a.Generator.GenerateAndUpload(ctx, runID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate/upload failed")
		return types.ObjectHandle{}, err
	}
	span.SetAttributes(attribute.String("story.object_key", handle.ObjectKey))
	return handle, nil
}

func (a *Activities) ExtractRecord(ctx context.Context, handle types.ObjectHandle) error {
	if a == nil || a.Recorder == nil {
		return fmt.Errorf("storyrun: recorder activity not configured")
	}

	ctx, span := observability.Tracer().Start(ctx, "ExtractAndRecord")
	defer span.End()
	span.SetAttributes(attribute.String("story.object_key", handle.ObjectKey))

	if a.Log != nil {
		a.Log.Info("Extract/record stage starting", "object_key", handle.ObjectKey, "bucket", handle.Bucket)
	}

	if _, err := a.Recorder.ExtractAndRecord(ctx, handle); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extract/record failed")
		return err
	}
	return nil
}
