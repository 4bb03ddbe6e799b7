package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/lumabyte/storypipe/internal/clients/gcp"
	"github.com/lumabyte/storypipe/internal/platform/logger"
	"github.com/lumabyte/storypipe/internal/platform/openai"
	"github.com/lumabyte/storypipe/internal/story"
	"github.com/lumabyte/storypipe/internal/types"
)

const storyContentType = "text/plain; charset=utf-8"

// Generator is the first pipeline stage: generate a story and upload it.
type Generator struct {
	log          *logger.Logger
	ai           openai.Client
	bucket       gcp.BucketService
	prompts      *story.PromptSet
	objectPrefix string
}

func NewGenerator(log *logger.Logger, ai openai.Client, bucket gcp.BucketService, prompts *story.PromptSet, objectPrefix string) *Generator {
	return &Generator{
		log:          log.With("stage", "generator"),
		ai:           ai,
		bucket:       bucket,
		prompts:      prompts,
		objectPrefix: objectPrefix,
	}
}

// GenerateAndUpload picks a prompt, generates story text and uploads it to
// the bucket under a collision-free key. The returned handle is only built
// after the upload succeeded, so a handle never points at a missing object.
// runSeed is the orchestrator's run ID; it only steers prompt selection.
func (g *Generator) GenerateAndUpload(ctx context.Context, runSeed string) (types.ObjectHandle, error) {
	prompt := g.prompts.Pick(runSeed)

	text, err := g.ai.GenerateText(ctx, story.SystemPrompt, prompt)
	if err != nil {
		return types.ObjectHandle{}, stageFailure(FailureGeneration, err)
	}

	key := story.BuildObjectKey(g.objectPrefix, time.Now())
	if err := g.bucket.UploadObject(ctx, key, strings.NewReader(text), storyContentType); err != nil {
		return types.ObjectHandle{}, stageFailure(FailureUpload, err)
	}

	handle := types.ObjectHandle{
		Bucket:    g.bucket.BucketName(),
		ObjectKey: key,
		URL:       g.bucket.PublicURL(key),
	}
	g.log.Info("Story generated and uploaded",
		"object_key", handle.ObjectKey,
		"bucket", handle.Bucket,
		"chars", len(text),
	)
	return handle, nil
}
