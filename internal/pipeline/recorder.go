package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lumabyte/storypipe/internal/clients/gcp"
	"github.com/lumabyte/storypipe/internal/platform/logger"
	"github.com/lumabyte/storypipe/internal/repos"
	"github.com/lumabyte/storypipe/internal/story"
	"github.com/lumabyte/storypipe/internal/types"
)

// Recorder is the second pipeline stage: re-read the uploaded story, derive
// metadata and append one ledger row.
type Recorder struct {
	log     *logger.Logger
	bucket  gcp.BucketService
	records repos.StoryRecordRepo
}

func NewRecorder(log *logger.Logger, bucket gcp.BucketService, records repos.StoryRecordRepo) *Recorder {
	return &Recorder{
		log:     log.With("stage", "recorder"),
		bucket:  bucket,
		records: records,
	}
}

// ExtractAndRecord fetches the object named by the handle, derives metadata
// and inserts exactly one fully-populated row. The handle is taken as-is —
// this stage never reconstructs object names on its own.
func (r *Recorder) ExtractAndRecord(ctx context.Context, handle types.ObjectHandle) (*types.StoryRecord, error) {
	if strings.TrimSpace(handle.ObjectKey) == "" {
		return nil, stageFailure(FailureRetrieval, fmt.Errorf("handle has no object key"))
	}

	rc, err := r.bucket.DownloadObject(ctx, handle.ObjectKey)
	if err != nil {
		return nil, stageFailure(FailureRetrieval, err)
	}
	raw, err := io.ReadAll(rc)
	closeErr := rc.Close()
	if err != nil {
		return nil, stageFailure(FailureRetrieval, fmt.Errorf("read object %q: %w", handle.ObjectKey, err))
	}
	if closeErr != nil {
		r.log.Warn("Object reader close failed", "object_key", handle.ObjectKey, "error", closeErr)
	}

	meta := story.ExtractMetadata(string(raw))

	if err := r.records.EnsureSchema(ctx); err != nil {
		return nil, stageFailure(FailureSchema, err)
	}

	rec := &types.StoryRecord{
		CreatedAt:            time.Now().UTC(),
		Title:                meta.Title,
		LengthChars:          meta.LengthChars,
		LengthWords:          meta.LengthWords,
		EstimatedReadTimeMin: meta.EstimatedReadTimeMin,
		PrimaryTheme:         meta.PrimaryTheme,
		ObjectURL:            handle.URL,
	}
	saved, err := r.records.Create(ctx, rec)
	if err != nil {
		return nil, stageFailure(FailurePersistence, err)
	}

	r.log.Info("Story metadata recorded",
		"record_id", saved.ID,
		"title", saved.Title,
		"length_words", saved.LengthWords,
		"primary_theme", saved.PrimaryTheme,
		"object_url", saved.ObjectURL,
	)
	return saved, nil
}
