package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/lumabyte/storypipe/internal/platform/logger"
	"github.com/lumabyte/storypipe/internal/types"
)

// StoryRecordRepo is the append-only metadata ledger.
type StoryRecordRepo interface {
	// EnsureSchema creates the ledger table if it does not exist yet. It is
	// idempotent and treats a concurrent creation by another run as success.
	// It never alters an existing table.
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, rec *types.StoryRecord) (*types.StoryRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*types.StoryRecord, error)
}

type storyRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoryRecordRepo(db *gorm.DB, baseLog *logger.Logger) StoryRecordRepo {
	return &storyRecordRepo{db: db, log: baseLog.With("repo", "StoryRecordRepo")}
}

func (r *storyRecordRepo) EnsureSchema(ctx context.Context) error {
	m := r.db.WithContext(ctx).Migrator()
	if m.HasTable(&types.StoryRecord{}) {
		return nil
	}
	if err := m.CreateTable(&types.StoryRecord{}); err != nil {
		// Another run may have created the table between the check and the
		// create; that is success, not an error.
		if m.HasTable(&types.StoryRecord{}) {
			return nil
		}
		return fmt.Errorf("create table %s: %w", types.StoryRecord{}.TableName(), err)
	}
	r.log.Info("Created ledger table", "table", types.StoryRecord{}.TableName())
	return nil
}

func (r *storyRecordRepo) Create(ctx context.Context, rec *types.StoryRecord) (*types.StoryRecord, error) {
	if rec == nil {
		return nil, fmt.Errorf("nil story record")
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *storyRecordRepo) ListRecent(ctx context.Context, limit int) ([]*types.StoryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	out := []*types.StoryRecord{}
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
