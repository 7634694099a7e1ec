package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/skillplanner-backend/internal/platform/logger"
	"github.com/yungbote/skillplanner-backend/internal/types"
)

type PlanRunRepo interface {
	Create(ctx context.Context, run *types.PlanRun) (*types.PlanRun, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.PlanRun, error)
	// UpdateIntegration records the outcome of a calendar batch.
	UpdateIntegration(ctx context.Context, id uuid.UUID, integrated bool, message string, links []byte) error
	// GetLatestIntegrated returns the most recent successfully
	// integrated run, or nil when none exists.
	GetLatestIntegrated(ctx context.Context) (*types.PlanRun, error)
}

type planRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRunRepo(db *gorm.DB, baseLog *logger.Logger) PlanRunRepo {
	return &planRunRepo{db: db, log: baseLog.With("repo", "PlanRunRepo")}
}

func (r *planRunRepo) Create(ctx context.Context, run *types.PlanRun) (*types.PlanRun, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *planRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.PlanRun, error) {
	var run types.PlanRun
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *planRunRepo) UpdateIntegration(ctx context.Context, id uuid.UUID, integrated bool, message string, links []byte) error {
	updates := map[string]any{
		"integrated":          integrated,
		"integration_message": message,
	}
	if links != nil {
		updates["event_links"] = links
	}
	return r.db.WithContext(ctx).
		Model(&types.PlanRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *planRunRepo) GetLatestIntegrated(ctx context.Context) (*types.PlanRun, error) {
	var run types.PlanRun
	err := r.db.WithContext(ctx).
		Where("integrated = ?", true).
		Order("updated_at DESC").
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}
