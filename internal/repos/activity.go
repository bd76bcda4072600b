package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stride-backend/internal/logger"
	"github.com/yungbote/stride-backend/internal/types"
)

type ActivityRepo interface {
	GetByAthleteSince(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, since time.Time) ([]*types.Activity, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	repoLog := baseLog.With("repo", "ActivityRepo")
	return &activityRepo{db: db, log: repoLog}
}

func (r *activityRepo) GetByAthleteSince(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, since time.Time) ([]*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Activity
	if athleteID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("athlete_id = ? AND started_at >= ?", athleteID, since).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
