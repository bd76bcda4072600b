package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stride-backend/internal/logger"
	"github.com/yungbote/stride-backend/internal/types"
)

type DailyMetricRepo interface {
	GetRecentByAthlete(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, before time.Time, limit int) ([]*types.DailyMetric, error)
}

type dailyMetricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyMetricRepo(db *gorm.DB, baseLog *logger.Logger) DailyMetricRepo {
	repoLog := baseLog.With("repo", "DailyMetricRepo")
	return &dailyMetricRepo{db: db, log: repoLog}
}

// GetRecentByAthlete returns up to limit samples with date <= before,
// most recent first. The row written last wins any per-day conflict; the
// unique (athlete_id, date) index guarantees at most one row per day.
func (r *dailyMetricRepo) GetRecentByAthlete(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, before time.Time, limit int) ([]*types.DailyMetric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DailyMetric
	if athleteID == uuid.Nil || limit <= 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("athlete_id = ? AND date <= ?", athleteID, before).
		Order("date DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
