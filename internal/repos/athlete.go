package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stride-backend/internal/logger"
	"github.com/yungbote/stride-backend/internal/types"
)

type AthleteRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Athlete, error)
}

type athleteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAthleteRepo(db *gorm.DB, baseLog *logger.Logger) AthleteRepo {
	repoLog := baseLog.With("repo", "AthleteRepo")
	return &athleteRepo{db: db, log: repoLog}
}

// GetByID returns nil, nil when the athlete does not exist: a missing
// profile is normal absence for the readiness pipeline, not an error.
func (r *athleteRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Athlete, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var result types.Athlete
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
