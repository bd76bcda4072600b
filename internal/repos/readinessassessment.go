package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/stride-backend/internal/logger"
	"github.com/yungbote/stride-backend/internal/types"
)

type ReadinessAssessmentRepo interface {
	GetByAthleteAndDate(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, date time.Time) (*types.ReadinessAssessment, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ReadinessAssessment) error
	SetAudioURL(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, date time.Time, url string) error
}

type readinessAssessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadinessAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) ReadinessAssessmentRepo {
	repoLog := baseLog.With("repo", "ReadinessAssessmentRepo")
	return &readinessAssessmentRepo{db: db, log: repoLog}
}

func (r *readinessAssessmentRepo) GetByAthleteAndDate(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, date time.Time) (*types.ReadinessAssessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if athleteID == uuid.Nil {
		return nil, nil
	}

	var result types.ReadinessAssessment
	if err := transaction.WithContext(ctx).
		Where("athlete_id = ? AND date = ?", athleteID, date).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// Upsert writes exactly one row per (athlete_id, date) in a single
// conditional statement against the unique composite index. The conflict
// update set deliberately excludes audio_url: rerunning a check-in must
// never clobber a briefing the other flow already attached.
func (r *readinessAssessmentRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ReadinessAssessment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "athlete_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "risk_level", "summary", "recommendation", "generated_at", "updated_at",
			}),
		}).
		Create(row).Error; err != nil {
		return err
	}
	return nil
}

// SetAudioURL patches only the audio_url column; the scoring fields are
// owned by the check-in flow and stay untouched.
func (r *readinessAssessmentRepo) SetAudioURL(ctx context.Context, tx *gorm.DB, athleteID uuid.UUID, date time.Time, url string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.ReadinessAssessment{}).
		Where("athlete_id = ? AND date = ?", athleteID, date).
		Updates(map[string]interface{}{
			"audio_url":  url,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
