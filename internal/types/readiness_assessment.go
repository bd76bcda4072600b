package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RiskLevelLow      = "low"
	RiskLevelModerate = "moderate"
	RiskLevelHigh     = "high"
	RiskLevelCritical = "critical"
)

// ReadinessAssessment is the one durable output of the readiness pipeline:
// exactly one row per (athlete, date). Score/risk/summary/recommendation are
// owned by the daily check-in; AudioURL is owned by the briefing flow.
type ReadinessAssessment struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AthleteID      uuid.UUID `gorm:"type:uuid;not null;index:idx_assessment_athlete_date,unique" json:"athlete_id"`
	Athlete        *Athlete  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AthleteID;references:ID" json:"athlete,omitempty"`
	Date           time.Time `gorm:"type:date;not null;index:idx_assessment_athlete_date,unique" json:"date"`
	Score          int       `gorm:"column:score;not null;default:50" json:"score"`
	RiskLevel      string    `gorm:"column:risk_level;not null;default:'moderate'" json:"risk_level"`
	Summary        string    `gorm:"column:summary;type:text" json:"summary"`
	Recommendation string    `gorm:"column:recommendation;type:text" json:"recommendation"`
	GeneratedAt    time.Time `gorm:"column:generated_at;not null" json:"generated_at"`
	AudioURL       *string   `gorm:"column:audio_url" json:"audio_url,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ReadinessAssessment) TableName() string {
	return "readiness_assessment"
}

// ValidRiskLevel reports whether s is one of the four recognized buckets.
func ValidRiskLevel(s string) bool {
	switch s {
	case RiskLevelLow, RiskLevelModerate, RiskLevelHigh, RiskLevelCritical:
		return true
	default:
		return false
	}
}
