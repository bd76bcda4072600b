package types

import (
	"time"

	"github.com/google/uuid"
)

// DailyMetric is one biometric snapshot per athlete per calendar day,
// written by the device-sync workers. The readiness pipeline only reads it.
type DailyMetric struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AthleteID    uuid.UUID `gorm:"type:uuid;not null;index:idx_metric_athlete_date,unique" json:"athlete_id"`
	Athlete      *Athlete  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AthleteID;references:ID" json:"athlete,omitempty"`
	Date         time.Time `gorm:"type:date;not null;index:idx_metric_athlete_date,unique" json:"date"`
	HRVMs        *float64  `gorm:"column:hrv_ms" json:"hrv_ms,omitempty"`
	RestingHR    *int      `gorm:"column:resting_hr" json:"resting_hr,omitempty"`
	SleepSeconds *int      `gorm:"column:sleep_seconds" json:"sleep_seconds,omitempty"`
	Source       string    `gorm:"column:source;not null;default:'unknown'" json:"source"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (DailyMetric) TableName() string {
	return "daily_metric"
}
