package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity is the per-workout load summary produced by the activity
// ingestion subsystem. SufferScore is the composite strain signal the
// readiness pipeline accumulates over the trailing week.
type Activity struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AthleteID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"athlete_id"`
	Athlete        *Athlete       `gorm:"constraint:OnDelete:CASCADE;foreignKey:AthleteID;references:ID" json:"athlete,omitempty"`
	Name           string         `gorm:"column:name" json:"name"`
	SportType      string         `gorm:"column:sport_type;not null;default:'run'" json:"sport_type"`
	StartedAt      time.Time      `gorm:"column:started_at;not null;index" json:"started_at"`
	MovingSeconds  int            `gorm:"column:moving_seconds;not null;default:0" json:"moving_seconds"`
	DistanceMeters float64        `gorm:"column:distance_meters;not null;default:0" json:"distance_meters"`
	SufferScore    float64        `gorm:"column:suffer_score;not null;default:0" json:"suffer_score"`
	StartLat       *float64       `gorm:"column:start_lat" json:"start_lat,omitempty"`
	StartLon       *float64       `gorm:"column:start_lon" json:"start_lon,omitempty"`
	Raw            datatypes.JSON `gorm:"type:jsonb;column:raw" json:"raw,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Activity) TableName() string {
	return "activity"
}

// HasStartCoords reports whether the activity carries a usable start location.
func (a *Activity) HasStartCoords() bool {
	return a != nil && a.StartLat != nil && a.StartLon != nil
}
