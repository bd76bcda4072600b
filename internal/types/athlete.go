package types

import (
	"time"

	"github.com/google/uuid"
)

type Athlete struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DisplayName      string    `gorm:"not null;column:display_name" json:"display_name"`
	MaxHeartRate     *int      `gorm:"column:max_heart_rate" json:"max_heart_rate,omitempty"`
	RestingHeartRate *int      `gorm:"column:resting_heart_rate" json:"resting_heart_rate,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Athlete) TableName() string {
	return "athlete"
}
