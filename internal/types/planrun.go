package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PlanRun records one plan generation and its calendar-integration
// outcome. The raw (corrected) plan envelope and the structured tasks
// are kept as JSON columns.
type PlanRun struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Skill              string         `gorm:"column:skill;not null" json:"skill"`
	DurationDays       int            `gorm:"column:duration_days;not null" json:"duration_days"`
	StartDate          string         `gorm:"column:start_date;not null" json:"start_date"`
	PreferredTime      string         `gorm:"column:preferred_time" json:"preferred_time"`
	DailyHours         float64        `gorm:"column:daily_hours" json:"daily_hours"`
	Plan               datatypes.JSON `gorm:"column:plan" json:"plan"`
	Tasks              datatypes.JSON `gorm:"column:tasks" json:"tasks"`
	Integrated         bool           `gorm:"column:integrated;not null;default:false" json:"integrated"`
	IntegrationMessage string         `gorm:"column:integration_message" json:"integration_message,omitempty"`
	EventLinks         datatypes.JSON `gorm:"column:event_links" json:"event_links,omitempty"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

func (PlanRun) TableName() string { return "plan_run" }
