package models

import (
	"time"
)

// Check is a single probe result. Immutable once written.
type Check struct {
	BaseModel

	MonitorID    uint      `gorm:"not null;index" json:"monitor_id"`
	Status       string    `gorm:"not null" json:"status"` // "success", "failure"
	ResponseTime *int      `json:"response_time"`          // milliseconds, nil when the probe never connected
	StatusCode   *int      `json:"status_code"`
	ErrorMessage string    `json:"error_message"`
	Region       string    `json:"region"`
	CheckedAt    time.Time `gorm:"not null;index" json:"checked_at"`

	// Relationships
	Monitor Monitor `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
