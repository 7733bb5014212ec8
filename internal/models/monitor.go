package models

import (
	"time"

	"gorm.io/datatypes"
)

type Monitor struct {
	BaseModel

	TenantID      string         `gorm:"not null;index" json:"tenant_id"`
	Name          string         `gorm:"not null" json:"name"`
	Type          string         `gorm:"not null" json:"type"` // "http", "dns", "database"
	Target        string         `gorm:"not null" json:"target"`
	CheckInterval int            `gorm:"not null;default:60" json:"check_interval"` // seconds
	Timeout       int            `gorm:"not null;default:30" json:"timeout"`        // seconds
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	SLATarget     float64        `gorm:"default:99.9" json:"sla_target"`
	Config        datatypes.JSON `gorm:"type:jsonb" json:"config"`

	// Rolling counters, serialized per monitor by the registry.
	TotalChecks      int64      `json:"total_checks"`
	SuccessfulChecks int64      `json:"successful_checks"`
	FailedChecks     int64      `json:"failed_checks"`
	UptimePercent    float64    `json:"uptime_percent"`
	Status           string     `gorm:"not null;default:up" json:"status"` // "up", "down", "degraded"
	LastCheckTime    *time.Time `json:"last_check_time"`
	LastDowntime     *time.Time `json:"last_downtime"`

	// Relationships
	Checks []Check `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
