package models

import (
	"time"

	"gorm.io/datatypes"
)

// Incident is a tracked operational event.
// Lifecycle: open -> investigating -> resolved. Resolved incidents are
// retained for MTTR history and never reopened.
type Incident struct {
	BaseModel

	TenantID         string         `gorm:"not null;index" json:"tenant_id"`
	IncidentID       string         `gorm:"not null;uniqueIndex" json:"incident_id"`
	Title            string         `gorm:"not null" json:"title"`
	Description      string         `json:"description"`
	Severity         string         `gorm:"not null" json:"severity"` // "low", "medium", "high", "critical"
	Status           string         `gorm:"not null;default:open" json:"status"`
	Category         string         `json:"category"`
	Priority         string         `gorm:"default:medium" json:"priority"`
	AssignedTo       string         `json:"assigned_to"`
	ReportedBy       string         `json:"reported_by"`
	AffectedServices datatypes.JSON `gorm:"type:jsonb" json:"affected_services"`
	AffectedUsers    int64          `json:"affected_users"`
	EstimatedImpact  float64        `json:"estimated_impact"`
	DetectedAt       time.Time      `gorm:"not null;index" json:"detected_at"`
	AcknowledgedAt   *time.Time     `json:"acknowledged_at"`
	ResolvedAt       *time.Time     `json:"resolved_at"`
	SLABreached      bool           `gorm:"default:false" json:"sla_breached"`
	RootCause        string         `json:"root_cause"`
	Timeline         datatypes.JSON `gorm:"type:jsonb" json:"timeline"`
	PostMortem       string         `json:"post_mortem"`
}
