package models

import "time"

// AlertConfiguration is a standing threshold rule created by an operator.
type AlertConfiguration struct {
	BaseModel

	TenantID         string     `gorm:"not null;index" json:"tenant_id"`
	AlertName        string     `gorm:"not null" json:"alert_name"`
	AlertType        string     `json:"alert_type"`
	MetricName       string     `gorm:"not null" json:"metric_name"`
	Comparison       string     `gorm:"not null;default:greater_than" json:"comparison"`
	Threshold        float64    `gorm:"not null" json:"threshold"`
	EvaluationWindow int        `gorm:"not null;default:300" json:"evaluation_window"` // seconds
	Datapoints       int        `gorm:"not null;default:2" json:"datapoints"`          // consecutive breaches required
	Severity         string     `gorm:"not null;default:medium" json:"severity"`
	Description      string     `json:"description"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	TriggerCount     int64      `json:"trigger_count"`
	LastTriggered    *time.Time `json:"last_triggered"`

	// Relationships
	Triggers []AlertTrigger `gorm:"foreignKey:AlertConfigurationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

// AlertTrigger is one firing of a configuration.
// Lifecycle: triggered -> acknowledged -> resolved, with resolve
// permitted straight from triggered.
type AlertTrigger struct {
	BaseModel

	AlertConfigurationID uint       `gorm:"not null;index" json:"alert_configuration_id"`
	TriggerValue         float64    `gorm:"not null" json:"trigger_value"`
	Status               string     `gorm:"not null;default:triggered" json:"status"`
	TriggerTime          time.Time  `gorm:"not null" json:"trigger_time"`
	EscalationLevel      int        `json:"escalation_level"`
	AcknowledgedBy       string     `json:"acknowledged_by"`
	AcknowledgedAt       *time.Time `json:"acknowledged_at"`
	ResolvedBy           string     `json:"resolved_by"`
	ResolvedAt           *time.Time `json:"resolved_at"`
	Resolution           string     `json:"resolution"`

	// Relationships
	AlertConfiguration AlertConfiguration `gorm:"foreignKey:AlertConfigurationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
