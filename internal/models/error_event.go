package models

import "time"

// ErrorEvent is one observed error-rate sample for a service.
// ErrorRate is always derived from ErrorCount/TotalRequests on write.
type ErrorEvent struct {
	BaseModel

	TenantID        string    `gorm:"not null;index" json:"tenant_id"`
	ServiceName     string    `gorm:"not null;index" json:"service_name"`
	ErrorType       string    `gorm:"not null" json:"error_type"`
	ErrorCode       string    `json:"error_code"`
	ErrorMessage    string    `json:"error_message"`
	ErrorCount      int64     `gorm:"not null;default:1" json:"error_count"`
	TotalRequests   int64     `gorm:"not null;default:1" json:"total_requests"`
	ErrorRate       float64   `json:"error_rate"`
	Severity        string    `gorm:"not null;default:medium" json:"severity"` // "low", "medium", "high", "critical"
	Resolved        bool      `gorm:"default:false" json:"resolved"`
	AffectedUsers   int64     `json:"affected_users"`
	Region          string    `json:"region"`
	Environment     string    `gorm:"default:production" json:"environment"`
	FirstOccurrence time.Time `gorm:"not null;index" json:"first_occurrence"`
	LastOccurrence  time.Time `gorm:"not null" json:"last_occurrence"`
}
