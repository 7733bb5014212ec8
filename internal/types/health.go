package types

import "time"

// Component health statuses reported by health-check probes.
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
	HealthDown     = "down"
)

// ComponentHealth is one ephemeral health reading for a platform
// component (database, application, storage, network, external
// services). It is consumed immediately by the status aggregator and
// never persisted.
type ComponentHealth struct {
	Component    string    `json:"component"`
	Status       string    `json:"status"`
	ResponseTime *float64  `json:"response_time"` // milliseconds, nil when the component was unreachable
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}
