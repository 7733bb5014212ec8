// Package store defines the persistence boundary of the monitoring
// core. Components receive these interfaces by injection; there is no
// ambient global client.
package store

import (
	"context"
	"time"

	"github.com/statuscore-dev/statuscore/internal/models"
)

// CheckFilter narrows a check listing. A zero MonitorID matches all
// monitors of the tenant.
type CheckFilter struct {
	TenantID  string
	MonitorID uint
	Since     time.Time
	Status    string
	Limit     int
}

// ErrorFilter narrows an error-event listing.
type ErrorFilter struct {
	TenantID string
	Since    time.Time
	Severity string
	Resolved *bool
}

type MonitorStore interface {
	CreateMonitor(ctx context.Context, monitor *models.Monitor) error
	GetMonitor(ctx context.Context, tenantID string, id uint) (*models.Monitor, error)
	SaveMonitor(ctx context.Context, monitor *models.Monitor) error
	ListMonitors(ctx context.Context, tenantID string) ([]models.Monitor, error)
}

type CheckStore interface {
	AppendCheck(ctx context.Context, check *models.Check) error
	ListChecks(ctx context.Context, filter CheckFilter) ([]models.Check, error)
}

type ErrorStore interface {
	AppendErrorEvent(ctx context.Context, event *models.ErrorEvent) error
	ListErrorEvents(ctx context.Context, filter ErrorFilter) ([]models.ErrorEvent, error)
}

type AlertStore interface {
	CreateConfiguration(ctx context.Context, config *models.AlertConfiguration) error
	GetConfiguration(ctx context.Context, tenantID string, id uint) (*models.AlertConfiguration, error)
	SaveConfiguration(ctx context.Context, config *models.AlertConfiguration) error
	ListConfigurations(ctx context.Context, tenantID string) ([]models.AlertConfiguration, error)

	CreateTrigger(ctx context.Context, trigger *models.AlertTrigger) error
	GetTrigger(ctx context.Context, tenantID string, id uint) (*models.AlertTrigger, error)
	SaveTrigger(ctx context.Context, trigger *models.AlertTrigger) error
	// ListTriggers returns triggers for the tenant, most recent first,
	// with AlertConfiguration populated. An empty status list matches
	// every status; a zero limit means no limit.
	ListTriggers(ctx context.Context, tenantID string, statuses []string, limit int) ([]models.AlertTrigger, error)
	CountTriggers(ctx context.Context, tenantID, status string) (int64, error)
}

type IncidentStore interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, tenantID, incidentID string) (*models.Incident, error)
	SaveIncident(ctx context.Context, incident *models.Incident) error
	ListIncidents(ctx context.Context, tenantID string, since time.Time) ([]models.Incident, error)
	ListIncidentsByStatus(ctx context.Context, tenantID string, statuses []string, limit int) ([]models.Incident, error)
}
