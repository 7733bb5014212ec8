// Package incidents manages the incident lifecycle from detection to
// resolution and derives SLA breach and MTTR figures.
package incidents

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/store"
	"github.com/statuscore-dev/statuscore/internal/types"
)

// SLATargets maps a severity to its response/resolution target. The
// targets are collaborator-configured, not fixed by the core.
type SLATargets map[string]time.Duration

// DefaultSLATargets are the resolution targets used when the platform
// does not configure its own.
var DefaultSLATargets = SLATargets{
	types.SeverityCritical: time.Hour,
	types.SeverityHigh:     4 * time.Hour,
	types.SeverityMedium:   24 * time.Hour,
	types.SeverityLow:      72 * time.Hour,
}

type Tracker struct {
	store   store.IncidentStore
	targets SLATargets
	logger  *zap.Logger
	now     func() time.Time
}

func NewTracker(incidentStore store.IncidentStore, targets SLATargets, logger *zap.Logger) *Tracker {
	return &Tracker{
		store:   incidentStore,
		targets: targets,
		logger:  logger,
		now:     time.Now,
	}
}

// newIncidentID builds a human-readable id like INC-MB3K2F0-8F21A.
func newIncidentID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return strings.ToUpper("INC-" + strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix)
}

func validSeverity(severity string) bool {
	switch severity {
	case types.SeverityLow, types.SeverityMedium, types.SeverityHigh, types.SeverityCritical:
		return true
	}
	return false
}

type CreateInput struct {
	IncidentID       string
	Title            string
	Description      string
	Severity         string
	Category         string
	Priority         string
	AssignedTo       string
	ReportedBy       string
	AffectedServices []string
	AffectedUsers    int64
	EstimatedImpact  float64
}

// Create opens a new incident. Status always starts at open with
// detection stamped now; slaBreached starts false.
func (t *Tracker) Create(ctx context.Context, tenantID string, input CreateInput) (*models.Incident, error) {
	if tenantID == "" {
		return nil, apperr.Validation("tenant_id", "required")
	}
	if input.Title == "" {
		return nil, apperr.Validation("title", "required")
	}
	if !validSeverity(input.Severity) {
		return nil, apperr.Validation("severity", "must be low, medium, high or critical")
	}

	now := t.now()

	incident := &models.Incident{
		TenantID:        tenantID,
		IncidentID:      input.IncidentID,
		Title:           input.Title,
		Description:     input.Description,
		Severity:        input.Severity,
		Status:          types.IncidentOpen,
		Category:        input.Category,
		Priority:        input.Priority,
		AssignedTo:      input.AssignedTo,
		ReportedBy:      input.ReportedBy,
		AffectedUsers:   input.AffectedUsers,
		EstimatedImpact: input.EstimatedImpact,
		DetectedAt:      now,
	}
	if incident.IncidentID == "" {
		incident.IncidentID = newIncidentID(now)
	}
	if incident.Priority == "" {
		incident.Priority = types.SeverityMedium
	}
	if len(input.AffectedServices) > 0 {
		services, err := json.Marshal(input.AffectedServices)
		if err != nil {
			return nil, apperr.Internal("encode affected services", err)
		}
		incident.AffectedServices = datatypes.JSON(services)
	}

	if err := t.store.CreateIncident(ctx, incident); err != nil {
		return nil, err
	}

	t.logger.Info("incident opened",
		zap.String("incident_id", incident.IncidentID),
		zap.String("severity", incident.Severity))

	return incident, nil
}

type UpdateInput struct {
	Status          string
	AssignedTo      string
	RootCause       string
	Resolution      string
	Timeline        json.RawMessage
	AffectedUsers   *int64
	EstimatedImpact *float64
}

// Update applies partial changes and drives the status machine:
// open -> investigating -> resolved. The first transition into
// investigating doubles as the acknowledgement event. Resolved incidents
// are terminal; reopening requires a new incident.
func (t *Tracker) Update(ctx context.Context, tenantID, incidentID string, input UpdateInput) (*models.Incident, error) {
	incident, err := t.store.GetIncident(ctx, tenantID, incidentID)
	if err != nil {
		return nil, err
	}

	now := t.now()

	if input.Status != "" && input.Status != incident.Status {
		switch input.Status {
		case types.IncidentOpen, types.IncidentInvestigating, types.IncidentResolved:
		default:
			return nil, apperr.Validation("status", "unknown status "+input.Status)
		}
		if incident.Status == types.IncidentResolved {
			return nil, apperr.InvalidTransition("incident", incident.Status, input.Status)
		}

		incident.Status = input.Status
		if input.Status == types.IncidentInvestigating && incident.AcknowledgedAt == nil {
			incident.AcknowledgedAt = &now
		}
		if input.Status == types.IncidentResolved {
			incident.ResolvedAt = &now
			if input.Resolution != "" {
				incident.PostMortem = input.Resolution
			}
		}
	}

	if input.AssignedTo != "" {
		incident.AssignedTo = input.AssignedTo
	}
	if input.RootCause != "" {
		incident.RootCause = input.RootCause
	}
	if len(input.Timeline) > 0 {
		incident.Timeline = datatypes.JSON(input.Timeline)
	}
	if input.AffectedUsers != nil {
		incident.AffectedUsers = *input.AffectedUsers
	}
	if input.EstimatedImpact != nil {
		incident.EstimatedImpact = *input.EstimatedImpact
	}

	incident.SLABreached = BreachedSLA(incident, t.targets, now)

	if err := t.store.SaveIncident(ctx, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

// BreachedSLA reports whether the time from detection to now (or to
// resolution, once resolved) exceeds the severity target. Severities
// without a configured target never breach.
func BreachedSLA(incident *models.Incident, targets SLATargets, now time.Time) bool {
	target, ok := targets[incident.Severity]
	if !ok || target <= 0 {
		return incident.SLABreached
	}

	end := now
	if incident.ResolvedAt != nil {
		end = *incident.ResolvedAt
	}
	if end.Sub(incident.DetectedAt) > target {
		return true
	}
	return incident.SLABreached
}

// MTTR is the mean detect-to-resolve duration in minutes over the
// resolved incidents in the slice. Unresolved incidents are ignored; an
// empty resolved set yields 0.
func MTTR(incidents []models.Incident) float64 {
	var total time.Duration
	resolved := 0

	for _, incident := range incidents {
		if incident.ResolvedAt == nil {
			continue
		}
		total += incident.ResolvedAt.Sub(incident.DetectedAt)
		resolved++
	}

	if resolved == 0 {
		return 0
	}
	return total.Minutes() / float64(resolved)
}
