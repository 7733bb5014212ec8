package incidents

import (
	"context"
	"math"
	"time"

	"gorm.io/datatypes"

	"github.com/statuscore-dev/statuscore/internal/aggregate"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/types"
)

type IncidentSummary struct {
	TotalIncidents         int     `json:"total_incidents"`
	OpenIncidents          int     `json:"open_incidents"`
	InvestigatingIncidents int     `json:"investigating_incidents"`
	ResolvedIncidents      int     `json:"resolved_incidents"`
	CriticalIncidents      int     `json:"critical_incidents"`
	SLABreaches            int     `json:"sla_breaches"`
	MTTR                   float64 `json:"mttr"`
	AvgImpact              float64 `json:"avg_impact"`
}

type IncidentView struct {
	ID               uint           `json:"id"`
	IncidentID       string         `json:"incident_id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Severity         string         `json:"severity"`
	Status           string         `json:"status"`
	Category         string         `json:"category"`
	Priority         string         `json:"priority"`
	AssignedTo       string         `json:"assigned_to"`
	AffectedServices datatypes.JSON `json:"affected_services"`
	AffectedUsers    int64          `json:"affected_users"`
	EstimatedImpact  float64        `json:"estimated_impact"`
	DetectedAt       time.Time      `json:"detected_at"`
	AcknowledgedAt   *time.Time     `json:"acknowledged_at"`
	ResolvedAt       *time.Time     `json:"resolved_at"`
	SLABreached      bool           `json:"sla_breached"`
}

type IncidentOverview struct {
	Overview        IncidentSummary            `json:"overview"`
	Incidents       []IncidentView             `json:"incidents"`
	RecentIncidents []IncidentView             `json:"recent_incidents"`
	IncidentTrends  []aggregate.IncidentBucket `json:"incident_trends"`
}

// Overview summarizes incident activity within the lookback window. SLA
// breach flags for still-open incidents are re-evaluated against the
// configured targets at read time.
func (t *Tracker) Overview(ctx context.Context, tenantID, timeRange string) (*IncidentOverview, error) {
	window := types.ParseTimeRange(timeRange)
	now := t.now()
	since := now.Add(-window)

	incidents, err := t.store.ListIncidents(ctx, tenantID, since)
	if err != nil {
		return nil, err
	}

	recent, err := t.store.ListIncidentsByStatus(ctx, tenantID,
		[]string{types.IncidentOpen, types.IncidentInvestigating}, 10)
	if err != nil {
		return nil, err
	}

	summary := IncidentSummary{TotalIncidents: len(incidents)}
	impactSum := 0.0

	for i := range incidents {
		incident := &incidents[i]
		incident.SLABreached = BreachedSLA(incident, t.targets, now)

		switch incident.Status {
		case types.IncidentOpen:
			summary.OpenIncidents++
		case types.IncidentInvestigating:
			summary.InvestigatingIncidents++
		case types.IncidentResolved:
			summary.ResolvedIncidents++
		}
		if incident.Severity == types.SeverityCritical {
			summary.CriticalIncidents++
		}
		if incident.SLABreached {
			summary.SLABreaches++
		}
		impactSum += incident.EstimatedImpact
	}

	summary.MTTR = math.Round(MTTR(incidents))
	if len(incidents) > 0 {
		summary.AvgImpact = math.Round(impactSum / float64(len(incidents)))
	}

	return &IncidentOverview{
		Overview:        summary,
		Incidents:       incidentViews(incidents),
		RecentIncidents: incidentViews(recent),
		IncidentTrends:  aggregate.BucketIncidents(incidents, window),
	}, nil
}

// CountOpen reports open plus investigating incidents for the tenant.
func (t *Tracker) CountOpen(ctx context.Context, tenantID string) (int, error) {
	open, err := t.store.ListIncidentsByStatus(ctx, tenantID,
		[]string{types.IncidentOpen, types.IncidentInvestigating}, 0)
	if err != nil {
		return 0, err
	}
	return len(open), nil
}

func (t *Tracker) Get(ctx context.Context, tenantID, incidentID string) (*models.Incident, error) {
	return t.store.GetIncident(ctx, tenantID, incidentID)
}

func incidentViews(incidents []models.Incident) []IncidentView {
	views := make([]IncidentView, 0, len(incidents))
	for _, incident := range incidents {
		views = append(views, IncidentView{
			ID:               incident.ID,
			IncidentID:       incident.IncidentID,
			Title:            incident.Title,
			Description:      incident.Description,
			Severity:         incident.Severity,
			Status:           incident.Status,
			Category:         incident.Category,
			Priority:         incident.Priority,
			AssignedTo:       incident.AssignedTo,
			AffectedServices: incident.AffectedServices,
			AffectedUsers:    incident.AffectedUsers,
			EstimatedImpact:  incident.EstimatedImpact,
			DetectedAt:       incident.DetectedAt,
			AcknowledgedAt:   incident.AcknowledgedAt,
			ResolvedAt:       incident.ResolvedAt,
			SLABreached:      incident.SLABreached,
		})
	}
	return views
}
