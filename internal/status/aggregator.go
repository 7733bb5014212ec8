package status

import (
	"context"
	"sync"
	"time"

	"github.com/statuscore-dev/statuscore/internal/alerting"
	"github.com/statuscore-dev/statuscore/internal/incidents"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/registry"
	"github.com/statuscore-dev/statuscore/internal/types"
)

// The aggregator depends on read-only views of the other components'
// outputs rather than re-invoking their HTTP surface.

type RegistryView interface {
	ListMonitors(ctx context.Context, tenantID string) ([]models.Monitor, error)
	UptimeOverview(ctx context.Context, tenantID, timeRange string) (*registry.UptimeOverview, error)
	ErrorOverview(ctx context.Context, tenantID, timeRange, severity string) (*registry.ErrorOverview, error)
	CountUnresolvedErrors(ctx context.Context, tenantID string, severities ...string) (int, error)
}

type AlertView interface {
	Overview(ctx context.Context, tenantID string) (*alerting.AlertOverview, error)
	CountActive(ctx context.Context, tenantID string) (int, error)
}

type IncidentView interface {
	Overview(ctx context.Context, tenantID, timeRange string) (*incidents.IncidentOverview, error)
	CountOpen(ctx context.Context, tenantID string) (int, error)
}

// ComponentChecker produces one ephemeral health reading for a platform
// component. Probe failures are encoded in the reading itself.
type ComponentChecker interface {
	Check(ctx context.Context) types.ComponentHealth
}

type Aggregator struct {
	registry   RegistryView
	alerts     AlertView
	incidents  IncidentView
	checkers   []ComponentChecker
	thresholds MonitorThresholds
	now        func() time.Time
}

func NewAggregator(registryView RegistryView, alerts AlertView, incidentView IncidentView,
	checkers []ComponentChecker, thresholds MonitorThresholds) *Aggregator {
	return &Aggregator{
		registry:   registryView,
		alerts:     alerts,
		incidents:  incidentView,
		checkers:   checkers,
		thresholds: thresholds,
		now:        time.Now,
	}
}

type OverallHealth struct {
	Status string `json:"status"`
	Score  int    `json:"score"`
}

type HealthSnapshot struct {
	OverallHealth OverallHealth           `json:"overall_health"`
	Checks        []types.ComponentHealth `json:"checks"`
	Timestamp     time.Time               `json:"timestamp"`
}

// HealthSnapshot runs all component probes in parallel and grades the
// combined result.
func (a *Aggregator) HealthSnapshot(ctx context.Context) *HealthSnapshot {
	readings := make([]types.ComponentHealth, len(a.checkers))

	var wg sync.WaitGroup
	for i, checker := range a.checkers {
		wg.Add(1)
		go func(i int, checker ComponentChecker) {
			defer wg.Done()
			readings[i] = checker.Check(ctx)
		}(i, checker)
	}
	wg.Wait()

	healthStatus, score := ComponentScore(readings)

	return &HealthSnapshot{
		OverallHealth: OverallHealth{Status: healthStatus, Score: score},
		Checks:        readings,
		Timestamp:     a.now(),
	}
}

type ComponentCounts struct {
	Monitors struct {
		Total    int `json:"total"`
		Healthy  int `json:"healthy"`
		Warning  int `json:"warning"`
		Critical int `json:"critical"`
		Down     int `json:"down"`
	} `json:"monitors"`
	Errors struct {
		Unresolved int `json:"unresolved"`
	} `json:"errors"`
	Alerts struct {
		Active int `json:"active"`
	} `json:"alerts"`
	Incidents struct {
		Open int `json:"open"`
	} `json:"incidents"`
}

type SystemStatus struct {
	Status       string          `json:"status"`
	SystemHealth int             `json:"system_health"`
	Components   ComponentCounts `json:"components"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// SystemStatus computes the platform status level from the monitor
// fleet, unresolved high/critical errors, open alert triggers and open
// incidents. Reads are snapshots; a slightly stale verdict is
// acceptable.
func (a *Aggregator) SystemStatus(ctx context.Context, tenantID string) (*SystemStatus, error) {
	monitors, err := a.registry.ListMonitors(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	unresolvedErrors, err := a.registry.CountUnresolvedErrors(ctx, tenantID,
		types.SeverityHigh, types.SeverityCritical)
	if err != nil {
		return nil, err
	}

	activeAlerts, err := a.alerts.CountActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	openIncidents, err := a.incidents.CountOpen(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var counts ComponentCounts
	counts.Monitors.Total = len(monitors)
	counts.Errors.Unresolved = unresolvedErrors
	counts.Alerts.Active = activeAlerts
	counts.Incidents.Open = openIncidents

	classes := make([]string, 0, len(monitors))
	for _, monitor := range monitors {
		class := ClassifyMonitor(monitor, a.thresholds)
		classes = append(classes, class)
		switch class {
		case types.HealthHealthy:
			counts.Monitors.Healthy++
		case types.HealthWarning:
			counts.Monitors.Warning++
		case types.HealthCritical:
			counts.Monitors.Critical++
		case types.HealthDown:
			counts.Monitors.Down++
		}
	}

	monitorScore := MonitorScore(classes)

	return &SystemStatus{
		Status:       PlatformStatus(monitorScore, unresolvedErrors, activeAlerts, openIncidents),
		SystemHealth: monitorScore,
		Components:   counts,
		LastUpdated:  a.now(),
	}, nil
}

type PlatformOverview struct {
	Uptime    registry.UptimeSummary    `json:"uptime"`
	Errors    registry.ErrorSummary     `json:"errors"`
	Alerts    alerting.AlertSummary     `json:"alerts"`
	Incidents incidents.IncidentSummary `json:"incidents"`
	Health    OverallHealth             `json:"health"`
	Status    string                    `json:"status"`
	TimeRange string                    `json:"time_range"`
}

// Overview composes the sibling components' summaries and derives the
// business-facing status verdict from them.
func (a *Aggregator) Overview(ctx context.Context, tenantID, timeRange string) (*PlatformOverview, error) {
	uptime, err := a.registry.UptimeOverview(ctx, tenantID, timeRange)
	if err != nil {
		return nil, err
	}

	errs, err := a.registry.ErrorOverview(ctx, tenantID, timeRange, "")
	if err != nil {
		return nil, err
	}

	alerts, err := a.alerts.Overview(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	incidentOverview, err := a.incidents.Overview(ctx, tenantID, timeRange)
	if err != nil {
		return nil, err
	}

	health := a.HealthSnapshot(ctx)

	verdict := OverallStatus(
		uptime.Overview.AvgUptime,
		errs.Overview.CriticalErrors,
		alerts.Overview.CriticalAlerts,
		incidentOverview.Overview.CriticalIncidents,
		errs.Overview.OverallErrorRate,
		alerts.Overview.TriggeredAlerts,
		incidentOverview.Overview.OpenIncidents,
	)

	return &PlatformOverview{
		Uptime:    uptime.Overview,
		Errors:    errs.Overview,
		Alerts:    alerts.Overview,
		Incidents: incidentOverview.Overview,
		Health:    health.OverallHealth,
		Status:    verdict,
		TimeRange: timeRange,
	}, nil
}
