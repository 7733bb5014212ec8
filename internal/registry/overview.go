package registry

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/statuscore-dev/statuscore/internal/aggregate"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/store"
	"github.com/statuscore-dev/statuscore/internal/types"
)

type MonitorUptime struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	Target           string     `json:"target"`
	Status           string     `json:"status"`
	CurrentUptime    float64    `json:"current_uptime"`
	TargetUptime     float64    `json:"target_uptime"`
	AvgResponseTime  float64    `json:"avg_response_time"`
	TotalChecks      int        `json:"total_checks"`
	SuccessfulChecks int        `json:"successful_checks"`
	FailedChecks     int        `json:"failed_checks"`
	RecentDowntime   int        `json:"recent_downtime"`
	LastCheckTime    *time.Time `json:"last_check_time"`
	IsActive         bool       `json:"is_active"`
}

type UptimeSummary struct {
	TotalMonitors       int     `json:"total_monitors"`
	ActiveMonitors      int     `json:"active_monitors"`
	UpMonitors          int     `json:"up_monitors"`
	DownMonitors        int     `json:"down_monitors"`
	DegradedMonitors    int     `json:"degraded_monitors"`
	AvgUptime           float64 `json:"avg_uptime"`
	TotalDowntimeEvents int     `json:"total_downtime_events"`
}

type DowntimeEvent struct {
	MonitorName  string    `json:"monitor_name"`
	CheckedAt    time.Time `json:"checked_at"`
	ErrorMessage string    `json:"error_message"`
	ResponseTime *int      `json:"response_time"`
	Region       string    `json:"region"`
}

type UptimeOverview struct {
	Overview       UptimeSummary            `json:"overview"`
	Monitors       []MonitorUptime          `json:"monitors"`
	RecentDowntime []DowntimeEvent          `json:"recent_downtime"`
	TimeSeries     []aggregate.UptimeBucket `json:"time_series"`
}

// UptimeOverview computes the per-monitor and fleet-wide uptime view over
// the requested lookback window. Uptime within the window is derived from
// the checks in the window, not from the lifetime counters.
func (s *Service) UptimeOverview(ctx context.Context, tenantID, timeRange string) (*UptimeOverview, error) {
	window := types.ParseTimeRange(timeRange)
	since := s.now().Add(-window)

	monitors, err := s.monitors.ListMonitors(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	checks, err := s.checks.ListChecks(ctx, store.CheckFilter{TenantID: tenantID, Since: since})
	if err != nil {
		return nil, err
	}

	checksByMonitor := make(map[uint][]models.Check)
	for _, check := range checks {
		checksByMonitor[check.MonitorID] = append(checksByMonitor[check.MonitorID], check)
	}

	nameByMonitor := make(map[uint]string, len(monitors))

	stats := make([]MonitorUptime, 0, len(monitors))
	summary := UptimeSummary{TotalMonitors: len(monitors)}
	uptimeSum := 0.0

	var downtime []DowntimeEvent

	for _, monitor := range monitors {
		nameByMonitor[monitor.ID] = monitor.Name

		if monitor.IsActive {
			summary.ActiveMonitors++
		}
		switch monitor.Status {
		case types.MonitorUp:
			summary.UpMonitors++
		case types.MonitorDown:
			summary.DownMonitors++
		case types.MonitorDegraded:
			summary.DegradedMonitors++
		}

		monitorChecks := checksByMonitor[monitor.ID]
		total := len(monitorChecks)
		successful := 0
		responseTimeSum := 0.0
		failures := 0

		for _, check := range monitorChecks {
			if check.Status == types.CheckSuccess {
				successful++
			} else {
				failures++
				downtime = append(downtime, DowntimeEvent{
					MonitorName:  monitor.Name,
					CheckedAt:    check.CheckedAt,
					ErrorMessage: check.ErrorMessage,
					ResponseTime: check.ResponseTime,
					Region:       check.Region,
				})
			}
			if check.ResponseTime != nil {
				responseTimeSum += float64(*check.ResponseTime)
			}
		}

		currentUptime := 100.0
		avgResponseTime := 0.0
		if total > 0 {
			currentUptime = roundTo(float64(successful)/float64(total)*100, 2)
			avgResponseTime = math.Round(responseTimeSum / float64(total))
		}
		uptimeSum += currentUptime
		summary.TotalDowntimeEvents += failures

		stats = append(stats, MonitorUptime{
			ID:               monitor.ID,
			Name:             monitor.Name,
			Type:             monitor.Type,
			Target:           monitor.Target,
			Status:           monitor.Status,
			CurrentUptime:    currentUptime,
			TargetUptime:     monitor.SLATarget,
			AvgResponseTime:  avgResponseTime,
			TotalChecks:      total,
			SuccessfulChecks: successful,
			FailedChecks:     total - successful,
			RecentDowntime:   failures,
			LastCheckTime:    monitor.LastCheckTime,
			IsActive:         monitor.IsActive,
		})
	}

	if len(stats) > 0 {
		summary.AvgUptime = math.Round(uptimeSum / float64(len(stats)))
	} else {
		summary.AvgUptime = 100
	}

	sort.Slice(downtime, func(i, j int) bool { return downtime[i].CheckedAt.After(downtime[j].CheckedAt) })
	if len(downtime) > 20 {
		downtime = downtime[:20]
	}

	return &UptimeOverview{
		Overview:       summary,
		Monitors:       stats,
		RecentDowntime: downtime,
		TimeSeries:     aggregate.BucketChecks(checks, window),
	}, nil
}

type ServiceErrors struct {
	Service       string  `json:"service"`
	ErrorType     string  `json:"error_type"`
	TotalErrors   int64   `json:"total_errors"`
	TotalRequests int64   `json:"total_requests"`
	ErrorRate     float64 `json:"error_rate"`
	Occurrences   int     `json:"occurrences"`
}

type CriticalError struct {
	ID              uint      `json:"id"`
	Service         string    `json:"service"`
	Type            string    `json:"type"`
	Message         string    `json:"message"`
	ErrorCount      int64     `json:"error_count"`
	AffectedUsers   int64     `json:"affected_users"`
	FirstOccurrence time.Time `json:"first_occurrence"`
	LastOccurrence  time.Time `json:"last_occurrence"`
}

type ErrorSummary struct {
	TotalErrors       int64   `json:"total_errors"`
	TotalRequests     int64   `json:"total_requests"`
	OverallErrorRate  float64 `json:"overall_error_rate"`
	UniqueErrors      int     `json:"unique_errors"`
	CriticalErrors    int     `json:"critical_errors"`
	ResolvedErrors    int     `json:"resolved_errors"`
	MostAffectedUsers int64   `json:"most_affected_users"`
}

type ErrorOverview struct {
	Overview        ErrorSummary            `json:"overview"`
	ErrorsByService []ServiceErrors         `json:"errors_by_service"`
	CriticalErrors  []CriticalError         `json:"critical_errors"`
	TimeSeries      []aggregate.ErrorBucket `json:"time_series"`
}

// ErrorOverview aggregates error-rate samples over the window, optionally
// filtered by severity. All rates are re-derived from summed counts.
func (s *Service) ErrorOverview(ctx context.Context, tenantID, timeRange, severity string) (*ErrorOverview, error) {
	window := types.ParseTimeRange(timeRange)
	since := s.now().Add(-window)

	events, err := s.errors.ListErrorEvents(ctx, store.ErrorFilter{
		TenantID: tenantID,
		Since:    since,
		Severity: severity,
	})
	if err != nil {
		return nil, err
	}

	summary := ErrorSummary{UniqueErrors: len(events)}

	type serviceKey struct {
		service   string
		errorType string
	}
	byService := make(map[serviceKey]*ServiceErrors)

	var critical []CriticalError

	for _, event := range events {
		summary.TotalErrors += event.ErrorCount
		summary.TotalRequests += event.TotalRequests
		if event.Resolved {
			summary.ResolvedErrors++
		}
		if event.AffectedUsers > summary.MostAffectedUsers {
			summary.MostAffectedUsers = event.AffectedUsers
		}
		if event.Severity == types.SeverityCritical && !event.Resolved {
			critical = append(critical, CriticalError{
				ID:              event.ID,
				Service:         event.ServiceName,
				Type:            event.ErrorType,
				Message:         event.ErrorMessage,
				ErrorCount:      event.ErrorCount,
				AffectedUsers:   event.AffectedUsers,
				FirstOccurrence: event.FirstOccurrence,
				LastOccurrence:  event.LastOccurrence,
			})
		}

		key := serviceKey{service: event.ServiceName, errorType: event.ErrorType}
		group, ok := byService[key]
		if !ok {
			group = &ServiceErrors{Service: event.ServiceName, ErrorType: event.ErrorType}
			byService[key] = group
		}
		group.TotalErrors += event.ErrorCount
		group.TotalRequests += event.TotalRequests
		group.Occurrences++
	}

	if summary.TotalRequests > 0 {
		summary.OverallErrorRate = roundTo(float64(summary.TotalErrors)/float64(summary.TotalRequests)*100, 3)
	}
	summary.CriticalErrors = len(critical)

	services := make([]ServiceErrors, 0, len(byService))
	for _, group := range byService {
		if group.TotalRequests > 0 {
			group.ErrorRate = roundTo(float64(group.TotalErrors)/float64(group.TotalRequests)*100, 3)
		}
		services = append(services, *group)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ErrorRate > services[j].ErrorRate })

	sort.Slice(critical, func(i, j int) bool { return critical[i].LastOccurrence.After(critical[j].LastOccurrence) })
	if len(critical) > 10 {
		critical = critical[:10]
	}

	return &ErrorOverview{
		Overview:        summary,
		ErrorsByService: services,
		CriticalErrors:  critical,
		TimeSeries:      aggregate.BucketErrorEvents(events, window),
	}, nil
}

// CountUnresolvedErrors reports how many unresolved error events of the
// given severities exist for the tenant. Used by the status aggregator.
func (s *Service) CountUnresolvedErrors(ctx context.Context, tenantID string, severities ...string) (int, error) {
	resolved := false
	events, err := s.errors.ListErrorEvents(ctx, store.ErrorFilter{TenantID: tenantID, Resolved: &resolved})
	if err != nil {
		return 0, err
	}

	if len(severities) == 0 {
		return len(events), nil
	}

	wanted := make(map[string]bool, len(severities))
	for _, severity := range severities {
		wanted[severity] = true
	}

	count := 0
	for _, event := range events {
		if wanted[event.Severity] {
			count++
		}
	}
	return count, nil
}
