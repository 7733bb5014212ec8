// Package status combines monitor health, unresolved errors, active
// alerts and open incidents into ordinal system-status verdicts. The
// threshold constants in this file are contract values shared with the
// platform dashboard; they are not tunable defaults.
package status

import (
	"math"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/types"
)

// Platform status levels, from best to worst.
const (
	StatusOperational = "operational"
	StatusDegraded    = "degraded"
	StatusWarning     = "warning"
	StatusCritical    = "critical"
)

// MonitorThresholds classifies a monitor's uptime into a health class.
// The values come from the surrounding platform's configuration; the
// aggregator only passes them through.
type MonitorThresholds struct {
	DegradedBelow float64 // uptime % below which a monitor is warning
	CriticalBelow float64 // uptime % below which a monitor is critical
}

// DefaultMonitorThresholds matches the platform dashboard defaults.
var DefaultMonitorThresholds = MonitorThresholds{DegradedBelow: 99, CriticalBelow: 90}

// ClassifyMonitor maps one monitor to {healthy, warning, critical, down}.
func ClassifyMonitor(monitor models.Monitor, thresholds MonitorThresholds) string {
	switch {
	case monitor.Status == types.MonitorDown:
		return types.HealthDown
	case monitor.UptimePercent < thresholds.CriticalBelow:
		return types.HealthCritical
	case monitor.UptimePercent < thresholds.DegradedBelow || monitor.Status == types.MonitorDegraded:
		return types.HealthWarning
	default:
		return types.HealthHealthy
	}
}

// ComponentScore grades a set of component health readings. Weights:
// healthy 100, warning 60, critical 0.
func ComponentScore(readings []types.ComponentHealth) (string, int) {
	if len(readings) == 0 {
		return types.HealthHealthy, 100
	}

	healthy, warning, critical := 0, 0, 0
	for _, reading := range readings {
		switch reading.Status {
		case types.HealthHealthy:
			healthy++
		case types.HealthWarning:
			warning++
		case types.HealthCritical, types.HealthDown:
			critical++
		}
	}

	weight := float64(healthy*100 + warning*60)
	score := int(math.Round(weight / float64(len(readings)*100) * 100))

	status := types.HealthHealthy
	switch {
	case score < 60 || critical > 0:
		status = types.HealthCritical
	case score < 80 || warning > 1:
		status = types.HealthWarning
	}

	return status, score
}

// MonitorScore grades monitor health classes. Weights: healthy 100,
// warning 70, critical 30, down 0. No monitors means a perfect score.
func MonitorScore(classes []string) int {
	if len(classes) == 0 {
		return 100
	}

	weight := 0
	for _, class := range classes {
		switch class {
		case types.HealthHealthy:
			weight += 100
		case types.HealthWarning:
			weight += 70
		case types.HealthCritical:
			weight += 30
		}
	}

	return int(math.Round(float64(weight) / float64(len(classes))))
}

// PlatformStatus derives the platform-wide operational posture from the
// monitor score and the open problem counts.
func PlatformStatus(monitorScore, unresolvedErrors, activeAlerts, openIncidents int) string {
	switch {
	case monitorScore < 60 || openIncidents > 2 || unresolvedErrors > 10:
		return StatusCritical
	case monitorScore < 80 || openIncidents > 0 || activeAlerts > 5 || unresolvedErrors > 3:
		return StatusWarning
	case activeAlerts > 2 || unresolvedErrors > 0:
		return StatusDegraded
	default:
		return StatusOperational
	}
}

// OverallStatus derives the business-facing verdict from the combined
// overview figures.
func OverallStatus(avgUptime float64, criticalErrors, criticalAlerts, criticalIncidents int,
	overallErrorRate float64, triggeredAlerts, openIncidents int) string {

	if avgUptime < 95 || criticalErrors > 0 || criticalAlerts > 0 || criticalIncidents > 0 {
		return StatusCritical
	}
	if avgUptime < 99 || overallErrorRate > 1 || triggeredAlerts > 3 || openIncidents > 0 {
		return StatusWarning
	}
	return StatusOperational
}
