package types

import (
	"os"
	"strings"
	"time"
)

const ContextTenantKey = "tenant"

// Check outcomes.
const (
	CheckSuccess = "success"
	CheckFailure = "failure"
)

// Monitor operational statuses.
const (
	MonitorUp       = "up"
	MonitorDown     = "down"
	MonitorDegraded = "degraded"
)

// Severities shared by error events, alert configurations and incidents.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert trigger statuses.
const (
	AlertTriggered    = "triggered"
	AlertAcknowledged = "acknowledged"
	AlertResolved     = "resolved"
)

// Incident statuses.
const (
	IncidentOpen          = "open"
	IncidentInvestigating = "investigating"
	IncidentResolved      = "resolved"
)

// Threshold comparisons accepted by alert configurations.
const (
	CompareGreaterThan    = "greater_than"
	CompareGreaterOrEqual = "greater_or_equal"
	CompareLessThan       = "less_than"
	CompareLessOrEqual    = "less_or_equal"
	CompareEqual          = "equal"
)

// ParseTimeRange maps the symbolic ranges accepted by the read APIs to a
// lookback duration. Unrecognized values fall back to 24h.
func ParseTimeRange(timeRange string) time.Duration {
	switch timeRange {
	case "1h":
		return time.Hour
	case "24h":
		return 24 * time.Hour
	case "7d":
		return 7 * 24 * time.Hour
	case "30d":
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
