package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/types"
)

func TestClassifyMonitor(t *testing.T) {
	thresholds := DefaultMonitorThresholds

	down := models.Monitor{Status: types.MonitorDown, UptimePercent: 100}
	assert.Equal(t, types.HealthDown, ClassifyMonitor(down, thresholds))

	critical := models.Monitor{Status: types.MonitorUp, UptimePercent: 85}
	assert.Equal(t, types.HealthCritical, ClassifyMonitor(critical, thresholds))

	warning := models.Monitor{Status: types.MonitorUp, UptimePercent: 98.5}
	assert.Equal(t, types.HealthWarning, ClassifyMonitor(warning, thresholds))

	degraded := models.Monitor{Status: types.MonitorDegraded, UptimePercent: 99.95}
	assert.Equal(t, types.HealthWarning, ClassifyMonitor(degraded, thresholds))

	healthy := models.Monitor{Status: types.MonitorUp, UptimePercent: 99.95}
	assert.Equal(t, types.HealthHealthy, ClassifyMonitor(healthy, thresholds))
}

func TestClassifyMonitorCustomThresholds(t *testing.T) {
	strict := MonitorThresholds{DegradedBelow: 99.99, CriticalBelow: 99}

	monitor := models.Monitor{Status: types.MonitorUp, UptimePercent: 99.5}
	assert.Equal(t, types.HealthWarning, ClassifyMonitor(monitor, strict))
	assert.Equal(t, types.HealthHealthy, ClassifyMonitor(monitor, DefaultMonitorThresholds))
}

func TestComponentScore(t *testing.T) {
	status, score := ComponentScore(nil)
	assert.Equal(t, types.HealthHealthy, status)
	assert.Equal(t, 100, score)

	status, score = ComponentScore([]types.ComponentHealth{
		{Status: types.HealthHealthy},
		{Status: types.HealthHealthy},
	})
	assert.Equal(t, types.HealthHealthy, status)
	assert.Equal(t, 100, score)

	// One warning out of two: score 80, single warning stays healthy.
	status, score = ComponentScore([]types.ComponentHealth{
		{Status: types.HealthHealthy},
		{Status: types.HealthWarning},
	})
	assert.Equal(t, types.HealthHealthy, status)
	assert.Equal(t, 80, score)

	// Two warnings tip into warning status.
	status, score = ComponentScore([]types.ComponentHealth{
		{Status: types.HealthHealthy},
		{Status: types.HealthWarning},
		{Status: types.HealthWarning},
	})
	assert.Equal(t, types.HealthWarning, status)
	assert.Equal(t, 73, score)

	// Any critical reading forces critical status regardless of score.
	status, score = ComponentScore([]types.ComponentHealth{
		{Status: types.HealthHealthy},
		{Status: types.HealthHealthy},
		{Status: types.HealthCritical},
	})
	assert.Equal(t, types.HealthCritical, status)
	assert.Equal(t, 67, score)

	// Down readings weigh like critical.
	status, _ = ComponentScore([]types.ComponentHealth{{Status: types.HealthDown}})
	assert.Equal(t, types.HealthCritical, status)
}

func TestMonitorScore(t *testing.T) {
	assert.Equal(t, 100, MonitorScore(nil))
	assert.Equal(t, 100, MonitorScore([]string{types.HealthHealthy}))
	assert.Equal(t, 70, MonitorScore([]string{types.HealthWarning}))
	assert.Equal(t, 30, MonitorScore([]string{types.HealthCritical}))
	assert.Equal(t, 0, MonitorScore([]string{types.HealthDown}))

	// healthy + warning + critical + down = (100+70+30+0)/4 = 50
	mixed := []string{types.HealthHealthy, types.HealthWarning, types.HealthCritical, types.HealthDown}
	assert.Equal(t, 50, MonitorScore(mixed))

	// (100+70+30+30)/4 = 57.5, rounds to 58
	assert.Equal(t, 58, MonitorScore([]string{
		types.HealthHealthy, types.HealthWarning, types.HealthCritical, types.HealthCritical,
	}))
}

func TestPlatformStatus(t *testing.T) {
	assert.Equal(t, StatusOperational, PlatformStatus(100, 0, 0, 0))

	assert.Equal(t, StatusDegraded, PlatformStatus(100, 1, 0, 0))
	assert.Equal(t, StatusDegraded, PlatformStatus(100, 0, 3, 0))

	assert.Equal(t, StatusWarning, PlatformStatus(79, 0, 0, 0))
	assert.Equal(t, StatusWarning, PlatformStatus(100, 0, 0, 1))
	assert.Equal(t, StatusWarning, PlatformStatus(100, 0, 6, 0))
	assert.Equal(t, StatusWarning, PlatformStatus(100, 4, 0, 0))

	assert.Equal(t, StatusCritical, PlatformStatus(55, 0, 0, 0))
	assert.Equal(t, StatusCritical, PlatformStatus(100, 0, 0, 3))
	assert.Equal(t, StatusCritical, PlatformStatus(100, 11, 0, 0))
}

func TestOverallStatus(t *testing.T) {
	assert.Equal(t, StatusOperational, OverallStatus(99.9, 0, 0, 0, 0.1, 0, 0))

	assert.Equal(t, StatusWarning, OverallStatus(98, 0, 0, 0, 0, 0, 0))
	assert.Equal(t, StatusWarning, OverallStatus(99.9, 0, 0, 0, 1.5, 0, 0))
	assert.Equal(t, StatusWarning, OverallStatus(99.9, 0, 0, 0, 0, 4, 0))
	assert.Equal(t, StatusWarning, OverallStatus(99.9, 0, 0, 0, 0, 0, 1))

	assert.Equal(t, StatusCritical, OverallStatus(94, 0, 0, 0, 0, 0, 0))
	assert.Equal(t, StatusCritical, OverallStatus(100, 1, 0, 0, 0, 0, 0))
	assert.Equal(t, StatusCritical, OverallStatus(100, 0, 1, 0, 0, 0, 0))
	assert.Equal(t, StatusCritical, OverallStatus(100, 0, 0, 1, 0, 0, 0))
}
