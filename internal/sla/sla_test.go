package sla

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/store/memstore"
	"github.com/statuscore-dev/statuscore/internal/types"
)

func TestUptimeZeroChecks(t *testing.T) {
	metric := Uptime(nil)

	assert.Equal(t, 99.9, metric.Target)
	assert.Equal(t, 100.0, metric.Actual)
	assert.True(t, metric.Met)
}

func TestUptime(t *testing.T) {
	checks := make([]models.Check, 0, 1000)
	for i := 0; i < 999; i++ {
		checks = append(checks, models.Check{Status: types.CheckSuccess})
	}
	checks = append(checks, models.Check{Status: types.CheckFailure})

	metric := Uptime(checks)
	assert.Equal(t, 99.9, metric.Actual)
	assert.True(t, metric.Met)

	checks = append(checks, models.Check{Status: types.CheckFailure})
	metric = Uptime(checks)
	assert.Equal(t, 99.8, metric.Actual)
	assert.False(t, metric.Met)
}

func TestResponseTime(t *testing.T) {
	assert.Equal(t, 0.0, ResponseTime(nil).Actual)
	assert.True(t, ResponseTime(nil).Met)

	metric := ResponseTime([]float64{100, 200, 301})
	assert.Equal(t, 200.0, metric.Actual)
	assert.True(t, metric.Met)

	metric = ResponseTime([]float64{400, 700})
	assert.Equal(t, 550.0, metric.Actual)
	assert.False(t, metric.Met)

	// Exactly on target still meets it.
	metric = ResponseTime([]float64{500})
	assert.True(t, metric.Met)
}

func TestErrorRate(t *testing.T) {
	assert.Equal(t, 0.0, ErrorRate(nil).Actual)
	assert.True(t, ErrorRate(nil).Met)

	metric := ErrorRate([]models.ErrorEvent{{ErrorRate: 0.5}, {ErrorRate: 1.5}})
	assert.Equal(t, 1.0, metric.Actual)
	assert.True(t, metric.Met)

	metric = ErrorRate([]models.ErrorEvent{{ErrorRate: 2.0}, {ErrorRate: 1.0}})
	assert.Equal(t, 1.5, metric.Actual)
	assert.False(t, metric.Met)
}

func TestAvailabilityOf(t *testing.T) {
	tests := []struct {
		name       string
		uptime     float64
		errorRate  float64
		percentage float64
		status     string
	}{
		{"perfect", 100, 0, 100, "excellent"},
		{"excellent boundary", 99.5, 0.5, 99.5, "excellent"},
		{"good", 99, 1, 99, "good"},
		{"good boundary", 97, 1, 98, "good"},
		{"fair", 96, 2, 97, "fair"},
		{"poor", 90, 8, 91, "poor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			availability := AvailabilityOf(tt.uptime, tt.errorRate)
			assert.Equal(t, tt.percentage, availability.Percentage)
			assert.Equal(t, tt.status, availability.Status)
		})
	}
}

func TestReport(t *testing.T) {
	mem := memstore.New()
	reporter := NewReporter(mem, mem)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	reporter.now = func() time.Time { return now }

	monitor := &models.Monitor{TenantID: "tenant-a", Name: "api", IsActive: true}
	require.NoError(t, mem.CreateMonitor(context.Background(), monitor))

	rt := 120
	for i := 0; i < 9; i++ {
		require.NoError(t, mem.AppendCheck(context.Background(), &models.Check{
			MonitorID: monitor.ID, Status: types.CheckSuccess, ResponseTime: &rt,
			CheckedAt: now.Add(-time.Hour),
		}))
	}
	require.NoError(t, mem.AppendCheck(context.Background(), &models.Check{
		MonitorID: monitor.ID, Status: types.CheckFailure,
		CheckedAt: now.Add(-time.Hour),
	}))

	require.NoError(t, mem.AppendErrorEvent(context.Background(), &models.ErrorEvent{
		TenantID: "tenant-a", ServiceName: "api", ErrorType: "timeout",
		ErrorRate: 0.4, FirstOccurrence: now.Add(-time.Hour), LastOccurrence: now.Add(-time.Hour),
	}))

	report, err := reporter.Report(context.Background(), "tenant-a", "24h")
	require.NoError(t, err)

	assert.Equal(t, 90.0, report.Uptime.Actual)
	assert.False(t, report.Uptime.Met)
	assert.Equal(t, 120.0, report.ResponseTime.Actual)
	assert.True(t, report.ResponseTime.Met)
	assert.Equal(t, 0.4, report.ErrorRate.Actual)
	assert.True(t, report.ErrorRate.Met)
	// (90 + 99.6) / 2 = 94.8 -> poor
	assert.Equal(t, 94.8, report.Availability.Percentage)
	assert.Equal(t, "poor", report.Availability.Status)
	assert.Equal(t, "24h", report.Period)
}
