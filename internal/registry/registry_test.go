package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/store/memstore"
	"github.com/statuscore-dev/statuscore/internal/types"
)

const testTenant = "tenant-a"

func setupRegistryTest(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	mem := memstore.New()
	return NewService(mem, mem, mem, zap.NewNop()), mem
}

func intPtr(v int) *int { return &v }

func TestCreateMonitorDefaults(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	monitor, err := svc.CreateMonitor(context.Background(), testTenant, MonitorInput{
		Name:   "checkout-api",
		Type:   "http",
		Target: "https://checkout.example.com/health",
	})
	require.NoError(t, err)

	assert.Equal(t, 60, monitor.CheckInterval)
	assert.Equal(t, 30, monitor.Timeout)
	assert.Equal(t, 99.9, monitor.SLATarget)
	assert.True(t, monitor.IsActive)
	assert.Equal(t, types.MonitorUp, monitor.Status)
	assert.Equal(t, 100.0, monitor.UptimePercent)
	assert.NotZero(t, monitor.ID)
}

func TestCreateMonitorValidation(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	_, err := svc.CreateMonitor(context.Background(), testTenant, MonitorInput{Type: "http", Target: "x"})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.CreateMonitor(context.Background(), testTenant, MonitorInput{Name: "a", Type: "http"})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.CreateMonitor(context.Background(), "", MonitorInput{Name: "a", Type: "http", Target: "x"})
	assert.True(t, apperr.IsValidation(err))
}

func TestRecordCheckUpdatesCounters(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	monitor, err := svc.CreateMonitor(context.Background(), testTenant, MonitorInput{
		Name: "api", Type: "http", Target: "https://api.example.com",
	})
	require.NoError(t, err)

	for i := 0; i < 97; i++ {
		_, err := svc.RecordCheck(context.Background(), testTenant, CheckInput{
			MonitorID: monitor.ID, Status: types.CheckSuccess, ResponseTime: intPtr(120),
		})
		require.NoError(t, err)
	}
	var updated = monitor
	for i := 0; i < 3; i++ {
		updated, err = svc.RecordCheck(context.Background(), testTenant, CheckInput{
			MonitorID: monitor.ID, Status: types.CheckFailure, ErrorMessage: "connection refused",
		})
		require.NoError(t, err)
	}

	assert.Equal(t, int64(100), updated.TotalChecks)
	assert.Equal(t, int64(97), updated.SuccessfulChecks)
	assert.Equal(t, int64(3), updated.FailedChecks)
	assert.Equal(t, 97.0, updated.UptimePercent)
	assert.Equal(t, types.MonitorDown, updated.Status)
	assert.NotNil(t, updated.LastCheckTime)
	assert.NotNil(t, updated.LastDowntime)
}

func TestRecordCheckStatusDerivation(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	monitor, err := svc.CreateMonitor(context.Background(), testTenant, MonitorInput{
		Name: "api", Type: "http", Target: "https://api.example.com", SLATarget: 99.0,
	})
	require.NoError(t, err)

	// One failure puts the monitor down and drags uptime under target.
	updated, err := svc.RecordCheck(context.Background(), testTenant, CheckInput{
		MonitorID: monitor.ID, Status: types.CheckFailure,
	})
	require.NoError(t, err)
	assert.Equal(t, types.MonitorDown, updated.Status)

	// A success recovers it, but uptime (50%) is still below the SLA
	// target, so it is degraded rather than up.
	updated, err = svc.RecordCheck(context.Background(), testTenant, CheckInput{
		MonitorID: monitor.ID, Status: types.CheckSuccess,
	})
	require.NoError(t, err)
	assert.Equal(t, types.MonitorDegraded, updated.Status)
}

func TestRecordCheckUnknownMonitor(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	_, err := svc.RecordCheck(context.Background(), testTenant, CheckInput{
		MonitorID: 42, Status: types.CheckSuccess,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecordCheckWrongTenant(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	monitor, err := svc.CreateMonitor(context.Background(), testTenant, MonitorInput{
		Name: "api", Type: "http", Target: "https://api.example.com",
	})
	require.NoError(t, err)

	_, err = svc.RecordCheck(context.Background(), "tenant-b", CheckInput{
		MonitorID: monitor.ID, Status: types.CheckSuccess,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecordCheckValidation(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	_, err := svc.RecordCheck(context.Background(), testTenant, CheckInput{Status: types.CheckSuccess})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.RecordCheck(context.Background(), testTenant, CheckInput{MonitorID: 1, Status: "flaky"})
	assert.True(t, apperr.IsValidation(err))
}

func TestRecordCheckConcurrent(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	monitor, err := svc.CreateMonitor(context.Background(), testTenant, MonitorInput{
		Name: "api", Type: "http", Target: "https://api.example.com",
	})
	require.NoError(t, err)

	const workers = 20
	const perWorker = 10

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				status := types.CheckSuccess
				if w%2 == 0 {
					status = types.CheckFailure
				}
				_, err := svc.RecordCheck(context.Background(), testTenant, CheckInput{
					MonitorID: monitor.ID, Status: status,
				})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	final, err := svc.GetMonitor(context.Background(), testTenant, monitor.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(workers*perWorker), final.TotalChecks)
	assert.Equal(t, final.TotalChecks, final.SuccessfulChecks+final.FailedChecks)
	expected := float64(final.SuccessfulChecks) / float64(final.TotalChecks) * 100
	assert.InDelta(t, expected, final.UptimePercent, 1e-9)
}

func TestRecordErrorEventDerivesRate(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	event, err := svc.RecordErrorEvent(context.Background(), testTenant, ErrorEventInput{
		ServiceName:   "payments",
		ErrorType:     "timeout",
		ErrorCount:    7,
		TotalRequests: 3000,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.233, event.ErrorRate)
	assert.Equal(t, types.SeverityMedium, event.Severity)
	assert.Equal(t, "production", event.Environment)
	assert.False(t, event.FirstOccurrence.IsZero())
}

func TestRecordErrorEventDefaults(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	event, err := svc.RecordErrorEvent(context.Background(), testTenant, ErrorEventInput{
		ServiceName: "payments",
		ErrorType:   "timeout",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), event.ErrorCount)
	assert.Equal(t, int64(1), event.TotalRequests)
	assert.Equal(t, 100.0, event.ErrorRate)
}

func TestRecordErrorEventValidation(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	_, err := svc.RecordErrorEvent(context.Background(), testTenant, ErrorEventInput{ErrorType: "timeout"})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.RecordErrorEvent(context.Background(), testTenant, ErrorEventInput{ServiceName: "payments"})
	assert.True(t, apperr.IsValidation(err))
}

func TestUptimeOverview(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	monitor, err := svc.CreateMonitor(context.Background(), testTenant, MonitorInput{
		Name: "api", Type: "http", Target: "https://api.example.com",
	})
	require.NoError(t, err)

	for i := 0; i < 9; i++ {
		_, err := svc.RecordCheck(context.Background(), testTenant, CheckInput{
			MonitorID: monitor.ID, Status: types.CheckSuccess, ResponseTime: intPtr(100),
		})
		require.NoError(t, err)
	}
	_, err = svc.RecordCheck(context.Background(), testTenant, CheckInput{
		MonitorID: monitor.ID, Status: types.CheckFailure, ErrorMessage: "503",
	})
	require.NoError(t, err)

	overview, err := svc.UptimeOverview(context.Background(), testTenant, "24h")
	require.NoError(t, err)

	assert.Equal(t, 1, overview.Overview.TotalMonitors)
	assert.Equal(t, 90.0, overview.Overview.AvgUptime)
	require.Len(t, overview.Monitors, 1)
	assert.Equal(t, 90.0, overview.Monitors[0].CurrentUptime)
	assert.Equal(t, 10, overview.Monitors[0].TotalChecks)
	require.Len(t, overview.RecentDowntime, 1)
	assert.Equal(t, "503", overview.RecentDowntime[0].ErrorMessage)
	assert.NotEmpty(t, overview.TimeSeries)
}

func TestUptimeOverviewNoMonitors(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	overview, err := svc.UptimeOverview(context.Background(), testTenant, "24h")
	require.NoError(t, err)

	assert.Equal(t, 0, overview.Overview.TotalMonitors)
	assert.Equal(t, 100.0, overview.Overview.AvgUptime)
}

func TestErrorOverview(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	_, err := svc.RecordErrorEvent(context.Background(), testTenant, ErrorEventInput{
		ServiceName: "payments", ErrorType: "timeout", ErrorCount: 5, TotalRequests: 500,
	})
	require.NoError(t, err)

	_, err = svc.RecordErrorEvent(context.Background(), testTenant, ErrorEventInput{
		ServiceName: "payments", ErrorType: "timeout", ErrorCount: 5, TotalRequests: 500,
		Severity: types.SeverityCritical,
	})
	require.NoError(t, err)

	overview, err := svc.ErrorOverview(context.Background(), testTenant, "24h", "")
	require.NoError(t, err)

	assert.Equal(t, int64(10), overview.Overview.TotalErrors)
	assert.Equal(t, int64(1000), overview.Overview.TotalRequests)
	assert.Equal(t, 1.0, overview.Overview.OverallErrorRate)
	assert.Equal(t, 1, overview.Overview.CriticalErrors)
	require.Len(t, overview.ErrorsByService, 1)
	assert.Equal(t, int64(10), overview.ErrorsByService[0].TotalErrors)
	require.Len(t, overview.CriticalErrors, 1)
}

func TestCountUnresolvedErrors(t *testing.T) {
	svc, _ := setupRegistryTest(t)

	_, err := svc.RecordErrorEvent(context.Background(), testTenant, ErrorEventInput{
		ServiceName: "payments", ErrorType: "timeout", Severity: types.SeverityCritical,
	})
	require.NoError(t, err)

	_, err = svc.RecordErrorEvent(context.Background(), testTenant, ErrorEventInput{
		ServiceName: "payments", ErrorType: "timeout", Severity: types.SeverityLow,
	})
	require.NoError(t, err)

	count, err := svc.CountUnresolvedErrors(context.Background(), testTenant, types.SeverityCritical)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.CountUnresolvedErrors(context.Background(), testTenant)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
