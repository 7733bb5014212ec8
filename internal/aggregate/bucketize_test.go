package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/types"
)

func intPtr(v int) *int { return &v }

func TestGranularityFor(t *testing.T) {
	assert.Equal(t, GranularityHour, GranularityFor(time.Hour))
	assert.Equal(t, GranularityHour, GranularityFor(24*time.Hour))
	assert.Equal(t, GranularityDay, GranularityFor(7*24*time.Hour))
}

func TestBucketChecksHourly(t *testing.T) {
	base := time.Date(2025, 3, 10, 14, 5, 0, 0, time.UTC)

	checks := []models.Check{
		{Status: types.CheckSuccess, ResponseTime: intPtr(100), CheckedAt: base},
		{Status: types.CheckSuccess, ResponseTime: intPtr(200), CheckedAt: base.Add(10 * time.Minute)},
		{Status: types.CheckFailure, ResponseTime: intPtr(300), CheckedAt: base.Add(20 * time.Minute)},
		{Status: types.CheckSuccess, ResponseTime: intPtr(50), CheckedAt: base.Add(time.Hour)},
	}

	buckets := BucketChecks(checks, time.Hour)

	require.Len(t, buckets, 2)

	assert.Equal(t, "2025-03-10 14:00", buckets[0].Timestamp)
	assert.Equal(t, 3, buckets[0].TotalChecks)
	assert.Equal(t, 67.0, buckets[0].Uptime) // 2/3 rounded
	assert.Equal(t, 200.0, buckets[0].AvgResponseTime)

	assert.Equal(t, "2025-03-10 15:00", buckets[1].Timestamp)
	assert.Equal(t, 100.0, buckets[1].Uptime)
	assert.Equal(t, 50.0, buckets[1].AvgResponseTime)
}

func TestBucketChecksDaily(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 23, 0, 0, 0, time.UTC)

	checks := []models.Check{
		{Status: types.CheckSuccess, CheckedAt: day2},
		{Status: types.CheckFailure, CheckedAt: day1},
	}

	buckets := BucketChecks(checks, 7*24*time.Hour)

	require.Len(t, buckets, 2)
	// Sorted ascending regardless of input order.
	assert.Equal(t, "2025-03-10", buckets[0].Timestamp)
	assert.Equal(t, 0.0, buckets[0].Uptime)
	assert.Equal(t, "2025-03-11", buckets[1].Timestamp)
	assert.Equal(t, 100.0, buckets[1].Uptime)
}

func TestBucketChecksEmpty(t *testing.T) {
	buckets := BucketChecks(nil, time.Hour)
	assert.Empty(t, buckets)
}

func TestBucketChecksIdempotent(t *testing.T) {
	base := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	checks := []models.Check{
		{Status: types.CheckSuccess, ResponseTime: intPtr(120), CheckedAt: base},
		{Status: types.CheckFailure, CheckedAt: base.Add(30 * time.Minute)},
	}

	first := BucketChecks(checks, time.Hour)
	second := BucketChecks(checks, time.Hour)

	assert.Equal(t, first, second)
}

func TestBucketErrorEventsDerivesRateFromCounts(t *testing.T) {
	at := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)

	events := []models.ErrorEvent{
		{ErrorCount: 1, TotalRequests: 300, ErrorRate: 99.0, FirstOccurrence: at},
		{ErrorCount: 2, TotalRequests: 700, ErrorRate: 99.0, FirstOccurrence: at.Add(5 * time.Minute)},
	}

	buckets := BucketErrorEvents(events, time.Hour)

	require.Len(t, buckets, 1)
	assert.Equal(t, int64(3), buckets[0].ErrorCount)
	assert.Equal(t, int64(1000), buckets[0].TotalRequests)
	// 3/1000 = 0.3%, re-derived from counts, not the stored rates.
	assert.Equal(t, 0.3, buckets[0].ErrorRate)
}

func TestBucketErrorEventsZeroRequests(t *testing.T) {
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	events := []models.ErrorEvent{
		{ErrorCount: 5, TotalRequests: 0, FirstOccurrence: at},
	}

	buckets := BucketErrorEvents(events, time.Hour)

	require.Len(t, buckets, 1)
	assert.Equal(t, 0.0, buckets[0].ErrorRate)
}

func TestBucketIncidents(t *testing.T) {
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	incidents := []models.Incident{
		{Severity: types.SeverityCritical, Status: types.IncidentOpen, DetectedAt: day},
		{Severity: types.SeverityLow, Status: types.IncidentResolved, DetectedAt: day.Add(time.Hour)},
		{Severity: types.SeverityHigh, Status: types.IncidentResolved, DetectedAt: day.AddDate(0, 0, 1)},
	}

	buckets := BucketIncidents(incidents, 7*24*time.Hour)

	require.Len(t, buckets, 2)
	assert.Equal(t, 2, buckets[0].Incidents)
	assert.Equal(t, 1, buckets[0].Critical)
	assert.Equal(t, 1, buckets[0].Resolved)
	assert.Equal(t, 1, buckets[1].Incidents)
	assert.Equal(t, 0, buckets[1].Critical)
}
