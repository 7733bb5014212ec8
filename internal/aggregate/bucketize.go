// Package aggregate rolls raw samples into fixed time buckets. All
// functions are pure: no side effects, safe to call concurrently, and
// idempotent over the same input.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/types"
)

const (
	GranularityHour = "hour"
	GranularityDay  = "day"
)

// GranularityFor picks the bucket width for a lookback window: hourly
// buckets for windows up to 24h, daily buckets beyond that. The rule is
// fixed, not configurable per call.
func GranularityFor(window time.Duration) string {
	if window <= 24*time.Hour {
		return GranularityHour
	}
	return GranularityDay
}

// bucketKey truncates a timestamp to its bucket boundary. Keys are
// zero-padded and fixed-width, so lexicographic order is time order.
func bucketKey(t time.Time, granularity string) string {
	if granularity == GranularityHour {
		return t.Format("2006-01-02 15") + ":00"
	}
	return t.Format("2006-01-02")
}

type UptimeBucket struct {
	Timestamp       string  `json:"timestamp"`
	Uptime          float64 `json:"uptime"`
	AvgResponseTime float64 `json:"avg_response_time"`
	TotalChecks     int     `json:"total_checks"`
}

// BucketChecks groups probe results by time bucket and derives per-bucket
// uptime and mean response time. A bucket with no checks is vacuously up
// (uptime 100); response time defaults to 0 when nothing was recorded.
func BucketChecks(checks []models.Check, window time.Duration) []UptimeBucket {
	granularity := GranularityFor(window)

	type acc struct {
		total           int
		successful      int
		responseTimeSum float64
	}

	grouped := make(map[string]*acc)

	for _, check := range checks {
		key := bucketKey(check.CheckedAt, granularity)
		group, ok := grouped[key]
		if !ok {
			group = &acc{}
			grouped[key] = group
		}

		group.total++
		if check.Status == types.CheckSuccess {
			group.successful++
		}
		if check.ResponseTime != nil {
			group.responseTimeSum += float64(*check.ResponseTime)
		}
	}

	buckets := make([]UptimeBucket, 0, len(grouped))
	for key, group := range grouped {
		uptime := 100.0
		avgResponseTime := 0.0
		if group.total > 0 {
			uptime = math.Round(float64(group.successful) / float64(group.total) * 100)
			avgResponseTime = math.Round(group.responseTimeSum / float64(group.total))
		}
		buckets = append(buckets, UptimeBucket{
			Timestamp:       key,
			Uptime:          uptime,
			AvgResponseTime: avgResponseTime,
			TotalChecks:     group.total,
		})
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Timestamp < buckets[j].Timestamp })
	return buckets
}

type ErrorBucket struct {
	Timestamp     string  `json:"timestamp"`
	ErrorCount    int64   `json:"error_count"`
	TotalRequests int64   `json:"total_requests"`
	ErrorRate     float64 `json:"error_rate"`
}

// BucketErrorEvents groups error-rate samples by time bucket. The bucket
// error rate is always re-derived from the summed counts, never averaged
// from stored rates; it is 0 when no requests were observed.
func BucketErrorEvents(events []models.ErrorEvent, window time.Duration) []ErrorBucket {
	granularity := GranularityFor(window)

	grouped := make(map[string]*ErrorBucket)

	for _, event := range events {
		key := bucketKey(event.FirstOccurrence, granularity)
		bucket, ok := grouped[key]
		if !ok {
			bucket = &ErrorBucket{Timestamp: key}
			grouped[key] = bucket
		}

		bucket.ErrorCount += event.ErrorCount
		bucket.TotalRequests += event.TotalRequests
	}

	buckets := make([]ErrorBucket, 0, len(grouped))
	for _, bucket := range grouped {
		if bucket.TotalRequests > 0 {
			rate := float64(bucket.ErrorCount) / float64(bucket.TotalRequests) * 100
			bucket.ErrorRate = math.Round(rate*1000) / 1000
		}
		buckets = append(buckets, *bucket)
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Timestamp < buckets[j].Timestamp })
	return buckets
}

type IncidentBucket struct {
	Timestamp string `json:"timestamp"`
	Incidents int    `json:"incidents"`
	Critical  int    `json:"critical"`
	Resolved  int    `json:"resolved"`
}

// BucketIncidents groups incidents by detection time.
func BucketIncidents(incidents []models.Incident, window time.Duration) []IncidentBucket {
	granularity := GranularityFor(window)

	grouped := make(map[string]*IncidentBucket)

	for _, incident := range incidents {
		key := bucketKey(incident.DetectedAt, granularity)
		bucket, ok := grouped[key]
		if !ok {
			bucket = &IncidentBucket{Timestamp: key}
			grouped[key] = bucket
		}

		bucket.Incidents++
		if incident.Severity == types.SeverityCritical {
			bucket.Critical++
		}
		if incident.Status == types.IncidentResolved {
			bucket.Resolved++
		}
	}

	buckets := make([]IncidentBucket, 0, len(grouped))
	for _, bucket := range grouped {
		buckets = append(buckets, *bucket)
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Timestamp < buckets[j].Timestamp })
	return buckets
}
