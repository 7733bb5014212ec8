// Package sla checks service-level targets for uptime, latency and error
// rate. The calculators are pure; Reporter binds them to the sample
// store.
package sla

import (
	"context"
	"math"
	"time"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/store"
	"github.com/statuscore-dev/statuscore/internal/types"
)

// Contract targets. These are the platform defaults the report is
// measured against.
const (
	UptimeTarget       = 99.9 // percent
	ResponseTimeTarget = 500  // milliseconds
	ErrorRateTarget    = 1.0  // percent
)

// Metric is one target/actual comparison.
type Metric struct {
	Target float64 `json:"target"`
	Actual float64 `json:"actual"`
	Met    bool    `json:"met"`
}

// Uptime measures the success ratio of the given checks against the
// 99.9% target. Zero checks count as fully up.
func Uptime(checks []models.Check) Metric {
	actual := 100.0
	if len(checks) > 0 {
		successful := 0
		for _, check := range checks {
			if check.Status == types.CheckSuccess {
				successful++
			}
		}
		actual = roundTo(float64(successful)/float64(len(checks))*100, 3)
	}

	return Metric{Target: UptimeTarget, Actual: actual, Met: actual >= UptimeTarget}
}

// ResponseTime measures mean latency in milliseconds against the 500ms
// target. An empty sample set reports 0 and meets the target.
func ResponseTime(samples []float64) Metric {
	sum := 0.0
	for _, sample := range samples {
		sum += sample
	}

	actual := 0.0
	if len(samples) > 0 {
		actual = math.Round(sum / float64(len(samples)))
	}

	return Metric{Target: ResponseTimeTarget, Actual: actual, Met: actual <= ResponseTimeTarget}
}

// ErrorRate measures the mean recorded error rate against the 1% target.
func ErrorRate(events []models.ErrorEvent) Metric {
	sum := 0.0
	for _, event := range events {
		sum += event.ErrorRate
	}

	actual := 0.0
	if len(events) > 0 {
		actual = roundTo(sum/float64(len(events)), 3)
	}

	return Metric{Target: ErrorRateTarget, Actual: actual, Met: actual <= ErrorRateTarget}
}

// Availability blends uptime with the inverse error rate into one figure
// with a qualitative label.
type Availability struct {
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

func AvailabilityOf(uptimeActual, errorRateActual float64) Availability {
	percentage := (uptimeActual + (100 - errorRateActual)) / 2

	status := "excellent"
	switch {
	case percentage < 95:
		status = "poor"
	case percentage < 98:
		status = "fair"
	case percentage < 99.5:
		status = "good"
	}

	return Availability{Percentage: roundTo(percentage, 2), Status: status}
}

func roundTo(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}

// Report is the full SLA view over one lookback window.
type Report struct {
	Uptime       Metric       `json:"uptime"`
	ResponseTime Metric       `json:"response_time"`
	ErrorRate    Metric       `json:"error_rate"`
	Availability Availability `json:"availability"`
	Period       string       `json:"period"`
	Timestamp    time.Time    `json:"timestamp"`
}

type Reporter struct {
	checks store.CheckStore
	errors store.ErrorStore
	now    func() time.Time
}

func NewReporter(checks store.CheckStore, errors store.ErrorStore) *Reporter {
	return &Reporter{checks: checks, errors: errors, now: time.Now}
}

// Report evaluates the SLA calculators over the requested window.
// Latency samples come from checks that recorded a response time.
func (r *Reporter) Report(ctx context.Context, tenantID, timeRange string) (*Report, error) {
	now := r.now()
	since := now.Add(-types.ParseTimeRange(timeRange))

	checks, err := r.checks.ListChecks(ctx, store.CheckFilter{TenantID: tenantID, Since: since})
	if err != nil {
		return nil, err
	}

	events, err := r.errors.ListErrorEvents(ctx, store.ErrorFilter{TenantID: tenantID, Since: since})
	if err != nil {
		return nil, err
	}

	var latencies []float64
	for _, check := range checks {
		if check.ResponseTime != nil {
			latencies = append(latencies, float64(*check.ResponseTime))
		}
	}

	uptime := Uptime(checks)
	errorRate := ErrorRate(events)

	return &Report{
		Uptime:       uptime,
		ResponseTime: ResponseTime(latencies),
		ErrorRate:    errorRate,
		Availability: AvailabilityOf(uptime.Actual, errorRate.Actual),
		Period:       timeRange,
		Timestamp:    now,
	}, nil
}
