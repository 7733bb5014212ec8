package probes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/statuscore-dev/statuscore/internal/types"
)

// Response times above this mark a component as degraded even when
// the probe itself succeeds.
const slowComponentThreshold = 500 * time.Millisecond

// DatabaseChecker reports the health of the platform database by
// pinging the underlying connection pool.
type DatabaseChecker struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func (c DatabaseChecker) Check(ctx context.Context) types.ComponentHealth {
	timeout := c.Timeout

	if timeout == 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	health := types.ComponentHealth{
		Component: "database",
		Timestamp: started,
	}

	sqlDB, err := c.DB.DB()

	if err != nil {
		health.Status = types.HealthCritical
		health.Message = fmt.Sprintf("connection pool unavailable: %v", err)
		return health
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		health.Status = types.HealthDown
		health.Message = fmt.Sprintf("ping failed: %v", err)
		return health
	}

	elapsed := time.Since(started)
	ms := float64(elapsed.Milliseconds())
	health.ResponseTime = &ms

	if elapsed > slowComponentThreshold {
		health.Status = types.HealthWarning
		health.Message = "database responding slowly"
		return health
	}

	health.Status = types.HealthHealthy
	return health
}

// EndpointChecker reports the health of an HTTP-reachable component
// such as the application tier, object storage, or an external
// dependency.
type EndpointChecker struct {
	Component string
	URL       string
	Timeout   time.Duration
}

func (c EndpointChecker) Check(ctx context.Context) types.ComponentHealth {
	timeout := c.Timeout

	if timeout == 0 {
		timeout = 10 * time.Second
	}

	started := time.Now()
	health := types.ComponentHealth{
		Component: c.Component,
		Timestamp: started,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)

	if err != nil {
		health.Status = types.HealthCritical
		health.Message = fmt.Sprintf("invalid endpoint: %v", err)
		return health
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)

	if err != nil {
		health.Status = types.HealthDown
		health.Message = fmt.Sprintf("request failed: %v", err)
		return health
	}

	defer resp.Body.Close()

	elapsed := time.Since(started)
	ms := float64(elapsed.Milliseconds())
	health.ResponseTime = &ms

	switch {
	case resp.StatusCode >= 500:
		health.Status = types.HealthCritical
		health.Message = "endpoint returned " + resp.Status
	case resp.StatusCode >= 400:
		health.Status = types.HealthWarning
		health.Message = "endpoint returned " + resp.Status
	case elapsed > slowComponentThreshold:
		health.Status = types.HealthWarning
		health.Message = "endpoint responding slowly"
	default:
		health.Status = types.HealthHealthy
	}

	return health
}
