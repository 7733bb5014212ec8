// Package probes executes active checks against monitored targets.
// The scheduler resolves a monitor's JSON config into a typed probe
// config and runs the probe for the monitor's type.
package probes

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/types"
)

// Result is the outcome of a single probe run, shaped so callers can
// feed it straight into the check registry.
type Result struct {
	Status       string
	ResponseTime int // milliseconds
	StatusCode   *int
	ErrorMessage string
}

// Execute runs the probe that matches the monitor's type and measures
// its wall-clock duration. Configuration problems surface as failed
// results rather than errors so a misconfigured monitor still records
// checks.
func Execute(monitor *models.Monitor) Result {
	started := time.Now()

	var (
		statusCode *int
		err        error
	)

	switch monitor.Type {
	case "http":
		config := types.HTTPProbeConfig{}

		if len(monitor.Config) > 0 {
			if uerr := json.Unmarshal(monitor.Config, &config); uerr != nil {
				return failure(started, nil, fmt.Errorf("invalid http config: %w", uerr))
			}
		}

		if config.URL == "" {
			config.URL = monitor.Target
		}

		if config.Method == "" {
			config.Method = "GET"
		}

		if config.Timeout == 0 {
			config.Timeout = monitor.Timeout
		}

		statusCode, err = CheckHTTP(&config)
	case "dns":
		config := types.DNSProbeConfig{}

		if len(monitor.Config) > 0 {
			if uerr := json.Unmarshal(monitor.Config, &config); uerr != nil {
				return failure(started, nil, fmt.Errorf("invalid dns config: %w", uerr))
			}
		}

		if config.Domain == "" {
			config.Domain = monitor.Target
		}

		if config.RecordType == "" {
			config.RecordType = "A"
		}

		if config.Timeout == 0 {
			config.Timeout = monitor.Timeout
		}

		err = CheckDNS(&config)
	case "database":
		config := types.DatabaseProbeConfig{}

		if len(monitor.Config) == 0 {
			return failure(started, nil, fmt.Errorf("database monitor %d has no connection config", monitor.ID))
		}

		if uerr := json.Unmarshal(monitor.Config, &config); uerr != nil {
			return failure(started, nil, fmt.Errorf("invalid database config: %w", uerr))
		}

		if config.Timeout == 0 {
			config.Timeout = monitor.Timeout
		}

		err = CheckDatabase(&config)
	default:
		return failure(started, nil, fmt.Errorf("unsupported monitor type: %s", monitor.Type))
	}

	if err != nil {
		return failure(started, statusCode, err)
	}

	return Result{
		Status:       types.CheckSuccess,
		ResponseTime: int(time.Since(started).Milliseconds()),
		StatusCode:   statusCode,
	}
}

func failure(started time.Time, statusCode *int, err error) Result {
	return Result{
		Status:       types.CheckFailure,
		ResponseTime: int(time.Since(started).Milliseconds()),
		StatusCode:   statusCode,
		ErrorMessage: err.Error(),
	}
}
