package probes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/statuscore-dev/statuscore/internal/types"
)

// CheckHTTP issues the configured request and verifies the status
// code against the expected one (200 when unset). The observed status
// code is returned even on mismatch so it can be recorded with the
// check.
func CheckHTTP(config *types.HTTPProbeConfig) (*int, error) {
	timeout := config.Timeout

	if timeout == 0 {
		timeout = 30
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, config.Method, config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", config.URL, err)
	}

	for key, value := range config.Headers {
		req.Header.Add(key, value)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", config.URL, err)
	}
	defer resp.Body.Close()

	code := resp.StatusCode

	expected := config.ExpectedStatus
	if expected == 0 {
		expected = http.StatusOK
	}

	if code != expected {
		return &code, fmt.Errorf("unexpected status code: %s", resp.Status)
	}
	return &code, nil
}
