// Package scheduler drives active monitoring: it keeps one ticker per
// active monitor, runs the probe for each tick, and records the
// outcome through the check registry. A separate loop feeds live
// metric observations into the alert engine.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/statuscore-dev/statuscore/internal/alerting"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/probes"
	"github.com/statuscore-dev/statuscore/internal/registry"
	"github.com/statuscore-dev/statuscore/internal/types"
)

// MonitorSource lists the monitors the scheduler should be running,
// across all tenants.
type MonitorSource interface {
	ListActiveMonitors(ctx context.Context) ([]models.Monitor, error)
}

type Scheduler struct {
	source   MonitorSource
	registry *registry.Service
	engine   *alerting.Engine
	logger   *zap.Logger

	jobs map[uint]*monitorJob
	mu   sync.RWMutex

	evalInterval time.Duration
	region       string

	ctx    context.Context
	cancel context.CancelFunc
}

type monitorJob struct {
	monitor models.Monitor
	ticker  *time.Ticker
	cancel  context.CancelFunc
}

func New(source MonitorSource, reg *registry.Service, engine *alerting.Engine, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		source:       source,
		registry:     reg,
		engine:       engine,
		logger:       logger,
		jobs:         make(map[uint]*monitorJob),
		evalInterval: time.Minute,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// WithRegion tags every recorded check with the given region label.
func (s *Scheduler) WithRegion(region string) *Scheduler {
	s.region = region
	return s
}

// Start loads all active monitors, begins scheduling, and starts the
// alert evaluation loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	monitorsList, err := s.source.ListActiveMonitors(s.ctx)
	if err != nil {
		return err
	}

	for _, monitor := range monitorsList {
		s.AddMonitor(monitor)
	}

	go s.runEvaluations(s.ctx)

	s.logger.Info("scheduler started", zap.Int("monitors", len(monitorsList)))
	return nil
}

// Stop gracefully shuts down all monitor jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		job.ticker.Stop()
		job.cancel()
	}

	s.jobs = make(map[uint]*monitorJob)
	s.logger.Info("scheduler stopped")
}

// AddMonitor starts (or restarts) the job for a monitor and runs an
// immediate first check.
func (s *Scheduler) AddMonitor(monitor models.Monitor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.jobs[monitor.ID]; exists {
		existing.ticker.Stop()
		existing.cancel()
	}

	interval := monitor.CheckInterval
	if interval <= 0 {
		interval = 60
	}

	jobCtx, jobCancel := context.WithCancel(s.ctx)
	ticker := time.NewTicker(time.Duration(interval) * time.Second)

	job := &monitorJob{
		monitor: monitor,
		ticker:  ticker,
		cancel:  jobCancel,
	}

	s.jobs[monitor.ID] = job

	go func() {
		monitorCopy := monitor
		s.executeCheck(monitorCopy)
		s.runMonitor(jobCtx, job)
	}()

	s.logger.Info("monitor scheduled",
		zap.Uint("monitor_id", monitor.ID),
		zap.String("name", monitor.Name),
		zap.Int("interval_seconds", interval))
}

// RemoveMonitor stops the job for a monitor.
func (s *Scheduler) RemoveMonitor(monitorID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, exists := s.jobs[monitorID]; exists {
		job.ticker.Stop()
		job.cancel()
		delete(s.jobs, monitorID)
		s.logger.Info("monitor unscheduled", zap.Uint("monitor_id", monitorID))
	}
}

// UpdateMonitor replaces the running job for a monitor.
func (s *Scheduler) UpdateMonitor(monitor models.Monitor) {
	s.AddMonitor(monitor)
}

func (s *Scheduler) runMonitor(ctx context.Context, job *monitorJob) {
	defer job.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-job.ticker.C:
			s.mu.RLock()
			monitorCopy := job.monitor
			s.mu.RUnlock()

			s.executeCheck(monitorCopy)
		}
	}
}

func (s *Scheduler) executeCheck(monitor models.Monitor) {
	result := probes.Execute(&monitor)

	responseTime := result.ResponseTime
	input := registry.CheckInput{
		MonitorID:    monitor.ID,
		Status:       result.Status,
		ResponseTime: &responseTime,
		StatusCode:   result.StatusCode,
		ErrorMessage: result.ErrorMessage,
		Region:       s.region,
	}

	if _, err := s.registry.RecordCheck(s.ctx, monitor.TenantID, input); err != nil {
		s.logger.Error("failed to record check",
			zap.Uint("monitor_id", monitor.ID),
			zap.Error(err))
		return
	}

	if result.Status == types.CheckFailure {
		s.logger.Warn("monitor check failed",
			zap.Uint("monitor_id", monitor.ID),
			zap.String("error", result.ErrorMessage))
	} else {
		s.logger.Debug("monitor check succeeded",
			zap.Uint("monitor_id", monitor.ID),
			zap.Int("response_time_ms", responseTime))
	}
}

// runEvaluations periodically resolves each tenant's alert metrics and
// feeds one observation per configuration into the engine.
func (s *Scheduler) runEvaluations(ctx context.Context) {
	ticker := time.NewTicker(s.evalInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evaluateAlerts(ctx)
		}
	}
}

func (s *Scheduler) evaluateAlerts(ctx context.Context) {
	monitorsList, err := s.source.ListActiveMonitors(ctx)
	if err != nil {
		s.logger.Error("failed to list monitors for alert evaluation", zap.Error(err))
		return
	}

	tenants := make(map[string]bool)
	for _, monitor := range monitorsList {
		tenants[monitor.TenantID] = true
	}

	for tenantID := range tenants {
		configs, err := s.engine.ListConfigurations(ctx, tenantID)
		if err != nil {
			s.logger.Error("failed to list alert configurations",
				zap.String("tenant_id", tenantID),
				zap.Error(err))
			continue
		}

		for _, config := range configs {
			if !config.IsActive {
				continue
			}

			value, ok := s.resolveMetric(ctx, tenantID, config)
			if !ok {
				continue
			}

			if _, err := s.engine.Evaluate(ctx, tenantID, config.ID, value); err != nil {
				s.logger.Error("alert evaluation failed",
					zap.Uint("config_id", config.ID),
					zap.Error(err))
			}
		}
	}
}

// resolveMetric computes the current value of a configuration's metric
// from the recorded monitoring data. Unknown metrics are skipped.
func (s *Scheduler) resolveMetric(ctx context.Context, tenantID string, config models.AlertConfiguration) (float64, bool) {
	switch config.MetricName {
	case "uptime_percent":
		overview, err := s.registry.UptimeOverview(ctx, tenantID, "1h")
		if err != nil {
			s.logger.Error("failed to resolve uptime metric", zap.Error(err))
			return 0, false
		}
		return overview.Overview.AvgUptime, true
	case "error_rate":
		overview, err := s.registry.ErrorOverview(ctx, tenantID, "1h", "")
		if err != nil {
			s.logger.Error("failed to resolve error-rate metric", zap.Error(err))
			return 0, false
		}
		return overview.Overview.OverallErrorRate, true
	case "response_time":
		overview, err := s.registry.UptimeOverview(ctx, tenantID, "1h")
		if err != nil {
			s.logger.Error("failed to resolve response-time metric", zap.Error(err))
			return 0, false
		}

		var sum float64
		var count int
		for _, monitor := range overview.Monitors {
			if monitor.TotalChecks > 0 {
				sum += monitor.AvgResponseTime
				count++
			}
		}
		if count == 0 {
			return 0, false
		}
		return sum / float64(count), true
	default:
		s.logger.Debug("skipping unknown alert metric",
			zap.String("metric", config.MetricName),
			zap.Uint("config_id", config.ID))
		return 0, false
	}
}

// Status reports the scheduler's current job count, for health output.
func (s *Scheduler) Status() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"active_monitors": len(s.jobs),
		"running":         s.ctx.Err() == nil,
	}
}
