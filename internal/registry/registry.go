// Package registry tracks configured monitors and ingests probe results
// and error-rate samples. Counter updates are serialized per entity so
// derived percentages always agree with the counters they came from.
package registry

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/store"
	"github.com/statuscore-dev/statuscore/internal/types"
)

type Service struct {
	monitors store.MonitorStore
	checks   store.CheckStore
	errors   store.ErrorStore
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[uint]*sync.Mutex

	now func() time.Time
}

func NewService(monitors store.MonitorStore, checks store.CheckStore, errors store.ErrorStore, logger *zap.Logger) *Service {
	return &Service{
		monitors: monitors,
		checks:   checks,
		errors:   errors,
		logger:   logger,
		locks:    make(map[uint]*sync.Mutex),
		now:      time.Now,
	}
}

// lockFor returns the mutex serializing counter updates for one monitor.
func (s *Service) lockFor(monitorID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[monitorID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[monitorID] = lock
	}
	return lock
}

type MonitorInput struct {
	Name          string
	Type          string
	Target        string
	CheckInterval int
	Timeout       int
	IsActive      *bool
	SLATarget     float64
	Config        json.RawMessage
}

func (s *Service) CreateMonitor(ctx context.Context, tenantID string, input MonitorInput) (*models.Monitor, error) {
	if tenantID == "" {
		return nil, apperr.Validation("tenant_id", "required")
	}
	if input.Name == "" {
		return nil, apperr.Validation("name", "required")
	}
	if input.Target == "" {
		return nil, apperr.Validation("target", "required")
	}

	monitor := &models.Monitor{
		TenantID:      tenantID,
		Name:          input.Name,
		Type:          input.Type,
		Target:        input.Target,
		CheckInterval: input.CheckInterval,
		Timeout:       input.Timeout,
		SLATarget:     input.SLATarget,
		IsActive:      true,
		Status:        types.MonitorUp,
		UptimePercent: 100,
	}
	if monitor.CheckInterval <= 0 {
		monitor.CheckInterval = 60
	}
	if monitor.Timeout <= 0 {
		monitor.Timeout = 30
	}
	if monitor.SLATarget <= 0 {
		monitor.SLATarget = 99.9
	}
	if input.IsActive != nil {
		monitor.IsActive = *input.IsActive
	}
	if len(input.Config) > 0 {
		monitor.Config = datatypes.JSON(input.Config)
	}

	if err := s.monitors.CreateMonitor(ctx, monitor); err != nil {
		return nil, err
	}
	return monitor, nil
}

func (s *Service) GetMonitor(ctx context.Context, tenantID string, id uint) (*models.Monitor, error) {
	return s.monitors.GetMonitor(ctx, tenantID, id)
}

func (s *Service) ListMonitors(ctx context.Context, tenantID string) ([]models.Monitor, error) {
	return s.monitors.ListMonitors(ctx, tenantID)
}

type CheckInput struct {
	MonitorID    uint
	Status       string
	ResponseTime *int
	StatusCode   *int
	ErrorMessage string
	Region       string
}

// RecordCheck appends one probe result and folds it into the owning
// monitor's rolling counters. Concurrent calls against the same monitor
// serialize on a per-monitor lock; an unknown monitor leaves nothing
// written.
func (s *Service) RecordCheck(ctx context.Context, tenantID string, input CheckInput) (*models.Monitor, error) {
	if input.MonitorID == 0 {
		return nil, apperr.Validation("monitor_id", "required")
	}
	if input.Status != types.CheckSuccess && input.Status != types.CheckFailure {
		return nil, apperr.Validation("status", "must be success or failure")
	}

	lock := s.lockFor(input.MonitorID)
	lock.Lock()
	defer lock.Unlock()

	monitor, err := s.monitors.GetMonitor(ctx, tenantID, input.MonitorID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	check := &models.Check{
		MonitorID:    monitor.ID,
		Status:       input.Status,
		ResponseTime: input.ResponseTime,
		StatusCode:   input.StatusCode,
		ErrorMessage: input.ErrorMessage,
		Region:       input.Region,
		CheckedAt:    now,
	}
	if err := s.checks.AppendCheck(ctx, check); err != nil {
		return nil, err
	}

	monitor.TotalChecks++
	if input.Status == types.CheckSuccess {
		monitor.SuccessfulChecks++
	} else {
		monitor.FailedChecks++
		monitor.LastDowntime = &now
	}
	monitor.UptimePercent = float64(monitor.SuccessfulChecks) / float64(monitor.TotalChecks) * 100
	monitor.LastCheckTime = &now

	switch {
	case input.Status == types.CheckFailure:
		monitor.Status = types.MonitorDown
	case monitor.UptimePercent < monitor.SLATarget:
		monitor.Status = types.MonitorDegraded
	default:
		monitor.Status = types.MonitorUp
	}

	if err := s.monitors.SaveMonitor(ctx, monitor); err != nil {
		s.logger.Warn("check stored but monitor counters not updated",
			zap.Uint("monitor_id", monitor.ID),
			zap.Error(err))
		return nil, err
	}

	return monitor, nil
}

type ErrorEventInput struct {
	ServiceName   string
	ErrorType     string
	ErrorCode     string
	ErrorMessage  string
	ErrorCount    int64
	TotalRequests int64
	Severity      string
	AffectedUsers int64
	Region        string
	Environment   string
}

// RecordErrorEvent appends one error-rate sample. The stored rate is
// always derived from the counts, never taken from the caller.
func (s *Service) RecordErrorEvent(ctx context.Context, tenantID string, input ErrorEventInput) (*models.ErrorEvent, error) {
	if tenantID == "" {
		return nil, apperr.Validation("tenant_id", "required")
	}
	if input.ServiceName == "" {
		return nil, apperr.Validation("service_name", "required")
	}
	if input.ErrorType == "" {
		return nil, apperr.Validation("error_type", "required")
	}

	now := s.now()

	event := &models.ErrorEvent{
		TenantID:        tenantID,
		ServiceName:     input.ServiceName,
		ErrorType:       input.ErrorType,
		ErrorCode:       input.ErrorCode,
		ErrorMessage:    input.ErrorMessage,
		ErrorCount:      input.ErrorCount,
		TotalRequests:   input.TotalRequests,
		Severity:        input.Severity,
		AffectedUsers:   input.AffectedUsers,
		Region:          input.Region,
		Environment:     input.Environment,
		FirstOccurrence: now,
		LastOccurrence:  now,
	}
	if event.ErrorCount <= 0 {
		event.ErrorCount = 1
	}
	if event.TotalRequests <= 0 {
		event.TotalRequests = 1
	}
	if event.Severity == "" {
		event.Severity = types.SeverityMedium
	}
	if event.Environment == "" {
		event.Environment = "production"
	}
	event.ErrorRate = roundTo(float64(event.ErrorCount)/float64(event.TotalRequests)*100, 3)

	if err := s.errors.AppendErrorEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func roundTo(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}
