// Package gormstore implements the store interfaces on a gorm
// connection. Every call carries a bounded timeout; driver failures
// surface as the retryable Unavailable class and are never retried here.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/store"
)

const defaultTimeout = 5 * time.Second

type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, timeout: defaultTimeout}
}

func NewWithTimeout(db *gorm.DB, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// wrap classifies a gorm error for the caller. Timeouts and cancelled
// contexts become Unavailable; anything else keeps its operation prefix.
func wrap(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Monitors

func (s *Store) CreateMonitor(ctx context.Context, monitor *models.Monitor) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(monitor).Error; err != nil {
		return wrap("create monitor", err)
	}
	return nil
}

func (s *Store) GetMonitor(ctx context.Context, tenantID string, id uint) (*models.Monitor, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var monitor models.Monitor
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&monitor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("monitor", id)
		}
		return nil, wrap("get monitor", err)
	}
	return &monitor, nil
}

func (s *Store) SaveMonitor(ctx context.Context, monitor *models.Monitor) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Save(monitor).Error; err != nil {
		return wrap("save monitor", err)
	}
	return nil
}

func (s *Store) ListMonitors(ctx context.Context, tenantID string) ([]models.Monitor, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var monitors []models.Monitor
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("updated_at DESC").
		Find(&monitors).Error
	if err != nil {
		return nil, wrap("list monitors", err)
	}
	return monitors, nil
}

// ListActiveMonitors returns every active monitor across tenants. Used
// by the probe scheduler at startup.
func (s *Store) ListActiveMonitors(ctx context.Context) ([]models.Monitor, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var monitors []models.Monitor
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&monitors).Error
	if err != nil {
		return nil, wrap("list active monitors", err)
	}
	return monitors, nil
}

// Checks

func (s *Store) AppendCheck(ctx context.Context, check *models.Check) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(check).Error; err != nil {
		return wrap("append check", err)
	}
	return nil
}

func (s *Store) ListChecks(ctx context.Context, filter store.CheckFilter) ([]models.Check, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.Check{}).
		Joins("JOIN monitors ON monitors.id = checks.monitor_id").
		Where("monitors.tenant_id = ?", filter.TenantID).
		Order("checks.checked_at DESC")

	if filter.MonitorID != 0 {
		query = query.Where("checks.monitor_id = ?", filter.MonitorID)
	}
	if !filter.Since.IsZero() {
		query = query.Where("checks.checked_at > ?", filter.Since)
	}
	if filter.Status != "" {
		query = query.Where("checks.status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var checks []models.Check
	if err := query.Find(&checks).Error; err != nil {
		return nil, wrap("list checks", err)
	}
	return checks, nil
}

// Error events

func (s *Store) AppendErrorEvent(ctx context.Context, event *models.ErrorEvent) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return wrap("append error event", err)
	}
	return nil
}

func (s *Store) ListErrorEvents(ctx context.Context, filter store.ErrorFilter) ([]models.ErrorEvent, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := s.db.WithContext(ctx).
		Where("tenant_id = ?", filter.TenantID).
		Order("first_occurrence DESC")

	if !filter.Since.IsZero() {
		query = query.Where("first_occurrence > ?", filter.Since)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.Resolved != nil {
		query = query.Where("resolved = ?", *filter.Resolved)
	}

	var events []models.ErrorEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, wrap("list error events", err)
	}
	return events, nil
}

// Alert configurations and triggers

func (s *Store) CreateConfiguration(ctx context.Context, config *models.AlertConfiguration) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(config).Error; err != nil {
		return wrap("create alert configuration", err)
	}
	return nil
}

func (s *Store) GetConfiguration(ctx context.Context, tenantID string, id uint) (*models.AlertConfiguration, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var config models.AlertConfiguration
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("alert configuration", id)
		}
		return nil, wrap("get alert configuration", err)
	}
	return &config, nil
}

func (s *Store) SaveConfiguration(ctx context.Context, config *models.AlertConfiguration) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Save(config).Error; err != nil {
		return wrap("save alert configuration", err)
	}
	return nil
}

func (s *Store) ListConfigurations(ctx context.Context, tenantID string) ([]models.AlertConfiguration, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var configs []models.AlertConfiguration
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("updated_at DESC").
		Find(&configs).Error
	if err != nil {
		return nil, wrap("list alert configurations", err)
	}
	return configs, nil
}

func (s *Store) CreateTrigger(ctx context.Context, trigger *models.AlertTrigger) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(trigger).Error; err != nil {
		return wrap("create alert trigger", err)
	}
	return nil
}

func (s *Store) GetTrigger(ctx context.Context, tenantID string, id uint) (*models.AlertTrigger, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var trigger models.AlertTrigger
	err := s.db.WithContext(ctx).
		Preload("AlertConfiguration").
		Joins("JOIN alert_configurations ON alert_configurations.id = alert_triggers.alert_configuration_id").
		Where("alert_triggers.id = ? AND alert_configurations.tenant_id = ?", id, tenantID).
		First(&trigger).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("alert trigger", id)
		}
		return nil, wrap("get alert trigger", err)
	}
	return &trigger, nil
}

func (s *Store) SaveTrigger(ctx context.Context, trigger *models.AlertTrigger) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Save(trigger).Error; err != nil {
		return wrap("save alert trigger", err)
	}
	return nil
}

func (s *Store) ListTriggers(ctx context.Context, tenantID string, statuses []string, limit int) ([]models.AlertTrigger, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.AlertTrigger{}).
		Preload("AlertConfiguration").
		Joins("JOIN alert_configurations ON alert_configurations.id = alert_triggers.alert_configuration_id").
		Where("alert_configurations.tenant_id = ?", tenantID).
		Order("alert_triggers.trigger_time DESC")

	if len(statuses) > 0 {
		query = query.Where("alert_triggers.status IN ?", statuses)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var triggers []models.AlertTrigger
	if err := query.Find(&triggers).Error; err != nil {
		return nil, wrap("list alert triggers", err)
	}
	return triggers, nil
}

func (s *Store) CountTriggers(ctx context.Context, tenantID, status string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int64
	err := s.db.WithContext(ctx).Model(&models.AlertTrigger{}).
		Joins("JOIN alert_configurations ON alert_configurations.id = alert_triggers.alert_configuration_id").
		Where("alert_configurations.tenant_id = ? AND alert_triggers.status = ?", tenantID, status).
		Count(&count).Error
	if err != nil {
		return 0, wrap("count alert triggers", err)
	}
	return count, nil
}

// Incidents

func (s *Store) CreateIncident(ctx context.Context, incident *models.Incident) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(incident).Error; err != nil {
		return wrap("create incident", err)
	}
	return nil
}

func (s *Store) GetIncident(ctx context.Context, tenantID, incidentID string) (*models.Incident, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var incident models.Incident
	err := s.db.WithContext(ctx).
		Where("incident_id = ? AND tenant_id = ?", incidentID, tenantID).
		First(&incident).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("incident", incidentID)
		}
		return nil, wrap("get incident", err)
	}
	return &incident, nil
}

func (s *Store) SaveIncident(ctx context.Context, incident *models.Incident) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Save(incident).Error; err != nil {
		return wrap("save incident", err)
	}
	return nil
}

func (s *Store) ListIncidents(ctx context.Context, tenantID string, since time.Time) ([]models.Incident, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("detected_at DESC")
	if !since.IsZero() {
		query = query.Where("detected_at > ?", since)
	}

	var incidents []models.Incident
	if err := query.Find(&incidents).Error; err != nil {
		return nil, wrap("list incidents", err)
	}
	return incidents, nil
}

func (s *Store) ListIncidentsByStatus(ctx context.Context, tenantID string, statuses []string, limit int) ([]models.Incident, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := s.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID, statuses).
		Order("detected_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var incidents []models.Incident
	if err := query.Find(&incidents).Error; err != nil {
		return nil, wrap("list incidents by status", err)
	}
	return incidents, nil
}
