// Package memstore is an in-memory implementation of the store
// interfaces, used by service tests and local development.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/store"
)

type Store struct {
	mu sync.RWMutex

	nextID   uint
	monitors map[uint]models.Monitor
	checks   []models.Check
	events   []models.ErrorEvent
	configs  map[uint]models.AlertConfiguration
	triggers map[uint]models.AlertTrigger
	incident map[uint]models.Incident
}

func New() *Store {
	return &Store{
		nextID:   1,
		monitors: make(map[uint]models.Monitor),
		configs:  make(map[uint]models.AlertConfiguration),
		triggers: make(map[uint]models.AlertTrigger),
		incident: make(map[uint]models.Incident),
	}
}

func (s *Store) nextKey() uint {
	id := s.nextID
	s.nextID++
	return id
}

// Monitors

func (s *Store) CreateMonitor(_ context.Context, monitor *models.Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	monitor.ID = s.nextKey()
	monitor.CreatedAt = time.Now()
	monitor.UpdatedAt = monitor.CreatedAt
	s.monitors[monitor.ID] = *monitor
	return nil
}

func (s *Store) GetMonitor(_ context.Context, tenantID string, id uint) (*models.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	monitor, ok := s.monitors[id]
	if !ok || monitor.TenantID != tenantID {
		return nil, apperr.NotFound("monitor", id)
	}
	copied := monitor
	return &copied, nil
}

func (s *Store) SaveMonitor(_ context.Context, monitor *models.Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.monitors[monitor.ID]; !ok {
		return apperr.NotFound("monitor", monitor.ID)
	}
	monitor.UpdatedAt = time.Now()
	s.monitors[monitor.ID] = *monitor
	return nil
}

func (s *Store) ListMonitors(_ context.Context, tenantID string) ([]models.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var monitors []models.Monitor
	for _, monitor := range s.monitors {
		if monitor.TenantID == tenantID {
			monitors = append(monitors, monitor)
		}
	}
	sort.Slice(monitors, func(i, j int) bool { return monitors[i].ID < monitors[j].ID })
	return monitors, nil
}

func (s *Store) ListActiveMonitors(_ context.Context) ([]models.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var monitors []models.Monitor
	for _, monitor := range s.monitors {
		if monitor.IsActive {
			monitors = append(monitors, monitor)
		}
	}
	sort.Slice(monitors, func(i, j int) bool { return monitors[i].ID < monitors[j].ID })
	return monitors, nil
}

// Checks

func (s *Store) AppendCheck(_ context.Context, check *models.Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	check.ID = s.nextKey()
	check.CreatedAt = time.Now()
	s.checks = append(s.checks, *check)
	return nil
}

func (s *Store) ListChecks(_ context.Context, filter store.CheckFilter) ([]models.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var checks []models.Check
	for _, check := range s.checks {
		monitor, ok := s.monitors[check.MonitorID]
		if !ok || monitor.TenantID != filter.TenantID {
			continue
		}
		if filter.MonitorID != 0 && check.MonitorID != filter.MonitorID {
			continue
		}
		if !filter.Since.IsZero() && !check.CheckedAt.After(filter.Since) {
			continue
		}
		if filter.Status != "" && check.Status != filter.Status {
			continue
		}
		checks = append(checks, check)
	}

	sort.Slice(checks, func(i, j int) bool { return checks[i].CheckedAt.After(checks[j].CheckedAt) })
	if filter.Limit > 0 && len(checks) > filter.Limit {
		checks = checks[:filter.Limit]
	}
	return checks, nil
}

// Error events

func (s *Store) AppendErrorEvent(_ context.Context, event *models.ErrorEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = s.nextKey()
	event.CreatedAt = time.Now()
	s.events = append(s.events, *event)
	return nil
}

func (s *Store) ListErrorEvents(_ context.Context, filter store.ErrorFilter) ([]models.ErrorEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []models.ErrorEvent
	for _, event := range s.events {
		if event.TenantID != filter.TenantID {
			continue
		}
		if !filter.Since.IsZero() && !event.FirstOccurrence.After(filter.Since) {
			continue
		}
		if filter.Severity != "" && event.Severity != filter.Severity {
			continue
		}
		if filter.Resolved != nil && event.Resolved != *filter.Resolved {
			continue
		}
		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].FirstOccurrence.After(events[j].FirstOccurrence)
	})
	return events, nil
}

// Alert configurations and triggers

func (s *Store) CreateConfiguration(_ context.Context, config *models.AlertConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	config.ID = s.nextKey()
	config.CreatedAt = time.Now()
	config.UpdatedAt = config.CreatedAt
	s.configs[config.ID] = *config
	return nil
}

func (s *Store) GetConfiguration(_ context.Context, tenantID string, id uint) (*models.AlertConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	config, ok := s.configs[id]
	if !ok || config.TenantID != tenantID {
		return nil, apperr.NotFound("alert configuration", id)
	}
	copied := config
	return &copied, nil
}

func (s *Store) SaveConfiguration(_ context.Context, config *models.AlertConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.configs[config.ID]; !ok {
		return apperr.NotFound("alert configuration", config.ID)
	}
	config.UpdatedAt = time.Now()
	s.configs[config.ID] = *config
	return nil
}

func (s *Store) ListConfigurations(_ context.Context, tenantID string) ([]models.AlertConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configs []models.AlertConfiguration
	for _, config := range s.configs {
		if config.TenantID == tenantID {
			configs = append(configs, config)
		}
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].ID < configs[j].ID })
	return configs, nil
}

func (s *Store) CreateTrigger(_ context.Context, trigger *models.AlertTrigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trigger.ID = s.nextKey()
	trigger.CreatedAt = time.Now()
	trigger.UpdatedAt = trigger.CreatedAt
	s.triggers[trigger.ID] = *trigger
	return nil
}

func (s *Store) GetTrigger(_ context.Context, tenantID string, id uint) (*models.AlertTrigger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trigger, ok := s.triggers[id]
	if !ok {
		return nil, apperr.NotFound("alert trigger", id)
	}
	config, ok := s.configs[trigger.AlertConfigurationID]
	if !ok || config.TenantID != tenantID {
		return nil, apperr.NotFound("alert trigger", id)
	}
	trigger.AlertConfiguration = config
	copied := trigger
	return &copied, nil
}

func (s *Store) SaveTrigger(_ context.Context, trigger *models.AlertTrigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.triggers[trigger.ID]; !ok {
		return apperr.NotFound("alert trigger", trigger.ID)
	}
	trigger.UpdatedAt = time.Now()
	saved := *trigger
	saved.AlertConfiguration = models.AlertConfiguration{}
	s.triggers[trigger.ID] = saved
	return nil
}

func (s *Store) ListTriggers(_ context.Context, tenantID string, statuses []string, limit int) ([]models.AlertTrigger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		wanted[status] = true
	}

	var triggers []models.AlertTrigger
	for _, trigger := range s.triggers {
		config, ok := s.configs[trigger.AlertConfigurationID]
		if !ok || config.TenantID != tenantID {
			continue
		}
		if len(statuses) > 0 && !wanted[trigger.Status] {
			continue
		}
		trigger.AlertConfiguration = config
		triggers = append(triggers, trigger)
	}

	sort.Slice(triggers, func(i, j int) bool {
		return triggers[i].TriggerTime.After(triggers[j].TriggerTime)
	})
	if limit > 0 && len(triggers) > limit {
		triggers = triggers[:limit]
	}
	return triggers, nil
}

func (s *Store) CountTriggers(_ context.Context, tenantID, status string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, trigger := range s.triggers {
		config, ok := s.configs[trigger.AlertConfigurationID]
		if !ok || config.TenantID != tenantID {
			continue
		}
		if trigger.Status == status {
			count++
		}
	}
	return count, nil
}

// Incidents

func (s *Store) CreateIncident(_ context.Context, incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident.ID = s.nextKey()
	incident.CreatedAt = time.Now()
	incident.UpdatedAt = incident.CreatedAt
	s.incident[incident.ID] = *incident
	return nil
}

func (s *Store) GetIncident(_ context.Context, tenantID, incidentID string) (*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, incident := range s.incident {
		if incident.TenantID == tenantID && incident.IncidentID == incidentID {
			copied := incident
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("incident", incidentID)
}

func (s *Store) SaveIncident(_ context.Context, incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.incident[incident.ID]; !ok {
		return apperr.NotFound("incident", incident.IncidentID)
	}
	incident.UpdatedAt = time.Now()
	s.incident[incident.ID] = *incident
	return nil
}

func (s *Store) ListIncidents(_ context.Context, tenantID string, since time.Time) ([]models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var incidents []models.Incident
	for _, incident := range s.incident {
		if incident.TenantID != tenantID {
			continue
		}
		if !since.IsZero() && !incident.DetectedAt.After(since) {
			continue
		}
		incidents = append(incidents, incident)
	}

	sort.Slice(incidents, func(i, j int) bool {
		return incidents[i].DetectedAt.After(incidents[j].DetectedAt)
	})
	return incidents, nil
}

func (s *Store) ListIncidentsByStatus(_ context.Context, tenantID string, statuses []string, limit int) ([]models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		wanted[status] = true
	}

	var incidents []models.Incident
	for _, incident := range s.incident {
		if incident.TenantID != tenantID || !wanted[incident.Status] {
			continue
		}
		incidents = append(incidents, incident)
	}

	sort.Slice(incidents, func(i, j int) bool {
		return incidents[i].DetectedAt.After(incidents[j].DetectedAt)
	})
	if limit > 0 && len(incidents) > limit {
		incidents = incidents[:limit]
	}
	return incidents, nil
}
