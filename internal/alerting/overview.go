package alerting

import (
	"context"
	"time"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/types"
)

type AlertSummary struct {
	TotalAlerts        int   `json:"total_alerts"`
	ActiveAlerts       int   `json:"active_alerts"`
	TriggeredAlerts    int   `json:"triggered_alerts"`
	AcknowledgedAlerts int   `json:"acknowledged_alerts"`
	ResolvedAlerts     int64 `json:"resolved_alerts"`
	CriticalAlerts     int   `json:"critical_alerts"`
}

type ConfigurationView struct {
	ID            uint       `json:"id"`
	AlertName     string     `json:"alert_name"`
	AlertType     string     `json:"alert_type"`
	MetricName    string     `json:"metric_name"`
	Comparison    string     `json:"comparison"`
	Threshold     float64    `json:"threshold"`
	Severity      string     `json:"severity"`
	IsActive      bool       `json:"is_active"`
	TriggerCount  int64      `json:"trigger_count"`
	LastTriggered *time.Time `json:"last_triggered"`
}

type TriggerView struct {
	ID              uint       `json:"id"`
	AlertName       string     `json:"alert_name"`
	Severity        string     `json:"severity"`
	TriggerValue    float64    `json:"trigger_value"`
	Threshold       float64    `json:"threshold"`
	Status          string     `json:"status"`
	TriggerTime     time.Time  `json:"trigger_time"`
	EscalationLevel int        `json:"escalation_level"`
	AcknowledgedBy  string     `json:"acknowledged_by"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at"`
	ResolvedAt      *time.Time `json:"resolved_at"`
}

type AlertOverview struct {
	Overview       AlertSummary        `json:"overview"`
	Configurations []ConfigurationView `json:"alert_configurations"`
	ActiveAlerts   []TriggerView       `json:"active_alerts"`
	RecentTriggers []TriggerView       `json:"recent_triggers"`
}

// Overview assembles the alert management view: configurations, open
// triggers and a short firing history.
func (e *Engine) Overview(ctx context.Context, tenantID string) (*AlertOverview, error) {
	configs, err := e.store.ListConfigurations(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	active, err := e.store.ListTriggers(ctx, tenantID, []string{types.AlertTriggered, types.AlertAcknowledged}, 0)
	if err != nil {
		return nil, err
	}

	recent, err := e.store.ListTriggers(ctx, tenantID, nil, 50)
	if err != nil {
		return nil, err
	}

	resolvedCount, err := e.store.CountTriggers(ctx, tenantID, types.AlertResolved)
	if err != nil {
		return nil, err
	}

	summary := AlertSummary{
		TotalAlerts:    len(configs),
		ResolvedAlerts: resolvedCount,
	}
	for _, config := range configs {
		if config.IsActive {
			summary.ActiveAlerts++
		}
	}
	for _, trigger := range active {
		switch trigger.Status {
		case types.AlertTriggered:
			summary.TriggeredAlerts++
		case types.AlertAcknowledged:
			summary.AcknowledgedAlerts++
		}
		if trigger.AlertConfiguration.Severity == types.SeverityCritical {
			summary.CriticalAlerts++
		}
	}

	configViews := make([]ConfigurationView, 0, len(configs))
	for _, config := range configs {
		configViews = append(configViews, ConfigurationView{
			ID:            config.ID,
			AlertName:     config.AlertName,
			AlertType:     config.AlertType,
			MetricName:    config.MetricName,
			Comparison:    config.Comparison,
			Threshold:     config.Threshold,
			Severity:      config.Severity,
			IsActive:      config.IsActive,
			TriggerCount:  config.TriggerCount,
			LastTriggered: config.LastTriggered,
		})
	}

	if len(recent) > 20 {
		recent = recent[:20]
	}

	return &AlertOverview{
		Overview:       summary,
		Configurations: configViews,
		ActiveAlerts:   triggerViews(active),
		RecentTriggers: triggerViews(recent),
	}, nil
}

// CountActive reports triggers that are still open (triggered or
// acknowledged) for the tenant.
func (e *Engine) CountActive(ctx context.Context, tenantID string) (int, error) {
	triggered, err := e.store.CountTriggers(ctx, tenantID, types.AlertTriggered)
	if err != nil {
		return 0, err
	}
	acknowledged, err := e.store.CountTriggers(ctx, tenantID, types.AlertAcknowledged)
	if err != nil {
		return 0, err
	}
	return int(triggered + acknowledged), nil
}

func triggerViews(triggers []models.AlertTrigger) []TriggerView {
	views := make([]TriggerView, 0, len(triggers))
	for _, trigger := range triggers {
		views = append(views, TriggerView{
			ID:              trigger.ID,
			AlertName:       trigger.AlertConfiguration.AlertName,
			Severity:        trigger.AlertConfiguration.Severity,
			TriggerValue:    trigger.TriggerValue,
			Threshold:       trigger.AlertConfiguration.Threshold,
			Status:          trigger.Status,
			TriggerTime:     trigger.TriggerTime,
			EscalationLevel: trigger.EscalationLevel,
			AcknowledgedBy:  trigger.AcknowledgedBy,
			AcknowledgedAt:  trigger.AcknowledgedAt,
			ResolvedAt:      trigger.ResolvedAt,
		})
	}
	return views
}
