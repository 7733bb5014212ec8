// Package alerting evaluates threshold rules against metric values and
// manages the alert trigger lifecycle. The engine never schedules its own
// evaluation passes and never auto-escalates; cadence belongs to the
// caller.
package alerting

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/store"
	"github.com/statuscore-dev/statuscore/internal/types"
)

type Engine struct {
	store  store.AlertStore
	logger *zap.Logger

	mu      sync.Mutex
	streaks map[uint]int // consecutive breached evaluations per configuration

	now func() time.Time
}

func NewEngine(alertStore store.AlertStore, logger *zap.Logger) *Engine {
	return &Engine{
		store:   alertStore,
		logger:  logger,
		streaks: make(map[uint]int),
		now:     time.Now,
	}
}

// Compare reports whether value breaches threshold under the configured
// comparison. Unknown comparisons never breach.
func Compare(value, threshold float64, comparison string) bool {
	switch comparison {
	case types.CompareGreaterThan:
		return value > threshold
	case types.CompareGreaterOrEqual:
		return value >= threshold
	case types.CompareLessThan:
		return value < threshold
	case types.CompareLessOrEqual:
		return value <= threshold
	case types.CompareEqual:
		return value == threshold
	default:
		return false
	}
}

func validComparison(comparison string) bool {
	switch comparison {
	case types.CompareGreaterThan, types.CompareGreaterOrEqual,
		types.CompareLessThan, types.CompareLessOrEqual, types.CompareEqual:
		return true
	}
	return false
}

type ConfigurationInput struct {
	AlertName        string
	AlertType        string
	MetricName       string
	Comparison       string
	Threshold        float64
	EvaluationWindow int
	Datapoints       int
	Severity         string
	Description      string
	IsActive         *bool
}

func (e *Engine) CreateConfiguration(ctx context.Context, tenantID string, input ConfigurationInput) (*models.AlertConfiguration, error) {
	if tenantID == "" {
		return nil, apperr.Validation("tenant_id", "required")
	}
	if input.AlertName == "" {
		return nil, apperr.Validation("alert_name", "required")
	}
	if input.MetricName == "" {
		return nil, apperr.Validation("metric_name", "required")
	}
	if input.Comparison != "" && !validComparison(input.Comparison) {
		return nil, apperr.Validation("comparison", "unknown comparison "+input.Comparison)
	}

	config := &models.AlertConfiguration{
		TenantID:         tenantID,
		AlertName:        input.AlertName,
		AlertType:        input.AlertType,
		MetricName:       input.MetricName,
		Comparison:       input.Comparison,
		Threshold:        input.Threshold,
		EvaluationWindow: input.EvaluationWindow,
		Datapoints:       input.Datapoints,
		Severity:         input.Severity,
		Description:      input.Description,
		IsActive:         true,
	}
	if config.Comparison == "" {
		config.Comparison = types.CompareGreaterThan
	}
	if config.EvaluationWindow <= 0 {
		config.EvaluationWindow = 300
	}
	if config.Datapoints <= 0 {
		config.Datapoints = 2
	}
	if config.Severity == "" {
		config.Severity = types.SeverityMedium
	}
	if input.IsActive != nil {
		config.IsActive = *input.IsActive
	}

	if err := e.store.CreateConfiguration(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

func (e *Engine) ListConfigurations(ctx context.Context, tenantID string) ([]models.AlertConfiguration, error) {
	return e.store.ListConfigurations(ctx, tenantID)
}

// Evaluate feeds one metric observation into a configuration's
// consecutive-datapoint window. A trigger fires only after the configured
// number of consecutive breached evaluations; a non-breaching observation
// resets the streak. The engine does not deduplicate against triggers
// that are still open; avoiding duplicate noise between evaluation cycles
// is the caller's responsibility.
func (e *Engine) Evaluate(ctx context.Context, tenantID string, configID uint, value float64) (*models.AlertTrigger, error) {
	config, err := e.store.GetConfiguration(ctx, tenantID, configID)
	if err != nil {
		return nil, err
	}
	if !config.IsActive {
		return nil, nil
	}

	e.mu.Lock()
	if Compare(value, config.Threshold, config.Comparison) {
		e.streaks[config.ID]++
	} else {
		e.streaks[config.ID] = 0
	}
	fire := e.streaks[config.ID] >= config.Datapoints
	if fire {
		e.streaks[config.ID] = 0
	}
	e.mu.Unlock()

	if !fire {
		return nil, nil
	}
	return e.Trigger(ctx, tenantID, configID, value, 0)
}

// Trigger records one firing of a configuration and bumps its trigger
// statistics.
func (e *Engine) Trigger(ctx context.Context, tenantID string, configID uint, value float64, escalationLevel int) (*models.AlertTrigger, error) {
	if configID == 0 {
		return nil, apperr.Validation("alert_configuration_id", "required")
	}

	config, err := e.store.GetConfiguration(ctx, tenantID, configID)
	if err != nil {
		return nil, err
	}

	now := e.now()

	trigger := &models.AlertTrigger{
		AlertConfigurationID: config.ID,
		TriggerValue:         value,
		Status:               types.AlertTriggered,
		TriggerTime:          now,
		EscalationLevel:      escalationLevel,
	}
	if err := e.store.CreateTrigger(ctx, trigger); err != nil {
		return nil, err
	}

	config.TriggerCount++
	config.LastTriggered = &now
	if err := e.store.SaveConfiguration(ctx, config); err != nil {
		return nil, err
	}

	e.logger.Info("alert triggered",
		zap.String("alert", config.AlertName),
		zap.String("severity", config.Severity),
		zap.Float64("value", value),
		zap.Float64("threshold", config.Threshold))

	return trigger, nil
}

// Acknowledge moves a trigger from triggered to acknowledged.
func (e *Engine) Acknowledge(ctx context.Context, tenantID string, triggerID uint, actor string) (*models.AlertTrigger, error) {
	if actor == "" {
		return nil, apperr.Validation("acknowledged_by", "required")
	}

	trigger, err := e.store.GetTrigger(ctx, tenantID, triggerID)
	if err != nil {
		return nil, err
	}
	if trigger.Status != types.AlertTriggered {
		return nil, apperr.InvalidTransition("alert trigger", trigger.Status, types.AlertAcknowledged)
	}

	now := e.now()
	trigger.Status = types.AlertAcknowledged
	trigger.AcknowledgedBy = actor
	trigger.AcknowledgedAt = &now

	if err := e.store.SaveTrigger(ctx, trigger); err != nil {
		return nil, err
	}
	return trigger, nil
}

// Resolve closes a trigger from either triggered or acknowledged.
// Resolving directly from triggered, skipping acknowledgement, is
// permitted.
func (e *Engine) Resolve(ctx context.Context, tenantID string, triggerID uint, actor, resolution string) (*models.AlertTrigger, error) {
	trigger, err := e.store.GetTrigger(ctx, tenantID, triggerID)
	if err != nil {
		return nil, err
	}
	if trigger.Status != types.AlertTriggered && trigger.Status != types.AlertAcknowledged {
		return nil, apperr.InvalidTransition("alert trigger", trigger.Status, types.AlertResolved)
	}

	now := e.now()
	trigger.Status = types.AlertResolved
	trigger.ResolvedBy = actor
	trigger.ResolvedAt = &now
	trigger.Resolution = resolution

	if err := e.store.SaveTrigger(ctx, trigger); err != nil {
		return nil, err
	}
	return trigger, nil
}

// Escalate stores an escalation level supplied by the external scheduler.
// Resolved triggers cannot escalate.
func (e *Engine) Escalate(ctx context.Context, tenantID string, triggerID uint, level int) (*models.AlertTrigger, error) {
	trigger, err := e.store.GetTrigger(ctx, tenantID, triggerID)
	if err != nil {
		return nil, err
	}
	if trigger.Status == types.AlertResolved {
		return nil, apperr.InvalidTransition("alert trigger", trigger.Status, trigger.Status)
	}

	trigger.EscalationLevel = level
	if err := e.store.SaveTrigger(ctx, trigger); err != nil {
		return nil, err
	}
	return trigger, nil
}
