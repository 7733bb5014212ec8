package alerting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/store/memstore"
	"github.com/statuscore-dev/statuscore/internal/types"
)

const testTenant = "tenant-a"

func setupEngineTest(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(memstore.New(), zap.NewNop())
}

func TestCompare(t *testing.T) {
	assert.True(t, Compare(5, 3, types.CompareGreaterThan))
	assert.False(t, Compare(3, 3, types.CompareGreaterThan))
	assert.True(t, Compare(3, 3, types.CompareGreaterOrEqual))
	assert.True(t, Compare(2, 3, types.CompareLessThan))
	assert.False(t, Compare(3, 3, types.CompareLessThan))
	assert.True(t, Compare(3, 3, types.CompareLessOrEqual))
	assert.True(t, Compare(3, 3, types.CompareEqual))
	assert.False(t, Compare(3, 4, types.CompareEqual))
	assert.False(t, Compare(100, 0, "sideways"))
}

func TestCreateConfigurationDefaults(t *testing.T) {
	engine := setupEngineTest(t)

	config, err := engine.CreateConfiguration(context.Background(), testTenant, ConfigurationInput{
		AlertName:  "High error rate",
		AlertType:  "metric",
		MetricName: "error_rate",
		Threshold:  5,
	})
	require.NoError(t, err)

	assert.Equal(t, types.CompareGreaterThan, config.Comparison)
	assert.Equal(t, 300, config.EvaluationWindow)
	assert.Equal(t, 2, config.Datapoints)
	assert.Equal(t, types.SeverityMedium, config.Severity)
	assert.True(t, config.IsActive)
	assert.Zero(t, config.TriggerCount)
}

func TestEvaluateFiresAfterConsecutiveDatapoints(t *testing.T) {
	engine := setupEngineTest(t)

	config, err := engine.CreateConfiguration(context.Background(), testTenant, ConfigurationInput{
		AlertName:  "High error rate",
		AlertType:  "metric",
		MetricName: "error_rate",
		Threshold:  5,
		Datapoints: 3,
	})
	require.NoError(t, err)

	// Two breaches: no trigger yet.
	for i := 0; i < 2; i++ {
		trigger, err := engine.Evaluate(context.Background(), testTenant, config.ID, 9)
		require.NoError(t, err)
		assert.Nil(t, trigger)
	}

	// Third consecutive breach fires.
	trigger, err := engine.Evaluate(context.Background(), testTenant, config.ID, 9)
	require.NoError(t, err)
	require.NotNil(t, trigger)
	assert.Equal(t, types.AlertTriggered, trigger.Status)
	assert.Equal(t, 9.0, trigger.TriggerValue)

	updated, err := engine.store.GetConfiguration(context.Background(), testTenant, config.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.TriggerCount)
	assert.NotNil(t, updated.LastTriggered)
}

func TestEvaluateResetsStreakOnRecovery(t *testing.T) {
	engine := setupEngineTest(t)

	config, err := engine.CreateConfiguration(context.Background(), testTenant, ConfigurationInput{
		AlertName:  "High latency",
		AlertType:  "metric",
		MetricName: "response_time",
		Threshold:  500,
		Datapoints: 2,
	})
	require.NoError(t, err)

	trigger, err := engine.Evaluate(context.Background(), testTenant, config.ID, 900)
	require.NoError(t, err)
	assert.Nil(t, trigger)

	// Recovery resets the streak.
	trigger, err = engine.Evaluate(context.Background(), testTenant, config.ID, 100)
	require.NoError(t, err)
	assert.Nil(t, trigger)

	// One more breach is not enough again.
	trigger, err = engine.Evaluate(context.Background(), testTenant, config.ID, 900)
	require.NoError(t, err)
	assert.Nil(t, trigger)

	trigger, err = engine.Evaluate(context.Background(), testTenant, config.ID, 900)
	require.NoError(t, err)
	assert.NotNil(t, trigger)
}

func TestEvaluateInactiveConfiguration(t *testing.T) {
	engine := setupEngineTest(t)

	inactive := false
	config, err := engine.CreateConfiguration(context.Background(), testTenant, ConfigurationInput{
		AlertName:  "Disabled",
		AlertType:  "metric",
		MetricName: "error_rate",
		Threshold:  1,
		Datapoints: 1,
		IsActive:   &inactive,
	})
	require.NoError(t, err)

	trigger, err := engine.Evaluate(context.Background(), testTenant, config.ID, 100)
	require.NoError(t, err)
	assert.Nil(t, trigger)
}

func TestAlertLifecycle(t *testing.T) {
	engine := setupEngineTest(t)

	config, err := engine.CreateConfiguration(context.Background(), testTenant, ConfigurationInput{
		AlertName:  "High error rate",
		AlertType:  "metric",
		MetricName: "error_rate",
		Threshold:  5,
	})
	require.NoError(t, err)

	trigger, err := engine.Trigger(context.Background(), testTenant, config.ID, 8.5, 0)
	require.NoError(t, err)

	acked, err := engine.Acknowledge(context.Background(), testTenant, trigger.ID, "oncall@example.com")
	require.NoError(t, err)
	assert.Equal(t, types.AlertAcknowledged, acked.Status)
	assert.Equal(t, "oncall@example.com", acked.AcknowledgedBy)
	assert.NotNil(t, acked.AcknowledgedAt)

	resolved, err := engine.Resolve(context.Background(), testTenant, trigger.ID, "oncall@example.com", "restarted worker pool")
	require.NoError(t, err)
	assert.Equal(t, types.AlertResolved, resolved.Status)
	assert.Equal(t, "restarted worker pool", resolved.Resolution)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestResolveDirectlyFromTriggered(t *testing.T) {
	engine := setupEngineTest(t)

	config, err := engine.CreateConfiguration(context.Background(), testTenant, ConfigurationInput{
		AlertName: "x", AlertType: "metric", MetricName: "error_rate", Threshold: 1,
	})
	require.NoError(t, err)

	trigger, err := engine.Trigger(context.Background(), testTenant, config.ID, 2, 0)
	require.NoError(t, err)

	resolved, err := engine.Resolve(context.Background(), testTenant, trigger.ID, "bot", "")
	require.NoError(t, err)
	assert.Equal(t, types.AlertResolved, resolved.Status)
}

func TestInvalidTransitions(t *testing.T) {
	engine := setupEngineTest(t)

	config, err := engine.CreateConfiguration(context.Background(), testTenant, ConfigurationInput{
		AlertName: "x", AlertType: "metric", MetricName: "error_rate", Threshold: 1,
	})
	require.NoError(t, err)

	trigger, err := engine.Trigger(context.Background(), testTenant, config.ID, 2, 0)
	require.NoError(t, err)

	_, err = engine.Resolve(context.Background(), testTenant, trigger.ID, "bot", "")
	require.NoError(t, err)

	// Resolved is terminal.
	_, err = engine.Resolve(context.Background(), testTenant, trigger.ID, "bot", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = engine.Acknowledge(context.Background(), testTenant, trigger.ID, "bot")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = engine.Escalate(context.Background(), testTenant, trigger.ID, 2)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestAcknowledgeRequiresActor(t *testing.T) {
	engine := setupEngineTest(t)

	_, err := engine.Acknowledge(context.Background(), testTenant, 1, "")
	assert.True(t, apperr.IsValidation(err))
}

func TestEscalate(t *testing.T) {
	engine := setupEngineTest(t)

	config, err := engine.CreateConfiguration(context.Background(), testTenant, ConfigurationInput{
		AlertName: "x", AlertType: "metric", MetricName: "error_rate", Threshold: 1,
	})
	require.NoError(t, err)

	trigger, err := engine.Trigger(context.Background(), testTenant, config.ID, 2, 0)
	require.NoError(t, err)

	escalated, err := engine.Escalate(context.Background(), testTenant, trigger.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, escalated.EscalationLevel)
}

func TestTriggerUnknownConfiguration(t *testing.T) {
	engine := setupEngineTest(t)

	_, err := engine.Trigger(context.Background(), testTenant, 77, 1, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTriggerTenantIsolation(t *testing.T) {
	engine := setupEngineTest(t)

	config, err := engine.CreateConfiguration(context.Background(), testTenant, ConfigurationInput{
		AlertName: "x", AlertType: "metric", MetricName: "error_rate", Threshold: 1,
	})
	require.NoError(t, err)

	_, err = engine.Trigger(context.Background(), "tenant-b", config.ID, 2, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestOverview(t *testing.T) {
	engine := setupEngineTest(t)

	config, err := engine.CreateConfiguration(context.Background(), testTenant, ConfigurationInput{
		AlertName:  "High error rate",
		AlertType:  "metric",
		MetricName: "error_rate",
		Threshold:  5,
		Severity:   types.SeverityCritical,
	})
	require.NoError(t, err)

	first, err := engine.Trigger(context.Background(), testTenant, config.ID, 8, 0)
	require.NoError(t, err)
	_, err = engine.Trigger(context.Background(), testTenant, config.ID, 9, 0)
	require.NoError(t, err)

	_, err = engine.Resolve(context.Background(), testTenant, first.ID, "bot", "fixed")
	require.NoError(t, err)

	overview, err := engine.Overview(context.Background(), testTenant)
	require.NoError(t, err)

	assert.Equal(t, 1, overview.Overview.TotalAlerts)
	assert.Equal(t, 1, overview.Overview.ActiveAlerts)
	assert.Equal(t, 1, overview.Overview.TriggeredAlerts)
	assert.Equal(t, int64(1), overview.Overview.ResolvedAlerts)
	assert.Equal(t, 1, overview.Overview.CriticalAlerts)
	require.Len(t, overview.ActiveAlerts, 1)
	assert.Equal(t, "High error rate", overview.ActiveAlerts[0].AlertName)

	count, err := engine.CountActive(context.Background(), testTenant)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
