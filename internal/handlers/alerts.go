package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/alerting"
)

type CreateAlertConfigRequest struct {
	AlertName        string  `json:"alert_name" binding:"required"`
	AlertType        string  `json:"alert_type" binding:"required"`
	MetricName       string  `json:"metric_name" binding:"required"`
	Comparison       string  `json:"comparison"`
	Threshold        float64 `json:"threshold"`
	EvaluationWindow int     `json:"evaluation_window"` // seconds
	Datapoints       int     `json:"datapoints"`
	Severity         string  `json:"severity"`
	Description      string  `json:"description"`
	IsActive         *bool   `json:"is_active"`
}

type EvaluateAlertRequest struct {
	Value float64 `json:"value"`
}

type TriggerAlertRequest struct {
	Value           float64 `json:"value"`
	EscalationLevel int     `json:"escalation_level"`
}

type AcknowledgeAlertRequest struct {
	AcknowledgedBy string `json:"acknowledged_by" binding:"required"`
}

type ResolveAlertRequest struct {
	ResolvedBy string `json:"resolved_by" binding:"required"`
	Resolution string `json:"resolution"`
}

type EscalateAlertRequest struct {
	Level int `json:"level" binding:"required"`
}

func (h *Handler) CreateAlertConfiguration(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	var req CreateAlertConfigRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := h.alerts.CreateConfiguration(ctx.Request.Context(), tenant.TenantID, alerting.ConfigurationInput{
		AlertName:        req.AlertName,
		AlertType:        req.AlertType,
		MetricName:       req.MetricName,
		Comparison:       req.Comparison,
		Threshold:        req.Threshold,
		EvaluationWindow: req.EvaluationWindow,
		Datapoints:       req.Datapoints,
		Severity:         req.Severity,
		Description:      req.Description,
		IsActive:         req.IsActive,
	})

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, config)
}

func (h *Handler) ListAlertConfigurations(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	configs, err := h.alerts.ListConfigurations(ctx.Request.Context(), tenant.TenantID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"configurations": configs})
}

// EvaluateAlert feeds one metric observation into a configuration's
// evaluation window. A trigger is returned only when the consecutive
// datapoint threshold is crossed.
func (h *Handler) EvaluateAlert(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	configID, ok := h.alertConfigID(ctx)
	if !ok {
		return
	}

	var req EvaluateAlertRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trigger, err := h.alerts.Evaluate(ctx.Request.Context(), tenant.TenantID, configID, req.Value)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if trigger == nil {
		ctx.JSON(http.StatusOK, gin.H{"triggered": false})
		return
	}

	BroadcastRefresh(tenant.TenantID)
	ctx.JSON(http.StatusCreated, gin.H{"triggered": true, "trigger": trigger})
}

// TriggerAlert fires a configuration immediately, bypassing the
// evaluation window.
func (h *Handler) TriggerAlert(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	configID, ok := h.alertConfigID(ctx)
	if !ok {
		return
	}

	var req TriggerAlertRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trigger, err := h.alerts.Trigger(ctx.Request.Context(), tenant.TenantID, configID, req.Value, req.EscalationLevel)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	BroadcastRefresh(tenant.TenantID)
	ctx.JSON(http.StatusCreated, trigger)
}

func (h *Handler) AcknowledgeAlert(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	triggerID, ok := h.alertTriggerID(ctx)
	if !ok {
		return
	}

	var req AcknowledgeAlertRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trigger, err := h.alerts.Acknowledge(ctx.Request.Context(), tenant.TenantID, triggerID, req.AcknowledgedBy)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, trigger)
}

func (h *Handler) ResolveAlert(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	triggerID, ok := h.alertTriggerID(ctx)
	if !ok {
		return
	}

	var req ResolveAlertRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trigger, err := h.alerts.Resolve(ctx.Request.Context(), tenant.TenantID, triggerID, req.ResolvedBy, req.Resolution)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	BroadcastRefresh(tenant.TenantID)
	ctx.JSON(http.StatusOK, trigger)
}

func (h *Handler) EscalateAlert(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	triggerID, ok := h.alertTriggerID(ctx)
	if !ok {
		return
	}

	var req EscalateAlertRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trigger, err := h.alerts.Escalate(ctx.Request.Context(), tenant.TenantID, triggerID, req.Level)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, trigger)
}

func (h *Handler) GetAlertOverview(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	overview, err := h.alerts.Overview(ctx.Request.Context(), tenant.TenantID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, overview)
}

func (h *Handler) alertConfigID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("config_id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert configuration ID"})
		return 0, false
	}

	return uint(id), true
}

func (h *Handler) alertTriggerID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("trigger_id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert trigger ID"})
		return 0, false
	}

	return uint(id), true
}
