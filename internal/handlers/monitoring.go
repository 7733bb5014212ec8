package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/registry"
)

type CreateMonitorRequest struct {
	Name          string          `json:"name" binding:"required"`
	Type          string          `json:"type" binding:"required"` // "http", "dns", "database"
	Target        string          `json:"target" binding:"required"`
	CheckInterval int             `json:"check_interval"` // seconds
	Timeout       int             `json:"timeout"`        // seconds
	IsActive      *bool           `json:"is_active"`
	SLATarget     float64         `json:"sla_target"`
	Config        json.RawMessage `json:"config"`
}

type RecordCheckRequest struct {
	MonitorID    uint   `json:"monitor_id" binding:"required"`
	Status       string `json:"status" binding:"required"` // "success" or "failure"
	ResponseTime *int   `json:"response_time"`             // milliseconds
	StatusCode   *int   `json:"status_code"`
	ErrorMessage string `json:"error_message"`
	Region       string `json:"region"`
}

type RecordErrorEventRequest struct {
	ServiceName   string `json:"service_name" binding:"required"`
	ErrorType     string `json:"error_type" binding:"required"`
	ErrorCode     string `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
	ErrorCount    int64  `json:"error_count"`
	TotalRequests int64  `json:"total_requests"`
	Severity      string `json:"severity"`
	AffectedUsers int64  `json:"affected_users"`
	Region        string `json:"region"`
	Environment   string `json:"environment"`
}

func (h *Handler) CreateMonitor(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	var req CreateMonitorRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	monitor, err := h.registry.CreateMonitor(ctx.Request.Context(), tenant.TenantID, registryMonitorInput(req))

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if monitor.IsActive && h.scheduler != nil {
		h.scheduler.AddMonitor(*monitor)
	}

	ctx.JSON(http.StatusCreated, monitor)
}

func (h *Handler) ListMonitors(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	monitors, err := h.registry.ListMonitors(ctx.Request.Context(), tenant.TenantID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"monitors": monitors})
}

func (h *Handler) GetMonitor(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(ctx.Param("monitor_id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid monitor ID"})
		return
	}

	monitor, err := h.registry.GetMonitor(ctx.Request.Context(), tenant.TenantID, uint(id))

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, monitor)
}

func (h *Handler) RecordCheck(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	var req RecordCheckRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	monitor, err := h.registry.RecordCheck(ctx.Request.Context(), tenant.TenantID, registryCheckInput(req))

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	BroadcastRefresh(tenant.TenantID)

	ctx.JSON(http.StatusCreated, gin.H{
		"monitor_id":     monitor.ID,
		"status":         monitor.Status,
		"uptime_percent": monitor.UptimePercent,
		"total_checks":   monitor.TotalChecks,
	})
}

func (h *Handler) RecordErrorEvent(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	var req RecordErrorEventRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.registry.RecordErrorEvent(ctx.Request.Context(), tenant.TenantID, registryErrorInput(req))

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

func (h *Handler) GetUptimeOverview(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	overview, err := h.registry.UptimeOverview(ctx.Request.Context(), tenant.TenantID, ctx.DefaultQuery("range", "24h"))

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, overview)
}

func registryMonitorInput(req CreateMonitorRequest) registry.MonitorInput {
	return registry.MonitorInput{
		Name:          req.Name,
		Type:          req.Type,
		Target:        req.Target,
		CheckInterval: req.CheckInterval,
		Timeout:       req.Timeout,
		IsActive:      req.IsActive,
		SLATarget:     req.SLATarget,
		Config:        req.Config,
	}
}

func registryCheckInput(req RecordCheckRequest) registry.CheckInput {
	return registry.CheckInput{
		MonitorID:    req.MonitorID,
		Status:       req.Status,
		ResponseTime: req.ResponseTime,
		StatusCode:   req.StatusCode,
		ErrorMessage: req.ErrorMessage,
		Region:       req.Region,
	}
}

func registryErrorInput(req RecordErrorEventRequest) registry.ErrorEventInput {
	return registry.ErrorEventInput{
		ServiceName:   req.ServiceName,
		ErrorType:     req.ErrorType,
		ErrorCode:     req.ErrorCode,
		ErrorMessage:  req.ErrorMessage,
		ErrorCount:    req.ErrorCount,
		TotalRequests: req.TotalRequests,
		Severity:      req.Severity,
		AffectedUsers: req.AffectedUsers,
		Region:        req.Region,
		Environment:   req.Environment,
	}
}

func (h *Handler) GetErrorOverview(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	overview, err := h.registry.ErrorOverview(ctx.Request.Context(), tenant.TenantID,
		ctx.DefaultQuery("range", "24h"), ctx.Query("severity"))

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, overview)
}
