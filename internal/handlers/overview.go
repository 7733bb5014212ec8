package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck is the unauthenticated liveness endpoint.
func (h *Handler) HealthCheck(ctx *gin.Context) {
	response := gin.H{
		"status":    "ok",
		"message":   "Statuscore is running",
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if h.scheduler != nil {
		response["scheduler"] = h.scheduler.Status()
	}

	ctx.JSON(http.StatusOK, response)
}

// GetHealthSnapshot runs the component probes and grades the result.
func (h *Handler) GetHealthSnapshot(ctx *gin.Context) {
	if _, ok := h.tenant(ctx); !ok {
		return
	}

	ctx.JSON(http.StatusOK, h.aggregator.HealthSnapshot(ctx.Request.Context()))
}

func (h *Handler) GetSystemStatus(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	systemStatus, err := h.aggregator.SystemStatus(ctx.Request.Context(), tenant.TenantID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, systemStatus)
}

func (h *Handler) GetSLAReport(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	report, err := h.sla.Report(ctx.Request.Context(), tenant.TenantID, ctx.DefaultQuery("range", "24h"))

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// GetOverview composes the uptime, error, alert, incident and health
// views into the single platform dashboard payload.
func (h *Handler) GetOverview(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	overview, err := h.aggregator.Overview(ctx.Request.Context(), tenant.TenantID, ctx.DefaultQuery("range", "24h"))

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, overview)
}
