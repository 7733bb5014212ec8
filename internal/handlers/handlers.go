// Package handlers exposes the monitoring core over HTTP. Every route
// is tenant-scoped through the auth middleware; services are injected
// rather than reached through globals.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/statuscore-dev/statuscore/internal/alerting"
	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/incidents"
	"github.com/statuscore-dev/statuscore/internal/middleware"
	"github.com/statuscore-dev/statuscore/internal/registry"
	"github.com/statuscore-dev/statuscore/internal/scheduler"
	"github.com/statuscore-dev/statuscore/internal/sla"
	"github.com/statuscore-dev/statuscore/internal/status"
)

type Handler struct {
	registry   *registry.Service
	alerts     *alerting.Engine
	incidents  *incidents.Tracker
	aggregator *status.Aggregator
	sla        *sla.Reporter
	scheduler  *scheduler.Scheduler
	logger     *zap.Logger
}

func New(reg *registry.Service, alerts *alerting.Engine, tracker *incidents.Tracker,
	aggregator *status.Aggregator, reporter *sla.Reporter, sched *scheduler.Scheduler,
	logger *zap.Logger) *Handler {
	return &Handler{
		registry:   reg,
		alerts:     alerts,
		incidents:  tracker,
		aggregator: aggregator,
		sla:        reporter,
		scheduler:  sched,
		logger:     logger,
	}
}

// tenant resolves the authenticated tenant or aborts with 401.
func (h *Handler) tenant(ctx *gin.Context) (middleware.TenantContext, bool) {
	tenant, err := middleware.CurrentTenant(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return middleware.TenantContext{}, false
	}

	return tenant, true
}

// respondError maps the core's error taxonomy onto HTTP statuses.
func (h *Handler) respondError(ctx *gin.Context, err error) {
	var validationErr *apperr.ValidationError

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		h.logger.Error("unhandled error", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
