package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/incidents"
)

type CreateIncidentRequest struct {
	IncidentID       string   `json:"incident_id"` // generated when empty
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	Severity         string   `json:"severity" binding:"required"`
	Category         string   `json:"category"`
	Priority         string   `json:"priority"`
	AssignedTo       string   `json:"assigned_to"`
	ReportedBy       string   `json:"reported_by"`
	AffectedServices []string `json:"affected_services"`
	AffectedUsers    int64    `json:"affected_users"`
	EstimatedImpact  float64  `json:"estimated_impact"`
}

type UpdateIncidentRequest struct {
	Status          string          `json:"status"`
	AssignedTo      string          `json:"assigned_to"`
	RootCause       string          `json:"root_cause"`
	Resolution      string          `json:"resolution"`
	Timeline        json.RawMessage `json:"timeline"`
	AffectedUsers   *int64          `json:"affected_users"`
	EstimatedImpact *float64        `json:"estimated_impact"`
}

func (h *Handler) CreateIncident(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	var req CreateIncidentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.incidents.Create(ctx.Request.Context(), tenant.TenantID, incidents.CreateInput{
		IncidentID:       req.IncidentID,
		Title:            req.Title,
		Description:      req.Description,
		Severity:         req.Severity,
		Category:         req.Category,
		Priority:         req.Priority,
		AssignedTo:       req.AssignedTo,
		ReportedBy:       req.ReportedBy,
		AffectedServices: req.AffectedServices,
		AffectedUsers:    req.AffectedUsers,
		EstimatedImpact:  req.EstimatedImpact,
	})

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	BroadcastRefresh(tenant.TenantID)
	ctx.JSON(http.StatusCreated, incident)
}

func (h *Handler) UpdateIncident(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	incidentID := ctx.Param("incident_id")

	if incidentID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Incident ID is required"})
		return
	}

	var req UpdateIncidentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.incidents.Update(ctx.Request.Context(), tenant.TenantID, incidentID, incidents.UpdateInput{
		Status:          req.Status,
		AssignedTo:      req.AssignedTo,
		RootCause:       req.RootCause,
		Resolution:      req.Resolution,
		Timeline:        req.Timeline,
		AffectedUsers:   req.AffectedUsers,
		EstimatedImpact: req.EstimatedImpact,
	})

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	BroadcastRefresh(tenant.TenantID)
	ctx.JSON(http.StatusOK, incident)
}

func (h *Handler) GetIncident(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	incidentID := ctx.Param("incident_id")

	if incidentID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Incident ID is required"})
		return
	}

	incident, err := h.incidents.Get(ctx.Request.Context(), tenant.TenantID, incidentID)

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, incident)
}

func (h *Handler) GetIncidentOverview(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	overview, err := h.incidents.Overview(ctx.Request.Context(), tenant.TenantID, ctx.DefaultQuery("range", "24h"))

	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, overview)
}
