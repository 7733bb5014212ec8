package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/handlers"
	"github.com/statuscore-dev/statuscore/internal/middleware"
	"github.com/statuscore-dev/statuscore/internal/types"
)

func New(h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), h.WebSocket)

		monitoring := api.Group("/monitoring", middleware.AuthMiddleware())
		{
			monitoring.POST("/monitors", h.CreateMonitor)
			monitoring.GET("/monitors", h.ListMonitors)
			monitoring.GET("/monitors/:monitor_id", h.GetMonitor)
			monitoring.POST("/checks", h.RecordCheck)
			monitoring.POST("/errors", h.RecordErrorEvent)

			monitoring.GET("/uptime", h.GetUptimeOverview)
			monitoring.GET("/errors", h.GetErrorOverview)
			monitoring.GET("/sla", h.GetSLAReport)
			monitoring.GET("/system-health", h.GetHealthSnapshot)
			monitoring.GET("/system-status", h.GetSystemStatus)
			monitoring.GET("/overview", h.GetOverview)

			alerts := monitoring.Group("/alerts")
			{
				alerts.POST("/configurations", h.CreateAlertConfiguration)
				alerts.GET("/configurations", h.ListAlertConfigurations)
				alerts.POST("/configurations/:config_id/evaluate", h.EvaluateAlert)
				alerts.POST("/configurations/:config_id/trigger", h.TriggerAlert)
				alerts.POST("/triggers/:trigger_id/acknowledge", h.AcknowledgeAlert)
				alerts.POST("/triggers/:trigger_id/resolve", h.ResolveAlert)
				alerts.POST("/triggers/:trigger_id/escalate", h.EscalateAlert)
				alerts.GET("/overview", h.GetAlertOverview)
			}

			incidents := monitoring.Group("/incidents")
			{
				incidents.POST("", h.CreateIncident)
				incidents.GET("/overview", h.GetIncidentOverview)
				incidents.GET("/:incident_id", h.GetIncident)
				incidents.PATCH("/:incident_id", h.UpdateIncident)
			}
		}
	}

	return r
}
