package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/clinic-scheduler/internal/bootstrap"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, app *bootstrap.App) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(app.Config.CORSAllowedOrigins))

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(app.DB)
	toolHandler := handlers.NewToolHandler(app.Tools, app.Log.WithField("component", "http"))
	auditLogsHandler := handlers.NewAuditLogsHandler(app.DB, app.Policy.Location)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	if app.Config.JWTSecret != "" {
		api.Use(middleware.AuthMiddleware(app.Config.JWTSecret))
	} else {
		app.Log.Warn("JWT_SECRET not set: /api is unauthenticated")
	}
	{
		api.GET("/tools", toolHandler.List)
		api.POST("/tools/:name", toolHandler.Call)

		api.GET("/audit-logs", auditLogsHandler.List)
	}
}
