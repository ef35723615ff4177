package router

import (
	"github.com/deppfellow/mealplanner/internal/handler"
	"github.com/deppfellow/mealplanner/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes mounts endpoints outside /api/v1. They never require
// authentication.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", m.Metrics.Handler())
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
	r.GET("/docs/openapi.json", h.OpenAPI.ServeOpenAPISpec)
}
