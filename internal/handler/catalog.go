package handler

import (
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/deppfellow/mealplanner/internal/service"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the fixed weekday and meal moment lists.
type CatalogHandler struct {
	Handler
	catalogService *service.CatalogService
}

func NewCatalogHandler(s *server.Server, catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		Handler:        NewHandler(s),
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListDays(c echo.Context, _ *EmptyRequest) ([]model.WeekDay, error) {
	return h.catalogService.ListDays(c.Request().Context())
}

func (h *CatalogHandler) ListMoments(c echo.Context, _ *EmptyRequest) ([]model.MealMoment, error) {
	return h.catalogService.ListMoments(c.Request().Context())
}
