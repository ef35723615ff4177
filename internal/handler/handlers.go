package handler

import (
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/deppfellow/mealplanner/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Catalog    *CatalogHandler
	Plan       *PlanHandler
	User       *UserHandler
	Food       *FoodHandler
	Ingredient *IngredientHandler
	ExtraFood  *ExtraFoodHandler
	Water      *WaterHandler
}

// NewHandlers builds every handler from the shared server and services.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Catalog:    NewCatalogHandler(s, services.Catalog),
		Plan:       NewPlanHandler(s, services.Plan),
		User:       NewUserHandler(s, services.User),
		Food:       NewFoodHandler(s, services.Food),
		Ingredient: NewIngredientHandler(s, services.Ingredient),
		ExtraFood:  NewExtraFoodHandler(s, services.ExtraFood),
		Water:      NewWaterHandler(s, services.Water),
	}
}
