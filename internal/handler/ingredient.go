package handler

import (
	"strings"

	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/deppfellow/mealplanner/internal/service"
	"github.com/deppfellow/mealplanner/internal/validation"
	"github.com/labstack/echo/v4"
)

// IngredientHandler serves the ingredient catalog.
type IngredientHandler struct {
	Handler
	ingredientService *service.IngredientService
}

func NewIngredientHandler(s *server.Server, ingredientService *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{
		Handler:           NewHandler(s),
		ingredientService: ingredientService,
	}
}

// CreateIngredientRequest values are per 100 g for gram ingredients and
// per unit otherwise.
type CreateIngredientRequest struct {
	Name                string  `json:"name" validate:"required,max=255"`
	MeasureType         string  `json:"measure_type" validate:"required,oneof=gram unit"`
	Calories            float64 `json:"calories" validate:"gte=0"`
	Protein             float64 `json:"protein" validate:"gte=0"`
	Carbs               float64 `json:"carbs" validate:"gte=0"`
	Fiber               float64 `json:"fiber" validate:"gte=0"`
	SaturatedFats       float64 `json:"saturated_fats" validate:"gte=0"`
	MonounsaturatedFats float64 `json:"monounsaturated_fats" validate:"gte=0"`
	PolyunsaturatedFats float64 `json:"polyunsaturated_fats" validate:"gte=0"`
	TransFats           float64 `json:"trans_fats" validate:"gte=0"`
	Cholesterol         float64 `json:"cholesterol" validate:"gte=0"`
}

func (r *CreateIngredientRequest) Validate() error {
	return validation.Struct(r)
}

func (h *IngredientHandler) ListIngredients(c echo.Context, _ *EmptyRequest) ([]model.Ingredient, error) {
	return h.ingredientService.ListIngredients(c.Request().Context())
}

func (h *IngredientHandler) GetIngredient(c echo.Context, req *IDRequest) (*model.Ingredient, error) {
	return h.ingredientService.GetIngredient(c.Request().Context(), req.ID)
}

// CreateIngredient fails with 409 when the name is taken.
func (h *IngredientHandler) CreateIngredient(c echo.Context, req *CreateIngredientRequest) (*model.Ingredient, error) {
	return h.ingredientService.CreateIngredient(c.Request().Context(), repository.CreateIngredientParams{
		Name:        strings.TrimSpace(req.Name),
		MeasureType: model.MeasureType(req.MeasureType),
		Nutrition: model.Nutrition{
			Calories:            req.Calories,
			Protein:             req.Protein,
			Carbs:               req.Carbs,
			Fiber:               req.Fiber,
			SaturatedFats:       req.SaturatedFats,
			MonounsaturatedFats: req.MonounsaturatedFats,
			PolyunsaturatedFats: req.PolyunsaturatedFats,
			TransFats:           req.TransFats,
			Cholesterol:         req.Cholesterol,
		},
	})
}
