package handler

import (
	"strings"

	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/deppfellow/mealplanner/internal/service"
	"github.com/deppfellow/mealplanner/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// FoodHandler serves the food catalog.
type FoodHandler struct {
	Handler
	foodService *service.FoodService
}

func NewFoodHandler(s *server.Server, foodService *service.FoodService) *FoodHandler {
	return &FoodHandler{
		Handler:     NewHandler(s),
		foodService: foodService,
	}
}

// ListFoodsRequest filters by a case-insensitive ?name substring.
type ListFoodsRequest struct {
	SearchName string `query:"search_name" json:"-" validate:"max=255"`
}

func (r *ListFoodsRequest) Validate() error {
	return validation.Struct(r)
}

// CreateFoodRequest optionally places the new food in a plan slot; plan_id,
// day and moment must then be given together.
type CreateFoodRequest struct {
	Name        string                     `json:"name" validate:"required,max=255"`
	Description string                     `json:"description" validate:"max=2000"`
	Price       decimal.Decimal            `json:"price"`
	ImageURL    *string                    `json:"image_url" validate:"omitempty,url"`
	Ingredients []model.IngredientQuantity `json:"ingredients" validate:"dive"`
	Per100gRequest

	PlanID *int64 `json:"plan_id" validate:"omitempty,min=1"`
	Day    string `json:"day"`
	Moment string `json:"moment"`
}

func (r *CreateFoodRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors
	if r.Price.IsNegative() {
		problems = append(problems, validation.CustomValidationError{Field: "price", Message: "must be greater than or equal to 0"})
	}

	linkFields := 0
	for _, set := range []bool{r.PlanID != nil, r.Day != "", r.Moment != ""} {
		if set {
			linkFields++
		}
	}
	if linkFields != 0 && linkFields != 3 {
		problems = append(problems, validation.CustomValidationError{Field: "plan_id", Message: "plan_id, day and moment must be given together"})
	}

	return validationResult(problems)
}

// UpdateFoodRequest leaves absent fields unchanged.
type UpdateFoodRequest struct {
	ID          int64            `param:"id" json:"-" validate:"required,min=1"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	Per100gRequest
}

func (r *UpdateFoodRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	if r.Price != nil && r.Price.IsNegative() {
		return validation.CustomValidationErrors{{Field: "price", Message: "must be greater than or equal to 0"}}
	}
	return nil
}

func (h *FoodHandler) ListFoods(c echo.Context, req *ListFoodsRequest) ([]model.Food, error) {
	return h.foodService.ListFoods(c.Request().Context(), strings.TrimSpace(req.SearchName))
}

func (h *FoodHandler) GetFood(c echo.Context, req *IDRequest) (*model.Food, error) {
	return h.foodService.GetFood(c.Request().Context(), req.ID)
}

// CreateFood stores the food and, when the request names a plan slot,
// places it there.
func (h *FoodHandler) CreateFood(c echo.Context, req *CreateFoodRequest) (*model.Food, error) {
	var link *service.PlanLink
	if req.PlanID != nil {
		link = &service.PlanLink{PlanID: *req.PlanID, Day: req.Day, Moment: req.Moment}
	}

	return h.foodService.CreateFood(c.Request().Context(), repository.CreateFoodParams{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Per100g:     req.facts(),
	}, req.Ingredients, link)
}

func (h *FoodHandler) UpdateFood(c echo.Context, req *UpdateFoodRequest) (*model.Food, error) {
	return h.foodService.UpdateFood(c.Request().Context(), req.ID, repository.UpdateFoodParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Per100g:     req.facts(),
	})
}

func (h *FoodHandler) DeleteFood(c echo.Context, req *IDRequest) error {
	return h.foodService.DeleteFood(c.Request().Context(), req.ID)
}

func (h *FoodHandler) ListFoodIngredients(c echo.Context, req *IDRequest) ([]model.IngredientLine, error) {
	return h.foodService.ListFoodIngredients(c.Request().Context(), req.ID)
}

// GetFoodNutrition reports the nutrition of one serving.
func (h *FoodHandler) GetFoodNutrition(c echo.Context, req *IDRequest) (*model.FoodNutrition, error) {
	return h.foodService.GetFoodNutrition(c.Request().Context(), req.ID)
}
