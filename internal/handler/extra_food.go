package handler

import (
	"strings"
	"time"

	"github.com/deppfellow/mealplanner/internal/lib/utils"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/deppfellow/mealplanner/internal/service"
	"github.com/deppfellow/mealplanner/internal/validation"
	"github.com/labstack/echo/v4"
)

// ExtraFoodHandler serves foods logged outside the plan.
type ExtraFoodHandler struct {
	Handler
	extraFoodService *service.ExtraFoodService
}

func NewExtraFoodHandler(s *server.Server, extraFoodService *service.ExtraFoodService) *ExtraFoodHandler {
	return &ExtraFoodHandler{
		Handler:          NewHandler(s),
		extraFoodService: extraFoodService,
	}
}

// CreateExtraFoodRequest defaults date to today (UTC).
type CreateExtraFoodRequest struct {
	UserID      string                     `param:"user_id" json:"-" validate:"required,max=255"`
	Name        string                     `json:"name" validate:"required,max=255"`
	Description string                     `json:"description" validate:"max=2000"`
	Date        string                     `json:"date"`
	Moment      string                     `json:"moment" validate:"required"`
	Nutrition   *model.NutritionFacts      `json:"nutrition"`
	Ingredients []model.IngredientQuantity `json:"ingredients" validate:"dive"`

	date time.Time
}

func (r *CreateExtraFoodRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors
	r.date = parseDateField(&problems, "date", r.Date, time.Now().UTC())
	return validationResult(problems)
}

// ListExtraFoodsRequest filters by ?date and ?moment; both optional.
type ListExtraFoodsRequest struct {
	UserID string `param:"user_id" json:"-" validate:"required,max=255"`
	Date   string `query:"date" json:"-"`
	Moment string `query:"moment" json:"-"`

	date *time.Time
}

func (r *ListExtraFoodsRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors
	if r.Date != "" {
		d := parseDateField(&problems, "date", r.Date, time.Time{})
		r.date = &d
	}
	return validationResult(problems)
}

type DeleteExtraFoodRequest struct {
	UserID string `param:"user_id" json:"-" validate:"required,max=255"`
	ID     int64  `param:"id" json:"-" validate:"required,min=1"`
}

func (r *DeleteExtraFoodRequest) Validate() error {
	return validation.Struct(r)
}

// CreateExtraFood logs a food for the user on the given date.
func (h *ExtraFoodHandler) CreateExtraFood(c echo.Context, req *CreateExtraFoodRequest) (*model.ExtraFood, error) {
	in := service.CreateExtraFoodInput{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ConsumedOn:  req.date,
		Moment:      req.Moment,
		Nutrition:   utils.Deref(req.Nutrition),
		Ingredients: req.Ingredients,
	}
	return h.extraFoodService.CreateExtraFood(c.Request().Context(), in)
}

func (h *ExtraFoodHandler) ListExtraFoods(c echo.Context, req *ListExtraFoodsRequest) ([]model.ExtraFood, error) {
	return h.extraFoodService.ListExtraFoods(c.Request().Context(), req.UserID, req.date, req.Moment)
}

func (h *ExtraFoodHandler) ListExtraFoodIngredients(c echo.Context, req *IDRequest) ([]model.IngredientLine, error) {
	return h.extraFoodService.ListExtraFoodIngredients(c.Request().Context(), req.ID)
}

func (h *ExtraFoodHandler) DeleteExtraFood(c echo.Context, req *DeleteExtraFoodRequest) error {
	return h.extraFoodService.DeleteExtraFood(c.Request().Context(), req.UserID, req.ID)
}
