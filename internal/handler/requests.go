package handler

import (
	"time"

	"github.com/deppfellow/mealplanner/internal/lib/utils"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/validation"
)

// EmptyRequest is used by endpoints without input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

// IDRequest carries the :id path param.
type IDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

func (r *IDRequest) Validate() error {
	return validation.Struct(r)
}

// UserRequest carries the :user_id path param.
type UserRequest struct {
	UserID string `param:"user_id" json:"-" validate:"required,max=255"`
}

func (r *UserRequest) Validate() error {
	return validation.Struct(r)
}

// Per100gRequest holds the optional nutrition facts of a food.
type Per100gRequest struct {
	CaloriesPer100g            *float64 `json:"calories_per_100g" validate:"omitempty,gte=0"`
	ProteinPer100g             *float64 `json:"protein_per_100g" validate:"omitempty,gte=0"`
	CarbsPer100g               *float64 `json:"carbs_per_100g" validate:"omitempty,gte=0"`
	FiberPer100g               *float64 `json:"fiber_per_100g" validate:"omitempty,gte=0"`
	SaturatedFatsPer100g       *float64 `json:"saturated_fats_per_100g" validate:"omitempty,gte=0"`
	MonounsaturatedFatsPer100g *float64 `json:"monounsaturated_fats_per_100g" validate:"omitempty,gte=0"`
	PolyunsaturatedFatsPer100g *float64 `json:"polyunsaturated_fats_per_100g" validate:"omitempty,gte=0"`
	TransFatsPer100g           *float64 `json:"trans_fats_per_100g" validate:"omitempty,gte=0"`
	CholesterolPer100g         *float64 `json:"cholesterol_per_100g" validate:"omitempty,gte=0"`
}

func (p Per100gRequest) facts() model.NutritionFacts {
	return model.NutritionFacts{
		Calories:            p.CaloriesPer100g,
		Protein:             p.ProteinPer100g,
		Carbs:               p.CarbsPer100g,
		Fiber:               p.FiberPer100g,
		SaturatedFats:       p.SaturatedFatsPer100g,
		MonounsaturatedFats: p.MonounsaturatedFatsPer100g,
		PolyunsaturatedFats: p.PolyunsaturatedFatsPer100g,
		TransFats:           p.TransFatsPer100g,
		Cholesterol:         p.CholesterolPer100g,
	}
}

// parseDateField parses an optional YYYY-MM-DD value, appending a field
// error on failure. An empty value yields fallback.
func parseDateField(problems *validation.CustomValidationErrors, field, value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	t, err := utils.ParseDate(value)
	if err != nil {
		*problems = append(*problems, validation.CustomValidationError{
			Field:   field,
			Message: "must be a date in the format YYYY-MM-DD",
		})
		return fallback
	}
	return t
}

// validationResult returns problems as an error only when there are any.
func validationResult(problems validation.CustomValidationErrors) error {
	if len(problems) > 0 {
		return problems
	}
	return nil
}
