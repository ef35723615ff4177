package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MeasureType is how an ingredient quantity is expressed.
type MeasureType string

const (
	MeasureGram MeasureType = "gram"
	MeasureUnit MeasureType = "unit"
)

// Food is a catalog dish. Per-100 g facts are optional; ingredient
// lines take precedence when present.
type Food struct {
	ID                         int64           `json:"id" db:"id"`
	Name                       string          `json:"name" db:"name"`
	Description                string          `json:"description" db:"description"`
	Price                      decimal.Decimal `json:"price" db:"price"`
	ImageURL                   *string         `json:"image_url" db:"image_url"`
	CaloriesPer100g            *float64        `json:"calories_per_100g" db:"calories_per_100g"`
	ProteinPer100g             *float64        `json:"protein_per_100g" db:"protein_per_100g"`
	CarbsPer100g               *float64        `json:"carbs_per_100g" db:"carbs_per_100g"`
	FiberPer100g               *float64        `json:"fiber_per_100g" db:"fiber_per_100g"`
	SaturatedFatsPer100g       *float64        `json:"saturated_fats_per_100g" db:"saturated_fats_per_100g"`
	MonounsaturatedFatsPer100g *float64        `json:"monounsaturated_fats_per_100g" db:"monounsaturated_fats_per_100g"`
	PolyunsaturatedFatsPer100g *float64        `json:"polyunsaturated_fats_per_100g" db:"polyunsaturated_fats_per_100g"`
	TransFatsPer100g           *float64        `json:"trans_fats_per_100g" db:"trans_fats_per_100g"`
	CholesterolPer100g         *float64        `json:"cholesterol_per_100g" db:"cholesterol_per_100g"`
	CreatedAt                  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt                  time.Time       `json:"updated_at" db:"updated_at"`

	Ingredients []IngredientLine `json:"ingredients,omitempty" db:"-"`
}

// Per100g returns the food's own nutrition facts; unknown values are 0.
func (f Food) Per100g() Nutrition {
	return NutritionFacts{
		Calories:            f.CaloriesPer100g,
		Protein:             f.ProteinPer100g,
		Carbs:               f.CarbsPer100g,
		Fiber:               f.FiberPer100g,
		SaturatedFats:       f.SaturatedFatsPer100g,
		MonounsaturatedFats: f.MonounsaturatedFatsPer100g,
		PolyunsaturatedFats: f.PolyunsaturatedFatsPer100g,
		TransFats:           f.TransFatsPer100g,
		Cholesterol:         f.CholesterolPer100g,
	}.Resolve()
}

// Ingredient nutrition is per 100 g for MeasureGram and per single unit for
// MeasureUnit.
type Ingredient struct {
	ID          int64       `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	MeasureType MeasureType `json:"measure_type" db:"measure_type"`
	Nutrition
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IngredientLine is an ingredient used by a food or extra food together
// with the quantity used (grams or units depending on MeasureType).
type IngredientLine struct {
	Ingredient
	Quantity float64 `json:"quantity" db:"quantity"`
}

// IngredientQuantity is the write-side form of an ingredient line.
type IngredientQuantity struct {
	IngredientID int64   `json:"ingredient_id" validate:"required,min=1"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
}
