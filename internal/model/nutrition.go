package model

import "github.com/shopspring/decimal"

// Nutrition is a set of nutrition totals.
type Nutrition struct {
	Calories            float64 `json:"calories" db:"calories"`
	Protein             float64 `json:"protein" db:"protein"`
	Carbs               float64 `json:"carbs" db:"carbs"`
	Fiber               float64 `json:"fiber" db:"fiber"`
	SaturatedFats       float64 `json:"saturated_fats" db:"saturated_fats"`
	MonounsaturatedFats float64 `json:"monounsaturated_fats" db:"monounsaturated_fats"`
	PolyunsaturatedFats float64 `json:"polyunsaturated_fats" db:"polyunsaturated_fats"`
	TransFats           float64 `json:"trans_fats" db:"trans_fats"`
	Cholesterol         float64 `json:"cholesterol" db:"cholesterol"`
}

// Add returns the field-wise sum of n and o.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories:            n.Calories + o.Calories,
		Protein:             n.Protein + o.Protein,
		Carbs:               n.Carbs + o.Carbs,
		Fiber:               n.Fiber + o.Fiber,
		SaturatedFats:       n.SaturatedFats + o.SaturatedFats,
		MonounsaturatedFats: n.MonounsaturatedFats + o.MonounsaturatedFats,
		PolyunsaturatedFats: n.PolyunsaturatedFats + o.PolyunsaturatedFats,
		TransFats:           n.TransFats + o.TransFats,
		Cholesterol:         n.Cholesterol + o.Cholesterol,
	}
}

// Scale multiplies every value by factor.
func (n Nutrition) Scale(factor float64) Nutrition {
	return Nutrition{
		Calories:            n.Calories * factor,
		Protein:             n.Protein * factor,
		Carbs:               n.Carbs * factor,
		Fiber:               n.Fiber * factor,
		SaturatedFats:       n.SaturatedFats * factor,
		MonounsaturatedFats: n.MonounsaturatedFats * factor,
		PolyunsaturatedFats: n.PolyunsaturatedFats * factor,
		TransFats:           n.TransFats * factor,
		Cholesterol:         n.Cholesterol * factor,
	}
}

// Round rounds every value half away from zero to two decimals. Apply it
// to presented values only; sums are taken over unrounded values.
func (n Nutrition) Round() Nutrition {
	r := func(v float64) float64 { return decimal.NewFromFloat(v).Round(2).InexactFloat64() }
	return Nutrition{
		Calories:            r(n.Calories),
		Protein:             r(n.Protein),
		Carbs:               r(n.Carbs),
		Fiber:               r(n.Fiber),
		SaturatedFats:       r(n.SaturatedFats),
		MonounsaturatedFats: r(n.MonounsaturatedFats),
		PolyunsaturatedFats: r(n.PolyunsaturatedFats),
		TransFats:           r(n.TransFats),
		Cholesterol:         r(n.Cholesterol),
	}
}

// NutritionFacts is nutrition where any value may be unknown.
type NutritionFacts struct {
	Calories            *float64 `json:"calories" db:"calories" validate:"omitempty,gte=0"`
	Protein             *float64 `json:"protein" db:"protein" validate:"omitempty,gte=0"`
	Carbs               *float64 `json:"carbs" db:"carbs" validate:"omitempty,gte=0"`
	Fiber               *float64 `json:"fiber" db:"fiber" validate:"omitempty,gte=0"`
	SaturatedFats       *float64 `json:"saturated_fats" db:"saturated_fats" validate:"omitempty,gte=0"`
	MonounsaturatedFats *float64 `json:"monounsaturated_fats" db:"monounsaturated_fats" validate:"omitempty,gte=0"`
	PolyunsaturatedFats *float64 `json:"polyunsaturated_fats" db:"polyunsaturated_fats" validate:"omitempty,gte=0"`
	TransFats           *float64 `json:"trans_fats" db:"trans_fats" validate:"omitempty,gte=0"`
	Cholesterol         *float64 `json:"cholesterol" db:"cholesterol" validate:"omitempty,gte=0"`
}

// Resolve treats unknown values as 0.
func (f NutritionFacts) Resolve() Nutrition {
	v := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return Nutrition{
		Calories:            v(f.Calories),
		Protein:             v(f.Protein),
		Carbs:               v(f.Carbs),
		Fiber:               v(f.Fiber),
		SaturatedFats:       v(f.SaturatedFats),
		MonounsaturatedFats: v(f.MonounsaturatedFats),
		PolyunsaturatedFats: v(f.PolyunsaturatedFats),
		TransFats:           v(f.TransFats),
		Cholesterol:         v(f.Cholesterol),
	}
}

// NutritionBasis names where a nutrition figure came from.
type NutritionBasis string

const (
	BasisIngredients NutritionBasis = "ingredients"
	BasisPer100g     NutritionBasis = "per_100g"
	BasisDeclared    NutritionBasis = "declared"
)

// FoodNutrition is the nutrition of one serving of a food.
type FoodNutrition struct {
	FoodID    int64          `json:"food_id"`
	Basis     NutritionBasis `json:"basis"`
	Nutrition Nutrition      `json:"nutrition"`
}

// DayNutrition totals the foods scheduled on one weekday.
type DayNutrition struct {
	DayID     int       `json:"day_id"`
	Day       string    `json:"day"`
	Foods     int       `json:"foods"`
	Nutrition Nutrition `json:"nutrition"`
}

// PlanNutrition is the nutrition report of a weekly plan.
type PlanNutrition struct {
	PlanID       int64          `json:"plan_id"`
	Days         []DayNutrition `json:"days"`
	WeeklyTotal  Nutrition      `json:"weekly_total"`
	DailyAverage Nutrition      `json:"daily_average"`
}

// ConsumedItem is one food counted towards a user's day.
type ConsumedItem struct {
	Source    string         `json:"source"`
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Moment    string         `json:"moment"`
	Basis     NutritionBasis `json:"basis"`
	Nutrition Nutrition      `json:"nutrition"`
}

// DailyNutrition is what a user ate on a date, split between plan
// foods and extra foods.
type DailyNutrition struct {
	UserID     string         `json:"user_id"`
	Date       string         `json:"date"`
	Day        string         `json:"day"`
	Items      []ConsumedItem `json:"items"`
	PlanTotal  Nutrition      `json:"plan_total"`
	ExtraTotal Nutrition      `json:"extra_total"`
	Total      Nutrition      `json:"total"`
}
