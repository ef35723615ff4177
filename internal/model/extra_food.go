package model

import "time"

// ExtraFood is something a user ate outside of their plan.
type ExtraFood struct {
	ID             int64     `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	ConsumedOn     time.Time `json:"consumed_on" db:"consumed_on"`
	MealMomentID   int       `json:"meal_moment_id" db:"meal_moment_id"`
	MealMomentName string    `json:"meal_moment" db:"meal_moment_name"`
	NutritionFacts
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Ingredients []IngredientLine `json:"ingredients,omitempty" db:"-"`
}
