package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is the header of a weekly meal plan.
type Plan struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Objective   string    `json:"objective" db:"objective"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PlanSlot is one (day, moment) cell of a plan holding a food.
type PlanSlot struct {
	PlanID       int64 `json:"plan_id" db:"plan_id"`
	DayID        int   `json:"day_id" db:"day_id"`
	MealMomentID int   `json:"meal_moment_id" db:"meal_moment_id"`
	FoodID       int64 `json:"food_id" db:"food_id"`
}

// WeeklyPlanRow is one cell of the day × moment cross product as read from
// the database. Food columns are NULL for empty cells.
type WeeklyPlanRow struct {
	DayID           int              `db:"day_id"`
	DayName         string           `db:"day_name"`
	MealMomentID    int              `db:"meal_moment_id"`
	MealMomentName  string           `db:"meal_moment_name"`
	FoodID          *int64           `db:"food_id"`
	FoodName        *string          `db:"food_name"`
	FoodDescription *string          `db:"food_description"`
	FoodPrice       *decimal.Decimal `db:"food_price"`
	FoodImageURL    *string          `db:"food_image_url"`
}

// FoodSummary is the food shown inside a weekly plan cell.
type FoodSummary struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
}

// WeeklyMeal is one cell of the grid. Food is nil for an empty slot.
type WeeklyMeal struct {
	MomentID int          `json:"moment_id"`
	Moment   string       `json:"moment"`
	Food     *FoodSummary `json:"food"`
}

// WeeklyDay holds the meals of one weekday in moment order.
type WeeklyDay struct {
	DayID int          `json:"day_id"`
	Day   string       `json:"day"`
	Meals []WeeklyMeal `json:"meals"`
}

// WeeklyPlan is a plan with its full 7-day grid. Days and meals keep the
// order of the reference tables.
type WeeklyPlan struct {
	Plan
	WeeklyPlan []WeeklyDay `json:"weekly_plan"`
}

// BuildWeeklyGrid groups cross-product rows, already ordered by day then
// moment, into days.
func BuildWeeklyGrid(rows []WeeklyPlanRow) []WeeklyDay {
	days := make([]WeeklyDay, 0, 7)
	for _, row := range rows {
		if len(days) == 0 || days[len(days)-1].DayID != row.DayID {
			days = append(days, WeeklyDay{DayID: row.DayID, Day: row.DayName, Meals: []WeeklyMeal{}})
		}

		meal := WeeklyMeal{MomentID: row.MealMomentID, Moment: row.MealMomentName}
		if row.FoodID != nil {
			summary := &FoodSummary{ID: *row.FoodID, ImageURL: row.FoodImageURL}
			if row.FoodName != nil {
				summary.Name = *row.FoodName
			}
			if row.FoodDescription != nil {
				summary.Description = *row.FoodDescription
			}
			if row.FoodPrice != nil {
				summary.Price = *row.FoodPrice
			}
			meal.Food = summary
		}

		current := &days[len(days)-1]
		current.Meals = append(current.Meals, meal)
	}
	return days
}
