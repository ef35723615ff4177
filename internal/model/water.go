package model

import "time"

// WaterGoal is the daily intake target of a user.
type WaterGoal struct {
	UserID      string    `json:"user_id" db:"user_id"`
	DailyGoalML int       `json:"daily_goal_ml" db:"daily_goal_ml"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// WaterConsumption is one logged intake.
type WaterConsumption struct {
	ID         int64     `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	AmountML   int       `json:"amount_ml" db:"amount_ml"`
	ConsumedAt time.Time `json:"consumed_at" db:"consumed_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DailyWater reports one day of intake against the goal.
// Progress is total over goal and may exceed 1.
type DailyWater struct {
	Date        string             `json:"date"`
	Entries     []WaterConsumption `json:"entries"`
	TotalML     int                `json:"total_ml"`
	GoalML      *int               `json:"goal_ml"`
	RemainingML int                `json:"remaining_ml"`
	Progress    float64            `json:"progress"`
}

// WaterDayTotal is the intake summed over one UTC day.
type WaterDayTotal struct {
	Day     time.Time `json:"-" db:"day"`
	Date    string    `json:"date" db:"-"`
	TotalML int       `json:"total_ml" db:"total_ml"`
}

// WaterHistory lists daily totals over a date range.
type WaterHistory struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	GoalML *int            `json:"goal_ml"`
	Days   []WaterDayTotal `json:"days"`
}
