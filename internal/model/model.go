// Package model holds the domain types shared by repositories, services
// and handlers. Struct tags drive both pgx row mapping (db) and the JSON
// API (json).
package model

import "time"

// WeekDay is a seeded reference row; ids run 1 (monday) to 7 (sunday).
type WeekDay struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// MealMoment is a seeded reference row ordered by Position.
type MealMoment struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Position int    `json:"position" db:"position"`
}

// User is identified by an external id. PlanID and DailyGoalML are
// nil until set.
type User struct {
	ID          string    `json:"id" db:"id"`
	PlanID      *int64    `json:"plan_id" db:"plan_id"`
	DailyGoalML *int      `json:"water_goal_ml" db:"daily_goal_ml"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PlanAssignment is the result of assigning a plan to a user.
type PlanAssignment struct {
	PlanID    int64     `json:"plan_id" db:"plan_id"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
