package handler

import (
	"time"

	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/deppfellow/mealplanner/internal/service"
	"github.com/deppfellow/mealplanner/internal/validation"
	"github.com/labstack/echo/v4"
)

// UserHandler serves the per-user routes under /users/:user_id.
type UserHandler struct {
	Handler
	userService *service.UserService
}

func NewUserHandler(s *server.Server, userService *service.UserService) *UserHandler {
	return &UserHandler{
		Handler:     NewHandler(s),
		userService: userService,
	}
}

type PutUserPlanRequest struct {
	UserID string `param:"user_id" json:"-" validate:"required,max=255"`
	PlanID int64  `json:"plan_id" validate:"required,min=1"`
}

func (r *PutUserPlanRequest) Validate() error {
	return validation.Struct(r)
}

// AddUserPlanFoodRequest names an empty slot of the user's plan.
type AddUserPlanFoodRequest struct {
	UserID string `param:"user_id" json:"-" validate:"required,max=255"`
	Day    string `json:"day" validate:"required"`
	Moment string `json:"moment" validate:"required"`
	FoodID int64  `json:"food_id" validate:"required,min=1"`
}

func (r *AddUserPlanFoodRequest) Validate() error {
	return validation.Struct(r)
}

// RemoveUserPlanFoodRequest takes day and moment from the JSON body or,
// for clients that cannot send a DELETE body, from the query string.
type RemoveUserPlanFoodRequest struct {
	UserID string `param:"user_id" json:"-" validate:"required,max=255"`
	Day    string `query:"day" json:"day" validate:"required"`
	Moment string `query:"moment" json:"moment" validate:"required"`
}

func (r *RemoveUserPlanFoodRequest) Validate() error {
	return validation.Struct(r)
}

// DailyNutritionRequest defaults to today (UTC) without ?date.
type DailyNutritionRequest struct {
	UserID string `param:"user_id" json:"-" validate:"required,max=255"`
	Date   string `query:"date" json:"-"`

	date time.Time
}

func (r *DailyNutritionRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors
	r.date = parseDateField(&problems, "date", r.Date, time.Now().UTC())
	return validationResult(problems)
}

func (h *UserHandler) GetUser(c echo.Context, req *UserRequest) (*model.User, error) {
	return h.userService.GetUser(c.Request().Context(), req.UserID)
}

// GetUserPlan returns the weekly grid of the plan the user follows.
func (h *UserHandler) GetUserPlan(c echo.Context, req *UserRequest) (*model.WeeklyPlan, error) {
	return h.userService.GetUserWeeklyPlan(c.Request().Context(), req.UserID)
}

// PutUserPlan assigns an existing plan, replacing any previous one.
func (h *UserHandler) PutUserPlan(c echo.Context, req *PutUserPlanRequest) (*model.PlanAssignment, error) {
	return h.userService.PutUserPlan(c.Request().Context(), req.UserID, req.PlanID)
}

func (h *UserHandler) ListUserPlanFoods(c echo.Context, req *UserRequest) ([]model.Food, error) {
	return h.userService.ListUserPlanFoods(c.Request().Context(), req.UserID)
}

func (h *UserHandler) AddFoodToUserPlan(c echo.Context, req *AddUserPlanFoodRequest) (*model.WeeklyPlan, error) {
	return h.userService.AddFoodToUserPlan(c.Request().Context(), req.UserID, req.Day, req.Moment, req.FoodID)
}

// RemoveFoodFromUserPlan clears a slot and returns the updated grid.
func (h *UserHandler) RemoveFoodFromUserPlan(c echo.Context, req *RemoveUserPlanFoodRequest) (*model.WeeklyPlan, error) {
	return h.userService.RemoveFoodFromUserPlan(c.Request().Context(), req.UserID, req.Day, req.Moment)
}

func (h *UserHandler) GetDailyNutrition(c echo.Context, req *DailyNutritionRequest) (*model.DailyNutrition, error) {
	return h.userService.GetDailyNutrition(c.Request().Context(), req.UserID, req.date)
}
