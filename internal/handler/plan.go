package handler

import (
	"strings"

	"github.com/deppfellow/mealplanner/internal/lib/email"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/deppfellow/mealplanner/internal/service"
	"github.com/deppfellow/mealplanner/internal/validation"
	"github.com/labstack/echo/v4"
)

// PlanHandler serves plans and their weekly grids.
type PlanHandler struct {
	Handler
	planService *service.PlanService
}

func NewPlanHandler(s *server.Server, planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		Handler:     NewHandler(s),
		planService: planService,
	}
}

// PlanBody is the writable part of a plan.
type PlanBody struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Objective   string `json:"objective" validate:"max=2000"`
}

func (b PlanBody) params() repository.CreatePlanParams {
	return repository.CreatePlanParams{
		Title:       strings.TrimSpace(b.Title),
		Description: b.Description,
		Objective:   b.Objective,
	}
}

// CreatePlanRequest serves both plain creation and, with
// ?from_preferences=true, generation from a list of food ids. The plan may
// be sent nested under "plan" or as top-level fields.
type CreatePlanRequest struct {
	FromPreferences bool `query:"from_preferences" json:"-"`

	Title       string `json:"title" validate:"max=255"`
	Description string `json:"description" validate:"max=2000"`
	Objective   string `json:"objective" validate:"max=2000"`

	UserID  string    `json:"user_id" validate:"max=255"`
	FoodIDs []int64   `json:"food_ids" validate:"dive,min=1"`
	Plan    *PlanBody `json:"plan"`
}

func (r *CreatePlanRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors
	if r.FromPreferences {
		if strings.TrimSpace(r.UserID) == "" {
			problems = append(problems, validation.CustomValidationError{Field: "user_id", Message: "is required"})
		}
		if len(r.FoodIDs) == 0 {
			problems = append(problems, validation.CustomValidationError{Field: "food_ids", Message: "must contain at least one food id"})
		}
	} else if r.body() == nil {
		problems = append(problems, validation.CustomValidationError{Field: "title", Message: "is required"})
	}

	return validationResult(problems)
}

// body returns the nested plan when present, else the top-level fields.
// It is nil when neither carries a title.
func (r *CreatePlanRequest) body() *PlanBody {
	if r.Plan != nil {
		return r.Plan
	}
	if strings.TrimSpace(r.Title) == "" {
		return nil
	}
	return &PlanBody{Title: r.Title, Description: r.Description, Objective: r.Objective}
}

// UpdatePlanRequest leaves absent fields unchanged.
type UpdatePlanRequest struct {
	ID          int64   `param:"id" json:"-" validate:"required,min=1"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Objective   *string `json:"objective" validate:"omitempty,max=2000"`
}

func (r *UpdatePlanRequest) Validate() error {
	return validation.Struct(r)
}

// UpdatePlanSlotRequest swaps the food of a filled slot.
type UpdatePlanSlotRequest struct {
	ID     int64  `param:"id" json:"-" validate:"required,min=1"`
	Day    string `json:"day" validate:"required"`
	Moment string `json:"moment" validate:"required"`
	FoodID int64  `json:"food_id" validate:"required,min=1"`
}

func (r *UpdatePlanSlotRequest) Validate() error {
	return validation.Struct(r)
}

type SharePlanRequest struct {
	ID    int64  `param:"id" json:"-" validate:"required,min=1"`
	Email string `json:"email" validate:"required,email"`
}

func (r *SharePlanRequest) Validate() error {
	return validation.Struct(r)
}

// SharePlanResponse acknowledges a queued share; delivery happens later.
type SharePlanResponse struct {
	PlanID int64  `json:"plan_id"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

func (h *PlanHandler) ListPlans(c echo.Context, _ *EmptyRequest) ([]model.Plan, error) {
	return h.planService.ListPlans(c.Request().Context())
}

// CreatePlan creates an empty plan, or generates a full week from food
// ids when from_preferences is set.
func (h *PlanHandler) CreatePlan(c echo.Context, req *CreatePlanRequest) (*model.Plan, error) {
	ctx := c.Request().Context()

	body := req.body()
	if req.FromPreferences {
		var params *repository.CreatePlanParams
		if body != nil {
			p := body.params()
			params = &p
		}
		return h.planService.CreatePlanFromPreferences(ctx, req.UserID, req.FoodIDs, params)
	}

	return h.planService.CreatePlan(ctx, body.params())
}

func (h *PlanHandler) GetWeeklyPlan(c echo.Context, req *IDRequest) (*model.WeeklyPlan, error) {
	return h.planService.GetWeeklyPlan(c.Request().Context(), req.ID)
}

func (h *PlanHandler) UpdatePlan(c echo.Context, req *UpdatePlanRequest) (*model.Plan, error) {
	return h.planService.UpdatePlan(c.Request().Context(), req.ID, repository.UpdatePlanParams{
		Title:       req.Title,
		Description: req.Description,
		Objective:   req.Objective,
	})
}

// DeletePlan removes the plan with its slots and unassigns its users.
func (h *PlanHandler) DeletePlan(c echo.Context, req *IDRequest) error {
	return h.planService.DeletePlan(c.Request().Context(), req.ID)
}

func (h *PlanHandler) ListPlanFoods(c echo.Context, req *IDRequest) ([]model.Food, error) {
	return h.planService.ListPlanFoods(c.Request().Context(), req.ID)
}

func (h *PlanHandler) UpdatePlanSlot(c echo.Context, req *UpdatePlanSlotRequest) (*model.WeeklyPlan, error) {
	return h.planService.UpdatePlanSlot(c.Request().Context(), req.ID, req.Day, req.Moment, req.FoodID)
}

func (h *PlanHandler) GetPlanNutrition(c echo.Context, req *IDRequest) (*model.PlanNutrition, error) {
	return h.planService.GetPlanNutrition(c.Request().Context(), req.ID)
}

// SharePlan queues an email with the weekly grid and returns at once.
func (h *PlanHandler) SharePlan(c echo.Context, req *SharePlanRequest) (*SharePlanResponse, error) {
	if err := h.planService.SharePlan(c.Request().Context(), req.ID, req.Email); err != nil {
		return nil, err
	}
	return &SharePlanResponse{PlanID: req.ID, Email: req.Email, Status: "queued"}, nil
}

// ExportPlan renders the weekly grid as the same HTML document that
// SharePlan mails.
func (h *PlanHandler) ExportPlan(c echo.Context, req *IDRequest) ([]byte, error) {
	weekly, err := h.planService.GetWeeklyPlan(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}

	html, err := email.Render(email.TemplatePlanShare, weekly)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}
