package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/mealplanner/internal/errs"
	"github.com/deppfellow/mealplanner/internal/lib/job"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// PlanStore is implemented by repository.PlanRepository.
type PlanStore interface {
	ListPlans(ctx context.Context) ([]model.Plan, error)
	GetPlanByID(ctx context.Context, planID int64) (*model.Plan, error)
	CreatePlan(ctx context.Context, params repository.CreatePlanParams) (*model.Plan, error)
	UpdatePlan(ctx context.Context, planID int64, params repository.UpdatePlanParams) (*model.Plan, error)
	DeletePlan(ctx context.Context, planID int64) error
	GetWeeklyRows(ctx context.Context, planID int64) ([]model.WeeklyPlanRow, error)
	InsertSlot(ctx context.Context, slot model.PlanSlot) error
	UpdateSlot(ctx context.Context, slot model.PlanSlot) error
	DeleteSlot(ctx context.Context, planID int64, dayID, momentID int) error
	GeneratePlan(ctx context.Context, userID string, params repository.CreatePlanParams, slots []model.PlanSlot) (*model.Plan, error)
	ExistingFoodIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// FoodReader is the read side of the food catalog used by plan and user
// services.
type FoodReader interface {
	GetFoodByID(ctx context.Context, foodID int64) (*model.Food, error)
	ListFoodsByIDs(ctx context.Context, ids []int64) ([]model.Food, error)
	ListFoodsByPlan(ctx context.Context, planID int64) ([]model.Food, error)
	ListIngredientLines(ctx context.Context, foodIDs []int64) (map[int64][]model.IngredientLine, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PlanService manages plans, their weekly grids and sharing.
type PlanService struct {
	plans   PlanStore
	foods   FoodReader
	catalog *CatalogService
	tasks   TaskEnqueuer
	logger  *zerolog.Logger
}

func NewPlanService(plans PlanStore, foods FoodReader, catalog *CatalogService, tasks TaskEnqueuer, logger *zerolog.Logger) *PlanService {
	return &PlanService{
		plans:   plans,
		foods:   foods,
		catalog: catalog,
		tasks:   tasks,
		logger:  logger,
	}
}

func (s *PlanService) ListPlans(ctx context.Context) ([]model.Plan, error) {
	return s.plans.ListPlans(ctx)
}

func (s *PlanService) GetPlan(ctx context.Context, planID int64) (*model.Plan, error) {
	return s.plans.GetPlanByID(ctx, planID)
}

// GetWeeklyPlan returns the plan with every (day, moment) cell, empty cells
// holding no food.
func (s *PlanService) GetWeeklyPlan(ctx context.Context, planID int64) (*model.WeeklyPlan, error) {
	plan, err := s.plans.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	rows, err := s.plans.GetWeeklyRows(ctx, planID)
	if err != nil {
		return nil, err
	}

	return &model.WeeklyPlan{
		Plan:       *plan,
		WeeklyPlan: model.BuildWeeklyGrid(rows),
	}, nil
}

func (s *PlanService) CreatePlan(ctx context.Context, params repository.CreatePlanParams) (*model.Plan, error) {
	return s.plans.CreatePlan(ctx, params)
}

// UpdatePlan applies the non-nil fields of params.
func (s *PlanService) UpdatePlan(ctx context.Context, planID int64, params repository.UpdatePlanParams) (*model.Plan, error) {
	return s.plans.UpdatePlan(ctx, planID, params)
}

// DeletePlan removes the plan; users following it are left without one.
func (s *PlanService) DeletePlan(ctx context.Context, planID int64) error {
	return s.plans.DeletePlan(ctx, planID)
}

// CreatePlanFromPreferences builds a full week out of the selected foods and
// assigns it to the user. Unknown food ids are dropped; nil params get a
// generated title.
func (s *PlanService) CreatePlanFromPreferences(ctx context.Context, userID string, foodIDs []int64, params *repository.CreatePlanParams) (*model.Plan, error) {
	ids := uniqueIDs(foodIDs)

	existing, err := s.plans.ExistingFoodIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	matched := make([]int64, 0, len(ids))
	for _, id := range ids {
		if existing[id] {
			matched = append(matched, id)
		}
	}
	if len(matched) == 0 {
		code := "FOODS_NOT_FOUND"
		return nil, errs.NewNotFoundError("None of the selected foods exist", true, &code)
	}

	days, err := s.catalog.ListDays(ctx)
	if err != nil {
		return nil, err
	}
	moments, err := s.catalog.ListMoments(ctx)
	if err != nil {
		return nil, err
	}

	if params == nil {
		params = &repository.CreatePlanParams{
			Title:       fmt.Sprintf("Plan for user %s", userID),
			Description: "Generated from selected food IDs",
			Objective:   "Automatically generated based on preferences",
		}
	}

	plan, err := s.plans.GeneratePlan(ctx, userID, *params, BuildRoundRobinSlots(days, moments, matched))
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Int64("plan_id", plan.ID).
		Int("foods", len(matched)).
		Msg("generated plan from preferences")

	return plan, nil
}

// BuildRoundRobinSlots walks days then moments in order and cycles through
// foodIDs, so consecutive cells get consecutive foods.
func BuildRoundRobinSlots(days []model.WeekDay, moments []model.MealMoment, foodIDs []int64) []model.PlanSlot {
	if len(foodIDs) == 0 {
		return nil
	}

	slots := make([]model.PlanSlot, 0, len(days)*len(moments))
	i := 0
	for _, d := range days {
		for _, m := range moments {
			slots = append(slots, model.PlanSlot{
				DayID:        d.ID,
				MealMomentID: m.ID,
				FoodID:       foodIDs[i%len(foodIDs)],
			})
			i++
		}
	}
	return slots
}

// ListPlanFoods returns the distinct foods scheduled in the plan.
func (s *PlanService) ListPlanFoods(ctx context.Context, planID int64) ([]model.Food, error) {
	if _, err := s.plans.GetPlanByID(ctx, planID); err != nil {
		return nil, err
	}
	return s.foods.ListFoodsByPlan(ctx, planID)
}

// UpdatePlanSlot swaps the food of an already filled slot.
func (s *PlanService) UpdatePlanSlot(ctx context.Context, planID int64, day, moment string, foodID int64) (*model.WeeklyPlan, error) {
	slot, err := s.resolveSlot(ctx, planID, day, moment)
	if err != nil {
		return nil, err
	}

	if _, err := s.foods.GetFoodByID(ctx, foodID); err != nil {
		return nil, err
	}

	slot.FoodID = foodID
	if err := s.plans.UpdateSlot(ctx, *slot); err != nil {
		return nil, err
	}

	return s.GetWeeklyPlan(ctx, planID)
}

// AddSlot fills an empty slot; a taken slot is a conflict.
func (s *PlanService) AddSlot(ctx context.Context, planID int64, day, moment string, foodID int64) (*model.WeeklyPlan, error) {
	slot, err := s.resolveSlot(ctx, planID, day, moment)
	if err != nil {
		return nil, err
	}

	if _, err := s.foods.GetFoodByID(ctx, foodID); err != nil {
		return nil, err
	}

	slot.FoodID = foodID
	if err := s.plans.InsertSlot(ctx, *slot); err != nil {
		return nil, err
	}

	return s.GetWeeklyPlan(ctx, planID)
}

// ClearSlot empties a slot. Clearing an empty slot succeeds.
func (s *PlanService) ClearSlot(ctx context.Context, planID int64, day, moment string) (*model.WeeklyPlan, error) {
	slot, err := s.resolveSlot(ctx, planID, day, moment)
	if err != nil {
		return nil, err
	}

	if err := s.plans.DeleteSlot(ctx, planID, slot.DayID, slot.MealMomentID); err != nil {
		return nil, err
	}

	return s.GetWeeklyPlan(ctx, planID)
}

func (s *PlanService) resolveSlot(ctx context.Context, planID int64, day, moment string) (*model.PlanSlot, error) {
	if _, err := s.plans.GetPlanByID(ctx, planID); err != nil {
		return nil, err
	}

	d, err := s.catalog.ResolveDay(ctx, day)
	if err != nil {
		return nil, err
	}

	m, err := s.catalog.ResolveMoment(ctx, moment)
	if err != nil {
		return nil, err
	}

	return &model.PlanSlot{PlanID: planID, DayID: d.ID, MealMomentID: m.ID}, nil
}

// GetPlanNutrition totals the nutrition of each day's foods, then the week.
// The daily average is taken over all seven days.
func (s *PlanService) GetPlanNutrition(ctx context.Context, planID int64) (*model.PlanNutrition, error) {
	weekly, err := s.GetWeeklyPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	perFood, err := s.nutritionByFood(ctx, weekly.WeeklyPlan)
	if err != nil {
		return nil, err
	}

	report := &model.PlanNutrition{
		PlanID: planID,
		Days:   make([]model.DayNutrition, 0, len(weekly.WeeklyPlan)),
	}

	for _, day := range weekly.WeeklyPlan {
		dn := model.DayNutrition{DayID: day.DayID, Day: day.Day}
		for _, meal := range day.Meals {
			if meal.Food == nil {
				continue
			}
			dn.Foods++
			dn.Nutrition = dn.Nutrition.Add(perFood[meal.Food.ID].Nutrition)
		}
		report.WeeklyTotal = report.WeeklyTotal.Add(dn.Nutrition)
		dn.Nutrition = dn.Nutrition.Round()
		report.Days = append(report.Days, dn)
	}

	if n := len(report.Days); n > 0 {
		report.DailyAverage = report.WeeklyTotal.Scale(1 / float64(n)).Round()
	}
	report.WeeklyTotal = report.WeeklyTotal.Round()

	return report, nil
}

// nutritionByFood computes the nutrition of every distinct food in days.
func (s *PlanService) nutritionByFood(ctx context.Context, days []model.WeeklyDay) (map[int64]model.FoodNutrition, error) {
	var ids []int64
	for _, day := range days {
		for _, meal := range day.Meals {
			if meal.Food != nil {
				ids = append(ids, meal.Food.ID)
			}
		}
	}
	ids = uniqueIDs(ids)

	result := make(map[int64]model.FoodNutrition, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	foods, err := s.foods.ListFoodsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines, err := s.foods.ListIngredientLines(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, f := range foods {
		result[f.ID] = foodNutrition(f, lines[f.ID])
	}
	return result, nil
}

// SharePlan queues an email with the weekly grid of the plan.
func (s *PlanService) SharePlan(ctx context.Context, planID int64, to string) error {
	if _, err := s.plans.GetPlanByID(ctx, planID); err != nil {
		return err
	}

	task, err := job.NewPlanShareTask(planID, to)
	if err != nil {
		return fmt.Errorf("failed to build plan share task: %w", err)
	}

	info, err := s.tasks.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue plan share task for plan_id=%d: %w", planID, err)
	}

	s.logger.Info().
		Int64("plan_id", planID).
		Str("task_id", info.ID).
		Msg("plan share queued")

	return nil
}

// uniqueIDs drops duplicates and keeps first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
