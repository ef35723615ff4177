package service

import (
	"context"
	"strings"
	"time"

	"github.com/deppfellow/mealplanner/internal/lib/utils"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
)

// UserStore is implemented by repository.UserRepository.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserPlan(ctx context.Context, userID string) (*model.Plan, error)
	AssignPlan(ctx context.Context, userID string, planID int64) (*model.PlanAssignment, error)
}

// ExtraFoodReader lists what a user ate outside the plan.
type ExtraFoodReader interface {
	ListExtraFoods(ctx context.Context, userID string, filter repository.ExtraFoodFilter) ([]model.ExtraFood, error)
	ListIngredientLines(ctx context.Context, extraFoodIDs []int64) (map[int64][]model.IngredientLine, error)
}

// UserService manages the plan a user follows and reports what the user
// eats on a given day.
type UserService struct {
	users  UserStore
	plans  *PlanService
	extras ExtraFoodReader
}

func NewUserService(users UserStore, plans *PlanService, extras ExtraFoodReader) *UserService {
	return &UserService{users: users, plans: plans, extras: extras}
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetUser(ctx, userID)
}

func (s *UserService) GetUserPlan(ctx context.Context, userID string) (*model.Plan, error) {
	return s.users.GetUserPlan(ctx, userID)
}

// GetUserWeeklyPlan returns the full grid of the user's plan.
func (s *UserService) GetUserWeeklyPlan(ctx context.Context, userID string) (*model.WeeklyPlan, error) {
	plan, err := s.users.GetUserPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.plans.GetWeeklyPlan(ctx, plan.ID)
}

// PutUserPlan assigns an existing plan, creating the user on first use.
func (s *UserService) PutUserPlan(ctx context.Context, userID string, planID int64) (*model.PlanAssignment, error) {
	if _, err := s.plans.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	return s.users.AssignPlan(ctx, userID, planID)
}

// ListUserPlanFoods lists the distinct foods of the user's plan.
func (s *UserService) ListUserPlanFoods(ctx context.Context, userID string) ([]model.Food, error) {
	plan, err := s.users.GetUserPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.plans.ListPlanFoods(ctx, plan.ID)
}

// AddFoodToUserPlan fills an empty slot of the user's plan.
func (s *UserService) AddFoodToUserPlan(ctx context.Context, userID, day, moment string, foodID int64) (*model.WeeklyPlan, error) {
	plan, err := s.users.GetUserPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.plans.AddSlot(ctx, plan.ID, day, moment, foodID)
}

func (s *UserService) RemoveFoodFromUserPlan(ctx context.Context, userID, day, moment string) (*model.WeeklyPlan, error) {
	plan, err := s.users.GetUserPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.plans.ClearSlot(ctx, plan.ID, day, moment)
}

// GetDailyNutrition adds up the plan foods scheduled on the weekday of date
// and the extra foods logged on date. A user without a plan only reports
// extra foods.
func (s *UserService) GetDailyNutrition(ctx context.Context, userID string, date time.Time) (*model.DailyNutrition, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	date = utils.StartOfDay(date)
	dayID := utils.WeekdayID(date)

	report := &model.DailyNutrition{
		UserID: userID,
		Date:   date.Format(utils.DateLayout),
		Day:    strings.ToLower(date.Weekday().String()),
		Items:  []model.ConsumedItem{},
	}

	if user.PlanID != nil {
		if err := s.addPlanItems(ctx, report, *user.PlanID, dayID); err != nil {
			return nil, err
		}
	}

	if err := s.addExtraItems(ctx, report, userID, date); err != nil {
		return nil, err
	}

	report.Total = report.PlanTotal.Add(report.ExtraTotal).Round()
	report.PlanTotal = report.PlanTotal.Round()
	report.ExtraTotal = report.ExtraTotal.Round()

	return report, nil
}

func (s *UserService) addPlanItems(ctx context.Context, report *model.DailyNutrition, planID int64, dayID int) error {
	weekly, err := s.plans.GetWeeklyPlan(ctx, planID)
	if err != nil {
		return err
	}

	var today []model.WeeklyDay
	for _, day := range weekly.WeeklyPlan {
		if day.DayID == dayID {
			today = append(today, day)
		}
	}

	perFood, err := s.plans.nutritionByFood(ctx, today)
	if err != nil {
		return err
	}

	for _, day := range today {
		for _, meal := range day.Meals {
			if meal.Food == nil {
				continue
			}
			fn := perFood[meal.Food.ID]
			report.Items = append(report.Items, model.ConsumedItem{
				Source:    "plan",
				ID:        meal.Food.ID,
				Name:      meal.Food.Name,
				Moment:    meal.Moment,
				Basis:     fn.Basis,
				Nutrition: fn.Nutrition.Round(),
			})
			report.PlanTotal = report.PlanTotal.Add(fn.Nutrition)
		}
	}
	return nil
}

func (s *UserService) addExtraItems(ctx context.Context, report *model.DailyNutrition, userID string, date time.Time) error {
	extras, err := s.extras.ListExtraFoods(ctx, userID, repository.ExtraFoodFilter{Date: &date})
	if err != nil {
		return err
	}
	if len(extras) == 0 {
		return nil
	}

	ids := make([]int64, len(extras))
	for i, e := range extras {
		ids[i] = e.ID
	}

	lines, err := s.extras.ListIngredientLines(ctx, ids)
	if err != nil {
		return err
	}

	for _, e := range extras {
		basis, n := extraFoodNutrition(e, lines[e.ID])
		report.Items = append(report.Items, model.ConsumedItem{
			Source:    "extra",
			ID:        e.ID,
			Name:      e.Name,
			Moment:    e.MealMomentName,
			Basis:     basis,
			Nutrition: n.Round(),
		})
		report.ExtraTotal = report.ExtraTotal.Add(n)
	}
	return nil
}
