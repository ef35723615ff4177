package service

import (
	"context"

	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
)

// FoodStore is implemented by repository.FoodRepository.
type FoodStore interface {
	FoodReader
	ListFoods(ctx context.Context, searchName string) ([]model.Food, error)
	CreateFood(ctx context.Context, params repository.CreateFoodParams, ingredients []model.IngredientQuantity, link *model.PlanSlot) (*model.Food, error)
	UpdateFood(ctx context.Context, foodID int64, params repository.UpdateFoodParams) (*model.Food, error)
	DeleteFood(ctx context.Context, foodID int64) error
}

// PlanLink places a newly created food into a plan slot.
type PlanLink struct {
	PlanID int64
	Day    string
	Moment string
}

// FoodService manages the food catalog and its nutrition.
type FoodService struct {
	foods   FoodStore
	plans   PlanStore
	catalog *CatalogService
}

func NewFoodService(foods FoodStore, plans PlanStore, catalog *CatalogService) *FoodService {
	return &FoodService{foods: foods, plans: plans, catalog: catalog}
}

// ListFoods returns all foods, or those whose name contains searchName.
func (s *FoodService) ListFoods(ctx context.Context, searchName string) ([]model.Food, error) {
	return s.foods.ListFoods(ctx, searchName)
}

// GetFood returns the food with its ingredient lines.
func (s *FoodService) GetFood(ctx context.Context, foodID int64) (*model.Food, error) {
	food, err := s.foods.GetFoodByID(ctx, foodID)
	if err != nil {
		return nil, err
	}

	lines, err := s.foods.ListIngredientLines(ctx, []int64{foodID})
	if err != nil {
		return nil, err
	}
	food.Ingredients = lines[foodID]

	return food, nil
}

// CreateFood stores the food with its ingredient lines and, when link is
// set, places it in the plan slot. The writes share one transaction.
func (s *FoodService) CreateFood(ctx context.Context, params repository.CreateFoodParams, ingredients []model.IngredientQuantity, link *PlanLink) (*model.Food, error) {
	var slot *model.PlanSlot
	if link != nil {
		if _, err := s.plans.GetPlanByID(ctx, link.PlanID); err != nil {
			return nil, err
		}

		day, err := s.catalog.ResolveDay(ctx, link.Day)
		if err != nil {
			return nil, err
		}

		moment, err := s.catalog.ResolveMoment(ctx, link.Moment)
		if err != nil {
			return nil, err
		}

		slot = &model.PlanSlot{PlanID: link.PlanID, DayID: day.ID, MealMomentID: moment.ID}
	}

	return s.foods.CreateFood(ctx, params, ingredients, slot)
}

func (s *FoodService) UpdateFood(ctx context.Context, foodID int64, params repository.UpdateFoodParams) (*model.Food, error) {
	return s.foods.UpdateFood(ctx, foodID, params)
}

func (s *FoodService) DeleteFood(ctx context.Context, foodID int64) error {
	return s.foods.DeleteFood(ctx, foodID)
}

// ListFoodIngredients returns an empty list, not nil, for a food
// without ingredients.
func (s *FoodService) ListFoodIngredients(ctx context.Context, foodID int64) ([]model.IngredientLine, error) {
	food, err := s.GetFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if food.Ingredients == nil {
		return []model.IngredientLine{}, nil
	}
	return food.Ingredients, nil
}

// GetFoodNutrition weighs the food's ingredient lines, or reports its
// per 100 g facts when it has no ingredients.
func (s *FoodService) GetFoodNutrition(ctx context.Context, foodID int64) (*model.FoodNutrition, error) {
	food, err := s.GetFood(ctx, foodID)
	if err != nil {
		return nil, err
	}

	n := foodNutrition(*food, food.Ingredients)
	n.Nutrition = n.Nutrition.Round()
	return &n, nil
}
