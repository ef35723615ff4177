package service

import (
	"context"
	"time"

	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
)

type ExtraFoodStore interface {
	ExtraFoodReader
	CreateExtraFood(ctx context.Context, params repository.CreateExtraFoodParams, ingredients []model.IngredientQuantity) (*model.ExtraFood, error)
	GetExtraFoodByID(ctx context.Context, extraFoodID int64) (*model.ExtraFood, error)
	DeleteExtraFood(ctx context.Context, userID string, extraFoodID int64) error
}

// CreateExtraFoodInput names the meal moment instead of its id.
type CreateExtraFoodInput struct {
	UserID      string
	Name        string
	Description string
	ConsumedOn  time.Time
	Moment      string
	Nutrition   model.NutritionFacts
	Ingredients []model.IngredientQuantity
}

// ExtraFoodService records foods eaten outside the plan.
type ExtraFoodService struct {
	store   ExtraFoodStore
	catalog *CatalogService
}

func NewExtraFoodService(store ExtraFoodStore, catalog *CatalogService) *ExtraFoodService {
	return &ExtraFoodService{store: store, catalog: catalog}
}

// CreateExtraFood resolves the moment name and stores the entry with
// its ingredient lines.
func (s *ExtraFoodService) CreateExtraFood(ctx context.Context, in CreateExtraFoodInput) (*model.ExtraFood, error) {
	moment, err := s.catalog.ResolveMoment(ctx, in.Moment)
	if err != nil {
		return nil, err
	}

	return s.store.CreateExtraFood(ctx, repository.CreateExtraFoodParams{
		UserID:       in.UserID,
		Name:         in.Name,
		Description:  in.Description,
		ConsumedOn:   in.ConsumedOn,
		MealMomentID: moment.ID,
		Nutrition:    in.Nutrition,
	}, in.Ingredients)
}

// ListExtraFoods filters by date and moment name when given.
func (s *ExtraFoodService) ListExtraFoods(ctx context.Context, userID string, date *time.Time, moment string) ([]model.ExtraFood, error) {
	filter := repository.ExtraFoodFilter{Date: date}

	if moment != "" {
		m, err := s.catalog.ResolveMoment(ctx, moment)
		if err != nil {
			return nil, err
		}
		filter.MealMomentID = &m.ID
	}

	return s.store.ListExtraFoods(ctx, userID, filter)
}

func (s *ExtraFoodService) ListExtraFoodIngredients(ctx context.Context, extraFoodID int64) ([]model.IngredientLine, error) {
	if _, err := s.store.GetExtraFoodByID(ctx, extraFoodID); err != nil {
		return nil, err
	}

	lines, err := s.store.ListIngredientLines(ctx, []int64{extraFoodID})
	if err != nil {
		return nil, err
	}
	if lines[extraFoodID] == nil {
		return []model.IngredientLine{}, nil
	}
	return lines[extraFoodID], nil
}

// DeleteExtraFood removes an entry owned by userID.
func (s *ExtraFoodService) DeleteExtraFood(ctx context.Context, userID string, extraFoodID int64) error {
	return s.store.DeleteExtraFood(ctx, userID, extraFoodID)
}
