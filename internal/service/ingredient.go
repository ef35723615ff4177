package service

import (
	"context"

	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
)

type IngredientStore interface {
	ListIngredients(ctx context.Context) ([]model.Ingredient, error)
	GetIngredientByID(ctx context.Context, ingredientID int64) (*model.Ingredient, error)
	CreateIngredient(ctx context.Context, params repository.CreateIngredientParams) (*model.Ingredient, error)
}

// IngredientService manages the ingredient catalog.
type IngredientService struct {
	store IngredientStore
}

func NewIngredientService(store IngredientStore) *IngredientService {
	return &IngredientService{store: store}
}

func (s *IngredientService) ListIngredients(ctx context.Context) ([]model.Ingredient, error) {
	return s.store.ListIngredients(ctx)
}

func (s *IngredientService) GetIngredient(ctx context.Context, ingredientID int64) (*model.Ingredient, error) {
	return s.store.GetIngredientByID(ctx, ingredientID)
}

// CreateIngredient fails with a conflict when the name is taken.
func (s *IngredientService) CreateIngredient(ctx context.Context, params repository.CreateIngredientParams) (*model.Ingredient, error) {
	return s.store.CreateIngredient(ctx, params)
}
