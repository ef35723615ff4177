package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/deppfellow/mealplanner/internal/errs"
	"github.com/deppfellow/mealplanner/internal/lib/cache"
	"github.com/deppfellow/mealplanner/internal/model"
)

const (
	daysCacheKey    = "catalog:days"
	momentsCacheKey = "catalog:moments"
)

// CatalogStore reads the seeded weekdays and meal moments.
type CatalogStore interface {
	ListDays(ctx context.Context) ([]model.WeekDay, error)
	ListMoments(ctx context.Context) ([]model.MealMoment, error)
}

// CatalogService serves the seeded week days and meal moments.
type CatalogService struct {
	store CatalogStore
	cache *cache.Cache
}

func NewCatalogService(store CatalogStore, c *cache.Cache) *CatalogService {
	return &CatalogService{store: store, cache: c}
}

// ListDays is served from the cache when Redis is available.
func (s *CatalogService) ListDays(ctx context.Context) ([]model.WeekDay, error) {
	return cache.GetOrLoad(ctx, s.cache, daysCacheKey, s.store.ListDays)
}

func (s *CatalogService) ListMoments(ctx context.Context) ([]model.MealMoment, error) {
	return cache.GetOrLoad(ctx, s.cache, momentsCacheKey, s.store.ListMoments)
}

// ResolveDay finds a week day by name, ignoring case. A numeric id is
// accepted as well.
func (s *CatalogService) ResolveDay(ctx context.Context, name string) (*model.WeekDay, error) {
	days, err := s.ListDays(ctx)
	if err != nil {
		return nil, err
	}

	for _, d := range days {
		if matchesReference(name, d.ID, d.Name) {
			return &d, nil
		}
	}

	code := "DAY_NOT_FOUND"
	return nil, errs.NewNotFoundError(fmt.Sprintf("Day '%s' not found", name), true, &code)
}

// ResolveMoment finds a meal moment by name, ignoring case. A numeric id is
// accepted as well.
func (s *CatalogService) ResolveMoment(ctx context.Context, name string) (*model.MealMoment, error) {
	moments, err := s.ListMoments(ctx)
	if err != nil {
		return nil, err
	}

	for _, m := range moments {
		if matchesReference(name, m.ID, m.Name) {
			return &m, nil
		}
	}

	code := "MEAL_MOMENT_NOT_FOUND"
	return nil, errs.NewNotFoundError(fmt.Sprintf("Meal moment '%s' not found", name), true, &code)
}

func matchesReference(input string, id int, name string) bool {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		return n == id
	}
	return strings.EqualFold(input, name)
}
