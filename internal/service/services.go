// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"errors"
	"time"

	"github.com/deppfellow/mealplanner/internal/lib/cache"
	"github.com/deppfellow/mealplanner/internal/lib/job"
	"github.com/deppfellow/mealplanner/internal/repository"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/jackc/pgx/v5"
)

// Services groups the business services handed to handlers.
type Services struct {
	Auth       *AuthService
	Job        *job.JobService
	Catalog    *CatalogService
	Plan       *PlanService
	User       *UserService
	Food       *FoodService
	Ingredient *IngredientService
	ExtraFood  *ExtraFoodService
	Water      *WaterService
}

// NewServices wires every service. The catalog cache is disabled when
// Redis is not configured.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	if s.Job == nil {
		return nil, errors.New("job service is required")
	}

	refCache := cache.New(s.Redis, time.Duration(s.Config.Redis.CacheTTL)*time.Second, s.Logger)

	catalog := NewCatalogService(repos.Catalog, refCache)
	plans := NewPlanService(repos.Plan, repos.Food, catalog, s.Job.Client, s.Logger)

	return &Services{
		Auth:       NewAuthService(s),
		Job:        s.Job,
		Catalog:    catalog,
		Plan:       plans,
		User:       NewUserService(repos.User, plans, repos.ExtraFood),
		Food:       NewFoodService(repos.Food, repos.Plan, catalog),
		Ingredient: NewIngredientService(repos.Ingredient),
		ExtraFood:  NewExtraFoodService(repos.ExtraFood, catalog),
		Water:      NewWaterService(repos.Water),
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
