package repository

import (
	"github.com/deppfellow/mealplanner/internal/database"
	"github.com/deppfellow/mealplanner/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Catalog    *CatalogRepository
	Plan       *PlanRepository
	User       *UserRepository
	Food       *FoodRepository
	Ingredient *IngredientRepository
	ExtraFood  *ExtraFoodRepository
	Water      *WaterRepository
}

// NewRepositories builds every repository over the shared pool.
func NewRepositories(s *server.Server) *Repositories {
	return newRepositories(s.DB.Pool)
}

func newRepositories(db database.DBTX) *Repositories {
	return &Repositories{
		Catalog:    NewCatalogRepository(db),
		Plan:       NewPlanRepository(db),
		User:       NewUserRepository(db),
		Food:       NewFoodRepository(db),
		Ingredient: NewIngredientRepository(db),
		ExtraFood:  NewExtraFoodRepository(db),
		Water:      NewWaterRepository(db),
	}
}
