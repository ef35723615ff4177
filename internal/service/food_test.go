package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/mealplanner/internal/lib/utils"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineNutrition(t *testing.T) {
	gram := model.IngredientLine{
		Ingredient: model.Ingredient{MeasureType: model.MeasureGram, Nutrition: model.Nutrition{Calories: 52, Fiber: 2.4}},
		Quantity:   150,
	}
	unit := model.IngredientLine{
		Ingredient: model.Ingredient{MeasureType: model.MeasureUnit, Nutrition: model.Nutrition{Calories: 78, Cholesterol: 186}},
		Quantity:   2,
	}

	assert.InDelta(t, 78, lineNutrition(gram).Calories, 0.001)
	assert.InDelta(t, 3.6, lineNutrition(gram).Fiber, 0.001)
	assert.InDelta(t, 156, lineNutrition(unit).Calories, 0.001)

	total := sumLines([]model.IngredientLine{gram, unit})
	assert.InDelta(t, 234, total.Calories, 0.001)
	assert.InDelta(t, 372, total.Cholesterol, 0.001)
}

func TestGetFoodNutrition(t *testing.T) {
	plain := food(1, "Apple")
	plain.CaloriesPer100g = utils.Ptr(52.0)

	env := newTestEnv(plain, food(2, "Omelette"))
	env.foods.lines[2] = []model.IngredientLine{
		{Ingredient: model.Ingredient{MeasureType: model.MeasureUnit, Nutrition: model.Nutrition{Calories: 78}}, Quantity: 3},
	}
	ctx := context.Background()

	n, err := env.foodSvc.GetFoodNutrition(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.BasisPer100g, n.Basis)
	assert.InDelta(t, 52, n.Nutrition.Calories, 0.001)
	assert.Zero(t, n.Nutrition.Protein)

	n, err = env.foodSvc.GetFoodNutrition(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.BasisIngredients, n.Basis)
	assert.InDelta(t, 234, n.Nutrition.Calories, 0.001)

	_, err = env.foodSvc.GetFoodNutrition(ctx, 3)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestListFoodIngredientsEmpty(t *testing.T) {
	env := newTestEnv(food(1, "Apple"))

	lines, err := env.foodSvc.ListFoodIngredients(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestCreateFoodWithPlanLink(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	plan, _ := env.planSvc.CreatePlan(ctx, repository.CreatePlanParams{Title: "Week"})

	params := repository.CreateFoodParams{Name: "Soup", Price: decimal.RequireFromString("4.20")}

	created, err := env.foodSvc.CreateFood(ctx, params, nil, &PlanLink{PlanID: plan.ID, Day: "friday", Moment: "dinner"})
	require.NoError(t, err)
	assert.Equal(t, "Soup", created.Name)
	require.NotNil(t, env.foods.created)
	assert.Equal(t, model.PlanSlot{PlanID: plan.ID, DayID: 5, MealMomentID: 4}, *env.foods.created)

	_, err = env.foodSvc.CreateFood(ctx, params, nil, &PlanLink{PlanID: 404, Day: "friday", Moment: "dinner"})
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = env.foodSvc.CreateFood(ctx, params, nil, &PlanLink{PlanID: plan.ID, Day: "friday", Moment: "supper"})
	requireHTTPStatus(t, err, http.StatusNotFound)

	env.foods.created = nil
	_, err = env.foodSvc.CreateFood(ctx, params, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, env.foods.created)
}

func TestExtraFoods(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.extraSvc.CreateExtraFood(ctx, CreateExtraFoodInput{UserID: "u", Name: "Cookie", Moment: "Snack"})
	require.NoError(t, err)
	assert.Equal(t, 3, created.MealMomentID)

	_, err = env.extraSvc.ListExtraFoods(ctx, "u", nil, "dinner")
	require.NoError(t, err)
	require.NotNil(t, env.extras.filter.MealMomentID)
	assert.Equal(t, 4, *env.extras.filter.MealMomentID)

	_, err = env.extraSvc.ListExtraFoods(ctx, "u", nil, "elevenses")
	requireHTTPStatus(t, err, http.StatusNotFound)

	lines, err := env.extraSvc.ListExtraFoodIngredients(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = env.extraSvc.ListExtraFoodIngredients(ctx, 404)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
