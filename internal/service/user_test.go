package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/mealplanner/internal/lib/utils"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutUserPlan(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	plan, _ := env.planSvc.CreatePlan(ctx, repository.CreatePlanParams{Title: "Week"})

	assignment, err := env.userSvc.PutUserPlan(ctx, "user_1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, assignment.PlanID)

	got, err := env.userSvc.GetUserPlan(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "Week", got.Title)

	_, err = env.userSvc.PutUserPlan(ctx, "user_1", 999)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUserPlanFoods(t *testing.T) {
	env := newTestEnv(food(1, "Oats"), food(2, "Eggs"))
	ctx := context.Background()

	_, err := env.userSvc.AddFoodToUserPlan(ctx, "user_1", "monday", "breakfast", 1)
	assert.ErrorIs(t, err, pgx.ErrNoRows, "user without plan")

	plan, _ := env.planSvc.CreatePlan(ctx, repository.CreatePlanParams{Title: "Week"})
	_, err = env.userSvc.PutUserPlan(ctx, "user_1", plan.ID)
	require.NoError(t, err)

	weekly, err := env.userSvc.AddFoodToUserPlan(ctx, "user_1", "monday", "breakfast", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), weekly.WeeklyPlan[0].Meals[0].Food.ID)

	_, err = env.userSvc.AddFoodToUserPlan(ctx, "user_1", "monday", "breakfast", 2)
	requireHTTPStatus(t, err, http.StatusConflict)

	foods, err := env.userSvc.ListUserPlanFoods(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "Oats", foods[0].Name)

	weekly, err = env.userSvc.RemoveFoodFromUserPlan(ctx, "user_1", "monday", "breakfast")
	require.NoError(t, err)
	assert.Nil(t, weekly.WeeklyPlan[0].Meals[0].Food)

	weekly, err = env.userSvc.GetUserWeeklyPlan(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, weekly.ID)
}

func TestGetDailyNutrition(t *testing.T) {
	oats := food(1, "Oats")
	oats.CaloriesPer100g = utils.Ptr(380.0)

	env := newTestEnv(oats)
	ctx := context.Background()

	plan, _ := env.planSvc.CreatePlan(ctx, repository.CreatePlanParams{Title: "Week"})
	_, _ = env.userSvc.PutUserPlan(ctx, "user_1", plan.ID)
	_, err := env.userSvc.AddFoodToUserPlan(ctx, "user_1", "wednesday", "breakfast", 1)
	require.NoError(t, err)
	_, err = env.userSvc.AddFoodToUserPlan(ctx, "user_1", "thursday", "breakfast", 1)
	require.NoError(t, err)

	env.extras.extras = []model.ExtraFood{
		{ID: 1, UserID: "user_1", Name: "Cookie", MealMomentName: "snack", NutritionFacts: model.NutritionFacts{Calories: utils.Ptr(120.0)}},
		{ID: 2, UserID: "user_1", Name: "Smoothie", MealMomentName: "snack"},
	}
	env.extras.lines = map[int64][]model.IngredientLine{
		2: {{Ingredient: model.Ingredient{MeasureType: model.MeasureUnit, Nutrition: model.Nutrition{Calories: 90}}, Quantity: 1}},
	}

	// 2024-05-08 is a Wednesday.
	date := time.Date(2024, 5, 8, 15, 30, 0, 0, time.UTC)

	report, err := env.userSvc.GetDailyNutrition(ctx, "user_1", date)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-08", report.Date)
	assert.Equal(t, "wednesday", report.Day)
	require.Len(t, report.Items, 3)

	assert.Equal(t, "plan", report.Items[0].Source)
	assert.Equal(t, model.BasisPer100g, report.Items[0].Basis)
	assert.Equal(t, model.BasisDeclared, report.Items[1].Basis)
	assert.Equal(t, model.BasisIngredients, report.Items[2].Basis)

	assert.InDelta(t, 380, report.PlanTotal.Calories, 0.001)
	assert.InDelta(t, 210, report.ExtraTotal.Calories, 0.001)
	assert.InDelta(t, 590, report.Total.Calories, 0.001)

	require.NotNil(t, env.extras.filter.Date)
	assert.Equal(t, time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), *env.extras.filter.Date)
}

func TestGetDailyNutritionWithoutPlan(t *testing.T) {
	env := newTestEnv()
	env.users.users["user_2"] = &model.User{ID: "user_2"}

	report, err := env.userSvc.GetDailyNutrition(context.Background(), "user_2", time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "sunday", report.Day)
	assert.Empty(t, report.Items)
	assert.Zero(t, report.Total.Calories)

	_, err = env.userSvc.GetDailyNutrition(context.Background(), "ghost", time.Now())
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
