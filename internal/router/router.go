// Package router builds the echo instance: global middleware, the error
// handler, system routes and the /api/v1 routes.
package router

import (
	"net/http"

	"github.com/deppfellow/mealplanner/internal/handler"
	"github.com/deppfellow/mealplanner/internal/middleware"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with global middleware, system routes
// and the /api/v1 routes.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Metrics.Middleware(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)
	if middlewares.RateLimit.Enabled() {
		router.Use(middlewares.RateLimit.Limit())
	}

	registerSystemRoutes(router, h, middlewares)

	v1 := router.Group("/api/v1")
	if middlewares.Auth.Enabled() {
		v1.Use(middlewares.Auth.RequireAuth, middlewares.Auth.RequireSelf)
	}
	registerAPIRoutes(v1, h)

	return router
}

func registerAPIRoutes(g *echo.Group, h *handler.Handlers) {
	g.GET("/days", handler.Handle(h.Catalog.Handler, h.Catalog.ListDays, http.StatusOK, &handler.EmptyRequest{}))
	g.GET("/moments", handler.Handle(h.Catalog.Handler, h.Catalog.ListMoments, http.StatusOK, &handler.EmptyRequest{}))

	plans := g.Group("/plans")
	plans.GET("", handler.Handle(h.Plan.Handler, h.Plan.ListPlans, http.StatusOK, &handler.EmptyRequest{}))
	plans.POST("", handler.Handle(h.Plan.Handler, h.Plan.CreatePlan, http.StatusCreated, &handler.CreatePlanRequest{}))
	plans.GET("/:id", handler.Handle(h.Plan.Handler, h.Plan.GetWeeklyPlan, http.StatusOK, &handler.IDRequest{}))
	plans.PUT("/:id", handler.Handle(h.Plan.Handler, h.Plan.UpdatePlan, http.StatusOK, &handler.UpdatePlanRequest{}))
	plans.DELETE("/:id", handler.HandleNoContent(h.Plan.Handler, h.Plan.DeletePlan, http.StatusNoContent, &handler.IDRequest{}))
	plans.GET("/:id/foods", handler.Handle(h.Plan.Handler, h.Plan.ListPlanFoods, http.StatusOK, &handler.IDRequest{}))
	plans.PUT("/:id/foods", handler.Handle(h.Plan.Handler, h.Plan.UpdatePlanSlot, http.StatusOK, &handler.UpdatePlanSlotRequest{}))
	plans.GET("/:id/nutrition", handler.Handle(h.Plan.Handler, h.Plan.GetPlanNutrition, http.StatusOK, &handler.IDRequest{}))
	plans.POST("/:id/share", handler.Handle(h.Plan.Handler, h.Plan.SharePlan, http.StatusAccepted, &handler.SharePlanRequest{}))
	plans.GET("/:id/export", handler.HandleFile(h.Plan.Handler, h.Plan.ExportPlan, http.StatusOK, &handler.IDRequest{},
		"meal-plan.html", "text/html; charset=utf-8"))

	users := g.Group("/users/:user_id")
	users.GET("", handler.Handle(h.User.Handler, h.User.GetUser, http.StatusOK, &handler.UserRequest{}))
	users.GET("/plan", handler.Handle(h.User.Handler, h.User.GetUserPlan, http.StatusOK, &handler.UserRequest{}))
	users.PUT("/plan", handler.Handle(h.User.Handler, h.User.PutUserPlan, http.StatusOK, &handler.PutUserPlanRequest{}))
	users.GET("/plan/foods", handler.Handle(h.User.Handler, h.User.ListUserPlanFoods, http.StatusOK, &handler.UserRequest{}))
	users.POST("/plan/foods", handler.Handle(h.User.Handler, h.User.AddFoodToUserPlan, http.StatusOK, &handler.AddUserPlanFoodRequest{}))
	users.DELETE("/plan/foods", handler.Handle(h.User.Handler, h.User.RemoveFoodFromUserPlan, http.StatusOK, &handler.RemoveUserPlanFoodRequest{}))
	users.GET("/nutrition", handler.Handle(h.User.Handler, h.User.GetDailyNutrition, http.StatusOK, &handler.DailyNutritionRequest{}))

	users.GET("/extra-foods", handler.Handle(h.ExtraFood.Handler, h.ExtraFood.ListExtraFoods, http.StatusOK, &handler.ListExtraFoodsRequest{}))
	users.POST("/extra-foods", handler.Handle(h.ExtraFood.Handler, h.ExtraFood.CreateExtraFood, http.StatusCreated, &handler.CreateExtraFoodRequest{}))
	users.DELETE("/extra-foods/:id", handler.HandleNoContent(h.ExtraFood.Handler, h.ExtraFood.DeleteExtraFood, http.StatusNoContent, &handler.DeleteExtraFoodRequest{}))

	users.GET("/water/goal", handler.Handle(h.Water.Handler, h.Water.GetWaterGoal, http.StatusOK, &handler.UserRequest{}))
	users.PUT("/water/goal", handler.Handle(h.Water.Handler, h.Water.PutWaterGoal, http.StatusOK, &handler.PutWaterGoalRequest{}))
	users.GET("/water", handler.Handle(h.Water.Handler, h.Water.GetDailyWater, http.StatusOK, &handler.DailyWaterRequest{}))
	users.POST("/water", handler.Handle(h.Water.Handler, h.Water.LogWater, http.StatusCreated, &handler.LogWaterRequest{}))
	users.GET("/water/history", handler.Handle(h.Water.Handler, h.Water.GetWaterHistory, http.StatusOK, &handler.WaterHistoryRequest{}))
	users.DELETE("/water/:entry_id", handler.HandleNoContent(h.Water.Handler, h.Water.DeleteWaterEntry, http.StatusNoContent, &handler.DeleteWaterEntryRequest{}))

	g.GET("/extra-foods/:id/ingredients", handler.Handle(h.ExtraFood.Handler, h.ExtraFood.ListExtraFoodIngredients, http.StatusOK, &handler.IDRequest{}))

	foods := g.Group("/foods")
	foods.GET("", handler.Handle(h.Food.Handler, h.Food.ListFoods, http.StatusOK, &handler.ListFoodsRequest{}))
	foods.POST("", handler.Handle(h.Food.Handler, h.Food.CreateFood, http.StatusCreated, &handler.CreateFoodRequest{}))
	foods.GET("/:id", handler.Handle(h.Food.Handler, h.Food.GetFood, http.StatusOK, &handler.IDRequest{}))
	foods.PUT("/:id", handler.Handle(h.Food.Handler, h.Food.UpdateFood, http.StatusOK, &handler.UpdateFoodRequest{}))
	foods.DELETE("/:id", handler.HandleNoContent(h.Food.Handler, h.Food.DeleteFood, http.StatusNoContent, &handler.IDRequest{}))
	foods.GET("/:id/ingredients", handler.Handle(h.Food.Handler, h.Food.ListFoodIngredients, http.StatusOK, &handler.IDRequest{}))
	foods.GET("/:id/nutrition", handler.Handle(h.Food.Handler, h.Food.GetFoodNutrition, http.StatusOK, &handler.IDRequest{}))

	ingredients := g.Group("/ingredients")
	ingredients.GET("", handler.Handle(h.Ingredient.Handler, h.Ingredient.ListIngredients, http.StatusOK, &handler.EmptyRequest{}))
	ingredients.POST("", handler.Handle(h.Ingredient.Handler, h.Ingredient.CreateIngredient, http.StatusCreated, &handler.CreateIngredientRequest{}))
	ingredients.GET("/:id", handler.Handle(h.Ingredient.Handler, h.Ingredient.GetIngredient, http.StatusOK, &handler.IDRequest{}))
}
