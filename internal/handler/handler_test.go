package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/mealplanner/internal/config"
	"github.com/deppfellow/mealplanner/internal/errs"
	"github.com/deppfellow/mealplanner/internal/middleware"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/deppfellow/mealplanner/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	days  []model.WeekDay
	calls int
}

func (s *stubCatalog) ListDays(ctx context.Context) ([]model.WeekDay, error) {
	s.calls++
	return s.days, nil
}

func (s *stubCatalog) ListMoments(ctx context.Context) ([]model.MealMoment, error) {
	return []model.MealMoment{{ID: 1, Name: "breakfast", Position: 1}}, nil
}

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNewRequestReturnsFreshValue(t *testing.T) {
	template := &IDRequest{ID: 7}

	got := newRequest(template)
	require.NotSame(t, template, got)
	assert.Zero(t, got.ID)
	assert.Equal(t, int64(7), template.ID)
}

func TestHandleListDays(t *testing.T) {
	s := newTestServer()
	store := &stubCatalog{days: []model.WeekDay{{ID: 1, Name: "monday"}, {ID: 2, Name: "tuesday"}}}
	h := NewCatalogHandler(s, service.NewCatalogService(store, nil))

	e := newTestEcho(s)
	e.GET("/api/v1/days", Handle(h.Handler, h.ListDays, http.StatusOK, &EmptyRequest{}))

	rec := serve(e, http.MethodGet, "/api/v1/days", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var days []model.WeekDay
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &days))
	assert.Equal(t, store.days, days)
	assert.Equal(t, 1, store.calls)
}

func TestHandleRejectsInvalidPathParam(t *testing.T) {
	s := newTestServer()
	called := false
	fn := func(c echo.Context, req *IDRequest) (*IDRequest, error) {
		called = true
		return req, nil
	}

	e := newTestEcho(s)
	e.GET("/api/v1/foods/:id", Handle(NewHandler(s), fn, http.StatusOK, &IDRequest{}))

	rec := serve(e, http.MethodGet, "/api/v1/foods/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "id", body.Errors[0].Field)

	rec = serve(e, http.MethodGet, "/api/v1/foods/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)

	rec = serve(e, http.MethodGet, "/api/v1/foods/12", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
	assert.True(t, called)
}

func TestCreatePlanRequestValidation(t *testing.T) {
	s := newTestServer()
	var got *CreatePlanRequest
	fn := func(c echo.Context, req *CreatePlanRequest) (*CreatePlanRequest, error) {
		got = req
		return req, nil
	}

	e := newTestEcho(s)
	e.POST("/api/v1/plans", Handle(NewHandler(s), fn, http.StatusCreated, &CreatePlanRequest{}))

	t.Run("plain plan needs a title", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/v1/plans", `{"description":"x"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, []errs.FieldError{{Field: "title", Error: "is required"}}, body.Errors)
	})

	t.Run("nested plan object", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/v1/plans", `{"plan":{"title":"Bulk","objective":"gain"}}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, got)
		body := got.body()
		require.NotNil(t, body)
		assert.Equal(t, "Bulk", body.Title)
		assert.Equal(t, "gain", body.Objective)
	})

	t.Run("nested plan needs a title", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/v1/plans", `{"plan":{"description":"x"}}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, []errs.FieldError{{Field: "plan.title", Error: "is required"}}, body.Errors)
	})

	t.Run("top-level fields still accepted", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/v1/plans", `{"title":"Cut"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, got.body())
		assert.Equal(t, "Cut", got.body().Title)
	})

	t.Run("preferences need user and foods", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/v1/plans?from_preferences=true", `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		require.Len(t, body.Errors, 2)
		assert.Equal(t, "user_id", body.Errors[0].Field)
		assert.Equal(t, "food_ids", body.Errors[1].Field)
	})

	t.Run("preferences accepted", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/v1/plans?from_preferences=true", `{"user_id":"u1","food_ids":[3,1]}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, got)
		assert.True(t, got.FromPreferences)
		assert.Equal(t, []int64{3, 1}, got.FoodIDs)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/v1/plans", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWaterHistoryRequestDates(t *testing.T) {
	s := newTestServer()
	var got *WaterHistoryRequest
	fn := func(c echo.Context, req *WaterHistoryRequest) (*WaterHistoryRequest, error) {
		got = req
		return req, nil
	}

	e := newTestEcho(s)
	e.GET("/api/v1/users/:user_id/water/history", Handle(NewHandler(s), fn, http.StatusOK, &WaterHistoryRequest{}))

	rec := serve(e, http.MethodGet, "/api/v1/users/u1/water/history?from=2024-13-01&to=2024-01-07", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, []errs.FieldError{{Field: "from", Error: "must be a date in the format YYYY-MM-DD"}}, body.Errors)

	rec = serve(e, http.MethodGet, "/api/v1/users/u1/water/history?to=2024-01-07", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "from", decodeError(t, rec).Errors[0].Field)

	rec = serve(e, http.MethodGet, "/api/v1/users/u1/water/history?from=2024-01-01&to=2024-01-07", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "2024-01-01", got.from.Format("2006-01-02"))
	assert.Equal(t, "2024-01-07", got.to.Format("2006-01-02"))
}

func TestRemoveUserPlanFoodRequestSources(t *testing.T) {
	s := newTestServer()
	var got *RemoveUserPlanFoodRequest
	fn := func(c echo.Context, req *RemoveUserPlanFoodRequest) (*RemoveUserPlanFoodRequest, error) {
		got = req
		return req, nil
	}

	e := newTestEcho(s)
	e.DELETE("/api/v1/users/:user_id/plan/foods", Handle(NewHandler(s), fn, http.StatusOK, &RemoveUserPlanFoodRequest{}))

	t.Run("json body", func(t *testing.T) {
		rec := serve(e, http.MethodDelete, "/api/v1/users/u1/plan/foods", `{"day":"monday","moment":"lunch"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, "monday", got.Day)
		assert.Equal(t, "lunch", got.Moment)
	})

	t.Run("query string", func(t *testing.T) {
		rec := serve(e, http.MethodDelete, "/api/v1/users/u1/plan/foods?day=friday&moment=dinner", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "friday", got.Day)
		assert.Equal(t, "dinner", got.Moment)
	})

	t.Run("missing slot", func(t *testing.T) {
		rec := serve(e, http.MethodDelete, "/api/v1/users/u1/plan/foods", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, decodeError(t, rec).Errors, 2)
	})
}

func TestCreateFoodRequestEmbeddedFieldPath(t *testing.T) {
	s := newTestServer()
	fn := func(c echo.Context, req *CreateFoodRequest) (*CreateFoodRequest, error) {
		return req, nil
	}

	e := newTestEcho(s)
	e.POST("/api/v1/foods", Handle(NewHandler(s), fn, http.StatusCreated, &CreateFoodRequest{}))

	rec := serve(e, http.MethodPost, "/api/v1/foods", `{"name":"Oatmeal","price":"2.50","calories_per_100g":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "calories_per_100g", body.Errors[0].Field)
}

func TestHandleNoContent(t *testing.T) {
	s := newTestServer()
	var deleted int64
	fn := func(c echo.Context, req *IDRequest) error {
		deleted = req.ID
		return nil
	}

	e := newTestEcho(s)
	e.DELETE("/api/v1/plans/:id", HandleNoContent(NewHandler(s), fn, http.StatusNoContent, &IDRequest{}))

	rec := serve(e, http.MethodDelete, "/api/v1/plans/5", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(5), deleted)
}

func TestHandleFile(t *testing.T) {
	s := newTestServer()
	fn := func(c echo.Context, req *IDRequest) ([]byte, error) {
		return []byte("<html></html>"), nil
	}

	e := newTestEcho(s)
	e.GET("/api/v1/plans/:id/export", HandleFile(NewHandler(s), fn, http.StatusOK, &IDRequest{}, "meal-plan.html", "text/html; charset=utf-8"))

	rec := serve(e, http.MethodGet, "/api/v1/plans/1/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=meal-plan.html", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "<html></html>", rec.Body.String())
}

func TestHandlerErrorUsesHTTPErrorShape(t *testing.T) {
	s := newTestServer()
	code := "PLAN_NOT_FOUND"
	fn := func(c echo.Context, req *IDRequest) (*model.Plan, error) {
		return nil, errs.NewNotFoundError("Plan not found", true, &code)
	}

	e := newTestEcho(s)
	e.GET("/api/v1/plans/:id", Handle(NewHandler(s), fn, http.StatusOK, &IDRequest{}))

	rec := serve(e, http.MethodGet, "/api/v1/plans/9", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "PLAN_NOT_FOUND", body.Code)
	assert.Equal(t, "Plan not found", body.Message)
	assert.True(t, body.Override)
}

func TestCheckHealthWithoutDependencies(t *testing.T) {
	s := newTestServer()
	h := NewHealthHandler(s)

	e := newTestEcho(s)
	e.GET("/status", h.CheckHealth)

	rec := serve(e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Empty(t, body.Checks)
}

type stubExtras struct {
	created repository.CreateExtraFoodParams
}

func (s *stubExtras) ListExtraFoods(ctx context.Context, userID string, filter repository.ExtraFoodFilter) ([]model.ExtraFood, error) {
	return nil, nil
}

func (s *stubExtras) ListIngredientLines(ctx context.Context, extraFoodIDs []int64) (map[int64][]model.IngredientLine, error) {
	return map[int64][]model.IngredientLine{}, nil
}

func (s *stubExtras) CreateExtraFood(ctx context.Context, params repository.CreateExtraFoodParams, ingredients []model.IngredientQuantity) (*model.ExtraFood, error) {
	s.created = params
	return &model.ExtraFood{ID: 1, UserID: params.UserID, Name: params.Name, MealMomentID: params.MealMomentID}, nil
}

func (s *stubExtras) GetExtraFoodByID(ctx context.Context, extraFoodID int64) (*model.ExtraFood, error) {
	return nil, nil
}

func (s *stubExtras) DeleteExtraFood(ctx context.Context, userID string, extraFoodID int64) error {
	return nil
}

func TestCreateExtraFoodNutrition(t *testing.T) {
	s := newTestServer()
	store := &stubExtras{}
	catalog := service.NewCatalogService(&stubCatalog{}, nil)
	h := NewExtraFoodHandler(s, service.NewExtraFoodService(store, catalog))

	e := newTestEcho(s)
	e.POST("/api/v1/users/:user_id/extra-foods", Handle(h.Handler, h.CreateExtraFood, http.StatusCreated, &CreateExtraFoodRequest{}))

	t.Run("facts are passed through", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/v1/users/u1/extra-foods", `{"name":"Apple","moment":"breakfast","date":"2024-03-04","nutrition":{"calories":52}}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, store.created.Nutrition.Calories)
		assert.Equal(t, 52.0, *store.created.Nutrition.Calories)
		assert.Equal(t, 1, store.created.MealMomentID)
	})

	t.Run("missing facts become empty", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/v1/users/u1/extra-foods", `{"name":"Pear","moment":"breakfast"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, model.NutritionFacts{}, store.created.Nutrition)
		assert.Equal(t, "Pear", store.created.Name)
	})
}
