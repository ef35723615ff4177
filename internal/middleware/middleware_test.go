package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/mealplanner/internal/config"
	"github.com/deppfellow/mealplanner/internal/errs"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"http://localhost:3000"},
			},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func do(e *echo.Echo, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())

	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusOK)
	})

	t.Run("reuses a valid incoming id", func(t *testing.T) {
		id := "3f1c2a8e-5b7d-4c1e-9a2b-0d4e6f8a1b3c"
		rec := do(e, http.MethodGet, "/", map[string]string{RequestIDHeader: id})
		assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
		assert.Equal(t, id, seen)
	})

	t.Run("replaces a malformed id", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/", map[string]string{RequestIDHeader: "not-a-uuid"})
		got := rec.Header().Get(RequestIDHeader)
		assert.NotEqual(t, "not-a-uuid", got)
		assert.Len(t, got, 36)
		assert.Equal(t, got, seen)
	})
}

func TestEnhanceContextStoresLogger(t *testing.T) {
	s := newTestServer()
	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())

	var fromEcho, fromCtx *zerolog.Logger
	e.GET("/", func(c echo.Context) error {
		fromEcho = GetLogger(c)
		fromCtx = zerolog.Ctx(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	do(e, http.MethodGet, "/", nil)
	require.NotNil(t, fromEcho)
	require.NotNil(t, fromCtx)
	assert.Equal(t, fromEcho.GetLevel(), fromCtx.GetLevel())
}

func TestGetLoggerFallsBackToNop(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	l := GetLogger(c)
	require.NotNil(t, l)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestGlobalErrorHandler(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	e.GET("/http-error", func(c echo.Context) error {
		return errs.NewConflictError("Slot already taken", true, nil)
	})
	e.GET("/no-rows", func(c echo.Context) error {
		return fmt.Errorf("table:foods: %w", pgx.ErrNoRows)
	})
	e.GET("/boom", func(c echo.Context) error {
		return fmt.Errorf("connection reset")
	})
	e.GET("/echo", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusMethodNotAllowed, "nope")
	})

	tests := []struct {
		path    string
		status  int
		code    string
		message string
	}{
		{"/http-error", http.StatusConflict, "CONFLICT", "Slot already taken"},
		{"/no-rows", http.StatusNotFound, "NOT_FOUND", "Food not found"},
		{"/boom", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error"},
		{"/echo", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "nope"},
		{"/missing", http.StatusNotFound, "ROUTE_NOT_FOUND", "Route not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(e, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.status, rec.Code)

			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestStatusFromError(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Equal(t, http.StatusBadRequest, StatusFromError(c, errs.NewBadRequestError("bad", false, nil, nil, nil)))
	assert.Equal(t, http.StatusTeapot, StatusFromError(c, echo.NewHTTPError(http.StatusTeapot)))
	assert.Equal(t, http.StatusNotFound, StatusFromError(c, pgx.ErrNoRows))
	assert.Equal(t, http.StatusInternalServerError, StatusFromError(c, fmt.Errorf("boom")))
}

func TestMetricsMiddleware(t *testing.T) {
	s := newTestServer()
	m := NewMetricsMiddleware()

	e := newTestEcho(s)
	e.Use(m.Middleware())
	e.GET("/api/v1/plans/:id", func(c echo.Context) error {
		if c.Param("id") == "0" {
			return errs.NewNotFoundError("Plan not found", true, nil)
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", m.Handler())

	do(e, http.MethodGet, "/api/v1/plans/1", nil)
	do(e, http.MethodGet, "/api/v1/plans/2", nil)
	do(e, http.MethodGet, "/api/v1/plans/0", nil)

	rec := do(e, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `mealplanner_http_requests_total{method="GET",route="/api/v1/plans/:id",status_code="200"} 2`)
	assert.Contains(t, body, `mealplanner_http_requests_total{method="GET",route="/api/v1/plans/:id",status_code="404"} 1`)
	assert.Contains(t, body, "mealplanner_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer()
	s.Config.Server.RateLimit = 1
	s.Config.Server.RateBurst = 2

	rl := NewRateLimitMiddleware(s)
	require.True(t, rl.Enabled())

	e := newTestEcho(s)
	e.Use(rl.Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	header := map[string]string{echo.HeaderXRealIP: "203.0.113.7"}
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/", header).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/", header).Code)

	rec := do(e, http.MethodGet, "/", header)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TOO_MANY_REQUESTS", body.Code)

	other := map[string]string{echo.HeaderXRealIP: "203.0.113.8"}
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/", other).Code)
}

func TestRateLimitDisabledByDefault(t *testing.T) {
	assert.False(t, NewRateLimitMiddleware(newTestServer()).Enabled())
}

func TestRequireSelf(t *testing.T) {
	s := newTestServer()
	auth := NewAuthMiddleware(s)
	assert.False(t, auth.Enabled())

	e := newTestEcho(s)
	asUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(UserIDKey, "user_1")
			return next(c)
		}
	}
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	g := e.Group("/api/v1", asUser, auth.RequireSelf)
	g.GET("/users/:user_id", ok)
	g.GET("/days", ok)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/v1/users/user_1", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/api/v1/users/user_2", nil).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/v1/days", nil).Code)
}
