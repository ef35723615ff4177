package handler

import (
	_ "embed"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/labstack/echo/v4"
)

//go:embed static/openapi.html
var openAPIPage string

const apiPrefix = "/api/v1"

var pathParam = regexp.MustCompile(`:([a-zA-Z_]+)`)

// OpenAPIHandler serves the docs UI and a route listing generated from the
// registered echo routes.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI serves the Swagger UI page.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTML(http.StatusOK, openAPIPage)
}

// OpenAPIDocument is the subset of OpenAPI 3 that BuildOpenAPIDocument
// fills.
type OpenAPIDocument struct {
	OpenAPI string                                 `json:"openapi"`
	Info    openAPIInfo                            `json:"info"`
	Paths   map[string]map[string]openAPIOperation `json:"paths"`
}

type openAPIInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type openAPIOperation struct {
	OperationID string             `json:"operationId"`
	Tags        []string           `json:"tags"`
	Parameters  []openAPIParameter `json:"parameters,omitempty"`
	Responses   map[string]any     `json:"responses"`
}

type openAPIParameter struct {
	Name     string         `json:"name"`
	In       string         `json:"in"`
	Required bool           `json:"required"`
	Schema   map[string]any `json:"schema"`
}

// ServeOpenAPISpec serves the document built from the registered routes.
func (h *OpenAPIHandler) ServeOpenAPISpec(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.JSON(http.StatusOK, BuildOpenAPIDocument(c.Echo().Routes()))
}

// BuildOpenAPIDocument lists every /api/v1 route as an OpenAPI 3 path.
// Echo's ":name" segments become "{name}" path parameters.
func BuildOpenAPIDocument(routes []*echo.Route) OpenAPIDocument {
	doc := OpenAPIDocument{
		OpenAPI: "3.0.3",
		Info:    openAPIInfo{Title: "Meal Planner API", Version: "1.0.0"},
		Paths:   make(map[string]map[string]openAPIOperation),
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	for _, r := range routes {
		if !strings.HasPrefix(r.Path, apiPrefix+"/") {
			continue
		}
		switch r.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			continue
		}

		rel := strings.TrimPrefix(r.Path, apiPrefix)
		path := pathParam.ReplaceAllString(r.Path, "{$1}")

		var params []openAPIParameter
		for _, m := range pathParam.FindAllStringSubmatch(r.Path, -1) {
			params = append(params, openAPIParameter{
				Name:     m[1],
				In:       "path",
				Required: true,
				Schema:   map[string]any{"type": "string"},
			})
		}

		if doc.Paths[path] == nil {
			doc.Paths[path] = make(map[string]openAPIOperation)
		}
		doc.Paths[path][strings.ToLower(r.Method)] = openAPIOperation{
			OperationID: operationID(r.Method, r.Path),
			Tags:        []string{strings.SplitN(strings.TrimPrefix(rel, "/"), "/", 2)[0]},
			Parameters:  params,
			Responses:   map[string]any{"default": map[string]any{"description": "JSON response"}},
		}
	}

	return doc
}

// operationID turns "GET /api/v1/plans/:id/foods" into "get_plans_id_foods".
func operationID(method, path string) string {
	path = strings.TrimPrefix(path, apiPrefix+"/")
	path = strings.NewReplacer(":", "", "/", "_", "-", "_").Replace(path)
	return strings.ToLower(method) + "_" + path
}
