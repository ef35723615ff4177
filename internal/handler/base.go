package handler

import (
	"net/http"
	"reflect"
	"time"

	"github.com/deppfellow/mealplanner/internal/middleware"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/deppfellow/mealplanner/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Handler holds the shared application dependencies of every handler.
type Handler struct {
	server *server.Server
}

// NewHandler returns a Handler by value; it only holds a pointer.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint receiving a bound and validated request.
// Req is a pointer type, e.g. *IDRequest.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint without a response body.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// responder writes a successful result. kind names it in logs and traces.
type responder struct {
	kind  string
	write func(c echo.Context, result any) error
	attrs func(txn *newrelic.Transaction, result any)
}

func jsonResponder(status int) responder {
	return responder{
		kind: "json",
		write: func(c echo.Context, result any) error {
			return c.JSON(status, result)
		},
	}
}

func noContentResponder(status int) responder {
	return responder{
		kind: "no_content",
		write: func(c echo.Context, _ any) error {
			return c.NoContent(status)
		},
	}
}

// fileResponder sends result, which must be []byte, as an attachment.
func fileResponder(status int, filename, contentType string) responder {
	return responder{
		kind: "file",
		write: func(c echo.Context, result any) error {
			c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
			return c.Blob(status, contentType, result.([]byte))
		},
		attrs: func(txn *newrelic.Transaction, result any) {
			txn.AddAttribute("file.name", filename)
			txn.AddAttribute("file.content_type", contentType)
			if data, ok := result.([]byte); ok {
				txn.AddAttribute("file.size_bytes", len(data))
			}
		},
	}
}

// pipeline runs one request: bind and validate, call the endpoint, write
// the result. Errors are returned untouched for the global error handler.
type pipeline[Req validation.Validatable] struct {
	call    func(c echo.Context, req Req) (any, error)
	respond responder
}

func (p pipeline[Req]) serve(c echo.Context, req Req) error {
	start := time.Now()
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
		txn.AddAttribute("handler.kind", p.respond.kind)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", "handler").
		Str("response", p.respond.kind).
		Str("route", c.Path()).
		Logger()

	validated := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		p.fail(c, txn, &logger, err, "validation", time.Since(validated))
		return err
	}
	validationDuration := time.Since(validated)
	logger.Debug().Dur("validation_duration", validationDuration).Msg("request validated")

	called := time.Now()
	result, err := p.call(c, req)
	handlerDuration := time.Since(called)
	if err != nil {
		p.fail(c, txn, &logger, err, "handler", handlerDuration)
		return err
	}

	if txn != nil {
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("handler.status", "success")
		if p.respond.attrs != nil {
			p.respond.attrs(txn, result)
		}
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request handled")

	return p.respond.write(c, result)
}

// fail records a failed phase. Client errors are logged at debug since the
// request logger already reports them once.
func (p pipeline[Req]) fail(c echo.Context, txn *newrelic.Transaction, logger *zerolog.Logger, err error, phase string, took time.Duration) {
	event := logger.Debug()
	if middleware.StatusFromError(c, err) >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("phase", phase).Dur("duration", took).Msg("request failed")

	if txn != nil {
		txn.NoticeError(nrpkgerrors.Wrap(err))
		txn.AddAttribute(phase+".status", "failed")
		txn.AddAttribute(phase+".duration_ms", took.Milliseconds())
	}
}

// newRequest returns a zero value of the type behind template, so that
// concurrent requests never share one bound struct.
func newRequest[Req validation.Validatable](template Req) Req {
	t := reflect.TypeOf(template)
	if t.Kind() != reflect.Pointer {
		return template
	}
	return reflect.New(t.Elem()).Interface().(Req)
}

// Handle adapts a typed endpoint returning JSON:
//
//	plans.POST("", handler.Handle(h.Plan.Handler, h.Plan.CreatePlan, http.StatusCreated, &handler.CreatePlanRequest{}))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	fn HandlerFunc[Req, Res],
	status int,
	req Req,
) echo.HandlerFunc {
	p := pipeline[Req]{
		call: func(c echo.Context, req Req) (any, error) {
			return fn(c, req)
		},
		respond: jsonResponder(status),
	}
	return func(c echo.Context) error {
		return p.serve(c, newRequest(req))
	}
}

// HandleFile adapts an endpoint producing a download.
func HandleFile[Req validation.Validatable](
	h Handler,
	fn HandlerFunc[Req, []byte],
	status int,
	req Req,
	filename string,
	contentType string,
) echo.HandlerFunc {
	p := pipeline[Req]{
		call: func(c echo.Context, req Req) (any, error) {
			return fn(c, req)
		},
		respond: fileResponder(status, filename, contentType),
	}
	return func(c echo.Context) error {
		return p.serve(c, newRequest(req))
	}
}

// HandleNoContent adapts an endpoint without a response body.
func HandleNoContent[Req validation.Validatable](
	h Handler,
	fn HandlerFuncNoContent[Req],
	status int,
	req Req,
) echo.HandlerFunc {
	p := pipeline[Req]{
		call: func(c echo.Context, req Req) (any, error) {
			return nil, fn(c, req)
		},
		respond: noContentResponder(status),
	}
	return func(c echo.Context) error {
		return p.serve(c, newRequest(req))
	}
}
