package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/mealplanner/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorForeignKey(t *testing.T) {
	err := HandleError(fmt.Errorf("failed to insert into table:food_plan_links: %w", &pgconn.PgError{
		Code:           "23503",
		Severity:       "ERROR",
		TableName:      "food_plan_links",
		ConstraintName: "food_plan_links_food_id_fkey",
	}))

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "FOOD_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced food does not exist", httpErr.Message)
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		TableName:      "ingredients",
		ConstraintName: "ingredients_name_key",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "INGREDIENT_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "Ingredient with this name already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorNotNull(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		TableName:  "plans",
		ColumnName: "title",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PLAN_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Title is required", httpErr.Message)
	assert.Equal(t, []errs.FieldError{{Field: "title", Error: "is required"}}, httpErr.Errors)
}

func TestHandleErrorCheckViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23514",
		TableName:      "food_ingredients",
		ConstraintName: "food_ingredients_quantity_check",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "FOOD_INGREDIENT_INVALID", httpErr.Code)
	assert.Equal(t, "The Quantity value does not meet required conditions", httpErr.Message)
}

func TestHandleErrorNoRows(t *testing.T) {
	err := HandleError(fmt.Errorf("failed to collect row from table:plans: %w", pgx.ErrNoRows))
	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Plan not found", httpErr.Message)

	err = HandleError(fmt.Errorf("failed to collect row from table:week_days: %w", pgx.ErrNoRows))
	assert.Equal(t, "Week Day not found", asHTTPError(t, err).Message)

	err = HandleError(pgx.ErrNoRows)
	assert.Equal(t, "Resource not found", asHTTPError(t, err).Message)
}

func TestHandleErrorPassThroughAndFallback(t *testing.T) {
	original := errs.NewConflictError("slot taken", true, nil)
	assert.Same(t, original, HandleError(original))

	httpErr := asHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)

	httpErr = asHTTPError(t, HandleError(&pgconn.PgError{Code: "53300"}))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505"})))
	assert.Equal(t, ForeignKeyViolation, ErrCode(ConvertPgError(&pgconn.PgError{Code: "23503"})))
	assert.Equal(t, Other, ErrCode(errors.New("boom")))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
}

func TestConvertPgErrorUnwrap(t *testing.T) {
	src := &pgconn.PgError{Code: "23514", Severity: "ERROR", Message: "violates check"}
	converted := ConvertPgError(src)

	assert.Equal(t, CheckViolation, converted.Code)
	assert.Equal(t, SeverityError, converted.Severity)
	assert.Equal(t, "ERROR: violates check (SQLSTATE 23514)", converted.Error())

	var pgerr *pgconn.PgError
	assert.True(t, errors.As(converted, &pgerr))
	assert.Same(t, src, pgerr)
}
