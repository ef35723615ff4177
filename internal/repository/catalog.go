package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/mealplanner/internal/database"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/jackc/pgx/v5"
)

// CatalogRepository reads the seeded weekdays and meal moments.
type CatalogRepository struct {
	db database.DBTX
}

func NewCatalogRepository(db database.DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListDays returns monday (1) to sunday (7).
func (r *CatalogRepository) ListDays(ctx context.Context) ([]model.WeekDay, error) {
	stmt := `
		SELECT
			id,
			name
		FROM
			week_days
		ORDER BY
			id
	`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list days query: %w", err)
	}

	days, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.WeekDay])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:week_days: %w", err)
	}

	return days, nil
}

// ListMoments returns the meal moments by position.
func (r *CatalogRepository) ListMoments(ctx context.Context) ([]model.MealMoment, error) {
	stmt := `
		SELECT
			id,
			name,
			position
		FROM
			meal_moments
		ORDER BY
			position
	`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list moments query: %w", err)
	}

	moments, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.MealMoment])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:meal_moments: %w", err)
	}

	return moments, nil
}
