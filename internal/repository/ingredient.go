package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/mealplanner/internal/database"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/jackc/pgx/v5"
)

// IngredientRepository stores the ingredient catalog.
type IngredientRepository struct {
	db database.DBTX
}

func NewIngredientRepository(db database.DBTX) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// CreateIngredientParams holds nutrition per 100 g or per unit,
// following MeasureType.
type CreateIngredientParams struct {
	Name        string
	MeasureType model.MeasureType
	Nutrition   model.Nutrition
}

const ingredientColumns = `
			id,
			name,
			measure_type,
			calories,
			protein,
			carbs,
			fiber,
			saturated_fats,
			monounsaturated_fats,
			polyunsaturated_fats,
			trans_fats,
			cholesterol,
			created_at`

// ListIngredients returns every ingredient ordered by name.
func (r *IngredientRepository) ListIngredients(ctx context.Context) ([]model.Ingredient, error) {
	stmt := `
		SELECT` + ingredientColumns + `
		FROM
			ingredients
		ORDER BY
			name
	`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list ingredients query: %w", err)
	}

	ingredients, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Ingredient])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:ingredients: %w", err)
	}

	return ingredients, nil
}

func (r *IngredientRepository) GetIngredientByID(ctx context.Context, ingredientID int64) (*model.Ingredient, error) {
	stmt := `
		SELECT` + ingredientColumns + `
		FROM
			ingredients
		WHERE
			id = @id
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"id": ingredientID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get ingredient query for ingredient_id=%d: %w", ingredientID, err)
	}

	ingredient, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Ingredient])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:ingredients: %w", err)
	}

	return &ingredient, nil
}

// CreateIngredient inserts a new ingredient. Duplicate names surface as a
// unique violation on ingredients_name_key.
func (r *IngredientRepository) CreateIngredient(ctx context.Context, params CreateIngredientParams) (*model.Ingredient, error) {
	stmt := `
		INSERT INTO
			ingredients (
				name,
				measure_type,
				calories,
				protein,
				carbs,
				fiber,
				saturated_fats,
				monounsaturated_fats,
				polyunsaturated_fats,
				trans_fats,
				cholesterol
			)
		VALUES
			(
				@name,
				@measure_type,
				@calories,
				@protein,
				@carbs,
				@fiber,
				@saturated_fats,
				@monounsaturated_fats,
				@polyunsaturated_fats,
				@trans_fats,
				@cholesterol
			)
		RETURNING` + ingredientColumns

	n := params.Nutrition
	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"name":                 params.Name,
		"measure_type":         string(params.MeasureType),
		"calories":             n.Calories,
		"protein":              n.Protein,
		"carbs":                n.Carbs,
		"fiber":                n.Fiber,
		"saturated_fats":       n.SaturatedFats,
		"monounsaturated_fats": n.MonounsaturatedFats,
		"polyunsaturated_fats": n.PolyunsaturatedFats,
		"trans_fats":           n.TransFats,
		"cholesterol":          n.Cholesterol,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create ingredient query: %w", err)
	}

	ingredient, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Ingredient])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:ingredients: %w", err)
	}

	return &ingredient, nil
}
