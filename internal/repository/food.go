package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/mealplanner/internal/database"
	"github.com/deppfellow/mealplanner/internal/errs"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// FoodRepository stores foods and their ingredient lines.
type FoodRepository struct {
	db database.DBTX
}

func NewFoodRepository(db database.DBTX) *FoodRepository {
	return &FoodRepository{db: db}
}

type CreateFoodParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    *string
	Per100g     model.NutritionFacts
}

// UpdateFoodParams leaves nil fields unchanged.
type UpdateFoodParams struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	Per100g     model.NutritionFacts
}

const foodColumns = `
			f.id,
			f.name,
			f.description,
			f.price,
			f.image_url,
			f.calories_per_100g,
			f.protein_per_100g,
			f.carbs_per_100g,
			f.fiber_per_100g,
			f.saturated_fats_per_100g,
			f.monounsaturated_fats_per_100g,
			f.polyunsaturated_fats_per_100g,
			f.trans_fats_per_100g,
			f.cholesterol_per_100g,
			f.created_at,
			f.updated_at`

const ingredientLineColumns = `
			i.id,
			i.name,
			i.measure_type,
			i.calories,
			i.protein,
			i.carbs,
			i.fiber,
			i.saturated_fats,
			i.monounsaturated_fats,
			i.polyunsaturated_fats,
			i.trans_fats,
			i.cholesterol,
			i.created_at`

// ListFoods returns all foods, optionally filtered by a case-insensitive
// substring of the name.
func (r *FoodRepository) ListFoods(ctx context.Context, searchName string) ([]model.Food, error) {
	stmt := `
		SELECT` + foodColumns + `
		FROM
			foods f
		WHERE
			(@search = '' OR f.name ILIKE '%' || @search || '%')
		ORDER BY
			f.id
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"search": searchName})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list foods query: %w", err)
	}

	foods, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Food])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:foods: %w", err)
	}

	return foods, nil
}

func (r *FoodRepository) GetFoodByID(ctx context.Context, foodID int64) (*model.Food, error) {
	stmt := `
		SELECT` + foodColumns + `
		FROM
			foods f
		WHERE
			f.id = @id
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"id": foodID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get food query for food_id=%d: %w", foodID, err)
	}

	food, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Food])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:foods: %w", err)
	}

	return &food, nil
}

func (r *FoodRepository) ListFoodsByIDs(ctx context.Context, ids []int64) ([]model.Food, error) {
	stmt := `
		SELECT` + foodColumns + `
		FROM
			foods f
		WHERE
			f.id = ANY (@ids)
		ORDER BY
			f.id
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list foods by ids query: %w", err)
	}

	foods, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Food])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:foods: %w", err)
	}

	return foods, nil
}

// ListFoodsByPlan returns the distinct foods placed in any slot of the plan.
func (r *FoodRepository) ListFoodsByPlan(ctx context.Context, planID int64) ([]model.Food, error) {
	stmt := `
		SELECT` + foodColumns + `
		FROM
			foods f
		WHERE
			f.id IN (
				SELECT
					food_id
				FROM
					food_plan_links
				WHERE
					plan_id = @plan_id
			)
		ORDER BY
			f.id
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"plan_id": planID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list plan foods query for plan_id=%d: %w", planID, err)
	}

	foods, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Food])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:foods: %w", err)
	}

	return foods, nil
}

// CreateFood inserts the food, its ingredient lines and, when link is set,
// places it in that plan slot. Everything happens in one transaction.
func (r *FoodRepository) CreateFood(ctx context.Context, params CreateFoodParams, ingredients []model.IngredientQuantity, link *model.PlanSlot) (*model.Food, error) {
	var food model.Food

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		stmt := `
			INSERT INTO
				foods (
					name,
					description,
					price,
					image_url,
					calories_per_100g,
					protein_per_100g,
					carbs_per_100g,
					fiber_per_100g,
					saturated_fats_per_100g,
					monounsaturated_fats_per_100g,
					polyunsaturated_fats_per_100g,
					trans_fats_per_100g,
					cholesterol_per_100g
				)
			VALUES
				(
					@name,
					@description,
					@price,
					@image_url,
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
			RETURNING
				id
		`

		args := nutritionFactsArgs(params.Per100g)
		args["name"] = params.Name
		args["description"] = params.Description
		args["price"] = params.Price
		args["image_url"] = params.ImageURL

		var foodID int64
		if err := tx.QueryRow(ctx, stmt, args).Scan(&foodID); err != nil {
			return fmt.Errorf("failed to insert into table:foods: %w", err)
		}

		if err := insertIngredientLines(ctx, tx, "food_ingredients", "food_id", foodID, ingredients); err != nil {
			return err
		}

		if link != nil {
			link.FoodID = foodID
			if err := insertSlot(ctx, tx, *link); err != nil {
				return err
			}
		}

		rows, err := tx.Query(ctx, `
			SELECT`+foodColumns+`
			FROM
				foods f
			WHERE
				f.id = @id
		`, pgx.NamedArgs{"id": foodID})
		if err != nil {
			return fmt.Errorf("failed to execute get food query for food_id=%d: %w", foodID, err)
		}

		food, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Food])
		if err != nil {
			return fmt.Errorf("failed to collect row from table:foods: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &food, nil
}

// UpdateFood applies the non-nil fields of params.
func (r *FoodRepository) UpdateFood(ctx context.Context, foodID int64, params UpdateFoodParams) (*model.Food, error) {
	stmt := `
		UPDATE foods f
		SET
			name = COALESCE(@name, f.name),
			description = COALESCE(@description, f.description),
			price = COALESCE(@price, f.price),
			image_url = COALESCE(@image_url, f.image_url),
			calories_per_100g = COALESCE(@calories, f.calories_per_100g),
			protein_per_100g = COALESCE(@protein, f.protein_per_100g),
			carbs_per_100g = COALESCE(@carbs, f.carbs_per_100g),
			fiber_per_100g = COALESCE(@fiber, f.fiber_per_100g),
			saturated_fats_per_100g = COALESCE(@saturated_fats, f.saturated_fats_per_100g),
			monounsaturated_fats_per_100g = COALESCE(@monounsaturated_fats, f.monounsaturated_fats_per_100g),
			polyunsaturated_fats_per_100g = COALESCE(@polyunsaturated_fats, f.polyunsaturated_fats_per_100g),
			trans_fats_per_100g = COALESCE(@trans_fats, f.trans_fats_per_100g),
			cholesterol_per_100g = COALESCE(@cholesterol, f.cholesterol_per_100g)
		WHERE
			f.id = @id
		RETURNING` + foodColumns

	args := nutritionFactsArgs(params.Per100g)
	args["id"] = foodID
	args["name"] = params.Name
	args["description"] = params.Description
	args["price"] = params.Price
	args["image_url"] = params.ImageURL

	rows, err := r.db.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute update food query for food_id=%d: %w", foodID, err)
	}

	food, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Food])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:foods: %w", err)
	}

	return &food, nil
}

// DeleteFood removes the food; its slots and ingredient lines cascade.
func (r *FoodRepository) DeleteFood(ctx context.Context, foodID int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM foods
		WHERE
			id = @id
	`, pgx.NamedArgs{"id": foodID})
	if err != nil {
		return fmt.Errorf("failed to execute delete food query for food_id=%d: %w", foodID, err)
	}

	if result.RowsAffected() == 0 {
		return notFound("foods")
	}

	return nil
}

// ListIngredientLines returns the ingredient lines of each given food,
// keyed by food id.
func (r *FoodRepository) ListIngredientLines(ctx context.Context, foodIDs []int64) (map[int64][]model.IngredientLine, error) {
	return listIngredientLines(ctx, r.db, "food_ingredients", "food_id", foodIDs)
}

type ownedIngredientLine struct {
	OwnerID int64 `db:"owner_id"`
	model.IngredientLine
}

// listIngredientLines reads a link table shaped (<owner>, ingredient_id,
// quantity). table and ownerColumn are never user input.
func listIngredientLines(ctx context.Context, db database.DBTX, table, ownerColumn string, ownerIDs []int64) (map[int64][]model.IngredientLine, error) {
	stmt := fmt.Sprintf(`
		SELECT
			l.%[2]s AS owner_id,`+ingredientLineColumns+`,
			l.quantity
		FROM
			%[1]s l
			JOIN ingredients i ON i.id = l.ingredient_id
		WHERE
			l.%[2]s = ANY (@owner_ids)
		ORDER BY
			l.%[2]s,
			i.name
	`, table, ownerColumn)

	rows, err := db.Query(ctx, stmt, pgx.NamedArgs{"owner_ids": ownerIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to execute ingredient lines query on %s: %w", table, err)
	}

	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[ownedIngredientLine])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:%s: %w", table, err)
	}

	byOwner := make(map[int64][]model.IngredientLine, len(ownerIDs))
	for _, line := range lines {
		byOwner[line.OwnerID] = append(byOwner[line.OwnerID], line.IngredientLine)
	}
	return byOwner, nil
}

func insertIngredientLines(ctx context.Context, tx pgx.Tx, table, ownerColumn string, ownerID int64, lines []model.IngredientQuantity) error {
	if len(lines) == 0 {
		return nil
	}

	ingredientIDs := make([]int64, len(lines))
	quantities := make([]float64, len(lines))
	for i, l := range lines {
		ingredientIDs[i] = l.IngredientID
		quantities[i] = l.Quantity
	}

	stmt := fmt.Sprintf(`
		INSERT INTO
			%s (%s, ingredient_id, quantity)
		SELECT
			@owner_id,
			t.ingredient_id,
			t.quantity
		FROM
			UNNEST(@ingredient_ids::BIGINT[], @quantities::DOUBLE PRECISION[]) AS t (ingredient_id, quantity)
	`, table, ownerColumn)

	if _, err := tx.Exec(ctx, stmt, pgx.NamedArgs{
		"owner_id":       ownerID,
		"ingredient_ids": ingredientIDs,
		"quantities":     quantities,
	}); err != nil {
		if sqlerr.IsUniqueViolation(err) {
			code := "INGREDIENT_DUPLICATED"
			return errs.NewBadRequestError("An ingredient is listed more than once", true, &code, nil, nil)
		}
		return fmt.Errorf("failed to insert into table:%s: %w", table, err)
	}

	return nil
}

func nutritionFactsArgs(n model.NutritionFacts) pgx.NamedArgs {
	return pgx.NamedArgs{
		"calories":             n.Calories,
		"protein":              n.Protein,
		"carbs":                n.Carbs,
		"fiber":                n.Fiber,
		"saturated_fats":       n.SaturatedFats,
		"monounsaturated_fats": n.MonounsaturatedFats,
		"polyunsaturated_fats": n.PolyunsaturatedFats,
		"trans_fats":           n.TransFats,
		"cholesterol":          n.Cholesterol,
	}
}
