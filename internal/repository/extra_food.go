package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/mealplanner/internal/database"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/jackc/pgx/v5"
)

// ExtraFoodRepository stores foods users ate outside their plan.
type ExtraFoodRepository struct {
	db database.DBTX
}

func NewExtraFoodRepository(db database.DBTX) *ExtraFoodRepository {
	return &ExtraFoodRepository{db: db}
}

type CreateExtraFoodParams struct {
	UserID       string
	Name         string
	Description  string
	ConsumedOn   time.Time
	MealMomentID int
	Nutrition    model.NutritionFacts
}

// ExtraFoodFilter narrows ListExtraFoods; nil fields match everything.
type ExtraFoodFilter struct {
	Date         *time.Time
	MealMomentID *int
}

const extraFoodColumns = `
			ef.id,
			ef.user_id,
			ef.name,
			ef.description,
			ef.consumed_on,
			ef.meal_moment_id,
			mm.name AS meal_moment_name,
			ef.calories,
			ef.protein,
			ef.carbs,
			ef.fiber,
			ef.saturated_fats,
			ef.monounsaturated_fats,
			ef.polyunsaturated_fats,
			ef.trans_fats,
			ef.cholesterol,
			ef.created_at`

// CreateExtraFood provisions the user, inserts the entry and its ingredient
// lines in one transaction.
func (r *ExtraFoodRepository) CreateExtraFood(ctx context.Context, params CreateExtraFoodParams, ingredients []model.IngredientQuantity) (*model.ExtraFood, error) {
	var extra model.ExtraFood

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := ensureUser(ctx, tx, params.UserID); err != nil {
			return err
		}

		stmt := `
			INSERT INTO
				extra_foods (
					user_id,
					name,
					description,
					consumed_on,
					meal_moment_id,
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
					@user_id,
					@name,
					@description,
					@consumed_on,
					@meal_moment_id,
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

		args := nutritionFactsArgs(params.Nutrition)
		args["user_id"] = params.UserID
		args["name"] = params.Name
		args["description"] = params.Description
		args["consumed_on"] = params.ConsumedOn
		args["meal_moment_id"] = params.MealMomentID

		var extraID int64
		if err := tx.QueryRow(ctx, stmt, args).Scan(&extraID); err != nil {
			return fmt.Errorf("failed to insert into table:extra_foods: %w", err)
		}

		if err := insertIngredientLines(ctx, tx, "extra_food_ingredients", "extra_food_id", extraID, ingredients); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `
			SELECT`+extraFoodColumns+`
			FROM
				extra_foods ef
				JOIN meal_moments mm ON mm.id = ef.meal_moment_id
			WHERE
				ef.id = @id
		`, pgx.NamedArgs{"id": extraID})
		if err != nil {
			return fmt.Errorf("failed to execute get extra food query for extra_food_id=%d: %w", extraID, err)
		}

		extra, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ExtraFood])
		if err != nil {
			return fmt.Errorf("failed to collect row from table:extra_foods: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &extra, nil
}

// ListExtraFoods returns the user's entries, newest first, narrowed by
// filter.
func (r *ExtraFoodRepository) ListExtraFoods(ctx context.Context, userID string, filter ExtraFoodFilter) ([]model.ExtraFood, error) {
	stmt := `
		SELECT` + extraFoodColumns + `
		FROM
			extra_foods ef
			JOIN meal_moments mm ON mm.id = ef.meal_moment_id
		WHERE
			ef.user_id = @user_id
			AND (@date::DATE IS NULL OR ef.consumed_on = @date::DATE)
			AND (@meal_moment_id::SMALLINT IS NULL OR ef.meal_moment_id = @meal_moment_id::SMALLINT)
		ORDER BY
			ef.consumed_on DESC,
			mm.position,
			ef.id
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"user_id":        userID,
		"date":           filter.Date,
		"meal_moment_id": filter.MealMomentID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list extra foods query for user_id=%s: %w", userID, err)
	}

	extras, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ExtraFood])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:extra_foods: %w", err)
	}

	return extras, nil
}

func (r *ExtraFoodRepository) GetExtraFoodByID(ctx context.Context, extraFoodID int64) (*model.ExtraFood, error) {
	stmt := `
		SELECT` + extraFoodColumns + `
		FROM
			extra_foods ef
			JOIN meal_moments mm ON mm.id = ef.meal_moment_id
		WHERE
			ef.id = @id
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"id": extraFoodID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get extra food query for extra_food_id=%d: %w", extraFoodID, err)
	}

	extra, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ExtraFood])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:extra_foods: %w", err)
	}

	return &extra, nil
}

// ListIngredientLines returns the lines of each extra food, keyed by id.
func (r *ExtraFoodRepository) ListIngredientLines(ctx context.Context, extraFoodIDs []int64) (map[int64][]model.IngredientLine, error) {
	return listIngredientLines(ctx, r.db, "extra_food_ingredients", "extra_food_id", extraFoodIDs)
}

// DeleteExtraFood only deletes entries owned by userID.
func (r *ExtraFoodRepository) DeleteExtraFood(ctx context.Context, userID string, extraFoodID int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM extra_foods
		WHERE
			id = @id
			AND user_id = @user_id
	`, pgx.NamedArgs{"id": extraFoodID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to execute delete extra food query for extra_food_id=%d: %w", extraFoodID, err)
	}

	if result.RowsAffected() == 0 {
		return notFound("extra_foods")
	}

	return nil
}
