package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/mealplanner/internal/database"
	"github.com/deppfellow/mealplanner/internal/errs"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

// PlanRepository stores plans and their (day, moment) slots.
type PlanRepository struct {
	db database.DBTX
}

func NewPlanRepository(db database.DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

type CreatePlanParams struct {
	Title       string
	Description string
	Objective   string
}

// UpdatePlanParams leaves nil fields unchanged.
type UpdatePlanParams struct {
	Title       *string
	Description *string
	Objective   *string
}

const planColumns = `
			id,
			title,
			description,
			objective,
			created_at,
			updated_at`

// ListPlans returns every plan ordered by id.
func (r *PlanRepository) ListPlans(ctx context.Context) ([]model.Plan, error) {
	stmt := `
		SELECT` + planColumns + `
		FROM
			plans
		ORDER BY
			id
	`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list plans query: %w", err)
	}

	plans, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Plan])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:plans: %w", err)
	}

	return plans, nil
}

func (r *PlanRepository) GetPlanByID(ctx context.Context, planID int64) (*model.Plan, error) {
	stmt := `
		SELECT` + planColumns + `
		FROM
			plans
		WHERE
			id = @id
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"id": planID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get plan query for plan_id=%d: %w", planID, err)
	}

	plan, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Plan])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:plans: %w", err)
	}

	return &plan, nil
}

func (r *PlanRepository) CreatePlan(ctx context.Context, params CreatePlanParams) (*model.Plan, error) {
	return insertPlan(ctx, r.db, params)
}

func insertPlan(ctx context.Context, db database.DBTX, params CreatePlanParams) (*model.Plan, error) {
	stmt := `
		INSERT INTO
			plans (title, description, objective)
		VALUES
			(@title, @description, @objective)
		RETURNING` + planColumns

	rows, err := db.Query(ctx, stmt, pgx.NamedArgs{
		"title":       params.Title,
		"description": params.Description,
		"objective":   params.Objective,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create plan query: %w", err)
	}

	plan, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Plan])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:plans: %w", err)
	}

	return &plan, nil
}

// UpdatePlan applies the non-nil fields of params.
func (r *PlanRepository) UpdatePlan(ctx context.Context, planID int64, params UpdatePlanParams) (*model.Plan, error) {
	stmt := `
		UPDATE plans
		SET
			title = COALESCE(@title, title),
			description = COALESCE(@description, description),
			objective = COALESCE(@objective, objective)
		WHERE
			id = @id
		RETURNING` + planColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"id":          planID,
		"title":       params.Title,
		"description": params.Description,
		"objective":   params.Objective,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update plan query for plan_id=%d: %w", planID, err)
	}

	plan, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Plan])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:plans: %w", err)
	}

	return &plan, nil
}

// DeletePlan removes the plan. Slots cascade and users.plan_id is cleared
// by the foreign keys.
func (r *PlanRepository) DeletePlan(ctx context.Context, planID int64) error {
	stmt := `
		DELETE FROM plans
		WHERE
			id = @id
	`

	result, err := r.db.Exec(ctx, stmt, pgx.NamedArgs{"id": planID})
	if err != nil {
		return fmt.Errorf("failed to execute delete plan query for plan_id=%d: %w", planID, err)
	}

	if result.RowsAffected() == 0 {
		return notFound("plans")
	}

	return nil
}

// GetWeeklyRows returns the full day × moment cross product for the plan,
// ordered by day then moment position. Empty cells have NULL food columns.
func (r *PlanRepository) GetWeeklyRows(ctx context.Context, planID int64) ([]model.WeeklyPlanRow, error) {
	stmt := `
		SELECT
			wd.id AS day_id,
			wd.name AS day_name,
			mm.id AS meal_moment_id,
			mm.name AS meal_moment_name,
			f.id AS food_id,
			f.name AS food_name,
			f.description AS food_description,
			f.price AS food_price,
			f.image_url AS food_image_url
		FROM
			week_days wd
			CROSS JOIN meal_moments mm
			LEFT JOIN food_plan_links fpl ON fpl.plan_id = @plan_id
			AND fpl.day_id = wd.id
			AND fpl.meal_moment_id = mm.id
			LEFT JOIN foods f ON f.id = fpl.food_id
		ORDER BY
			wd.id,
			mm.position
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"plan_id": planID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute weekly plan query for plan_id=%d: %w", planID, err)
	}

	weekly, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.WeeklyPlanRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:food_plan_links: %w", err)
	}

	return weekly, nil
}

// InsertSlot places a food in an empty slot. An occupied slot is a conflict.
func (r *PlanRepository) InsertSlot(ctx context.Context, slot model.PlanSlot) error {
	return insertSlot(ctx, r.db, slot)
}

func insertSlot(ctx context.Context, db database.DBTX, slot model.PlanSlot) error {
	stmt := `
		INSERT INTO
			food_plan_links (plan_id, day_id, meal_moment_id, food_id)
		VALUES
			(@plan_id, @day_id, @meal_moment_id, @food_id)
	`

	_, err := db.Exec(ctx, stmt, slotArgs(slot))
	if err != nil {
		if sqlerr.IsUniqueViolation(err) {
			code := "PLAN_SLOT_TAKEN"
			return errs.NewConflictError(
				fmt.Sprintf("A food for the plan %d on day %d and moment %d already exists", slot.PlanID, slot.DayID, slot.MealMomentID),
				true, &code,
			)
		}
		return fmt.Errorf("failed to insert into table:food_plan_links: %w", err)
	}

	return nil
}

// UpdateSlot replaces the food of an existing slot.
func (r *PlanRepository) UpdateSlot(ctx context.Context, slot model.PlanSlot) error {
	stmt := `
		UPDATE food_plan_links
		SET
			food_id = @food_id
		WHERE
			plan_id = @plan_id
			AND day_id = @day_id
			AND meal_moment_id = @meal_moment_id
	`

	result, err := r.db.Exec(ctx, stmt, slotArgs(slot))
	if err != nil {
		return fmt.Errorf("failed to update table:food_plan_links: %w", err)
	}

	if result.RowsAffected() == 0 {
		code := "PLAN_SLOT_NOT_FOUND"
		return errs.NewNotFoundError("Meal entry not found in plan", true, &code)
	}

	return nil
}

// DeleteSlot clears a slot; clearing an empty slot is not an error.
func (r *PlanRepository) DeleteSlot(ctx context.Context, planID int64, dayID, momentID int) error {
	stmt := `
		DELETE FROM food_plan_links
		WHERE
			plan_id = @plan_id
			AND day_id = @day_id
			AND meal_moment_id = @meal_moment_id
	`

	_, err := r.db.Exec(ctx, stmt, pgx.NamedArgs{
		"plan_id":        planID,
		"day_id":         dayID,
		"meal_moment_id": momentID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete from table:food_plan_links: %w", err)
	}

	return nil
}

// GeneratePlan creates a plan, fills its slots and assigns it to the user
// in a single transaction.
func (r *PlanRepository) GeneratePlan(ctx context.Context, userID string, params CreatePlanParams, slots []model.PlanSlot) (*model.Plan, error) {
	var plan *model.Plan

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		plan, err = insertPlan(ctx, tx, params)
		if err != nil {
			return err
		}

		dayIDs := make([]int32, len(slots))
		momentIDs := make([]int32, len(slots))
		foodIDs := make([]int64, len(slots))
		for i, s := range slots {
			dayIDs[i] = int32(s.DayID)
			momentIDs[i] = int32(s.MealMomentID)
			foodIDs[i] = s.FoodID
		}

		stmt := `
			INSERT INTO
				food_plan_links (plan_id, day_id, meal_moment_id, food_id)
			SELECT
				@plan_id,
				t.day_id,
				t.meal_moment_id,
				t.food_id
			FROM
				UNNEST(@day_ids::SMALLINT[], @meal_moment_ids::SMALLINT[], @food_ids::BIGINT[]) AS t (day_id, meal_moment_id, food_id)
		`

		if _, err := tx.Exec(ctx, stmt, pgx.NamedArgs{
			"plan_id":         plan.ID,
			"day_ids":         dayIDs,
			"meal_moment_ids": momentIDs,
			"food_ids":        foodIDs,
		}); err != nil {
			return fmt.Errorf("failed to insert into table:food_plan_links: %w", err)
		}

		if _, err := assignPlan(ctx, tx, userID, plan.ID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// ExistingFoodIDs returns which of ids exist in the catalog.
func (r *PlanRepository) ExistingFoodIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	stmt := `
		SELECT
			id
		FROM
			foods
		WHERE
			id = ANY (@ids)
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("failed to execute matching foods query: %w", err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:foods: %w", err)
	}

	existing := make(map[int64]bool, len(found))
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

func slotArgs(slot model.PlanSlot) pgx.NamedArgs {
	return pgx.NamedArgs{
		"plan_id":        slot.PlanID,
		"day_id":         slot.DayID,
		"meal_moment_id": slot.MealMomentID,
		"food_id":        slot.FoodID,
	}
}
