package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/mealplanner/internal/database"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/jackc/pgx/v5"
)

// UserRepository reads and assigns users.
type UserRepository struct {
	db database.DBTX
}

func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// ensureUser creates the user row on first use. Users are identified by
// an external id and carry no other required data.
func ensureUser(ctx context.Context, db database.DBTX, userID string) error {
	stmt := `
		INSERT INTO
			users (id)
		VALUES
			(@id)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := db.Exec(ctx, stmt, pgx.NamedArgs{"id": userID}); err != nil {
		return fmt.Errorf("failed to insert into table:users: %w", err)
	}
	return nil
}

// GetUser returns the user with its water goal, if any.
func (r *UserRepository) GetUser(ctx context.Context, userID string) (*model.User, error) {
	stmt := `
		SELECT
			u.id,
			u.plan_id,
			wg.daily_goal_ml,
			u.created_at,
			u.updated_at
		FROM
			users u
			LEFT JOIN water_goals wg ON wg.user_id = u.id
		WHERE
			u.id = @id
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get user query for user_id=%s: %w", userID, err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:users: %w", err)
	}

	return &user, nil
}

// GetUserPlan returns the plan assigned to the user.
func (r *UserRepository) GetUserPlan(ctx context.Context, userID string) (*model.Plan, error) {
	stmt := `
		SELECT
			p.id,
			p.title,
			p.description,
			p.objective,
			p.created_at,
			p.updated_at
		FROM
			users u
			JOIN plans p ON p.id = u.plan_id
		WHERE
			u.id = @user_id
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get user plan query for user_id=%s: %w", userID, err)
	}

	plan, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Plan])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:plans: %w", err)
	}

	return &plan, nil
}

// AssignPlan creates the user if needed and sets its plan.
func (r *UserRepository) AssignPlan(ctx context.Context, userID string, planID int64) (*model.PlanAssignment, error) {
	return assignPlan(ctx, r.db, userID, planID)
}

func assignPlan(ctx context.Context, db database.DBTX, userID string, planID int64) (*model.PlanAssignment, error) {
	stmt := `
		INSERT INTO
			users (id, plan_id)
		VALUES
			(@id, @plan_id)
		ON CONFLICT (id) DO UPDATE
		SET
			plan_id = EXCLUDED.plan_id,
			updated_at = NOW()
		RETURNING
			plan_id,
			updated_at
	`

	rows, err := db.Query(ctx, stmt, pgx.NamedArgs{"id": userID, "plan_id": planID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute assign plan query for user_id=%s: %w", userID, err)
	}

	assignment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PlanAssignment])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:users: %w", err)
	}

	return &assignment, nil
}
