package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/mealplanner/internal/database"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/jackc/pgx/v5"
)

// WaterRepository stores water goals and intakes.
type WaterRepository struct {
	db database.DBTX
}

func NewWaterRepository(db database.DBTX) *WaterRepository {
	return &WaterRepository{db: db}
}

// UpsertGoal provisions the user and sets its daily goal.
func (r *WaterRepository) UpsertGoal(ctx context.Context, userID string, dailyGoalML int) (*model.WaterGoal, error) {
	var goal model.WaterGoal

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `
			INSERT INTO
				water_goals (user_id, daily_goal_ml)
			VALUES
				(@user_id, @daily_goal_ml)
			ON CONFLICT (user_id) DO UPDATE
			SET
				daily_goal_ml = EXCLUDED.daily_goal_ml,
				updated_at = NOW()
			RETURNING
				user_id,
				daily_goal_ml,
				updated_at
		`, pgx.NamedArgs{"user_id": userID, "daily_goal_ml": dailyGoalML})
		if err != nil {
			return fmt.Errorf("failed to execute upsert water goal query for user_id=%s: %w", userID, err)
		}

		goal, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WaterGoal])
		if err != nil {
			return fmt.Errorf("failed to collect row from table:water_goals: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &goal, nil
}

// GetGoal returns pgx.ErrNoRows when the user never set a goal.
func (r *WaterRepository) GetGoal(ctx context.Context, userID string) (*model.WaterGoal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			user_id,
			daily_goal_ml,
			updated_at
		FROM
			water_goals
		WHERE
			user_id = @user_id
	`, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get water goal query for user_id=%s: %w", userID, err)
	}

	goal, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WaterGoal])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:water_goals: %w", err)
	}

	return &goal, nil
}

// LogConsumption provisions the user and records an intake.
func (r *WaterRepository) LogConsumption(ctx context.Context, userID string, amountML int, consumedAt time.Time) (*model.WaterConsumption, error) {
	var entry model.WaterConsumption

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `
			INSERT INTO
				water_consumptions (user_id, amount_ml, consumed_at)
			VALUES
				(@user_id, @amount_ml, @consumed_at)
			RETURNING
				id,
				user_id,
				amount_ml,
				consumed_at,
				created_at
		`, pgx.NamedArgs{"user_id": userID, "amount_ml": amountML, "consumed_at": consumedAt})
		if err != nil {
			return fmt.Errorf("failed to execute log water query for user_id=%s: %w", userID, err)
		}

		entry, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WaterConsumption])
		if err != nil {
			return fmt.Errorf("failed to collect row from table:water_consumptions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// DeleteConsumption only removes entries owned by userID.
func (r *WaterRepository) DeleteConsumption(ctx context.Context, userID string, entryID int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM water_consumptions
		WHERE
			id = @id
			AND user_id = @user_id
	`, pgx.NamedArgs{"id": entryID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to execute delete water query for entry_id=%d: %w", entryID, err)
	}

	if result.RowsAffected() == 0 {
		return notFound("water_consumptions")
	}

	return nil
}

// ListConsumptions returns entries with from <= consumed_at < to.
func (r *WaterRepository) ListConsumptions(ctx context.Context, userID string, from, to time.Time) ([]model.WaterConsumption, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			user_id,
			amount_ml,
			consumed_at,
			created_at
		FROM
			water_consumptions
		WHERE
			user_id = @user_id
			AND consumed_at >= @from
			AND consumed_at < @to
		ORDER BY
			consumed_at,
			id
	`, pgx.NamedArgs{"user_id": userID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list water query for user_id=%s: %w", userID, err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.WaterConsumption])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:water_consumptions: %w", err)
	}

	return entries, nil
}

// DailyTotals sums intakes per UTC day for from <= consumed_at < to. Days
// without intake are absent.
func (r *WaterRepository) DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]model.WaterDayTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			(consumed_at AT TIME ZONE 'UTC')::DATE AS day,
			SUM(amount_ml)::INTEGER AS total_ml
		FROM
			water_consumptions
		WHERE
			user_id = @user_id
			AND consumed_at >= @from
			AND consumed_at < @to
		GROUP BY
			day
		ORDER BY
			day
	`, pgx.NamedArgs{"user_id": userID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("failed to execute water totals query for user_id=%s: %w", userID, err)
	}

	totals, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.WaterDayTotal])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:water_consumptions: %w", err)
	}

	return totals, nil
}
