package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deppfellow/mealplanner/internal/config"
	"github.com/deppfellow/mealplanner/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// InitHandlers wires the dependencies the task handlers need.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger, plans WeeklyPlanSource) {
	j.mailer = email.NewClient(cfg, logger)
	j.plans = plans
}

func (j *JobService) handlePlanShareTask(ctx context.Context, t *asynq.Task) error {
	var p PlanSharePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A malformed payload never succeeds, so skip retries.
		return fmt.Errorf("failed to unmarshal plan share payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", "plan_share").
		Int64("plan_id", p.PlanID).
		Str("to", p.To).
		Logger()

	log.Info().Msg("Processing plan share task")

	plan, err := j.plans.GetWeeklyPlan(ctx, p.PlanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn().Msg("Plan was deleted before it could be shared")
			return fmt.Errorf("plan_id=%d no longer exists: %w", p.PlanID, asynq.SkipRetry)
		}
		log.Error().Err(err).Msg("Failed to load plan to share")
		return err
	}

	if err := j.mailer.SendPlanShareEmail(ctx, p.To, plan); err != nil {
		log.Error().Err(err).Msg("Failed to send plan share email")
		return err
	}

	log.Info().Msg("Successfully sent plan share email")

	return nil
}
