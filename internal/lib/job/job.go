// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - Tasks are enqueued (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using asynq.Server.
package job

import (
	"context"

	"github.com/deppfellow/mealplanner/internal/config"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// WeeklyPlanSource loads the weekly grid of a plan for the share task.
type WeeklyPlanSource interface {
	GetWeeklyPlan(ctx context.Context, planID int64) (*model.WeeklyPlan, error)
}

// PlanMailer delivers a weekly plan by email.
type PlanMailer interface {
	SendPlanShareEmail(ctx context.Context, to string, plan *model.WeeklyPlan) error
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger

	// Set by InitHandlers; handlers must not run before it.
	mailer PlanMailer
	plans  WeeklyPlanSource
}

// NewJobService creates a JobService configured to use Redis from cfg.
// Every task runs on QueueDefault.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Jobs.Concurrency,
			Queues: map[string]int{
				QueueDefault: 1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// Start registers task handlers and starts the worker server.
// asynq's Start does not block; Stop shuts the workers down.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPlanShare, j.handlePlanShareTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop waits for running tasks and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}
