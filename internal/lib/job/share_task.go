package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskPlanShare is the job type name stored in Redis.
	TaskPlanShare = "plan:share"

	// QueueDefault is the only queue the worker server consumes.
	QueueDefault = "default"
)

// PlanSharePayload is the JSON payload of a plan share task.
type PlanSharePayload struct {
	PlanID int64  `json:"plan_id"`
	To     string `json:"to"`
}

// NewPlanShareTask builds a task that mails plan planID to the address to.
// It is retried up to 3 times and killed after 30 seconds.
func NewPlanShareTask(planID int64, to string) (*asynq.Task, error) {
	payload, err := json.Marshal(PlanSharePayload{
		PlanID: planID,
		To:     to,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskPlanShare,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}
