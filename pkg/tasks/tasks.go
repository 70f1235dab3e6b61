package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeResubscribe = "lists:resubscribe"
)

// ResubscribeTaskPayload carries per-run overrides. Emails always come from
// the worker's build-time configuration.
type ResubscribeTaskPayload struct {
	DryRun bool   `json:"dry_run,omitempty"`
	Source string `json:"source,omitempty"`
}

// NewResubscribeTask creates a task that is never retried by asynq; a failed
// run is simply picked up again at the next scheduled time.
func NewResubscribeTask(p ResubscribeTaskPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResubscribe, payload,
		asynq.MaxRetry(0),
		asynq.Retention(24*time.Hour),
	), nil
}
