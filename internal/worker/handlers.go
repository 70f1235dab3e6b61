package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"listmonk-resubscriber/internal/config"
	"listmonk-resubscriber/internal/resubscriber"
	"listmonk-resubscriber/pkg/tasks"
)

type TaskHandler struct {
	api resubscriber.SubscriberAPI
	cfg config.Config
	log logrus.FieldLogger
}

func NewTaskHandler(api resubscriber.SubscriberAPI, cfg config.Config, log logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{api: api, cfg: cfg, log: log}
}

// HandleResubscribeTask runs the resubscribe workflow once and stores the
// report as the task result.
func (h *TaskHandler) HandleResubscribeTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.ResubscribeTaskPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("failed to unmarshal task payload: %w", err)
		}
	}

	cfg := h.cfg
	cfg.DryRun = cfg.DryRun || p.DryRun

	log := h.log.WithField("source", p.Source)
	log.Infof("Starting resubscribe run for %d subscriber(s)", len(cfg.Emails))

	report, err := resubscriber.New(h.api, cfg, log).Run(ctx)
	if err != nil {
		log.WithError(err).Error("resubscribe run failed")
		return fmt.Errorf("resubscribe run: %w", err)
	}

	log.Infof("Finished resubscribe run: %s", report.Summary())

	if rw := t.ResultWriter(); rw != nil {
		result, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if _, err := rw.Write(result); err != nil {
			log.WithError(err).Warn("failed to write task result")
		}
	}
	return nil
}
