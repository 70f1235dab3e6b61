package main

import (
	"time"

	"github.com/hibiken/asynq"

	"listmonk-resubscriber/internal/config"
	"listmonk-resubscriber/internal/logging"
	"listmonk-resubscriber/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	envErr := config.LoadEnv()
	logger := logging.NewLogger()
	if envErr != nil {
		logger.Println("Error loading .env file")
	}

	cfg := config.Load()

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		&asynq.SchedulerOpts{Logger: logger},
	)

	task, err := tasks.NewResubscribeTask(tasks.ResubscribeTaskPayload{Source: "scheduler"})
	if err != nil {
		logger.Fatalf("could not create task: %v", err)
	}

	// Only one run may be pending at a time.
	_, err = scheduler.Register(cfg.Schedule, task, asynq.Unique(10*time.Minute))
	if err != nil {
		logger.Fatalf("could not register task: %v", err)
	}

	logger.Printf("Scheduler starting with schedule %q (commit: %s)", cfg.Schedule, CommitSHA)
	if err := scheduler.Run(); err != nil {
		logger.Fatalf("could not run scheduler: %v", err)
	}
}
