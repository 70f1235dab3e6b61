package main

import (
	"github.com/hibiken/asynq"

	"listmonk-resubscriber/internal/config"
	"listmonk-resubscriber/internal/listmonk"
	"listmonk-resubscriber/internal/logging"
	"listmonk-resubscriber/internal/worker"
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
	if cfg.Token == "" {
		logger.Warn("LISTMONK_TOKEN is not set, requests will be unauthenticated")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Concurrency: 1, // runs stay strictly serial
			Logger:      logger,
		},
	)

	client := listmonk.NewClient(cfg.BaseURL, cfg.Token, cfg.RequestsPerSecond)
	taskHandler := worker.NewTaskHandler(client, cfg, logger)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeResubscribe, taskHandler.HandleResubscribeTask)

	logger.Printf("Worker starting for %d subscriber(s) (commit: %s)", len(cfg.Emails), CommitSHA)
	if err := srv.Run(mux); err != nil {
		logger.Fatalf("could not run server: %v", err)
	}
}
