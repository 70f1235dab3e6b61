package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"listmonk-resubscriber/internal/config"
	"listmonk-resubscriber/internal/listmonk"
	"listmonk-resubscriber/internal/logging"
	"listmonk-resubscriber/internal/resubscriber"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	envErr := config.LoadEnv()
	logger := logging.NewLogger()
	if envErr != nil {
		logger.Debug("No .env file loaded; relying on process environment")
	}
	logger.Debugf("Resubscriber starting (commit: %s)", CommitSHA)

	if err := run(context.Background(), config.Load(), logger); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// run performs one resubscribe pass. A returned error means the process
// must exit non-zero; per-email failures are only logged.
func run(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) error {
	if cfg.Token == "" {
		logger.Warn("LISTMONK_TOKEN is not set, requests will be unauthenticated")
	}

	client := listmonk.NewClient(cfg.BaseURL, cfg.Token, cfg.RequestsPerSecond)
	report, err := resubscriber.New(client, cfg, logger).Run(ctx)
	if err != nil {
		return err
	}

	logger.Info(report.Summary())
	return nil
}
