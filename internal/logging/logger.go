package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger creates the console logger used by every command.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(levelFromEnv())

	var formatter logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if strings.EqualFold(os.Getenv("LOG_REDACT_EMAILS"), "true") {
		formatter = &RedactingFormatter{Next: formatter}
	}
	logger.SetFormatter(formatter)
	return logger
}

func levelFromEnv() logrus.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
