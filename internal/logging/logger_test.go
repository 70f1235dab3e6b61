package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
	assert.Equal(t, "jö***@example.com", RedactEmail("jörg@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ö@example.com"))
}

func TestRedactingFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&RedactingFormatter{Next: &logrus.TextFormatter{DisableTimestamp: true}})

	logger.WithField("email", "studierende@hfg-karlsruhe.de").Info("Resubscribing studierende@hfg-karlsruhe.de to their lists...")

	out := buf.String()
	assert.NotContains(t, out, "studierende@")
	assert.Contains(t, out, "st***@hfg-karlsruhe.de")
}

func TestNewLoggerLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, logrus.DebugLevel, NewLogger().GetLevel())

	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, logrus.InfoLevel, NewLogger().GetLevel())
}

func TestNewLoggerRedaction(t *testing.T) {
	t.Setenv("LOG_REDACT_EMAILS", "true")
	_, ok := NewLogger().Formatter.(*RedactingFormatter)
	assert.True(t, ok)
}
