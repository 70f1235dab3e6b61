package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listmonk-resubscriber/internal/config"
	"listmonk-resubscriber/internal/models"
	"listmonk-resubscriber/internal/test"
)

func TestRunSucceedsDespitePerEmailFailures(t *testing.T) {
	fake := test.NewFakeListmonk(t)
	fake.FailLookup("down@example.com", http.StatusBadGateway)
	fake.AddSubscriber(models.Subscriber{ID: 1, Email: "a@example.com", Lists: []models.ListMembership{
		{ID: 1, SubscriptionStatus: models.StatusUnsubscribed},
	}})
	fake.FailUpdate(1, http.StatusInternalServerError)
	logger, logs := test.NewLogger()

	cfg := config.Config{BaseURL: fake.URL(), Token: "t", Emails: []string{"down@example.com", "missing@example.com", "a@example.com"}}
	err := run(context.Background(), cfg, logger)

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "checked 3, resubscribed 0, dry run 0, up to date 0, not found 1, failed 2")
}

func TestRunReturnsFatalErrors(t *testing.T) {
	fake := test.NewFakeListmonk(t)
	fake.RawLookup("a@example.com", "not json")
	logger, _ := test.NewLogger()

	cfg := config.Config{BaseURL: fake.URL(), Token: "t", Emails: []string{"a@example.com", "b@example.com"}}
	err := run(context.Background(), cfg, logger)

	assert.Error(t, err)
	assert.Equal(t, []string{"a@example.com"}, fake.Lookups())
}

func TestRunWarnsWithoutToken(t *testing.T) {
	fake := test.NewFakeListmonk(t)
	logger, logs := test.NewLogger()

	err := run(context.Background(), config.Config{BaseURL: fake.URL()}, logger)

	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "LISTMONK_TOKEN is not set")
}
