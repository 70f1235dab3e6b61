package worker

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listmonk-resubscriber/internal/config"
	"listmonk-resubscriber/internal/listmonk"
	"listmonk-resubscriber/internal/models"
	"listmonk-resubscriber/internal/test"
	"listmonk-resubscriber/pkg/tasks"
)

func setup(t *testing.T) (*test.FakeListmonk, *listmonk.Client) {
	fake := test.NewFakeListmonk(t)
	fake.AddSubscriber(models.Subscriber{ID: 12, Email: "a@example.com", Lists: []models.ListMembership{
		{ID: 1, SubscriptionStatus: models.StatusUnsubscribed},
		{ID: 2, SubscriptionStatus: models.StatusConfirmed},
	}})
	return fake, listmonk.NewClient(fake.URL(), "api:secret", 0)
}

func TestHandleResubscribeTask(t *testing.T) {
	fake, client := setup(t)
	logger, logs := test.NewLogger()
	handler := NewTaskHandler(client, config.Config{Emails: []string{"a@example.com"}}, logger)

	task, err := tasks.NewResubscribeTask(tasks.ResubscribeTaskPayload{Source: "scheduler"})
	require.NoError(t, err)

	err = handler.HandleResubscribeTask(context.Background(), task)

	assert.NoError(t, err)
	updates := fake.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, []int{1}, updates[0].TargetListIDs)
	assert.Contains(t, logs.String(), "Finished resubscribe run: checked 1, resubscribed 1")
	assert.Contains(t, logs.String(), "source=scheduler")
}

func TestHandleResubscribeTaskDryRunPayload(t *testing.T) {
	fake, client := setup(t)
	logger, _ := test.NewLogger()
	handler := NewTaskHandler(client, config.Config{Emails: []string{"a@example.com"}}, logger)

	task, err := tasks.NewResubscribeTask(tasks.ResubscribeTaskPayload{DryRun: true})
	require.NoError(t, err)

	assert.NoError(t, handler.HandleResubscribeTask(context.Background(), task))
	assert.Empty(t, fake.Updates())
}

func TestHandleResubscribeTaskEmptyPayload(t *testing.T) {
	fake, client := setup(t)
	logger, _ := test.NewLogger()
	handler := NewTaskHandler(client, config.Config{Emails: []string{"a@example.com"}}, logger)

	err := handler.HandleResubscribeTask(context.Background(), asynq.NewTask(tasks.TypeResubscribe, nil))

	assert.NoError(t, err)
	assert.Len(t, fake.Updates(), 1)
}

func TestHandleResubscribeTaskFailsOnFatalError(t *testing.T) {
	fake, client := setup(t)
	fake.RawLookup("a@example.com", "not json")
	logger, logs := test.NewLogger()
	handler := NewTaskHandler(client, config.Config{Emails: []string{"a@example.com"}}, logger)

	err := handler.HandleResubscribeTask(context.Background(), asynq.NewTask(tasks.TypeResubscribe, nil))

	assert.Error(t, err)
	assert.Contains(t, logs.String(), "resubscribe run failed")
}

func TestHandleResubscribeTaskBadPayload(t *testing.T) {
	_, client := setup(t)
	logger, _ := test.NewLogger()
	handler := NewTaskHandler(client, config.Config{}, logger)

	err := handler.HandleResubscribeTask(context.Background(), asynq.NewTask(tasks.TypeResubscribe, []byte("{")))
	assert.ErrorContains(t, err, "failed to unmarshal task payload")
}
