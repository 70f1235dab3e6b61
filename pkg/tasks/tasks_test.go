package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResubscribeTask(t *testing.T) {
	task, err := NewResubscribeTask(ResubscribeTaskPayload{DryRun: true, Source: "scheduler"})
	require.NoError(t, err)

	assert.Equal(t, TypeResubscribe, task.Type())

	var p ResubscribeTaskPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.True(t, p.DryRun)
	assert.Equal(t, "scheduler", p.Source)
}
