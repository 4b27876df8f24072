package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitza/batchtrace-go/internal/adapters/persistence"
	"github.com/fitza/batchtrace-go/test/helpers"
)

func TestJobQueue_EnqueuePollComplete(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	queue := persistence.NewJobQueue(db)

	key, err := queue.Enqueue(context.Background(), "batch.create", []byte(`{"batchId":"B-1"}`), 3)
	require.NoError(t, err)

	// Act
	activated, err := queue.Poll(context.Background(), 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, activated, 1)
	assert.Equal(t, key, activated[0].Key)
	assert.Equal(t, "batch.create", activated[0].Type)
	assert.Equal(t, 3, activated[0].Retries)

	// An active job is not redelivered
	again, err := queue.Poll(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	// Complete does not hand it back either
	require.NoError(t, queue.Complete(context.Background(), key, map[string]interface{}{"state": "BLOCKED"}))
	again, err = queue.Poll(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestJobQueue_FailWithRetriesRequeues(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	queue := persistence.NewJobQueue(db)

	key, err := queue.Enqueue(context.Background(), "batch.merge-contributions", []byte(`{}`), 3)
	require.NoError(t, err)
	_, err = queue.Poll(context.Background(), 10)
	require.NoError(t, err)

	// Act
	require.NoError(t, queue.Fail(context.Background(), key, 2, "CONFLICT: try again"))

	// Assert - the job comes back with the decremented retries
	activated, err := queue.Poll(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, activated, 1)
	assert.Equal(t, 2, activated[0].Retries)
}

func TestJobQueue_FailWithoutRetriesParks(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	queue := persistence.NewJobQueue(db)

	key, err := queue.Enqueue(context.Background(), "batch.finalize", []byte(`{}`), 1)
	require.NoError(t, err)
	_, err = queue.Poll(context.Background(), 10)
	require.NoError(t, err)

	// Act
	require.NoError(t, queue.Fail(context.Background(), key, 0, "NOT_FOUND: batch missing"))

	// Assert
	activated, err := queue.Poll(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, activated)
}

func TestJobQueue_PollRespectsLimitAndOrder(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	queue := persistence.NewJobQueue(db)

	first, err := queue.Enqueue(context.Background(), "order.register", []byte(`{}`), 3)
	require.NoError(t, err)
	_, err = queue.Enqueue(context.Background(), "order.register", []byte(`{}`), 3)
	require.NoError(t, err)

	// Act
	activated, err := queue.Poll(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, activated, 1)
	assert.Equal(t, first, activated[0].Key)
}
