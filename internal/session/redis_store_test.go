package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server only when REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer client.Close()

	store := NewRedisStore(client, time.Minute)
	chatID := time.Now().UnixNano()
	t.Cleanup(func() { _ = store.Delete(ctx, chatID) })

	c, err := store.Load(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, Idle, c.State)

	c.Start("2026-01-10", []Item{{AssignmentID: 5, QuestionID: 50, Line: 3, Debt: true}})
	c.State = AwaitingAnswer
	require.NoError(t, store.Save(ctx, chatID, c))

	loaded, err := store.Load(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, AwaitingAnswer, loaded.State)
	assert.Equal(t, "2026-01-10", loaded.Day)
	assert.Equal(t, c.Queue, loaded.Queue)

	ttl, err := client.TTL(ctx, key(chatID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
