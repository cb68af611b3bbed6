//go:build integration

package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"adventure-service/internal/cache"
	"adventure-service/internal/entity"
)

func TestStoryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })

	c := cache.NewStoryCache(rdb, time.Minute)

	_, ok, err := c.Get(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	root := entity.StoryNode{ID: uuid.New(), Content: "Start", IsRoot: true, IsEnding: true, Options: []entity.Option{}}
	story := &entity.CompleteStory{
		ID:        uuid.New(),
		Title:     "Cached",
		SessionID: "sess",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		RootNode:  root,
		AllNodes:  map[string]entity.StoryNode{root.ID.String(): root},
	}
	require.NoError(t, c.Set(ctx, story))

	got, ok, err := c.Get(ctx, story.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, story.Title, got.Title)
	assert.Equal(t, story.RootNode.ID, got.RootNode.ID)
	assert.True(t, story.CreatedAt.Equal(got.CreatedAt))

	ttl, err := rdb.TTL(ctx, "adventure:story:"+story.ID.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
