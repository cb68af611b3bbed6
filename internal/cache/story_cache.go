package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"adventure-service/internal/entity"
)

const defaultKeyPrefix = "adventure:story:"

// StoryCache keeps assembled stories in Redis. Stories never change once
// written, so entries only expire by TTL.
type StoryCache struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewStoryCache(rdb redis.UniversalClient, ttl time.Duration) *StoryCache {
	return &StoryCache{rdb: rdb, ttl: ttl, prefix: defaultKeyPrefix}
}

func (c *StoryCache) key(id uuid.UUID) string {
	return c.prefix + id.String()
}

// Get returns (nil, false, nil) on a miss.
func (c *StoryCache) Get(ctx context.Context, id uuid.UUID) (*entity.CompleteStory, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var story entity.CompleteStory
	if err := json.Unmarshal(raw, &story); err != nil {
		// a broken entry is treated as a miss and dropped
		_ = c.rdb.Del(ctx, c.key(id)).Err()
		return nil, false, nil
	}
	return &story, true, nil
}

func (c *StoryCache) Set(ctx context.Context, story *entity.CompleteStory) error {
	raw, err := json.Marshal(story)
	if err != nil {
		return fmt.Errorf("encode story: %w", err)
	}
	return c.rdb.Set(ctx, c.key(story.ID), raw, c.ttl).Err()
}
