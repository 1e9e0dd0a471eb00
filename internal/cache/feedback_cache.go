package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/karlbohn/feedback-app/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "feedback:list:"

// FeedbackCache caches each user's feedback list in Redis.
type FeedbackCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFeedbackCache returns a new FeedbackCache.
func NewFeedbackCache(rdb *redis.Client, ttl time.Duration) *FeedbackCache {
	return &FeedbackCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list for username or nil if miss.
func (c *FeedbackCache) GetList(ctx context.Context, username string) ([]dom.Feedback, error) {
	b, err := c.rdb.Get(ctx, keyListPrefix+username).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Feedback
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list for username.
func (c *FeedbackCache) SetList(ctx context.Context, username string, list []dom.Feedback) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyListPrefix+username, b, c.ttl).Err()
}

// Invalidate removes the cached list for username (cache invalidation on write).
func (c *FeedbackCache) Invalidate(ctx context.Context, username string) error {
	return c.rdb.Del(ctx, keyListPrefix+username).Err()
}
