package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"geosocial/pkg/logger"
	"geosocial/services/geosocial/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultPostTTL = 10 * time.Minute
	// TombstoneTTL must outlive any read that started before an invalidation,
	// which the store timeout bounds.
	TombstoneTTL = 30 * time.Second

	tombstone = "-"
)

// PostCache keeps serialized posts in Redis under post:<id>. A nil client
// turns every call into a miss. Redis failures are logged and never surface
// to callers; the store stays authoritative.
//
// Invalidate leaves a short-lived tombstone and Set only fills empty keys, so
// a reader that loaded a post before an update or delete cannot put the stale
// copy back.
type PostCache struct {
	client       *redis.Client
	ttl          time.Duration
	tombstoneTTL time.Duration
	logger       *logger.Logger
}

func NewPostCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *PostCache {
	if ttl <= 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl, tombstoneTTL: TombstoneTTL, logger: log}
}

func postKey(id string) string {
	return fmt.Sprintf("post:%s", id)
}

func (c *PostCache) Get(ctx context.Context, id string) (*entity.Post, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, postKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("[CACHE] get post %s: %v", id, err)
		return nil, false
	}
	if string(data) == tombstone {
		return nil, false
	}

	var post entity.Post
	if err := json.Unmarshal(data, &post); err != nil {
		c.logger.Warn("[CACHE] decode post %s: %v", id, err)
		return nil, false
	}
	return &post, true
}

func (c *PostCache) Set(ctx context.Context, post *entity.Post) {
	if c == nil || c.client == nil || post == nil {
		return
	}

	data, err := json.Marshal(post)
	if err != nil {
		c.logger.Warn("[CACHE] encode post %s: %v", post.ID, err)
		return
	}
	if err := c.client.SetNX(ctx, postKey(post.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("[CACHE] set post %s: %v", post.ID, err)
	}
}

func (c *PostCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, postKey(id), tombstone, c.tombstoneTTL).Err(); err != nil {
		c.logger.Warn("[CACHE] invalidate post %s: %v", id, err)
	}
}
