package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/common/metrics"
	"admissions-platform/internal/models"
)

const profileKeyPrefix = "student:profile:"

func ProfileCacheKey(userID string) string {
	return profileKeyPrefix + userID
}

// ProfileCache is a read-through Redis cache in front of a ProfileRepository. Redis failures
// are logged and the call falls through to the backing repository.
type ProfileCache struct {
	next   ProfileRepository
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewProfileCache(next ProfileRepository, client *redis.Client, ttl time.Duration, log logger.Logger) *ProfileCache {
	return &ProfileCache{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "profile_cache"}),
	}
}

func (c *ProfileCache) Get(ctx context.Context, userID string) (*models.StudentProfile, error) {
	key := ProfileCacheKey(userID)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var p models.StudentProfile
		if jsonErr := json.Unmarshal([]byte(val), &p); jsonErr == nil {
			metrics.ProfileCacheLookups.WithLabelValues("hit").Inc()
			return &p, nil
		}
		c.logger.Warn("discarding unreadable cached profile", map[string]interface{}{"key": key})
		metrics.ProfileCacheLookups.WithLabelValues("error").Inc()
	case stderrors.Is(err, redis.Nil):
		metrics.ProfileCacheLookups.WithLabelValues("miss").Inc()
	default:
		c.logger.Warn("profile cache read failed", map[string]interface{}{"key": key, "error": err})
		metrics.ProfileCacheLookups.WithLabelValues("error").Inc()
	}

	p, err := c.next.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("profile cache write failed", map[string]interface{}{"key": key, "error": err})
		}
	}
	return p, nil
}

func (c *ProfileCache) Upsert(ctx context.Context, p *models.StudentProfile) error {
	if err := c.next.Upsert(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.UserID)
	return nil
}

func (c *ProfileCache) Delete(ctx context.Context, userID string) error {
	if err := c.next.Delete(ctx, userID); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

func (c *ProfileCache) invalidate(ctx context.Context, userID string) {
	if err := c.redis.Del(ctx, ProfileCacheKey(userID)).Err(); err != nil {
		c.logger.Warn("profile cache invalidation failed", map[string]interface{}{
			"key":   ProfileCacheKey(userID),
			"error": err,
		})
	}
}
