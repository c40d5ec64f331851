package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string, ttl time.Duration) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{client: rdb, ttl: ttl}
}

func (c *Cache) GetTranscriptionStatus(ctx context.Context, jobName string) ([]byte, error) {
	logger.Debugf(ctx, "getting cached status for transcription job %q...", jobName)

	val, err := c.client.Get(ctx, getCacheKey(jobName, false)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (c *Cache) GetEtagTranscriptionStatus(ctx context.Context, jobName string) (string, error) {
	val, err := c.client.Get(ctx, getCacheKey(jobName, true)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// SetTranscriptionStatus is best effort: failures are logged, never returned.
func (c *Cache) SetTranscriptionStatus(ctx context.Context, jobName string, data []byte) {
	logger.Debugf(ctx, "caching status for transcription job %q for %s...", jobName, c.ttl)

	if err := c.client.Set(ctx, getCacheKey(jobName, false), data, c.ttl).Err(); err != nil {
		logger.Warnf(ctx, "redis set failed for transcription job %q: %v", jobName, err)
	}
}

func (c *Cache) SetEtagTranscriptionStatus(ctx context.Context, jobName string, etag string) {
	if err := c.client.Set(ctx, getCacheKey(jobName, true), etag, c.ttl).Err(); err != nil {
		logger.Warnf(ctx, "redis set failed for etag of transcription job %q: %v", jobName, err)
	}
}

func (c *Cache) DeleteTranscriptionStatus(ctx context.Context, jobName string) error {
	logger.Debugf(ctx, "deleting cached status for transcription job %q...", jobName)

	if err := c.client.Del(ctx, getCacheKey(jobName, false), getCacheKey(jobName, true)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func getCacheKey(jobName string, etag bool) string {
	if etag {
		return "etag:transcription:" + jobName
	}
	return "transcription:" + jobName
}
