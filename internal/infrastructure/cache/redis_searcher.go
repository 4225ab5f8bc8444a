package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"NewsBulletin/internal/domain"
	"NewsBulletin/internal/ports"
)

const keyPrefix = "newsbulletin:search:"

// RedisSearcher caches successful search responses in Redis.
type RedisSearcher struct {
	next   ports.Searcher
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.Searcher = (*RedisSearcher)(nil)

// NewRedisSearcher wraps next; a non-positive ttl defaults to one hour.
func NewRedisSearcher(next ports.Searcher, client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisSearcher {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisSearcher{next: next, client: client, ttl: ttl, logger: logger}
}

// Connect parses a redis:// URL (or bare host:port) and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Search returns the cached response for req or delegates and stores the result.
// Cache failures never fail the search.
func (s *RedisSearcher) Search(ctx context.Context, req ports.SearchRequest) ([]domain.RawResult, error) {
	key, err := cacheKey(req)
	if err != nil {
		return s.next.Search(ctx, req)
	}

	cached, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var results []domain.RawResult
		if jsonErr := json.Unmarshal(cached, &results); jsonErr == nil {
			s.debug("search cache hit", "key", key, "results", len(results))
			return results, nil
		}
	case !errors.Is(err, redis.Nil):
		s.warn("search cache read failed", "error", err)
	}

	results, err := s.next.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(results); jsonErr == nil {
		if setErr := s.client.Set(ctx, key, payload, s.ttl).Err(); setErr != nil {
			s.warn("search cache write failed", "error", setErr)
		}
	}

	return results, nil
}

func cacheKey(req ports.SearchRequest) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

func (s *RedisSearcher) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *RedisSearcher) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
