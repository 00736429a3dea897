package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/helloamger/discussions-archiver/pkg/gh"
)

// DefaultRedisKey is the key the checkpoint document is stored under.
const DefaultRedisKey = "ghfetch:checkpoint"

// RedisStore persists the checkpoint JSON document under a single Redis
// key. Intended for runs inside ephemeral containers where the working
// directory does not survive restarts.
type RedisStore struct {
	redis  *redis.Client
	key    string
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed checkpoint store. An empty key
// selects DefaultRedisKey.
func NewRedisStore(redisClient *redis.Client, key string) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		redis:  redisClient,
		key:    key,
		logger: log.With().Str("component", "checkpoint").Str("backend", "redis").Logger(),
	}
}

// Load reads and parses the checkpoint document. An absent key is a
// normal first run; failures fall back to the default checkpoint.
func (s *RedisStore) Load(ctx context.Context) (*Checkpoint, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		LoadsTotal.WithLabelValues("redis", "miss").Inc()
		return New(), nil
	}
	if err != nil {
		LoadsTotal.WithLabelValues("redis", "error").Inc()
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Checkpoint read failed, starting fresh")
		return New(), fmt.Errorf("redis get: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		LoadsTotal.WithLabelValues("redis", "error").Inc()
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Checkpoint parse failed, starting fresh")
		return New(), fmt.Errorf("parse checkpoint: %w", err)
	}
	if cp.Discussions == nil {
		cp.Discussions = []gh.Discussion{}
	}

	if !cp.Consistent() {
		LoadsTotal.WithLabelValues("redis", "error").Inc()
		s.logger.Warn().Str("key", s.key).Msg("Checkpoint record inconsistent, starting fresh")
		return New(), fmt.Errorf("checkpoint record inconsistent")
	}

	LoadsTotal.WithLabelValues("redis", "ok").Inc()
	return &cp, nil
}

// Save serializes and overwrites the checkpoint document. No expiry: the
// record lives until Clear.
func (s *RedisStore) Save(ctx context.Context, cp *Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		SavesTotal.WithLabelValues("redis", "error").Inc()
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	if err := s.redis.Set(ctx, s.key, data, 0).Err(); err != nil {
		SavesTotal.WithLabelValues("redis", "error").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	SavesTotal.WithLabelValues("redis", "ok").Inc()
	SizeBytes.WithLabelValues("redis").Set(float64(len(data)))

	s.logger.Debug().
		Int("total_count", cp.TotalCount).
		Bool("has_more", cp.HasMore).
		Msg("Checkpoint saved")

	return nil
}

// Clear deletes the checkpoint key. Deleting an absent key is not an error.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
