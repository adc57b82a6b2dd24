package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/nidaan-ai/nidaan/internal/config"
	"github.com/nidaan-ai/nidaan/internal/logger"
	"github.com/nidaan-ai/nidaan/internal/privacy"
)

// RedisStore persists session mappings in Redis with per-key TTLs.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	logger    *logger.Logger
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(cfg config.SessionConfig, log *logger.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = cfg.MaxConnections
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.WithComponent("session").Info("Redis session store initialized",
		zap.String("redis_url", maskRedisURL(cfg.RedisURL)),
		zap.Int("max_connections", cfg.MaxConnections),
		zap.Duration("ttl", cfg.TTL))

	return &RedisStore{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		logger:    log.WithComponent("session"),
	}, nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Save stores the mapping data under the session ID with the given TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, data privacy.MappingData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.Debug("Session saved",
		zap.String("session_id", sessionID),
		zap.Int("entries", len(data.PlaceholderToOriginal)))
	return nil
}

// Load retrieves the mapping data for a session ID.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (privacy.MappingData, error) {
	var data privacy.MappingData
	payload, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return data, ErrNotFound
	} else if err != nil {
		return data, fmt.Errorf("failed to load session: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		// Drop the corrupted entry rather than serve it again.
		s.client.Del(ctx, s.key(sessionID))
		return data, fmt.Errorf("corrupted session data: %w", err)
	}
	return data, nil
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// maskRedisURL masks credentials in a Redis URL for logging.
func maskRedisURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					return userParts[0] + ":" + userParts[1] + ":***@" + strings.Join(parts[1:], "@")
				}
			}
		}
	}
	return url
}
