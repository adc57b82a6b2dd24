// Package session persists anonymization mappings between the
// anonymize and deanonymize calls of one client session.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/nidaan-ai/nidaan/internal/config"
	"github.com/nidaan-ai/nidaan/internal/logger"
	"github.com/nidaan-ai/nidaan/internal/privacy"
)

// ErrNotFound is returned when no mapping exists for a session ID,
// either because it was never saved or its TTL expired.
var ErrNotFound = errors.New("session not found")

// Store persists mapping data keyed by session ID.
type Store interface {
	Save(ctx context.Context, sessionID string, data privacy.MappingData, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (privacy.MappingData, error)
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// NewFromConfig builds the store selected in configuration.
func NewFromConfig(cfg config.SessionConfig, log *logger.Logger) (Store, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedisStore(cfg, log)
	default:
		return NewMemoryStore(log), nil
	}
}
