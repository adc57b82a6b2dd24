package session

import (
	"context"
	"sync"
	"time"

	"github.com/nidaan-ai/nidaan/internal/logger"
	"github.com/nidaan-ai/nidaan/internal/privacy"
)

type memoryEntry struct {
	data      privacy.MappingData
	expiresAt time.Time
}

// MemoryStore keeps session mappings in process memory. Suitable for
// single-instance deployments and tests; mappings do not survive a
// restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	logger  *logger.Logger
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		logger:  log.WithComponent("session"),
	}
}

// Save stores the mapping data under the session ID. A zero TTL means
// the entry never expires.
func (s *MemoryStore) Save(ctx context.Context, sessionID string, data privacy.MappingData, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[sessionID] = memoryEntry{data: data, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

// Load retrieves the mapping data for a session ID.
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (privacy.MappingData, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return privacy.MappingData{}, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return privacy.MappingData{}, ErrNotFound
	}
	return entry.data, nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
