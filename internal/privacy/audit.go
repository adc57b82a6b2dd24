package privacy

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nidaan-ai/nidaan/internal/logger"
	"go.uber.org/zap"
)

// AuditEntry is an immutable record of one anonymization invocation.
// It carries counts and metadata only, never PII values.
type AuditEntry struct {
	EventID          string    `json:"event_id"`
	Timestamp        time.Time `json:"timestamp"`
	TextLength       int       `json:"text_length"`
	EntitiesDetected int       `json:"entities_detected"`
	EntitiesRedacted int       `json:"entities_redacted"`
	EntityTypes      []string  `json:"entity_types"`
	SourcesUsed      []string  `json:"sources_used"`
	Strategy         string    `json:"strategy"`
	DurationMS       float64   `json:"duration_ms"`
}

// ArchiveSink persists audit entries outside the process, e.g. the
// Postgres archive. Archival is best-effort and never blocks or fails
// an anonymization call.
type ArchiveSink interface {
	Archive(ctx context.Context, entry AuditEntry) error
}

const (
	auditLogCap  = 10000
	auditLogKeep = 5000
)

// AuditLog is a thread-safe, bounded append-only buffer of audit
// entries. When the cap is reached the oldest half is dropped.
type AuditLog struct {
	mu      sync.Mutex
	enabled bool
	entries []AuditEntry
	sink    ArchiveSink
	logger  *logger.Logger
}

// NewAuditLog creates an audit log. A disabled log never appends,
// regardless of call volume.
func NewAuditLog(enabled bool, log *logger.Logger) *AuditLog {
	return &AuditLog{enabled: enabled, logger: log}
}

// SetArchive attaches an external archive sink.
func (l *AuditLog) SetArchive(sink ArchiveSink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
}

// Enabled reports whether entries are being recorded.
func (l *AuditLog) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// Record appends an entry, assigning an event ID if absent.
func (l *AuditLog) Record(entry AuditEntry) {
	l.mu.Lock()
	if !l.enabled {
		l.mu.Unlock()
		return
	}

	if entry.EventID == "" {
		entry.EventID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if len(l.entries) >= auditLogCap {
		l.entries = append([]AuditEntry(nil), l.entries[len(l.entries)-auditLogKeep:]...)
	}
	l.entries = append(l.entries, entry)
	sink := l.sink
	l.mu.Unlock()

	l.logger.Debug("PII audit entry recorded",
		zap.String("event_id", entry.EventID),
		zap.Int("text_length", entry.TextLength),
		zap.Int("entities_detected", entry.EntitiesDetected),
		zap.Int("entities_redacted", entry.EntitiesRedacted),
		zap.Strings("entity_types", entry.EntityTypes),
		zap.Float64("duration_ms", entry.DurationMS),
	)

	if sink != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := sink.Archive(ctx, entry); err != nil {
				l.logger.Warn("Audit archive failed", zap.Error(err), zap.String("event_id", entry.EventID))
			}
		}()
	}
}

// Snapshot returns a copy of the current entries.
func (l *AuditLog) Snapshot() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear drops all in-memory entries.
func (l *AuditLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
