// Package audit archives anonymization audit entries to PostgreSQL so
// they survive restarts and can be exported for compliance review.
// Only metadata is archived, never document text.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/nidaan-ai/nidaan/internal/config"
	"github.com/nidaan-ai/nidaan/internal/logger"
	"github.com/nidaan-ai/nidaan/internal/privacy"
)

// Store archives audit entries in PostgreSQL.
type Store struct {
	db     *sqlx.DB
	logger *logger.Logger
}

// Entry is the archived form of one audit record.
type Entry struct {
	EventID          string         `db:"event_id" json:"event_id"`
	Timestamp        time.Time      `db:"timestamp" json:"timestamp"`
	TextLength       int            `db:"text_length" json:"text_length"`
	EntitiesDetected int            `db:"entities_detected" json:"entities_detected"`
	EntitiesRedacted int            `db:"entities_redacted" json:"entities_redacted"`
	EntityTypes      pq.StringArray `db:"entity_types" json:"entity_types"`
	SourcesUsed      pq.StringArray `db:"sources_used" json:"sources_used"`
	Strategy         string         `db:"strategy" json:"strategy"`
	DurationMS       float64        `db:"duration_ms" json:"duration_ms"`
}

// NewStore connects to PostgreSQL and ensures the audit table exists.
func NewStore(cfg config.ArchiveConfig, log *logger.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	store := &Store{
		db:     db,
		logger: log.WithComponent("audit"),
	}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audit store: %w", err)
	}

	store.logger.Info("Audit archive initialized",
		zap.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
		zap.Int("max_open_conns", cfg.MaxOpenConns))

	return store, nil
}

func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS anonymization_audit (
			event_id          TEXT PRIMARY KEY,
			timestamp         TIMESTAMPTZ NOT NULL,
			text_length       INTEGER NOT NULL,
			entities_detected INTEGER NOT NULL,
			entities_redacted INTEGER NOT NULL,
			entity_types      TEXT[] NOT NULL DEFAULT '{}',
			sources_used      TEXT[] NOT NULL DEFAULT '{}',
			strategy          TEXT NOT NULL,
			duration_ms       DOUBLE PRECISION NOT NULL
		)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create audit table: %w", err)
	}
	return nil
}

// Archive inserts one audit entry.
func (s *Store) Archive(ctx context.Context, entry privacy.AuditEntry) error {
	query := `
		INSERT INTO anonymization_audit
			(event_id, timestamp, text_length, entities_detected,
			 entities_redacted, entity_types, sources_used, strategy, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (event_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		entry.EventID,
		entry.Timestamp,
		entry.TextLength,
		entry.EntitiesDetected,
		entry.EntitiesRedacted,
		pq.StringArray(entry.EntityTypes),
		pq.StringArray(entry.SourcesUsed),
		entry.Strategy,
		entry.DurationMS,
	)
	if err != nil {
		s.logger.Error("Failed to archive audit entry",
			zap.Error(err),
			zap.String("event_id", entry.EventID))
		return fmt.Errorf("failed to archive audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest archived entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	entries := []Entry{}
	query := `
		SELECT event_id, timestamp, text_length, entities_detected,
		       entities_redacted, entity_types, sources_used, strategy, duration_ms
		FROM anonymization_audit
		ORDER BY timestamp DESC
		LIMIT $1`
	if err := s.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	return entries, nil
}

// Count returns the total number of archived entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM anonymization_audit"); err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return count, nil
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// maskDatabaseURL masks credentials in a database URL for logging.
func maskDatabaseURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			schemeAndCreds := parts[0]
			if idx := strings.LastIndex(schemeAndCreds, ":"); idx > strings.Index(schemeAndCreds, "//") {
				return schemeAndCreds[:idx] + ":***@" + strings.Join(parts[1:], "@")
			}
		}
	}
	return url
}
