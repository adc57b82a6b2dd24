// Command auditexport dumps the persistent audit archive to a Parquet
// file for offline compliance analysis.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/segmentio/parquet-go"
	"go.uber.org/zap"

	"github.com/nidaan-ai/nidaan/internal/audit"
	"github.com/nidaan-ai/nidaan/internal/config"
	"github.com/nidaan-ai/nidaan/internal/logger"
)

// exportRecord is the flattened Parquet row schema.
type exportRecord struct {
	EventID          string  `parquet:"event_id" json:"event_id"`
	Timestamp        int64   `parquet:"timestamp_unix_ms" json:"timestamp_unix_ms"`
	TextLength       int32   `parquet:"text_length" json:"text_length"`
	EntitiesDetected int32   `parquet:"entities_detected" json:"entities_detected"`
	EntitiesRedacted int32   `parquet:"entities_redacted" json:"entities_redacted"`
	EntityTypes      string  `parquet:"entity_types" json:"entity_types"`
	SourcesUsed      string  `parquet:"sources_used" json:"sources_used"`
	Strategy         string  `parquet:"strategy" json:"strategy"`
	DurationMS       float64 `parquet:"duration_ms" json:"duration_ms"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", "", "PostgreSQL connection string (defaults to archive.database_url from config)")
		configPath  = flag.String("config", "", "Path to configuration file")
		outPath     = flag.String("out", "audit.parquet", "Output Parquet file path")
		limit       = flag.Int("limit", 10000, "Maximum number of entries to export")
	)
	flag.Parse()

	log, err := logger.New(logger.Config{Level: "info", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	archiveCfg := cfg.Archive
	if *databaseURL != "" {
		archiveCfg.DatabaseURL = *databaseURL
	}
	if archiveCfg.DatabaseURL == "" {
		log.Fatal("No database URL configured; pass -database-url or set archive.database_url")
	}

	store, err := audit.NewStore(archiveCfg, log)
	if err != nil {
		log.Fatal("Failed to connect to audit archive", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	entries, err := store.Recent(ctx, *limit)
	if err != nil {
		log.Fatal("Failed to read audit entries", zap.Error(err))
	}
	if len(entries) == 0 {
		log.Info("Audit archive is empty, nothing to export")
		return
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal("Failed to create output file", zap.Error(err))
	}
	defer out.Close()

	writer := parquet.NewGenericWriter[exportRecord](out)

	records := make([]exportRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, exportRecord{
			EventID:          e.EventID,
			Timestamp:        e.Timestamp.UnixMilli(),
			TextLength:       int32(e.TextLength),
			EntitiesDetected: int32(e.EntitiesDetected),
			EntitiesRedacted: int32(e.EntitiesRedacted),
			EntityTypes:      strings.Join(e.EntityTypes, ","),
			SourcesUsed:      strings.Join(e.SourcesUsed, ","),
			Strategy:         e.Strategy,
			DurationMS:       e.DurationMS,
		})
	}

	if _, err := writer.Write(records); err != nil {
		log.Fatal("Failed to write Parquet records", zap.Error(err))
	}
	if err := writer.Close(); err != nil {
		log.Fatal("Failed to finalize Parquet file", zap.Error(err))
	}

	log.Info("Audit export complete",
		zap.String("file", *outPath),
		zap.Int("records", len(records)))
}
