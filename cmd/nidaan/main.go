package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nidaan-ai/nidaan/internal/audit"
	"github.com/nidaan-ai/nidaan/internal/config"
	"github.com/nidaan-ai/nidaan/internal/emergency"
	"github.com/nidaan-ai/nidaan/internal/logger"
	"github.com/nidaan-ai/nidaan/internal/ner"
	"github.com/nidaan-ai/nidaan/internal/privacy"
	"github.com/nidaan-ai/nidaan/internal/server"
	"github.com/nidaan-ai/nidaan/internal/session"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		healthCheck = flag.Bool("health-check", false, "Perform health check and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("Nidaan %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *healthCheck {
		performHealthCheck()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled:  cfg.Logging.File.Enabled,
			Path:     cfg.Logging.File.Path,
			MaxSize:  cfg.Logging.File.MaxSize,
			MaxAge:   cfg.Logging.File.MaxAge,
			Compress: cfg.Logging.File.Compress,
		}
	}

	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	server.Version = version

	log.Info("Starting Nidaan",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("build_date", date),
		zap.Int("port", cfg.Server.Port),
	)

	// Supplementary NER collaborator (optional)
	nerDetector, err := ner.NewFromConfig(cfg.NER, log)
	if err != nil {
		log.Fatal("Failed to create NER detector", zap.Error(err))
	}

	// PII anonymizer
	anonymizer, err := privacy.New(cfg.Privacy, nerDetector, log.WithComponent("privacy"))
	if err != nil {
		log.Fatal("Failed to create anonymizer", zap.Error(err))
	}

	// Session mapping store
	sessions, err := session.NewFromConfig(cfg.Sessions, log)
	if err != nil {
		log.Fatal("Failed to create session store", zap.Error(err))
	}
	defer sessions.Close()

	// Persistent audit archive (optional)
	var archive *audit.Store
	if cfg.Archive.Enabled {
		archive, err = audit.NewStore(cfg.Archive, log)
		if err != nil {
			log.Fatal("Failed to create audit archive", zap.Error(err))
		}
		defer archive.Close()
		anonymizer.AuditLog().SetArchive(archive)
	}

	// Emergency detector
	detector := emergency.New(log.WithComponent("emergency"))

	srv := server.New(cfg, server.Deps{
		Anonymizer: anonymizer,
		Emergency:  detector,
		Sessions:   sessions,
		Archive:    archive,
	}, log)

	// Reload on config file changes. Structural changes (ports, store
	// backends) still require a restart.
	if err := config.Watch(cfg, func(newCfg *config.Config) {
		log.Info("Configuration reloaded",
			zap.Bool("privacy_enabled", newCfg.Privacy.Enabled),
			zap.Bool("emergency_enabled", newCfg.Emergency.Enabled))
	}); err != nil {
		log.Warn("Config watch unavailable", zap.Error(err))
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error("Server error", zap.Error(err))
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Give outstanding requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Stop(ctx); err != nil {
			log.Error("Failed to shutdown server gracefully", zap.Error(err))
			os.Exit(1)
		}

		log.Info("Server shutdown complete")
	}
}

// performHealthCheck performs a health check against the running server
func performHealthCheck() {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get("http://localhost:8080/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("Health check passed")
	os.Exit(0)
}
