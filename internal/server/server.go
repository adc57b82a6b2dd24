// Package server exposes the anonymization and emergency engines over
// HTTP, with a WebSocket event feed for dashboards.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nidaan-ai/nidaan/internal/audit"
	"github.com/nidaan-ai/nidaan/internal/config"
	"github.com/nidaan-ai/nidaan/internal/emergency"
	"github.com/nidaan-ai/nidaan/internal/logger"
	"github.com/nidaan-ai/nidaan/internal/privacy"
	"github.com/nidaan-ai/nidaan/internal/session"
	"github.com/nidaan-ai/nidaan/internal/websocket"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Server wires the anonymizer, emergency detector, session store and
// event hub behind an HTTP API.
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	anonymizer *privacy.Anonymizer
	emergency  *emergency.Detector
	sessions   session.Store
	archive    *audit.Store
	router     *mux.Router
	server     *http.Server
	wsHub      *websocket.Hub
	startTime  time.Time

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
}

// Deps carries the collaborators the server serves. Archive may be nil
// when persistent audit archiving is disabled.
type Deps struct {
	Anonymizer *privacy.Anonymizer
	Emergency  *emergency.Detector
	Sessions   session.Store
	Archive    *audit.Store
}

// New creates the HTTP server and registers all routes.
func New(cfg *config.Config, deps Deps, log *logger.Logger) *Server {
	s := &Server{
		config:     cfg,
		logger:     log.WithComponent("server"),
		anonymizer: deps.Anonymizer,
		emergency:  deps.Emergency,
		sessions:   deps.Sessions,
		archive:    deps.Archive,
		router:     mux.NewRouter(),
		wsHub:      websocket.NewHub(cfg.WebSocket, log),
		startTime:  time.Now(),
		limiters:   make(map[string]*rate.Limiter),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Info endpoint
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	// WebSocket event feed
	if s.config.WebSocket.Enabled {
		path := s.config.WebSocket.Path
		if path == "" {
			path = "/ws"
		}
		s.router.HandleFunc(path, s.wsHub.HandleWebSocket).Methods("GET")
	}

	// API endpoints
	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.requestIDMiddleware)
	api.Use(s.loggingMiddleware)
	if s.config.RateLimit.Enabled {
		api.Use(s.rateLimitMiddleware)
	}

	api.HandleFunc("/anonymize", s.handleAnonymize).Methods("POST")
	api.HandleFunc("/deanonymize", s.handleDeanonymize).Methods("POST")
	api.HandleFunc("/emergency/check", s.handleEmergencyCheck).Methods("POST")
	api.HandleFunc("/audit", s.handleAuditLog).Methods("GET")
	api.HandleFunc("/audit/archive", s.handleAuditArchive).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
}

// Start starts the HTTP server and the WebSocket hub.
func (s *Server) Start() error {
	s.logger.Info("Starting Nidaan server",
		zap.Int("port", s.config.Server.Port),
		zap.Bool("privacy_enabled", s.config.Privacy.Enabled),
		zap.Bool("emergency_enabled", s.config.Emergency.Enabled),
	)

	go s.wsHub.Run()

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping Nidaan server")
	return s.server.Shutdown(ctx)
}

// Hub exposes the WebSocket hub for status broadcasts.
func (s *Server) Hub() *websocket.Hub {
	return s.wsHub
}
