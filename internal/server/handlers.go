package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nidaan-ai/nidaan/internal/emergency"
	"github.com/nidaan-ai/nidaan/internal/privacy"
	"github.com/nidaan-ai/nidaan/internal/session"
	"github.com/nidaan-ai/nidaan/internal/websocket"
)

const maxRequestBody = 1 << 20 // 1 MiB

type anonymizeRequest struct {
	Text           string  `json:"text"`
	SessionID      string  `json:"session_id,omitempty"`
	Language       string  `json:"language,omitempty"`
	MinConfidence  float64 `json:"min_confidence,omitempty"`
	Strategy       string  `json:"strategy,omitempty"`
	IncludeMapping bool    `json:"include_mapping,omitempty"`
}

type anonymizeResponse struct {
	AnonymizedText string               `json:"anonymized_text"`
	SessionID      string               `json:"session_id"`
	EntityCount    int                  `json:"entity_count"`
	EntityCounts   map[string]int       `json:"entity_counts"`
	Mapping        *privacy.MappingData `json:"mapping,omitempty"`
}

type deanonymizeRequest struct {
	Text      string               `json:"text"`
	SessionID string               `json:"session_id,omitempty"`
	Mapping   *privacy.MappingData `json:"mapping,omitempty"`
}

type deanonymizeResponse struct {
	Text string `json:"text"`
}

type emergencyCheckRequest struct {
	Text           string                    `json:"text"`
	KeyFindings    []emergency.Finding       `json:"key_findings,omitempty"`
	AbnormalValues []emergency.AbnormalValue `json:"abnormal_values,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r.Context())

	var req anonymizeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if !s.config.Privacy.Enabled {
		s.writeError(w, http.StatusServiceUnavailable, "anonymization is disabled")
		return
	}

	opts := &privacy.Options{
		Language:      req.Language,
		MinConfidence: req.MinConfidence,
		Strategy:      privacy.Strategy(req.Strategy),
	}

	start := time.Now()
	anonymized, mapping := s.anonymizer.Anonymise(r.Context(), req.Text, opts)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	data := mapping.Export()
	if err := s.sessions.Save(r.Context(), sessionID, data, s.config.Sessions.TTL); err != nil {
		s.logger.WithRequestID(requestID).Error("Failed to save session mapping",
			zap.String("session_id", sessionID),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to persist session")
		return
	}

	resp := anonymizeResponse{
		AnonymizedText: anonymized,
		SessionID:      sessionID,
		EntityCount:    mapping.Len(),
		EntityCounts:   mapping.Counts(),
	}
	if req.IncludeMapping {
		resp.Mapping = &data
	}

	s.wsHub.BroadcastEvent(websocket.Event{
		Type:      websocket.EventTypeAnonymization,
		Timestamp: time.Now(),
		RequestID: requestID,
		Data: websocket.AnonymizationEvent{
			RequestID:        requestID,
			TextLength:       len(req.Text),
			EntitiesDetected: mapping.Len(),
			EntitiesRedacted: mapping.Len(),
			EntityTypes:      mapping.EntityTypes(),
			Strategy:         s.config.Privacy.Strategy,
			ProcessingMS:     float64(time.Since(start).Microseconds()) / 1000.0,
		},
	})

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeanonymize(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r.Context())

	var req deanonymizeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	var data privacy.MappingData
	switch {
	case req.Mapping != nil:
		data = *req.Mapping
	case req.SessionID != "":
		loaded, err := s.sessions.Load(r.Context(), req.SessionID)
		if errors.Is(err, session.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "session not found or expired")
			return
		} else if err != nil {
			s.logger.WithRequestID(requestID).Error("Failed to load session mapping",
				zap.String("session_id", req.SessionID),
				zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "failed to load session")
			return
		}
		data = loaded
	default:
		s.writeError(w, http.StatusBadRequest, "session_id or mapping is required")
		return
	}

	mapping, err := privacy.MappingFromData(data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, deanonymizeResponse{
		Text: s.anonymizer.Deanonymise(req.Text, mapping),
	})
}

func (s *Server) handleEmergencyCheck(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r.Context())

	var req emergencyCheckRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if !s.config.Emergency.Enabled {
		s.writeError(w, http.StatusServiceUnavailable, "emergency detection is disabled")
		return
	}

	result := s.emergency.DetectCriticalValues(req.Text, req.KeyFindings, req.AbnormalValues)

	if result.HasEmergency {
		names := make([]string, 0, len(result.Alerts))
		for _, a := range result.Alerts {
			names = append(names, a.TestName)
		}
		s.wsHub.BroadcastEvent(websocket.Event{
			Type:      websocket.EventTypeEmergencyAlert,
			Timestamp: time.Now(),
			RequestID: requestID,
			Data: websocket.EmergencyAlertEvent{
				RequestID:  requestID,
				AlertCount: result.AlertCount,
				TestNames:  names,
			},
		})
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	entries := s.anonymizer.AuditLog().Snapshot()

	limit := parseLimit(r, len(entries))
	if limit < len(entries) {
		// Newest entries are at the tail.
		entries = entries[len(entries)-limit:]
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"entries": entries,
	})
}

func (s *Server) handleAuditArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeError(w, http.StatusServiceUnavailable, "audit archive is disabled")
		return
	}

	limit := parseLimit(r, 100)
	entries, err := s.archive.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to query audit archive", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to query audit archive")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"entries": entries,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	if err := s.sessions.Delete(r.Context(), sessionID); err != nil {
		s.logger.Error("Failed to delete session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "nidaan",
		"version": Version,
	})
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":           "nidaan",
		"version":           Version,
		"uptime":            time.Since(s.startTime).String(),
		"privacy_enabled":   s.config.Privacy.Enabled,
		"emergency_enabled": s.config.Emergency.Enabled,
		"strategy":          s.config.Privacy.Strategy,
		"session_backend":   s.config.Sessions.Backend,
		"archive_enabled":   s.archive != nil,
		"connected_clients": s.wsHub.ActiveConnections(),
	})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func parseLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}
