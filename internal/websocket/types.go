// Package websocket provides a live event feed for dashboards: each
// anonymization and emergency check publishes a metadata-only event.
// Event payloads never carry document text or detected values.
package websocket

import (
	"time"
)

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypeAnonymization is emitted after each anonymization run
	EventTypeAnonymization EventType = "anonymization"
	// EventTypeEmergencyAlert is emitted when critical lab values are found
	EventTypeEmergencyAlert EventType = "emergency_alert"
	// EventTypeSystemStatus represents a system status event
	EventTypeSystemStatus EventType = "system_status"
	// EventTypeConnection represents connection events
	EventTypeConnection EventType = "connection"
)

// Event represents a WebSocket event sent to clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// AnonymizationEvent summarizes one anonymization run. Counts and type
// names only; the redacted values stay out of the feed.
type AnonymizationEvent struct {
	RequestID        string   `json:"request_id"`
	TextLength       int      `json:"text_length"`
	EntitiesDetected int      `json:"entities_detected"`
	EntitiesRedacted int      `json:"entities_redacted"`
	EntityTypes      []string `json:"entity_types"`
	Strategy         string   `json:"strategy"`
	ProcessingMS     float64  `json:"processing_ms"`
}

// EmergencyAlertEvent summarizes one emergency check that found
// critical values. Test names only, not the measured values.
type EmergencyAlertEvent struct {
	RequestID  string   `json:"request_id"`
	AlertCount int      `json:"alert_count"`
	TestNames  []string `json:"test_names"`
}

// SystemStatusEvent represents system status information
type SystemStatusEvent struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	TotalRequests    int64  `json:"total_requests"`
	ConnectedClients int    `json:"connected_clients"`
}

// ConnectionEvent represents WebSocket connection events
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected", "disconnected"
	ClientID string `json:"client_id"`
	Message  string `json:"message,omitempty"`
}

// ClientMessage represents messages sent from clients to server
type ClientMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SubscriptionRequest represents a client subscription request
type SubscriptionRequest struct {
	Events []EventType `json:"events"`
}
