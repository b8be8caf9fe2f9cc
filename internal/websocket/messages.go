package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypePropertySyncCompleted   MessageType = "property.sync_completed"
	TypePropertySyncError       MessageType = "property.sync_error"
	TypeChangeoverStatusChanged MessageType = "changeover.status_changed"
	TypeFindingCreated          MessageType = "finding.created"
	TypeNotification            MessageType = "notification"

	// Client -> Server command types
	TypePing MessageType = "ping"

	// Server -> Client response types
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// PropertySyncPayload is the payload for property.sync_completed events.
type PropertySyncPayload struct {
	PropertyID    string `json:"property_id"`
	PropertyName  string `json:"property_name"`
	Status        string `json:"status"`
	BookingsFound int    `json:"bookings_found"`
	Created       int    `json:"created"`
	Updated       int    `json:"updated"`
	Deleted       int    `json:"deleted"`
	Skipped       int    `json:"skipped"`
}

// PropertySyncErrorPayload is the payload for property.sync_error events.
type PropertySyncErrorPayload struct {
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`
	Error        string `json:"error"`
	Message      string `json:"message"`
}

// ChangeoverStatusPayload is the payload for changeover.status_changed
// events.
type ChangeoverStatusPayload struct {
	ChangeoverID   string `json:"changeover_id"`
	PropertyID     string `json:"property_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

// FindingCreatedPayload is the payload for finding.created events.
type FindingCreatedPayload struct {
	FindingID    string `json:"finding_id"`
	ChangeoverID string `json:"changeover_id"`
	Title        string `json:"title"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level       string `json:"level"` // info, warning, error, success
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
