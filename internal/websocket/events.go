package websocket

import (
	"log"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastPropertySyncCompleted sends a property sync completed event.
func (b *EventBroadcaster) BroadcastPropertySyncCompleted(result models.PropertySyncResult) {
	payload := PropertySyncPayload{
		PropertyID:    result.PropertyID,
		PropertyName:  result.PropertyName,
		Status:        result.Status,
		BookingsFound: result.BookingsFound,
		Created:       result.Created,
		Updated:       result.Updated,
		Deleted:       result.Deleted,
		Skipped:       result.Skipped,
	}

	b.broadcast(NewMessage(TypePropertySyncCompleted, payload))
}

// BroadcastPropertySyncError sends a property sync error event.
func (b *EventBroadcaster) BroadcastPropertySyncError(propertyID, propertyName string, err error) {
	payload := PropertySyncErrorPayload{
		PropertyID:   propertyID,
		PropertyName: propertyName,
		Error:        "sync_error",
		Message:      err.Error(),
	}

	b.broadcast(NewMessage(TypePropertySyncError, payload))
}

// BroadcastChangeoverStatusChanged sends a changeover status change event.
func (b *EventBroadcaster) BroadcastChangeoverStatusChanged(changeoverID, propertyID, previousStatus, newStatus string) {
	payload := ChangeoverStatusPayload{
		ChangeoverID:   changeoverID,
		PropertyID:     propertyID,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
	}

	b.broadcast(NewMessage(TypeChangeoverStatusChanged, payload))
}

// BroadcastFindingCreated sends a finding created event.
func (b *EventBroadcaster) BroadcastFindingCreated(finding models.Finding) {
	payload := FindingCreatedPayload{
		FindingID:    finding.ID,
		ChangeoverID: finding.ChangeoverID,
		Title:        finding.Title,
	}

	b.broadcast(NewMessage(TypeFindingCreated, payload))
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	payload := NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: true,
	}

	b.broadcast(NewMessage(TypeNotification, payload))
}

// broadcast sends a message to all connected clients.
func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Error encoding WebSocket message: %v", err)
		return
	}

	b.hub.Broadcast(data)
}
