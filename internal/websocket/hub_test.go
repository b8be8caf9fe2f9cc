package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/changeover-tracker/backend/internal/storage/models"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	return hub
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count never reached %d (got %d)", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := startHub(t)

	a := NewClient(hub)
	b := NewClient(hub)
	hub.Register(a)
	hub.Register(b)
	waitForClients(t, hub, 2)

	hub.Broadcast([]byte("hello"))

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send():
			assert.Equal(t, "hello", string(msg))
		case <-time.After(time.Second):
			t.Fatal("client never received broadcast")
		}
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	c := NewClient(hub)
	hub.Register(c)
	waitForClients(t, hub, 1)

	hub.Unregister(c)
	waitForClients(t, hub, 0)

	select {
	case _, ok := <-c.Send():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel never closed")
	}
}

func TestEventBroadcasterSyncCompletedEnvelope(t *testing.T) {
	hub := startHub(t)

	c := NewClient(hub)
	hub.Register(c)
	waitForClients(t, hub, 1)

	NewEventBroadcaster(hub).BroadcastPropertySyncCompleted(models.PropertySyncResult{
		PropertyID:    "prop-1",
		PropertyName:  "Beach House",
		Status:        models.CalendarSyncSynced,
		BookingsFound: 3,
		Created:       2,
	})

	select {
	case raw := <-c.Send():
		var msg struct {
			Type    MessageType         `json:"type"`
			Payload PropertySyncPayload `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, TypePropertySyncCompleted, msg.Type)
		assert.Equal(t, "prop-1", msg.Payload.PropertyID)
		assert.Equal(t, 3, msg.Payload.BookingsFound)
		assert.Equal(t, 2, msg.Payload.Created)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}
