package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBeanyx/E-ceruza/internal/models"
)

type fakeConn struct {
	mu     sync.Mutex
	events []InboxEvent
	wrote  chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{wrote: make(chan struct{}, 16)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, v.(InboxEvent))
	c.wrote <- struct{}{}
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) waitForEvent(t *testing.T) InboxEvent {
	t.Helper()
	select {
	case <-c.wrote:
	case <-time.After(time.Second):
		t.Fatal("no event delivered within a second")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[len(c.events)-1]
}

func TestInboxHubDeliversLocally(t *testing.T) {
	hub := NewInboxHub(nil)
	userID := uuid.New()
	conn := newFakeConn()
	hub.Register(userID, conn)

	view := models.MessageView{ID: "abc", Content: "hello", Direction: models.DirectionReceived}
	hub.NotifyMessage(context.Background(), userID, view)

	evt := conn.waitForEvent(t)
	assert.Equal(t, "message", evt.Type)
	assert.Equal(t, view, evt.Message)
}

func TestInboxHubIgnoresUnknownRecipient(t *testing.T) {
	hub := NewInboxHub(nil)
	conn := newFakeConn()
	hub.Register(uuid.New(), conn)

	hub.NotifyMessage(context.Background(), uuid.New(), models.MessageView{ID: "x"})

	select {
	case <-conn.wrote:
		t.Fatal("event delivered to the wrong user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestInboxHubUnregister(t *testing.T) {
	hub := NewInboxHub(nil)
	userID := uuid.New()
	first := newFakeConn()
	second := newFakeConn()

	hub.Register(userID, first)
	hub.Register(userID, second)

	// unregistering the stale connection must not detach the active one
	hub.Unregister(userID, first)

	hub.NotifyMessage(context.Background(), userID, models.MessageView{ID: "y"})
	evt := second.waitForEvent(t)
	require.Equal(t, "y", evt.Message.ID)

	hub.Unregister(userID, second)
	hub.NotifyMessage(context.Background(), userID, models.MessageView{ID: "z"})
	select {
	case <-second.wrote:
		t.Fatal("event delivered after unregister")
	case <-time.After(50 * time.Millisecond):
	}
}
