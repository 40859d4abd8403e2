package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/TheBeanyx/E-ceruza/internal/models"
)

const inboxChannelPrefix = "inbox:user:"

// InboxEvent is the payload pushed to a user's open inbox connections.
type InboxEvent struct {
	Type    string             `json:"type"` // "message"
	Message models.MessageView `json:"message"`
}

// InboxConn is the minimal interface a WebSocket connection must satisfy.
type InboxConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// InboxHub fans new-message events out to locally connected users. Events
// travel through Redis pub/sub so every instance sees every event; each hub
// delivers to its own connections only.
type InboxHub struct {
	mu      sync.RWMutex
	conns   map[uuid.UUID]InboxConn
	client  *redis.Client // nil in tests: events are delivered locally only
	started sync.Once
}

func NewInboxHub(client *redis.Client) *InboxHub {
	return &InboxHub{
		conns:  make(map[uuid.UUID]InboxConn),
		client: client,
	}
}

// Register attaches a user's connection, replacing any previous one.
func (h *InboxHub) Register(userID uuid.UUID, conn InboxConn) {
	h.mu.Lock()
	h.conns[userID] = conn
	h.mu.Unlock()
}

// Unregister detaches the user's connection if conn is still the active one.
func (h *InboxHub) Unregister(userID uuid.UUID, conn InboxConn) {
	h.mu.Lock()
	if h.conns[userID] == conn {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
}

// NotifyMessage implements Notifier: publishes the event for the recipient.
func (h *InboxHub) NotifyMessage(ctx context.Context, recipientID uuid.UUID, view models.MessageView) {
	event := InboxEvent{Type: "message", Message: view}

	if h.client == nil {
		h.deliver(recipientID, event)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := h.client.Publish(ctx, inboxChannelPrefix+recipientID.String(), data).Err(); err != nil {
		log.Printf("failed to publish inbox event: %v", err)
	}
}

// deliver writes the event to the user's local connection, best effort.
// All calls come from the subscriber goroutine, so writes to a connection
// never interleave.
func (h *InboxHub) deliver(userID uuid.UUID, event InboxEvent) {
	h.mu.RLock()
	conn, ok := h.conns[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		log.Printf("error writing inbox event to websocket: %v", err)
	}
}

// Start launches the shared Redis subscriber, once per instance.
func (h *InboxHub) Start(ctx context.Context) {
	if h.client == nil {
		return
	}
	h.started.Do(func() {
		go h.runSubscriber(ctx)
	})
}

func (h *InboxHub) runSubscriber(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := h.client.PSubscribe(ctx, inboxChannelPrefix+"*")
			defer pubsub.Close()

			log.Println("✅ Inbox Redis subscriber started (pattern: inbox:user:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				userID, err := uuid.Parse(strings.TrimPrefix(msg.Channel, inboxChannelPrefix))
				if err != nil {
					continue
				}

				var event InboxEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal inbox event: %v", err)
					continue
				}

				h.deliver(userID, event)
			}
		}()
	}
}
