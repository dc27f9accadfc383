package hub

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"tradepost/pkg/logger"
)

// Event is one state-change notification pushed to UI surfaces: badge
// updates, audible alerts, merged messages, handshake changes.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventUnread    = "unread"
	EventAlert     = "alert"
	EventMessages  = "messages"
	EventDirectory = "directory"
	EventFeed      = "notifications"
	EventMiddleman = "middleman"
	EventBroadcast = "broadcast"
	EventDashboard = "dashboard"
	EventSession   = "session"
)

// Subscriber is one attached surface (header badge, chat overlay,
// notification panel, or a websocket client of the local API).
type Subscriber struct {
	ID   string
	Send chan Event
}

// Hub fans events out to all subscribers. Only reconcilers and use
// cases publish; surfaces read. A subscriber that cannot keep up is
// dropped rather than allowed to block the loop.
type Hub struct {
	subscribers map[string]*Subscriber
	register    chan *Subscriber
	unregister  chan *Subscriber
	broadcast   chan Event
	mutex       sync.RWMutex
}

func New() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan Event, 64),
	}
}

// Start runs the hub's main loop in a goroutine.
func (h *Hub) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case sub := <-h.register:
				h.mutex.Lock()
				h.subscribers[sub.ID] = sub
				h.mutex.Unlock()
				logger.Debug("Hub: subscriber registered: %s", sub.ID)

			case sub := <-h.unregister:
				h.mutex.Lock()
				if _, ok := h.subscribers[sub.ID]; ok {
					delete(h.subscribers, sub.ID)
					close(sub.Send)
				}
				h.mutex.Unlock()
				logger.Debug("Hub: subscriber unregistered: %s", sub.ID)

			case event := <-h.broadcast:
				h.mutex.Lock()
				for id, sub := range h.subscribers {
					select {
					case sub.Send <- event:
					default:
						close(sub.Send)
						delete(h.subscribers, id)
						logger.Warn("Hub: dropped slow subscriber %s", id)
					}
				}
				h.mutex.Unlock()

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		ID:   uuid.New().String(),
		Send: make(chan Event, 16),
	}
	h.register <- sub
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.unregister <- sub
}

// Publish never blocks the caller; if the hub's buffer is full the
// event is dropped, which is acceptable because every event is a
// "state changed, re-read it" hint rather than the state itself.
func (h *Hub) Publish(event Event) {
	select {
	case h.broadcast <- event:
	default:
		logger.Warn("Hub: event buffer full, dropped %s", event.Type)
	}
}
