package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betkick/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub broadcasts events to connected websocket clients
type Hub struct {
	clients      map[*client]bool
	register     chan *client
	unregister   chan *client
	broadcast    chan []byte
	clientBuffer int
	done         chan struct{}
	mu           sync.RWMutex
	logger       *logrus.Entry
}

// NewHub creates a hub whose clients buffer up to clientBuffer messages
func NewHub(clientBuffer int, logger *logrus.Logger) *Hub {
	if clientBuffer <= 0 {
		clientBuffer = 64
	}
	return &Hub{
		clients:      make(map[*client]bool),
		register:     make(chan *client),
		unregister:   make(chan *client),
		broadcast:    make(chan []byte, 256),
		clientBuffer: clientBuffer,
		done:         make(chan struct{}),
		logger:       logger.WithField("component", "event_hub"),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Starting event hub")

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			metrics.SetWebsocketClients(0)
			h.logger.Info("Event hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()
			metrics.SetWebsocketClients(count)
			h.logger.WithField("client_id", c.id).Debug("Client registered")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			metrics.SetWebsocketClients(count)
			h.logger.WithField("client_id", c.id).Debug("Client unregistered")

		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer
					delete(h.clients, c)
					close(c.send)
					h.logger.WithField("client_id", c.id).Warn("Dropping slow websocket client")
				}
			}
			count := len(h.clients)
			h.mu.Unlock()
			metrics.SetWebsocketClients(count)
		}
	}
}

// Publish queues an event for broadcast. Events are dropped when the queue is full.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling event: %w", err)
	}

	select {
	case h.broadcast <- data:
		metrics.RecordEventPublished(string(event.Type), "websocket")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		h.logger.WithField("event_type", event.Type).Warn("Broadcast queue full, dropping event")
		return nil
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and registers the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.clientBuffer),
		hub:  h,
	}

	select {
	case h.register <- c:
	case <-r.Context().Done():
		conn.Close()
		return
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
