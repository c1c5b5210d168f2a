package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MessageTypeNotification is the only message type pushed to clients
const MessageTypeNotification = "notification"

// Message is the JSON frame pushed to a user's connections
type Message struct {
	Type           string    `json:"type"`
	UserID         int64     `json:"userId"`
	NotificationID int64     `json:"notificationId,omitempty"`
	IssueID        *int64    `json:"issueId,omitempty"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Hub tracks the live connections of each user and fans pushed messages out to them
type Hub struct {
	// Registered clients keyed by user ID. A user may hold several tabs open.
	clients map[int64]map[*Client]bool

	push       chan *Message
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Guards clients for readers outside Run
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		push:       make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and pushes until ctx is cancelled, then closes
// every remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.push:
			h.deliver(message)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// attach hands client to Run. It reports false once the hub has stopped.
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// detach hands client back to Run. After the hub has stopped there is
// nothing left to remove it from.
func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Debug().Int64("userID", client.userID).Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}

	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Debug().Int64("userID", client.userID).Msg("Client unregistered")
}

// deliver sends message to every connection of its user. Connections whose
// buffer is full are dropped.
func (h *Hub) deliver(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", message.UserID).Msg("Failed to marshal push message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[message.UserID]
	if !ok {
		h.logger.Debug().Int64("userID", message.UserID).Msg("User has no live connections")
		return
	}

	for client := range conns {
		select {
		case client.send <- data:
		default:
			h.logger.Warn().Int64("userID", client.userID).Msg("Dropping slow websocket client")
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conns := range h.clients {
		for client := range conns {
			h.removeLocked(client)
		}
	}
}

// SendToUser queues message for the user's live connections. It never blocks
// the caller: if the hub is saturated the push is dropped and false returned.
func (h *Hub) SendToUser(message *Message) bool {
	if message.Type == "" {
		message.Type = MessageTypeNotification
	}

	select {
	case h.push <- message:
		return true
	default:
		h.logger.Warn().Int64("userID", message.UserID).Msg("Push queue full, dropping message")
		return false
	}
}

// ClientCount returns the number of live connections of a user
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
