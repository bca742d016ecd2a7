// Package websocket fans cache change notices out to attached presentation
// clients, so a view subscribed to the feed re-reads the affected
// collection instead of polling.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is one feed event. Type is "cache_update" when a cached
// collection changed (Key names it) or "mutation_failed" when a mutation
// rolled back (Reason carries the user-visible text).
type Message struct {
	Type   string `json:"type"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// CacheUpdate builds the notice for a changed cache key.
func CacheUpdate(key string) Message {
	return Message{Type: "cache_update", Key: key}
}

// MutationFailed builds the transient failure notice (the toast).
func MutationFailed(reason string) Message {
	return Message{Type: "mutation_failed", Reason: reason}
}

// Hub maintains the set of attached clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to all attached clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// ClientCount returns the number of attached clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
