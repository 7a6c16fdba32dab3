// Package hub streams frames and notifications to browsers over
// server-sent events. Each client is bound to one scene session.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Message is one SSE event. An empty Session reaches every client.
type Message struct {
	Session string
	Event   string
	Data    any
}

// Client represents a connected SSE client
type Client struct {
	id      string
	session string
	events  chan []byte
}

// Hub manages SSE client connections
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}
	keepalive  time.Duration
	logger     *slog.Logger
}

// New creates a new Hub
func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		done:       make(chan struct{}),
		keepalive:  30 * time.Second,
		logger:     logger,
	}
}

// Run starts the hub's event loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("sse client connected", "client", client.id, "session", client.session, "total", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.events)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("sse client disconnected", "client", client.id, "session", client.session, "total", total)

		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.events)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) deliver(msg Message) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		h.logger.Warn("failed to marshal event", "event", msg.Event, "error", err)
		return
	}
	payload := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", msg.Event, data))

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if msg.Session != "" && client.session != msg.Session {
			continue
		}
		select {
		case client.events <- payload:
		default:
			// Frames supersede each other; a slow client just misses one
			h.logger.Debug("sse client is slow, skipping message", "client", client.id, "event", msg.Event)
		}
	}
}

// Publish queues a message without blocking
func (h *Hub) Publish(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast channel full, dropping event", "event", msg.Event, "session", msg.Session)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClients returns the number of clients watching a session
func (h *Hub) SessionClients(session string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for client := range h.clients {
		if client.session == session {
			n++
		}
	}
	return n
}

// ServeHTTP handles SSE connections. The session query parameter picks
// which scene's frames the client receives.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := &Client{
		id:      fmt.Sprintf("%d", time.Now().UnixNano()),
		session: r.URL.Query().Get("session"),
		events:  make(chan []byte, 64),
	}

	select {
	case h.register <- client:
	case <-h.done:
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	case <-r.Context().Done():
		return
	}
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
	}()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.events:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
