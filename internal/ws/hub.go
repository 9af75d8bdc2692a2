// Package ws implements the realtime notification hub over WebSocket.
//
// Clients connect, optionally register a user id, and receive scan_update
// and listing_update events as their scans move through the pipeline.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/flipperzap/internal/logging"
)

// Message is the wire envelope for every hub message
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	UserID  string      `json:"userId,omitempty"`
}

// client is one WebSocket connection. Writes are serialized through mu so
// concurrent notifications never interleave frames.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Hub tracks connected clients and routes notifications to users
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logging.Logger

	mu      sync.RWMutex
	clients map[*client]string // conn -> registered user id ("" until register)
	byUser  map[string]map[*client]struct{}
}

// NewHub creates a notification hub
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API is same-origin in production and proxied in dev
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*client]string),
		byUser:  make(map[string]map[*client]struct{}),
	}
}

// ServeHTTP lets the hub mount directly on a router
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.HandleWS(w, r)
}

// HandleWS upgrades the request and serves the connection until it closes
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[c] = ""
	h.mu.Unlock()

	h.logger.Info("WebSocket client connected")

	welcome := Message{
		Type: "connection",
		Payload: map[string]interface{}{
			"status":    "connected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := c.send(welcome); err != nil {
		h.removeClient(c)
		return
	}

	go h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.removeClient(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			h.logger.Info("WebSocket client disconnected")
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.WithError(err).Warn("Invalid WebSocket message")
			continue
		}

		h.handleMessage(c, msg)
	}
}

func (h *Hub) handleMessage(c *client, msg Message) {
	switch msg.Type {
	case "register":
		if msg.UserID != "" {
			h.registerClient(c, msg.UserID)
		}
	case "ping":
		if err := c.send(Message{Type: "pong", Payload: map[string]interface{}{}}); err != nil {
			h.removeClient(c)
		}
	default:
		h.logger.WithField("type", msg.Type).Info("Unknown WebSocket message type")
	}
}

func (h *Hub) registerClient(c *client, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Re-registering moves the connection to the new user
	if prev := h.clients[c]; prev != "" {
		delete(h.byUser[prev], c)
		if len(h.byUser[prev]) == 0 {
			delete(h.byUser, prev)
		}
	}

	h.clients[c] = userID
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[*client]struct{})
	}
	h.byUser[userID][c] = struct{}{}

	h.logger.WithField("user_id", userID).Info("WebSocket client registered")
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	userID, known := h.clients[c]
	if known {
		delete(h.clients, c)
		if userID != "" {
			delete(h.byUser[userID], c)
			if len(h.byUser[userID]) == 0 {
				delete(h.byUser, userID)
			}
		}
	}
	h.mu.Unlock()

	if known {
		_ = c.conn.Close()
	}
}

// snapshotUser copies the user's client set so sends happen outside the lock
func (h *Hub) snapshotUser(userID string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set := h.byUser[userID]
	clients := make([]*client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}

// SendToUser delivers the message to every connection registered to the user
func (h *Hub) SendToUser(userID string, msg Message) {
	for _, c := range h.snapshotUser(userID) {
		if err := c.send(msg); err != nil {
			h.removeClient(c)
		}
	}
}

// BroadcastToAll delivers the message to every connected client
func (h *Hub) BroadcastToAll(msg Message) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			h.removeClient(c)
		}
	}
}

// SendScanUpdate notifies the user that a scan changed status
func (h *Hub) SendScanUpdate(userID, scanID, status string, data interface{}) {
	h.SendToUser(userID, Message{
		Type: "scan_update",
		Payload: map[string]interface{}{
			"scanId":    scanID,
			"status":    status,
			"data":      data,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// SendListingUpdate notifies the user that a listing changed status
func (h *Hub) SendListingUpdate(userID, listingID, status string, data interface{}) {
	h.SendToUser(userID, Message{
		Type: "listing_update",
		Payload: map[string]interface{}{
			"listingId": listingID,
			"status":    status,
			"data":      data,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ClientCount reports currently connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
