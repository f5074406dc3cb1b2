package websocket

import (
	"encoding/json"
	"sync"

	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
)

// Notification is the envelope pushed to connected clients
type Notification struct {
	Type    string      `json:"type"` // order_status, custom_request, system
	Payload interface{} `json:"payload"`
}

// Client is one websocket session of a user. A user can hold several
// sessions at once (multiple tabs or devices).
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub tracks connected clients and fans notifications out per user
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}
				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})
		}
	}
}

// Register attaches a client and starts its pumps
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// SendToUser pushes a notification to every live session of the user.
// Offline users are skipped silently; the push subscription path covers them.
func (h *Hub) SendToUser(userID uint, n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		logger.Error("Failed to marshal notification", err, map[string]interface{}{
			"user_id": userID,
			"type":    n.Type,
		})
		return
	}

	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer: drop rather than block the hub
			logger.Warn("Dropping notification for slow websocket client", map[string]interface{}{
				"user_id": userID,
			})
		}
	}
}

// ConnectedUsers returns how many distinct users hold live sessions
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
