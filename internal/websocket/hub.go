package websocket

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/gmp-artesanias/gmp-backend/internal/metrics"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
)

const adminChannel = "admin"

// Notification is pushed to every connected admin.
type Notification struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

const NotificationUnreadCount = "unread_count"

// Hub fans notifications out to connected dashboard sessions. An admin may
// hold several sessions at once.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	metrics    *metrics.Metrics
	sessions   atomic.Int64
}

func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
		metrics:    m,
	}
}

// Run owns the client set until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			logger.Info("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.sessions.Add(1)
			h.metrics.AddSocketClients(adminChannel, 1)
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients),
			})

		case client := <-h.unregister:
			if h.clients[client] {
				h.drop(client)
				logger.Info("WebSocket client unregistered", map[string]interface{}{
					"user_id":            client.UserID,
					"remaining_sessions": len(h.clients),
				})
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.TrySend(message) {
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": client.UserID,
					})
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	h.sessions.Add(-1)
	client.Close()
	h.metrics.AddSocketClients(adminChannel, -1)
}

// Sessions returns the number of connected admin sessions.
func (h *Hub) Sessions() int {
	return int(h.sessions.Load())
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues message for every admin. It drops the message when the
// queue is full.
func (h *Hub) Broadcast(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err)
		return err
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, message dropped")
	}
	return nil
}

// PushUnreadCount tells every admin the current unread message count.
func (h *Hub) PushUnreadCount(count int64) {
	_ = h.Broadcast(Notification{Type: NotificationUnreadCount, Count: count})
}
