package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Filter events are tiny; anything bigger is a misbehaving client.
	maxMessageSize = 4 * 1024

	maxMessagesPerSecond = 10

	sendBuffer = 32
)

// Conn wraps a gorilla websocket connection.
type Conn struct {
	*websocket.Conn
}

// Client is one websocket peer: an admin on the notification hub or a
// storefront visitor on a live catalog session.
type Client struct {
	Conn   *Conn
	UserID uint
	Send   chan []byte

	mu     sync.Mutex
	closed bool

	messageCount  int
	lastResetTime time.Time
}

func NewClient(conn *websocket.Conn, userID uint) *Client {
	return &Client{
		Conn:   &Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, sendBuffer),
	}
}

// NewUpgrader accepts upgrades from the configured origins, or any origin with "*".
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
}

// TrySend queues msg without blocking. It reports false when the buffer is
// full or the client is closed.
func (c *Client) TrySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// Close stops WritePump. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// allow applies the per-second message limit.
func (c *Client) allow(now time.Time) bool {
	if now.Sub(c.lastResetTime) >= time.Second {
		c.messageCount = 0
		c.lastResetTime = now
	}
	c.messageCount++
	return c.messageCount <= maxMessagesPerSecond
}

// ReadPump reads until the peer goes away, passing each message to handle.
// handle may be nil for receive-only clients.
func (c *Client) ReadPump(handle func(message []byte)) {
	defer c.Conn.Close()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read error", err, map[string]interface{}{
					"user_id": c.UserID,
				})
			}
			return
		}

		if !c.allow(time.Now()) {
			logger.Warn("Rate limit exceeded", map[string]interface{}{
				"user_id": c.UserID,
			})
			continue
		}
		if handle != nil {
			handle(message)
		}
	}
}

// WritePump writes queued messages and pings until Send is closed.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Error("Failed to write message", err, map[string]interface{}{
					"user_id": c.UserID,
				})
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
