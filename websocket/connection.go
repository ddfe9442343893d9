// Package websocket serves the live carousel feed. Every connection owns
// its own carousel Player: the browser sends pointer, resize and seek
// events, and the server streams back a snapshot after each visible change.
// file: websocket/connection.go
package websocket

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"cmv-site/carousel"
	"cmv-site/logger"
)

// WSConn is the subset of *websocket.Conn the pumps use.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 2048
	sendBuffer     = 64
)

// Message is what the server sends to a display.
type Message struct {
	Action   string             `json:"action"` // "snapshot" or "error"
	Snapshot *carousel.Snapshot `json:"snapshot,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Connection is one live display.
type Connection struct {
	id     string
	conn   WSConn
	send   chan []byte
	player *carousel.Player
	hub    *Hub

	closeOnce sync.Once
	done      chan struct{}
}

func newConnection(id string, conn WSConn, hub *Hub) *Connection {
	return &Connection{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  hub,
		done: make(chan struct{}),
	}
}

// ID identifies the display in presence listings.
func (c *Connection) ID() string { return c.id }

// notify is the Player's Notifier. It runs under the player lock, so it
// only queues; a full buffer drops the frame.
func (c *Connection) notify(s carousel.Snapshot) {
	c.enqueue(Message{Action: "snapshot", Snapshot: &s})
}

func (c *Connection) enqueue(m Message) {
	out, err := json.Marshal(m)
	if err != nil {
		logger.Error.Printf("[Connection.enqueue] marshal %s: %v", m.Action, err)
		return
	}
	select {
	case <-c.done:
	case c.send <- out:
	default:
		logger.Warn.Printf("[Connection.enqueue] dropping %s for %s (buffer full)", m.Action, c.id)
	}
}

// close stops the player and signals writePump to exit. Safe to call twice.
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		if c.player != nil {
			c.player.Stop()
		}
		close(c.done)
	})
}

// readPump decodes carousel events from the client in arrival order.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		c.hub.presence.Touch(c.id)
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			logger.Debug.Printf("[readPump] Ignoring non-text messageType=%d", messageType)
			continue
		}
		c.hub.presence.Touch(c.id)
		c.handleMessage(message)
	}
}

// handleMessage applies one client event to the player.
func (c *Connection) handleMessage(message []byte) {
	var ev carousel.Event
	if err := json.Unmarshal(message, &ev); err != nil {
		logger.Warn.Printf("[readPump] Invalid JSON from %s: %v", c.id, err)
		c.enqueue(Message{Action: "error", Error: "invalid message"})
		return
	}
	if err := c.player.Handle(ev); err != nil {
		logger.Debug.Printf("[readPump] %s: %v", c.id, err)
		c.enqueue(Message{Action: "error", Error: err.Error()})
	}
}

// writePump sends queued messages and periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}
