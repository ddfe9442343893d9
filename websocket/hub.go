// file: websocket/hub.go
package websocket

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cmv-site/carousel"
	"cmv-site/logger"
	"cmv-site/metrics"
	"cmv-site/models"
)

// Hub tracks live displays and pushes slide changes to each of them.
type Hub struct {
	mu     sync.Mutex
	conns  map[*Connection]struct{}
	slides []models.Slide
	opts   carousel.Options

	ctx      context.Context
	presence *Presence
	metrics  metrics.Recorder
	upgrader websocket.Upgrader
}

// NewHub starts with slides and opts. Players stop when ctx is cancelled.
func NewHub(ctx context.Context, slides []models.Slide, opts carousel.Options, rec metrics.Recorder) *Hub {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Hub{
		conns:    make(map[*Connection]struct{}),
		slides:   append([]models.Slide(nil), slides...),
		opts:     opts,
		ctx:      ctx,
		presence: NewPresence(),
		metrics:  rec,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Presence exposes the last-seen tracker for the admin dashboard.
func (h *Hub) Presence() *Presence { return h.presence }

// Count returns the number of live displays.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// ServeWs upgrades the request and starts a player for the new display.
// An optional ?width= seeds the viewport size.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	logger.Info.Printf("[ServeWs] Upgrading to WS: remoteAddr=%v", r.RemoteAddr)
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}
	width, _ := strconv.Atoi(r.URL.Query().Get("width"))
	c := h.attach(wsConn, width)

	go c.readPump()
	go c.writePump()
}

// attach registers conn and starts its player.
func (h *Hub) attach(conn WSConn, width int) *Connection {
	c := newConnection(uuid.NewString(), conn, h)

	h.mu.Lock()
	engine := carousel.NewEngine(h.slides, h.opts)
	engine.Resize(width)
	c.player = carousel.NewPlayer(engine, c.notify)
	h.conns[c] = struct{}{}
	count := len(h.conns)
	h.mu.Unlock()

	h.presence.Touch(c.id)
	h.metrics.LiveDisplays(count)
	c.player.Start(h.ctx)
	logger.Info.Printf("[Hub.attach] display %s connected (%d live)", c.id, count)
	return c
}

// unregister removes c and stops its timers. Unknown connections are ignored.
func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	_, ok := h.conns[c]
	delete(h.conns, c)
	count := len(h.conns)
	h.mu.Unlock()

	c.close()
	if !ok {
		return
	}
	h.presence.Remove(c.id)
	h.metrics.LiveDisplays(count)
	logger.Info.Printf("[Hub.unregister] display %s left (%d live)", c.id, count)
}

// UpdateSlides replaces the sequence on every display. Each player clamps
// its index and restarts its autoplay timer. An identical sequence is ignored.
func (h *Hub) UpdateSlides(slides []models.Slide) {
	h.mu.Lock()
	if slices.Equal(h.slides, slides) {
		h.mu.Unlock()
		return
	}
	h.slides = append([]models.Slide(nil), slides...)
	targets := h.snapshotConns()
	h.mu.Unlock()

	for _, c := range targets {
		c.player.SetSlides(slides)
	}
	logger.Info.Printf("[Hub.UpdateSlides] %d slides pushed to %d displays", len(slides), len(targets))
}

// SetOptions changes autoplay settings on every display.
func (h *Hub) SetOptions(opts carousel.Options) {
	h.mu.Lock()
	h.opts = opts
	targets := h.snapshotConns()
	h.mu.Unlock()

	for _, c := range targets {
		c.player.SetOptions(opts)
	}
}

// Close disconnects every display.
func (h *Hub) Close() {
	h.mu.Lock()
	targets := h.snapshotConns()
	h.mu.Unlock()
	for _, c := range targets {
		h.unregister(c)
	}
}

// snapshotConns must be called with h.mu held.
func (h *Hub) snapshotConns() []*Connection {
	out := make([]*Connection, 0, len(h.conns))
	for c := range h.conns {
		out = append(out, c)
	}
	return out
}
