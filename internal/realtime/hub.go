// Package realtime pushes every accepted gate event to connected
// websocket observers, in addition to webhook fan-out.
package realtime

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gatewatch/gate-metrics-service/internal/models"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 32
)

// Hub tracks connected observers and broadcasts accepted events to them.
// A slow observer never blocks a broadcast; its messages are dropped once
// its send buffer fills.
type Hub struct {
	mu       sync.Mutex
	conns    map[*conn]struct{}
	upgrader websocket.Upgrader
}

type conn struct {
	ws   *websocket.Conn
	send chan models.GateEvent
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		conns:    make(map[*conn]struct{}),
		upgrader: websocket.Upgrader{},
	}
}

// Broadcast queues an event for every connected observer. Never blocks.
func (h *Hub) Broadcast(ev models.GateEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		select {
		case c.send <- ev:
		default:
			// Observer not keeping up; drop this event for it.
		}
	}
}

// ConnCount reports the number of connected observers.
func (h *Hub) ConnCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// ServeHTTP upgrades the request to a websocket and streams events until
// the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("realtime upgrade failed: %v", err)
		return
	}

	c := &conn{ws: ws, send: make(chan models.GateEvent, sendBuffer)}
	h.add(c)
	go h.write(c)
	h.read(c)
	h.remove(c)
}

func (h *Hub) add(c *conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// read drains inbound frames so close/ping control messages are
// processed; observers are not expected to send data.
func (h *Hub) read(c *conn) {
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) write(c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.ws.Close()

	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
				c.ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteJSON(ev); err != nil {
				log.Printf("realtime write failed: %v", err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
