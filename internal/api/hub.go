package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/stagehand-app/stagehand/internal/core"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API binds to loopback; the tail and tui commands connect
	// without an Origin header a browser would send.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes state changes to every connected websocket client. A
// client that cannot be written to is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

// Serve upgrades the request and registers the client. The current
// state is pushed immediately so clients render without waiting for the
// next change. Blocks until the client disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, current *core.PlaybackState) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	writeMu := &sync.Mutex{}

	h.mu.Lock()
	h.clients[conn] = writeMu
	h.mu.Unlock()

	if current != nil {
		writeMu.Lock()
		err = conn.WriteJSON(fromState(current))
		writeMu.Unlock()
		if err != nil {
			h.drop(conn)
			return
		}
	}

	// Clients never send payloads; the read loop only notices the
	// close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

// Broadcast pushes a state to all connected clients.
func (h *Hub) Broadcast(st *core.PlaybackState) {
	payload := fromState(st)

	h.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for conn, mu := range h.clients {
		conns[conn] = mu
	}
	h.mu.Unlock()

	for conn, mu := range conns {
		mu.Lock()
		err := conn.WriteJSON(payload)
		mu.Unlock()
		if err != nil {
			h.drop(conn)
		}
	}
}

// Listener adapts the hub for synchronizer fan-out.
func (h *Hub) Listener() func(*core.PlaybackState) {
	return h.Broadcast
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = make(map[*websocket.Conn]*sync.Mutex)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}
