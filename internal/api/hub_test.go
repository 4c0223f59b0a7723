package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stagehand-app/stagehand/internal/core"
)

func dialHub(t *testing.T, hub *Hub, current *core.PlaybackState) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, current)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) State {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp State
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func TestClientReceivesCurrentStateOnConnect(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn := dialHub(t, hub, playingState())
	resp := readState(t, conn)
	if resp.Title != "Song" || resp.Status != "playing" {
		t.Errorf("initial push = %+v", resp)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	c1 := dialHub(t, hub, playingState())
	c2 := dialHub(t, hub, playingState())
	readState(t, c1)
	readState(t, c2)

	st := playingState()
	st.Track.Title = "Next Song"
	hub.Broadcast(st)

	for i, conn := range []*websocket.Conn{c1, c2} {
		if resp := readState(t, conn); resp.Title != "Next Song" {
			t.Errorf("client %d got %q, want Next Song", i, resp.Title)
		}
	}
}

func TestDisconnectedClientDropped(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn := dialHub(t, hub, playingState())
	readState(t, conn)
	conn.Close()

	// Two broadcasts: the first may still hit buffers, the second must
	// notice the dead connection and drop it.
	hub.Broadcast(playingState())
	hub.Broadcast(playingState())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.Lock()
		n := len(hub.clients)
		hub.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("dead client never removed from hub")
}
