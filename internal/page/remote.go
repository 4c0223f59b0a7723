package page

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Remote talks to the wrapper shell's page endpoint over a websocket and
// exposes the Document, Graph and MediaSession views of the hosted page.
// One request is in flight per call; responses are correlated by id.
type Remote struct {
	conn *websocket.Conn

	writeMu sync.Mutex
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan response

	hotkeys chan string
	changes chan struct{}

	timeout time.Duration
	done    chan struct{}
	once    sync.Once
}

type request struct {
	ID       uint64        `json:"id"`
	Op       string        `json:"op"`
	Selector string        `json:"selector,omitempty"`
	Ref      uint64        `json:"ref,omitempty"`
	Name     string        `json:"name,omitempty"`
	Method   string        `json:"method,omitempty"`
	Args     []interface{} `json:"args,omitempty"`
}

type response struct {
	ID    uint64          `json:"id"`
	Event string          `json:"event,omitempty"`
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	Combo string          `json:"combo,omitempty"`
}

// Dial connects to the shell's page endpoint.
func Dial(url string) (*Remote, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial page endpoint: %w", err)
	}
	r := NewRemote(conn)
	return r, nil
}

// NewRemote wraps an established websocket connection.
func NewRemote(conn *websocket.Conn) *Remote {
	r := &Remote{
		conn:    conn,
		pending: make(map[uint64]chan response),
		hotkeys: make(chan string, 16),
		changes: make(chan struct{}, 1),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
	go r.readLoop()
	return r
}

// Hotkeys returns OS hotkey / media-key combinations forwarded by the
// shell.
func (r *Remote) Hotkeys() <-chan string {
	return r.hotkeys
}

// Changes signals store-change pushes from the shell. The channel has a
// one-slot buffer; wake-ups coalesce.
func (r *Remote) Changes() <-chan struct{} {
	return r.changes
}

// Close tears down the connection and wakes all pending callers.
func (r *Remote) Close() error {
	var err error
	r.once.Do(func() {
		close(r.done)
		err = r.conn.Close()
	})
	return err
}

func (r *Remote) readLoop() {
	defer func() {
		r.mu.Lock()
		for id, ch := range r.pending {
			close(ch)
			delete(r.pending, id)
		}
		r.mu.Unlock()
		close(r.hotkeys)
		close(r.changes)
	}()

	for {
		var resp response
		if err := r.conn.ReadJSON(&resp); err != nil {
			select {
			case <-r.done:
			default:
				log.Printf("page: read: %v", err)
			}
			return
		}

		switch resp.Event {
		case "":
			r.mu.Lock()
			ch, ok := r.pending[resp.ID]
			if ok {
				delete(r.pending, resp.ID)
			}
			r.mu.Unlock()
			if ok {
				ch <- resp
				close(ch)
			}
		case "hotkey":
			select {
			case r.hotkeys <- resp.Combo:
			default:
				// Drop when the consumer lags; hotkeys are not queued.
			}
		case "store-change":
			select {
			case r.changes <- struct{}{}:
			default:
			}
		default:
			log.Printf("page: unknown event %q", resp.Event)
		}
	}
}

func (r *Remote) call(req request) (response, error) {
	ch := make(chan response, 1)

	r.mu.Lock()
	r.nextID++
	req.ID = r.nextID
	r.pending[req.ID] = ch
	r.mu.Unlock()

	r.writeMu.Lock()
	err := r.conn.WriteJSON(req)
	r.writeMu.Unlock()
	if err != nil {
		r.mu.Lock()
		delete(r.pending, req.ID)
		r.mu.Unlock()
		return response{}, fmt.Errorf("page %s: %w", req.Op, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return response{}, fmt.Errorf("page %s: connection closed", req.Op)
		}
		if resp.Error != "" {
			return response{}, fmt.Errorf("page %s: %s", req.Op, resp.Error)
		}
		return resp, nil
	case <-time.After(r.timeout):
		r.mu.Lock()
		delete(r.pending, req.ID)
		r.mu.Unlock()
		return response{}, fmt.Errorf("page %s: timed out", req.Op)
	}
}

// --- Document ---

type elementSnapshot struct {
	Ref   uint64            `json:"ref"`
	Text  string            `json:"text"`
	Attrs map[string]string `json:"attrs"`
}

type remoteElement struct {
	r    *Remote
	snap elementSnapshot
}

func (e *remoteElement) Text() string { return e.snap.Text }

func (e *remoteElement) Attr(name string) (string, bool) {
	v, ok := e.snap.Attrs[name]
	return v, ok
}

func (e *remoteElement) Click() error {
	_, err := e.r.call(request{Op: "dom.click", Ref: e.snap.Ref})
	return err
}

// Query implements Document.
func (r *Remote) Query(selector string) (Element, bool) {
	resp, err := r.call(request{Op: "dom.query", Selector: selector})
	if err != nil || !resp.OK {
		return nil, false
	}
	var snap elementSnapshot
	if err := json.Unmarshal(resp.Value, &snap); err != nil {
		log.Printf("page: bad element snapshot for %q: %v", selector, err)
		return nil, false
	}
	return &remoteElement{r: r, snap: snap}, true
}

// Location implements Document.
func (r *Remote) Location() string {
	resp, err := r.call(request{Op: "dom.location"})
	if err != nil {
		return ""
	}
	var loc string
	if err := json.Unmarshal(resp.Value, &loc); err != nil {
		return ""
	}
	return loc
}

// --- Graph ---

type remoteNode struct {
	r   *Remote
	ref uint64
}

func (n *remoteNode) ID() uint64 { return n.ref }

func (n *remoteNode) Keys() []string {
	resp, err := n.r.call(request{Op: "graph.keys", Ref: n.ref})
	if err != nil {
		return nil
	}
	var keys []string
	if err := json.Unmarshal(resp.Value, &keys); err != nil {
		return nil
	}
	return keys
}

func (n *remoteNode) Child(key string) (Node, bool) {
	resp, err := n.r.call(request{Op: "graph.child", Ref: n.ref, Name: key})
	if err != nil || !resp.OK {
		return nil, false
	}
	var ref uint64
	if err := json.Unmarshal(resp.Value, &ref); err != nil {
		return nil, false
	}
	return &remoteNode{r: n.r, ref: ref}, true
}

func (n *remoteNode) Call(method string, args ...interface{}) (json.RawMessage, error) {
	resp, err := n.r.call(request{Op: "graph.call", Ref: n.ref, Method: method, Args: args})
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// Root implements Graph.
func (r *Remote) Root() (Node, error) {
	resp, err := r.call(request{Op: "graph.root"})
	if err != nil {
		return nil, err
	}
	var ref uint64
	if err := json.Unmarshal(resp.Value, &ref); err != nil {
		return nil, fmt.Errorf("page graph.root: %w", err)
	}
	return &remoteNode{r: r, ref: ref}, nil
}

// --- MediaSession ---

type sessionSnapshot struct {
	State    string          `json:"state"`
	Metadata SessionMetadata `json:"metadata"`
	Present  bool            `json:"present"`
}

// Metadata implements MediaSession.
func (r *Remote) Metadata() (SessionMetadata, bool) {
	resp, err := r.call(request{Op: "session.get"})
	if err != nil {
		return SessionMetadata{}, false
	}
	var snap sessionSnapshot
	if err := json.Unmarshal(resp.Value, &snap); err != nil {
		return SessionMetadata{}, false
	}
	return snap.Metadata, snap.Present
}

// PlaybackState implements MediaSession.
func (r *Remote) PlaybackState() string {
	resp, err := r.call(request{Op: "session.get"})
	if err != nil {
		return "none"
	}
	var snap sessionSnapshot
	if err := json.Unmarshal(resp.Value, &snap); err != nil {
		return "none"
	}
	if snap.State == "" {
		return "none"
	}
	return snap.State
}

var (
	_ Document     = (*Remote)(nil)
	_ Graph        = (*Remote)(nil)
	_ MediaSession = (*Remote)(nil)
)
