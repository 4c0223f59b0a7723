// Package store implements the structured-store extraction variant: it
// reads from the host page's internal reactive state container, which
// yields typed fields and genuine change subscription instead of
// polling. The container is located by searching the host object graph;
// the search fails soft and is retried until it succeeds once, after
// which the node is cached for the process lifetime.
package store

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/stagehand-app/stagehand/internal/core"
	"github.com/stagehand-app/stagehand/internal/errors"
	"github.com/stagehand-app/stagehand/internal/page"
)

// retryInterval limits how often a failed store search is re-run.
const retryInterval = 3 * time.Second

// snapshotTTL bounds reuse of a decoded store snapshot. The field reads
// of one synchronizer tick all land inside the window, so a tick sees
// one coherent fetch instead of a round-trip per field.
const snapshotTTL = 50 * time.Millisecond

// Adapter reads playback state from the host's internal state store.
type Adapter struct {
	graph   page.Graph
	changes <-chan struct{}
	baseURL string

	mu         sync.Mutex
	node       page.Node
	lastSearch time.Time
	subscribed bool

	snapMu sync.Mutex
	snap   *storeSnapshot
	snapAt time.Time

	warn errors.Once
}

// New creates a store adapter. changes carries store-change pushes from
// the page endpoint and may be nil for poll-only operation.
func New(graph page.Graph, changes <-chan struct{}, baseURL string) *Adapter {
	return &Adapter{
		graph:   graph,
		changes: changes,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (a *Adapter) Name() string { return "store" }

// store returns the cached store node, re-running the bounded search at
// most once per retryInterval until it is found.
func (a *Adapter) store() page.Node {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.node != nil {
		return a.node
	}
	if time.Since(a.lastSearch) < retryInterval {
		return nil
	}
	a.lastSearch = time.Now()

	node, err := findStore(a.graph)
	if err != nil {
		a.warn.Logf("find-store", "store: %v (will keep retrying)", err)
		return nil
	}
	log.Printf("store: state container located (node %d)", node.ID())
	a.node = node
	a.ensureSubscribedLocked()
	return node
}

// ensureSubscribedLocked asks the container to publish change
// notifications. Called with mu held, once the node exists.
func (a *Adapter) ensureSubscribedLocked() {
	if a.node == nil || a.changes == nil || a.subscribed {
		return
	}
	if _, err := a.node.Call("subscribe"); err != nil {
		a.warn.Logf("subscribe", "store: subscribe: %v", err)
		return
	}
	a.subscribed = true
}

// playbackState values reported by the container.
const (
	statePlaying = "PLAYING"
	statePaused  = "PAUSED"
	stateIdle    = "IDLE"
)

// repeat mode numbering used by the container.
const (
	repeatNumOff    = 0
	repeatNumSingle = 1
	repeatNumAll    = 2
)

type storeMediaItem struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	Duration int         `json:"duration"`
	URL      string      `json:"url"`
	ImageURL string      `json:"imageUrl"`
	Favorite bool        `json:"favorite"`
	Album    struct {
		Title string `json:"title"`
	} `json:"album"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

type storeSnapshot struct {
	PlaybackControls struct {
		PlaybackState      string  `json:"playbackState"`
		ShuffleModeEnabled bool    `json:"shuffleModeEnabled"`
		RepeatMode         int     `json:"repeatMode"`
		PositionSeconds    float64 `json:"position"`
		Volume             float64 `json:"volume"`
		MediaProduct       struct {
			ProductID string `json:"productId"`
		} `json:"mediaProduct"`
	} `json:"playbackControls"`
	Content struct {
		MediaItems map[string]struct {
			Item storeMediaItem `json:"item"`
		} `json:"mediaItems"`
	} `json:"content"`
}

// snapshot fetches and decodes the container state, reusing the last
// fetch within snapshotTTL. Any failure is a transient extraction miss,
// never an error to callers.
func (a *Adapter) snapshot() (*storeSnapshot, bool) {
	a.snapMu.Lock()
	defer a.snapMu.Unlock()

	if a.snap != nil && time.Since(a.snapAt) < snapshotTTL {
		return a.snap, true
	}
	a.snap = nil

	node := a.store()
	if node == nil {
		return nil, false
	}
	raw, err := node.Call("getState")
	if err != nil {
		a.warn.Logf("get-state", "store: getState: %v", err)
		return nil, false
	}
	var snap storeSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		a.warn.Logf("decode-state", "store: decode state: %v", err)
		return nil, false
	}
	a.snap = &snap
	a.snapAt = time.Now()
	return a.snap, true
}

// invalidate drops the snapshot cache so the next read refetches.
func (a *Adapter) invalidate() {
	a.snapMu.Lock()
	a.snap = nil
	a.snapMu.Unlock()
}

// currentItem resolves the current media item through the content map.
func (a *Adapter) currentItem() (*storeMediaItem, bool) {
	snap, ok := a.snapshot()
	if !ok {
		return nil, false
	}
	id := snap.PlaybackControls.MediaProduct.ProductID
	if id == "" {
		return nil, false
	}
	entry, ok := snap.Content.MediaItems[id]
	if !ok {
		return nil, false
	}
	item := entry.Item
	if item.ID.String() == "" {
		item.ID = json.Number(id)
	}
	return &item, true
}

func (a *Adapter) Status() core.Status {
	snap, ok := a.snapshot()
	if !ok {
		return core.StatusStopped
	}
	switch snap.PlaybackControls.PlaybackState {
	case statePlaying:
		return core.StatusPlaying
	case statePaused:
		return core.StatusPaused
	default:
		return core.StatusStopped
	}
}

func (a *Adapter) TrackID() (string, bool) {
	snap, ok := a.snapshot()
	if !ok {
		return "", false
	}
	id := snap.PlaybackControls.MediaProduct.ProductID
	return id, id != ""
}

func (a *Adapter) Title() string {
	item, ok := a.currentItem()
	if !ok {
		return ""
	}
	return item.Title
}

func (a *Adapter) Album() string {
	item, ok := a.currentItem()
	if !ok {
		return ""
	}
	return item.Album.Title
}

func (a *Adapter) Artists() []string {
	item, ok := a.currentItem()
	if !ok {
		return nil
	}
	artists := make([]string, 0, len(item.Artists))
	for _, ar := range item.Artists {
		if ar.Name != "" {
			artists = append(artists, ar.Name)
		}
	}
	return artists
}

func (a *Adapter) PositionSeconds() int {
	snap, ok := a.snapshot()
	if !ok {
		return 0
	}
	pos := int(snap.PlaybackControls.PositionSeconds)
	if pos < 0 {
		return 0
	}
	return pos
}

func (a *Adapter) DurationSeconds() int {
	item, ok := a.currentItem()
	if !ok {
		return 0
	}
	return item.Duration
}

func (a *Adapter) Shuffle() bool {
	snap, ok := a.snapshot()
	return ok && snap.PlaybackControls.ShuffleModeEnabled
}

func (a *Adapter) Repeat() core.RepeatMode {
	snap, ok := a.snapshot()
	if !ok {
		return core.RepeatOff
	}
	switch snap.PlaybackControls.RepeatMode {
	case repeatNumSingle:
		return core.RepeatSingle
	case repeatNumAll:
		return core.RepeatAll
	default:
		return core.RepeatOff
	}
}

func (a *Adapter) Favorite() bool {
	item, ok := a.currentItem()
	return ok && item.Favorite
}

func (a *Adapter) ArtworkURL() string {
	item, ok := a.currentItem()
	if !ok {
		return ""
	}
	return item.ImageURL
}

func (a *Adapter) TrackURL() string {
	item, ok := a.currentItem()
	if !ok {
		return ""
	}
	if item.URL != "" {
		return item.URL
	}
	if a.baseURL == "" {
		return ""
	}
	return a.baseURL + "/track/" + item.ID.String()
}

// action is the structured object shape the container's dispatch
// accepts.
type action struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Action types understood by the container.
const (
	actionPlay           = "playbackControls/PLAY"
	actionPause          = "playbackControls/PAUSE"
	actionSkipNext       = "playbackControls/SKIP_NEXT"
	actionSkipPrevious   = "playbackControls/SKIP_PREVIOUS"
	actionSetShuffle     = "playbackControls/SET_SHUFFLE"
	actionSetRepeatMode  = "playbackControls/SET_REPEAT_MODE"
	actionSeek           = "playbackControls/SEEK"
	actionSetVolume      = "playbackControls/SET_VOLUME"
	actionToggleFavorite = "content/TOGGLE_FAVORITE"
)

// Dispatch translates an intent into a structured store action. Toggles
// and cycles read the current state first; the container itself only
// accepts absolute values.
func (a *Adapter) Dispatch(in core.Intent) error {
	node := a.store()
	if node == nil {
		return core.ErrUnsupportedIntent
	}

	var act action
	switch in.Kind {
	case core.IntentPlay:
		act = action{Type: actionPlay}
	case core.IntentPause:
		act = action{Type: actionPause}
	case core.IntentNext:
		act = action{Type: actionSkipNext}
	case core.IntentPrevious:
		act = action{Type: actionSkipPrevious}
	case core.IntentToggleShuffle:
		act = action{Type: actionSetShuffle, Payload: !a.Shuffle()}
	case core.IntentCycleRepeat:
		act = action{Type: actionSetRepeatMode, Payload: repeatToNum(a.Repeat().Cycle())}
	case core.IntentToggleFavorite:
		id, ok := a.TrackID()
		if !ok {
			return nil
		}
		act = action{Type: actionToggleFavorite, Payload: id}
	case core.IntentSeek:
		pos := in.SeekSeconds
		if in.SeekRelative {
			pos += a.PositionSeconds()
		}
		if pos < 0 {
			pos = 0
		}
		act = action{Type: actionSeek, Payload: pos}
	case core.IntentSetVolume:
		vol := in.Volume
		if vol < 0 {
			vol = 0
		}
		if vol > 1 {
			vol = 1
		}
		act = action{Type: actionSetVolume, Payload: vol}
	default:
		return core.ErrUnsupportedIntent
	}

	if _, err := node.Call("dispatch", act); err != nil {
		a.warn.Logf("dispatch-"+string(in.Kind), "store: dispatch %s: %v", in.Kind, err)
	}
	a.invalidate()
	return nil
}

func repeatToNum(m core.RepeatMode) int {
	switch m {
	case core.RepeatSingle:
		return repeatNumSingle
	case core.RepeatAll:
		return repeatNumAll
	default:
		return repeatNumOff
	}
}

// Subscribe implements core.Notifier. The container is asked to publish
// change notifications once; pushes then arrive on the changes channel
// and are forwarded to fn until the channel closes.
func (a *Adapter) Subscribe(fn func()) {
	if a.changes == nil {
		return
	}

	a.mu.Lock()
	a.ensureSubscribedLocked()
	a.mu.Unlock()

	go func() {
		for range a.changes {
			a.invalidate()
			fn()
		}
	}()
}

var (
	_ core.Source   = (*Adapter)(nil)
	_ core.Notifier = (*Adapter)(nil)
)
