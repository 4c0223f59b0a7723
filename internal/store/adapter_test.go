package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stagehand-app/stagehand/internal/core"
)

const sampleState = `{
	"playbackControls": {
		"playbackState": "PLAYING",
		"shuffleModeEnabled": true,
		"repeatMode": 2,
		"position": 10.4,
		"volume": 0.8,
		"mediaProduct": {"productId": "42"}
	},
	"content": {
		"mediaItems": {
			"42": {
				"item": {
					"id": 42,
					"title": "A",
					"duration": 180,
					"imageUrl": "https://img.example.com/42/1280.jpg",
					"favorite": true,
					"album": {"title": "B-Sides"},
					"artists": [{"name": "B"}, {"name": "C"}]
				}
			}
		}
	}
}`

// graphWithStore wires a store node one allowlisted hop from the root.
func graphWithStore(state string) (*fakeGraph, *fakeNode) {
	node := newStoreNode(10, state)
	root := &fakeNode{id: 1, children: map[string]*fakeNode{"app": {
		id:       2,
		children: map[string]*fakeNode{"store": node},
	}}}
	return &fakeGraph{root: root}, node
}

func TestAdapterReads(t *testing.T) {
	g, _ := graphWithStore(sampleState)
	a := New(g, nil, "https://listen.example.com")

	if got := a.Status(); got != core.StatusPlaying {
		t.Errorf("Status() = %s", got)
	}
	id, ok := a.TrackID()
	if !ok || id != "42" {
		t.Errorf("TrackID() = %q, %v", id, ok)
	}
	if got := a.Title(); got != "A" {
		t.Errorf("Title() = %q", got)
	}
	if got := a.Album(); got != "B-Sides" {
		t.Errorf("Album() = %q", got)
	}
	if got := a.Artists(); len(got) != 2 || got[0] != "B" || got[1] != "C" {
		t.Errorf("Artists() = %v", got)
	}
	if got := a.PositionSeconds(); got != 10 {
		t.Errorf("PositionSeconds() = %d", got)
	}
	if got := a.DurationSeconds(); got != 180 {
		t.Errorf("DurationSeconds() = %d", got)
	}
	if !a.Shuffle() {
		t.Error("Shuffle() = false")
	}
	if got := a.Repeat(); got != core.RepeatAll {
		t.Errorf("Repeat() = %s", got)
	}
	if !a.Favorite() {
		t.Error("Favorite() = false")
	}
	if got := a.ArtworkURL(); got != "https://img.example.com/42/1280.jpg" {
		t.Errorf("ArtworkURL() = %q", got)
	}
	if got := a.TrackURL(); got != "https://listen.example.com/track/42" {
		t.Errorf("TrackURL() = %q", got)
	}
}

func TestSnapshotSharedAcrossReads(t *testing.T) {
	g, node := graphWithStore(sampleState)
	var fetches int
	node.calls["getState"] = func(...any) (json.RawMessage, error) {
		fetches++
		return json.RawMessage(sampleState), nil
	}
	a := New(g, nil, "")

	a.Status()
	a.TrackID()
	a.Title()
	a.Shuffle()
	a.Repeat()
	a.Favorite()
	if fetches != 1 {
		t.Errorf("getState fetches for one round of reads = %d, want 1", fetches)
	}

	// A dispatched action drops the cache; the next read refetches.
	if err := a.Dispatch(core.Intent{Kind: core.IntentPause}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	a.Status()
	if fetches != 2 {
		t.Errorf("getState fetches after dispatch = %d, want 2", fetches)
	}
}

func TestAdapterStoppedWhenStoreMissing(t *testing.T) {
	// Empty graph: every read is neutral, status is stopped.
	g := &fakeGraph{root: &fakeNode{id: 1, children: map[string]*fakeNode{}}}
	a := New(g, nil, "")

	if got := a.Status(); got != core.StatusStopped {
		t.Errorf("Status() = %s, want stopped", got)
	}
	if _, ok := a.TrackID(); ok {
		t.Error("TrackID() reported ok without a store")
	}
	if got := a.Title(); got != "" {
		t.Errorf("Title() = %q, want empty", got)
	}
}

func TestAdapterSearchRetryThrottle(t *testing.T) {
	g := &fakeGraph{root: &fakeNode{id: 1, children: map[string]*fakeNode{}}}
	a := New(g, nil, "")

	// First read triggers a search; the next read inside the retry
	// window must not search again.
	a.Status()
	first := a.lastSearch
	a.Status()
	if a.lastSearch != first {
		t.Error("search re-ran inside the retry window")
	}

	a.lastSearch = time.Now().Add(-2 * retryInterval)
	a.Status()
	if a.lastSearch == first {
		t.Error("search did not re-run after the retry window")
	}
}

func TestAdapterCachesNode(t *testing.T) {
	g, _ := graphWithStore(sampleState)
	a := New(g, nil, "")

	a.Status()
	if a.node == nil {
		t.Fatal("node not cached after successful search")
	}

	// Breaking the graph must not matter once the node is cached.
	g.err = json.Unmarshal(nil, &struct{}{}) // arbitrary non-nil error
	if got := a.Status(); got != core.StatusPlaying {
		t.Errorf("Status() after graph breakage = %s, want playing from cache", got)
	}
}

func TestDispatchActions(t *testing.T) {
	g, node := graphWithStore(sampleState)

	var dispatched []action
	node.calls["dispatch"] = func(args ...any) (json.RawMessage, error) {
		if len(args) == 1 {
			if act, ok := args[0].(action); ok {
				dispatched = append(dispatched, act)
			}
		}
		return nil, nil
	}

	a := New(g, nil, "")

	tests := []struct {
		intent  core.Intent
		want    string
		payload any
	}{
		{core.Intent{Kind: core.IntentPlay}, actionPlay, nil},
		{core.Intent{Kind: core.IntentPause}, actionPause, nil},
		{core.Intent{Kind: core.IntentNext}, actionSkipNext, nil},
		{core.Intent{Kind: core.IntentPrevious}, actionSkipPrevious, nil},
		// Shuffle is currently on, so the toggle sends false.
		{core.Intent{Kind: core.IntentToggleShuffle}, actionSetShuffle, false},
		// Repeat is all (2); the cycle sends single (1).
		{core.Intent{Kind: core.IntentCycleRepeat}, actionSetRepeatMode, repeatNumSingle},
		{core.Intent{Kind: core.IntentToggleFavorite}, actionToggleFavorite, "42"},
		{core.Intent{Kind: core.IntentSeek, SeekSeconds: 30}, actionSeek, 30},
		{core.Intent{Kind: core.IntentSeek, SeekSeconds: 5, SeekRelative: true}, actionSeek, 15},
		{core.Intent{Kind: core.IntentSetVolume, Volume: 1.7}, actionSetVolume, 1.0},
	}

	for _, tt := range tests {
		dispatched = nil
		if err := a.Dispatch(tt.intent); err != nil {
			t.Fatalf("Dispatch(%s): %v", tt.intent.Kind, err)
		}
		if len(dispatched) != 1 {
			t.Fatalf("Dispatch(%s): %d actions", tt.intent.Kind, len(dispatched))
		}
		if dispatched[0].Type != tt.want {
			t.Errorf("Dispatch(%s) type = %q, want %q", tt.intent.Kind, dispatched[0].Type, tt.want)
		}
		if tt.payload != nil && dispatched[0].Payload != tt.payload {
			t.Errorf("Dispatch(%s) payload = %v, want %v", tt.intent.Kind, dispatched[0].Payload, tt.payload)
		}
	}
}

func TestSubscribeForwardsChanges(t *testing.T) {
	g, _ := graphWithStore(sampleState)
	changes := make(chan struct{}, 1)
	a := New(g, changes, "")

	woke := make(chan struct{}, 4)
	a.Subscribe(func() { woke <- struct{}{} })

	changes <- struct{}{}
	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription callback never fired")
	}
	close(changes)
}
