package mediasession

import (
	"reflect"
	"testing"

	"github.com/stagehand-app/stagehand/internal/core"
	"github.com/stagehand-app/stagehand/internal/page"
)

type fakeSession struct {
	metadata page.SessionMetadata
	present  bool
	state    string
}

func (s *fakeSession) Metadata() (page.SessionMetadata, bool) {
	return s.metadata, s.present
}

func (s *fakeSession) PlaybackState() string { return s.state }

func TestStatusFromSession(t *testing.T) {
	s := &fakeSession{present: true, state: "playing"}
	a := New(s)

	if got := a.Status(); got != core.StatusPlaying {
		t.Errorf("Status() = %s", got)
	}

	s.state = "paused"
	if got := a.Status(); got != core.StatusPaused {
		t.Errorf("Status() = %s", got)
	}

	// Metadata absence is stopped, not an error condition.
	s.present = false
	if got := a.Status(); got != core.StatusStopped {
		t.Errorf("Status() with no metadata = %s, want stopped", got)
	}
}

func TestMetadataReads(t *testing.T) {
	s := &fakeSession{
		present: true,
		state:   "playing",
		metadata: page.SessionMetadata{
			Title:  "A",
			Artist: "B, C",
			Album:  "B-Sides",
		},
	}
	a := New(s)

	if got := a.Title(); got != "A" {
		t.Errorf("Title() = %q", got)
	}
	if got := a.Artists(); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("Artists() = %v", got)
	}
	if got := a.Album(); got != "B-Sides" {
		t.Errorf("Album() = %q", got)
	}
}

func TestArtworkPrefersLargest(t *testing.T) {
	s := &fakeSession{
		present: true,
		metadata: page.SessionMetadata{
			Artwork: []page.ArtworkRef{
				{Src: "small.jpg", Sizes: "96x96"},
				{Src: "large.jpg", Sizes: "640x640"},
				{Src: "medium.jpg", Sizes: "256x256"},
				{Src: "unsized.jpg"},
			},
		},
	}
	a := New(s)

	if got := a.ArtworkURL(); got != "large.jpg" {
		t.Errorf("ArtworkURL() = %q, want large.jpg", got)
	}
}

func TestUnsupportedOperationsAreNeutral(t *testing.T) {
	a := New(&fakeSession{present: true, state: "playing"})

	if _, ok := a.TrackID(); ok {
		t.Error("TrackID() reported ok")
	}
	if got := a.PositionSeconds(); got != 0 {
		t.Errorf("PositionSeconds() = %d", got)
	}
	if a.Shuffle() || a.Favorite() {
		t.Error("unsupported boolean reads not neutral")
	}
	if err := a.Dispatch(core.Intent{Kind: core.IntentPlay}); err != core.ErrUnsupportedIntent {
		t.Errorf("Dispatch() = %v, want ErrUnsupportedIntent", err)
	}
}

func TestComposedWithMarkupDelegate(t *testing.T) {
	// The usual wiring: media-session primary, markup fallback. The
	// delegate supplies identity and dispatch.
	session := New(&fakeSession{
		present:  true,
		state:    "playing",
		metadata: page.SessionMetadata{Title: "A", Artist: "B"},
	})
	delegate := &delegateSource{id: "42"}
	f := core.NewFallback(session, delegate)

	if got := f.Title(); got != "A" {
		t.Errorf("Title() = %q, want session value", got)
	}
	id, ok := f.TrackID()
	if !ok || id != "42" {
		t.Errorf("TrackID() = %q, %v, want delegate value", id, ok)
	}
	if err := f.Dispatch(core.Intent{Kind: core.IntentNext}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if delegate.dispatched != 1 {
		t.Error("delegate did not receive dispatch")
	}
}

// delegateSource is a minimal stand-in for the markup adapter.
type delegateSource struct {
	id         string
	dispatched int
}

func (d *delegateSource) Name() string { return "delegate" }
func (d *delegateSource) Status() core.Status { return core.StatusStopped }
func (d *delegateSource) TrackID() (string, bool) { return d.id, d.id != "" }
func (d *delegateSource) Title() string { return "" }
func (d *delegateSource) Album() string { return "" }
func (d *delegateSource) Artists() []string { return nil }
func (d *delegateSource) PositionSeconds() int { return 0 }
func (d *delegateSource) DurationSeconds() int { return 0 }
func (d *delegateSource) Shuffle() bool { return false }
func (d *delegateSource) Repeat() core.RepeatMode { return core.RepeatOff }
func (d *delegateSource) Favorite() bool { return false }
func (d *delegateSource) ArtworkURL() string { return "" }
func (d *delegateSource) TrackURL() string { return "" }
func (d *delegateSource) Dispatch(core.Intent) error {
	d.dispatched++
	return nil
}
