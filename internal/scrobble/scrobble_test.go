package scrobble

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stagehand-app/stagehand/internal/core"
)

type endpointRecorder struct {
	mu       sync.Mutex
	events   []event
	failures int
}

func (e *endpointRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.failures > 0 {
			e.failures--
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		var ev event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e.events = append(e.events, ev)
	})
}

func (e *endpointRecorder) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

func (e *endpointRecorder) event(i int) event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events[i]
}

func newTestReporter(t *testing.T, endpoint *endpointRecorder) *Reporter {
	t.Helper()
	srv := httptest.NewServer(endpoint.handler())
	t.Cleanup(srv.Close)
	r := New(srv.URL)
	r.now = func() time.Time { return time.Unix(1_000_000, 0) }
	return r
}

func state(status core.Status, id string) *core.PlaybackState {
	return &core.PlaybackState{
		Status: status,
		Track: &core.Track{
			ID:              id,
			Title:           "A",
			Album:           "Album",
			Artists:         []string{"B"},
			DurationSeconds: 180,
			PositionSeconds: 10,
			URL:             "https://music.example/track/" + id,
		},
	}
}

func TestTrackChangeSendsNowPlaying(t *testing.T) {
	endpoint := &endpointRecorder{}
	r := newTestReporter(t, endpoint)

	r.Update(state(core.StatusPlaying, "t1"))

	if got := endpoint.count(); got != 1 {
		t.Fatalf("events = %d, want 1", got)
	}
	ev := endpoint.event(0)
	if ev.EventName != eventNowPlaying {
		t.Errorf("eventName = %q, want %q", ev.EventName, eventNowPlaying)
	}
	parsed := ev.Data.Song.Parsed
	if parsed.Track != "A" || parsed.Artist != "B" || parsed.Duration != 180 {
		t.Errorf("parsed song = %+v", parsed)
	}
	if !parsed.IsPlaying {
		t.Error("parsed.isPlaying = false, want true")
	}
	if ev.Data.Song.Processed.Duration != 180 {
		t.Errorf("processed.duration = %d, want 180", ev.Data.Song.Processed.Duration)
	}
	if ev.Time != time.Unix(1_000_000, 0).UnixMilli() {
		t.Errorf("time = %d", ev.Time)
	}
}

func TestPauseAndResumeTransitions(t *testing.T) {
	endpoint := &endpointRecorder{}
	r := newTestReporter(t, endpoint)

	r.Update(state(core.StatusPlaying, "t1"))
	r.Update(state(core.StatusPaused, "t1"))
	r.Update(state(core.StatusPlaying, "t1"))

	if got := endpoint.count(); got != 3 {
		t.Fatalf("events = %d, want 3", got)
	}
	if got := endpoint.event(1).EventName; got != eventPaused {
		t.Errorf("second event = %q, want %q", got, eventPaused)
	}
	if got := endpoint.event(2).EventName; got != eventResumed {
		t.Errorf("third event = %q, want %q", got, eventResumed)
	}
}

func TestUnchangedStateSendsNothing(t *testing.T) {
	endpoint := &endpointRecorder{}
	r := newTestReporter(t, endpoint)

	r.Update(state(core.StatusPlaying, "t1"))
	r.Update(state(core.StatusPlaying, "t1"))

	if got := endpoint.count(); got != 1 {
		t.Errorf("events = %d, want 1", got)
	}
}

func TestPausedTrackChangeNotReported(t *testing.T) {
	endpoint := &endpointRecorder{}
	r := newTestReporter(t, endpoint)

	r.Update(state(core.StatusPaused, "t1"))

	if got := endpoint.count(); got != 0 {
		t.Errorf("events = %d, want 0", got)
	}
}

func TestTrackSwappedWhilePausedAnnouncesOnPlay(t *testing.T) {
	endpoint := &endpointRecorder{}
	r := newTestReporter(t, endpoint)

	r.Update(state(core.StatusPlaying, "t1"))
	r.Update(state(core.StatusPaused, "t1"))
	// The queue moves on while paused; t2 was never announced.
	r.Update(state(core.StatusPaused, "t2"))
	r.Update(state(core.StatusPlaying, "t2"))

	if got := endpoint.count(); got != 3 {
		t.Fatalf("events = %d, want 3", got)
	}
	if got := endpoint.event(2).EventName; got != eventNowPlaying {
		t.Errorf("event for never-announced track = %q, want %q", got, eventNowPlaying)
	}
}

func TestStoppedStateSendsNothing(t *testing.T) {
	endpoint := &endpointRecorder{}
	r := newTestReporter(t, endpoint)

	r.Update(state(core.StatusPlaying, "t1"))
	r.Update(&core.PlaybackState{Status: core.StatusStopped})

	if got := endpoint.count(); got != 1 {
		t.Errorf("events = %d, want 1", got)
	}
}

func TestDeliveryRetriesOnce(t *testing.T) {
	endpoint := &endpointRecorder{failures: 1}
	r := newTestReporter(t, endpoint)

	r.Update(state(core.StatusPlaying, "t1"))

	if got := endpoint.count(); got != 1 {
		t.Errorf("events after one failure = %d, want 1", got)
	}
}

func TestDeliveryGivesUpAfterRetry(t *testing.T) {
	endpoint := &endpointRecorder{failures: 2}
	r := newTestReporter(t, endpoint)

	r.Update(state(core.StatusPlaying, "t1"))

	if got := endpoint.count(); got != 0 {
		t.Errorf("events = %d, want 0", got)
	}
	// The transition was still consumed; the next identical state must
	// not re-trigger the event.
	r.Update(state(core.StatusPlaying, "t1"))
	if got := endpoint.count(); got != 0 {
		t.Errorf("events after retry of same state = %d, want 0", got)
	}
}
