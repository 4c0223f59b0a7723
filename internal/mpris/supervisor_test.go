package mpris

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stagehand-app/stagehand/internal/core"
)

type fakeSink struct {
	mu      sync.Mutex
	updates []*core.PlaybackState
	updErr  error
	closed  bool
}

func (s *fakeSink) Update(st *core.PlaybackState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updErr != nil {
		return s.updErr
	}
	s.updates = append(s.updates, st.Clone())
	return nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSink) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

func (s *fakeSink) wasClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeSink) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updErr = err
}

// fakeConnector scripts a sequence of connection outcomes; past the end
// of the script every attempt succeeds.
type fakeConnector struct {
	mu       sync.Mutex
	attempts int
	failures int
	sinks    []*fakeSink
}

func (c *fakeConnector) connect() (Sink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if c.attempts <= c.failures {
		return nil, errors.New("no session bus")
	}
	s := &fakeSink{}
	c.sinks = append(c.sinks, s)
	return s, nil
}

func (c *fakeConnector) attemptCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

func (c *fakeConnector) sink(i int) *fakeSink {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i >= len(c.sinks) {
		return nil
	}
	return c.sinks[i]
}

func playingState(trackID string) *core.PlaybackState {
	return &core.PlaybackState{
		Status: core.StatusPlaying,
		Track:  &core.Track{ID: trackID, Title: "Song"},
	}
}

func waitForState(t *testing.T, s *Supervisor, want ConnState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state never reached %v, still %v", want, s.State())
}

func TestStartConnectsAndForwards(t *testing.T) {
	c := &fakeConnector{}
	s := NewSupervisor(c.connect)
	defer s.Stop()

	if got := s.Start(); got != Connected {
		t.Fatalf("Start() = %v, want Connected", got)
	}
	s.Update(playingState("t1"))
	if got := c.sink(0).updateCount(); got != 1 {
		t.Errorf("sink got %d updates, want 1", got)
	}
}

func TestBrokenPipeDropsBridgeAndReconnects(t *testing.T) {
	c := &fakeConnector{}
	s := NewSupervisor(c.connect)
	s.retryShort = 10 * time.Millisecond
	defer s.Stop()

	s.Start()
	first := c.sink(0)
	first.fail(errors.New("broken pipe"))

	s.Update(playingState("t1"))
	if got := s.State(); got != Disconnected {
		t.Fatalf("state after broken pipe = %v, want Disconnected", got)
	}
	if !first.wasClosed() {
		t.Error("failed sink was not closed")
	}

	waitForState(t, s, Connected)
	s.Update(playingState("t2"))
	second := c.sink(1)
	if second == nil || second.updateCount() != 1 {
		t.Fatal("reconnected sink did not receive the next update")
	}
}

func TestUpdatesDroppedWhileDown(t *testing.T) {
	c := &fakeConnector{failures: 100}
	s := NewSupervisor(c.connect)
	s.retryShort = time.Hour
	s.retryLong = time.Hour
	defer s.Stop()

	s.Start()
	attempts := c.attemptCount()

	s.Update(playingState("t1")) // new track, lazy attempt allowed
	s.Update(playingState("t1")) // same track, dropped silently
	s.Update(&core.PlaybackState{Status: core.StatusStopped})

	if got := c.attemptCount(); got != attempts+1 {
		t.Errorf("attempts = %d, want %d (one lazy attempt for the new track)", got, attempts+1)
	}
}

func TestLazyReconnectOnNewTrack(t *testing.T) {
	c := &fakeConnector{failures: 1}
	s := NewSupervisor(c.connect)
	s.retryShort = time.Hour
	s.retryLong = time.Hour
	defer s.Stop()

	if got := s.Start(); got != Disconnected {
		t.Fatalf("Start() = %v, want Disconnected", got)
	}

	s.Update(playingState("t1"))
	if got := s.State(); got != Connected {
		t.Fatalf("state after new track = %v, want Connected", got)
	}
	if got := c.sink(0).updateCount(); got != 1 {
		t.Errorf("update was not delivered after lazy reconnect, got %d", got)
	}
}

func TestRepeatedImmediateFailureBacksOff(t *testing.T) {
	c := &fakeConnector{failures: 100}
	s := NewSupervisor(c.connect)
	s.retryShort = 10 * time.Millisecond
	s.retryLong = time.Hour
	defer s.Stop()

	s.Start()
	time.Sleep(100 * time.Millisecond)

	// Attempt one at Start, attempt two after the short retry; the
	// second immediate failure switches to the long delay.
	if got := c.attemptCount(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestStopCancelsReconnect(t *testing.T) {
	c := &fakeConnector{failures: 100}
	s := NewSupervisor(c.connect)
	s.retryShort = 10 * time.Millisecond

	s.Start()
	s.Stop()
	attempts := c.attemptCount()

	time.Sleep(50 * time.Millisecond)
	if got := c.attemptCount(); got != attempts {
		t.Errorf("attempts after Stop = %d, want %d", got, attempts)
	}
	s.Update(playingState("t9"))
	if got := c.attemptCount(); got != attempts {
		t.Error("Update after Stop attempted a connection")
	}
}

func TestSetupPanicCountsAsFailure(t *testing.T) {
	s := NewSupervisor(func() (Sink, error) {
		panic("bus exploded")
	})
	s.retryShort = time.Hour
	s.retryLong = time.Hour
	defer s.Stop()

	if got := s.Start(); got != Disconnected {
		t.Fatalf("Start() = %v, want Disconnected", got)
	}
}
