package mpris

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/stagehand-app/stagehand/internal/core"
)

// Sink is the connected half of the bridge, as seen by the supervisor.
type Sink interface {
	Update(*core.PlaybackState) error
	Close() error
}

// ConnectFunc establishes a bridge connection.
type ConnectFunc func() (Sink, error)

// ConnState describes the supervisor's view of the bridge connection.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

const (
	retryShort = time.Second
	retryLong  = 5 * time.Second

	// An attempt that fails faster than this is treated as an
	// immediate failure, usually a missing session bus.
	immediateFailure = 250 * time.Millisecond
)

// Supervisor keeps a bridge connection alive across bus restarts.
// Updates while the bridge is down are dropped, never queued; a new
// track arriving while down triggers one lazy reconnect attempt on top
// of the timed retries.
type Supervisor struct {
	connect ConnectFunc

	retryShort time.Duration
	retryLong  time.Duration

	mu            sync.Mutex
	sink          Sink
	state         ConnState
	timer         *time.Timer
	lastImmediate bool
	lastTrackID   string
	stopped       bool
}

// NewSupervisor wraps connect in a reconnecting supervisor. No
// connection is attempted until Start.
func NewSupervisor(connect ConnectFunc) *Supervisor {
	return &Supervisor{
		connect:    connect,
		retryShort: retryShort,
		retryLong:  retryLong,
	}
}

// Start makes the initial connection attempt. A failure is not an
// error; the supervisor schedules a retry and reports only the state it
// settled in.
func (s *Supervisor) Start() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tryConnectLocked()
	return s.state
}

// Stop cancels any pending reconnect and closes the bridge if
// connected. The supervisor does not reconnect after Stop.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.sink != nil {
		s.sink.Close()
		s.sink = nil
	}
	s.state = Disconnected
}

// State reports the current connection state.
func (s *Supervisor) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update forwards a playback state to the bridge. A transport failure
// drops the bridge and schedules a reconnect; the update itself is
// lost. While disconnected, a state carrying a new track id triggers a
// lazy reconnect attempt and, if it succeeds, delivers the update.
func (s *Supervisor) Update(st *core.PlaybackState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	trackID := ""
	if st.HasTrack() {
		trackID = st.Track.ID
	}
	newTrack := trackID != "" && trackID != s.lastTrackID
	s.lastTrackID = trackID

	if s.state != Connected {
		if newTrack {
			s.tryConnectLocked()
		}
		if s.state != Connected {
			return
		}
	}
	if err := s.sink.Update(st); err != nil {
		log.Printf("media bridge update failed, reconnecting: %v", err)
		s.dropLocked()
		s.scheduleLocked(s.retryShort)
	}
}

// Listener adapts the supervisor for synchronizer fan-out. The returned
// listener never fails the fan-out.
func (s *Supervisor) Listener() func(*core.PlaybackState) {
	return s.Update
}

// tryConnectLocked attempts a connection and schedules a retry on
// failure. A panic during setup counts as a failed attempt.
func (s *Supervisor) tryConnectLocked() {
	if s.stopped || s.state == Connected {
		return
	}
	s.state = Connecting
	start := time.Now()
	sink, err := s.connectSafely()
	if err != nil {
		s.state = Disconnected
		immediate := time.Since(start) < immediateFailure
		delay := s.retryShort
		if immediate && s.lastImmediate {
			delay = s.retryLong
		}
		s.lastImmediate = immediate
		log.Printf("media bridge unavailable, retrying in %s: %v", delay, err)
		s.scheduleLocked(delay)
		return
	}
	s.sink = sink
	s.state = Connected
	s.lastImmediate = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Supervisor) connectSafely() (sink Sink, err error) {
	defer func() {
		if r := recover(); r != nil {
			sink = nil
			err = fmt.Errorf("bridge setup panicked: %v", r)
		}
	}()
	return s.connect()
}

func (s *Supervisor) dropLocked() {
	if s.sink != nil {
		s.sink.Close()
		s.sink = nil
	}
	s.state = Disconnected
}

func (s *Supervisor) scheduleLocked(delay time.Duration) {
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.timer = nil
		s.tryConnectLocked()
	})
}
