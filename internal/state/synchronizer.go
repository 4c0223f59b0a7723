// Package state owns the canonical playback snapshot. One goroutine
// samples the active extraction source, compares the candidate against
// the last published state, and fans out one notification per distinct
// transition. Listeners are invoked synchronously in registration order
// within the tick; a slow listener delays all others and the next poll.
package state

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/stagehand-app/stagehand/internal/core"
)

// Listener receives each new canonical state. The value is a private
// copy; listeners may retain it.
type Listener func(*core.PlaybackState)

// Synchronizer polls (and, where the source supports it, is pushed by)
// one extraction source and publishes canonical state changes.
type Synchronizer struct {
	source   core.Source
	interval time.Duration

	mu        sync.Mutex
	current   *core.PlaybackState
	listeners []Listener

	skipArtists []string
	lastSkipID  string

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// New creates a synchronizer over source with the given poll interval.
// The interval is clamped to [MinInterval, MaxInterval].
func New(source core.Source, interval time.Duration) *Synchronizer {
	return &Synchronizer{
		source:   source,
		interval: ClampInterval(interval),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// SetSkipArtists installs the artist skip-list. Matching is
// case-insensitive. A track whose artists intersect the list triggers
// an automatic next while Playing — and only while Playing, so a
// paused player cannot skip in a loop.
func (s *Synchronizer) SetSkipArtists(artists []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipArtists = s.skipArtists[:0]
	for _, a := range artists {
		if a = strings.TrimSpace(a); a != "" {
			s.skipArtists = append(s.skipArtists, strings.ToLower(a))
		}
	}
}

// Subscribe registers a listener. Notification order follows
// registration order.
func (s *Synchronizer) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Current returns a copy of the canonical state, or nil before the
// first sample.
func (s *Synchronizer) Current() *core.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Status returns the canonical status; stopped before the first sample.
func (s *Synchronizer) Status() core.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return core.StatusStopped
	}
	return s.current.Status
}

// Start launches the synchronization loop. Sources that can push
// changes wake the loop immediately; polling continues regardless as a
// safety net for the fields pushes do not cover.
func (s *Synchronizer) Start() {
	if n, ok := s.source.(core.Notifier); ok {
		n.Subscribe(s.Wake)
	}

	s.wg.Add(1)
	go s.loop()
}

// Wake requests an immediate out-of-band sample. Wake-ups coalesce.
func (s *Synchronizer) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stop cancels the loop and waits for it to exit. Safe to call more
// than once.
func (s *Synchronizer) Stop() {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Synchronizer) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Ticks are synchronous: a long sample simply delays the next one,
	// drift is not corrected.
	s.Tick()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.Tick()
		case <-s.wake:
			s.Tick()
		}
	}
}

// Tick runs one sample/diff/publish pass. Exported for tests and for
// callers that need a deterministic pass; the loop calls it on every
// timer or push event.
func (s *Synchronizer) Tick() {
	candidate := s.sample()

	s.mu.Lock()
	changed := !candidate.Equal(s.current)
	if changed {
		s.current = candidate
	}
	listeners := s.listeners
	s.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(candidate.Clone())
		}
	}

	s.maybeSkip(candidate)
}

// sample builds a full candidate state from the source. A read that
// panics poisons only this tick: the candidate degrades to stopped
// rather than propagating the failure.
func (s *Synchronizer) sample() (st *core.PlaybackState) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("state: source read failed: %v", r)
			st = &core.PlaybackState{Status: core.StatusStopped, Repeat: core.RepeatOff}
		}
	}()

	status := s.source.Status()
	st = &core.PlaybackState{
		Status:  status,
		Shuffle: s.source.Shuffle(),
		Repeat:  s.source.Repeat(),
	}
	if st.Repeat == "" {
		st.Repeat = core.RepeatOff
	}

	if !status.Active() {
		return st
	}

	id, _ := s.source.TrackID()
	st.Track = &core.Track{
		ID:              id,
		Title:           s.source.Title(),
		Album:           s.source.Album(),
		Artists:         s.source.Artists(),
		DurationSeconds: s.source.DurationSeconds(),
		PositionSeconds: s.source.PositionSeconds(),
		URL:             s.source.TrackURL(),
		ImageURL:        s.source.ArtworkURL(),
		Favorite:        s.source.Favorite(),
	}
	return st
}

// maybeSkip issues an automatic next when the current track's artists
// intersect the skip-list. Each track identity is skipped at most once,
// and only while Playing.
func (s *Synchronizer) maybeSkip(st *core.PlaybackState) {
	if st.Status != core.StatusPlaying || st.Track == nil {
		return
	}

	s.mu.Lock()
	skip := s.skipArtists
	already := s.lastSkipID == st.Track.ID && st.Track.ID != ""
	s.mu.Unlock()

	if len(skip) == 0 || already || !artistsIntersect(st.Track.Artists, skip) {
		return
	}

	s.mu.Lock()
	s.lastSkipID = st.Track.ID
	s.mu.Unlock()

	log.Printf("state: skipping %q (artist on skip-list)", st.Track.Title)
	if err := s.source.Dispatch(core.Intent{Kind: core.IntentNext}); err != nil {
		log.Printf("state: skip dispatch: %v", err)
	}
}

// artistsIntersect reports whether any track artist appears in the
// lowercased skip-list.
func artistsIntersect(artists, skip []string) bool {
	for _, a := range artists {
		a = strings.ToLower(strings.TrimSpace(a))
		for _, sk := range skip {
			if a == sk {
				return true
			}
		}
	}
	return false
}
