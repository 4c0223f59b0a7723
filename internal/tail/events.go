// Package tail turns playback state transitions into a printable event
// stream for the follow command.
package tail

import (
	"time"

	"github.com/stagehand-app/stagehand/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventStop
	EventShuffleChange
	EventRepeatChange
	EventFavoriteChange
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
}

// Diff compares two states and returns detected events. States arrive
// already deduplicated from the push feed, so every call carries at
// least one difference; Diff still tolerates equal inputs.
func Diff(prev, curr *core.PlaybackState) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	var events []Event

	// First state of the session
	if prev == nil {
		if curr.HasTrack() {
			events = append(events, Event{
				Type:      EventTrackChange,
				Timestamp: now,
				Current:   curr,
			})
		}
		return events
	}

	if trackChanged(prev, curr) {
		eventType := EventTrackChange
		if !curr.HasTrack() {
			eventType = EventStop
		} else if prev.HasTrack() && wasCompleted(prev) {
			eventType = EventTrackComplete
		} else if prev.HasTrack() {
			eventType = EventTrackSkip
		}
		events = append(events, Event{
			Type:      eventType,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	} else if prev.HasTrack() && curr.HasTrack() && prev.Track.Favorite != curr.Track.Favorite {
		events = append(events, Event{
			Type:      EventFavoriteChange,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if prev.Status == core.StatusPlaying && curr.Status == core.StatusPaused {
		events = append(events, Event{
			Type:      EventPause,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	} else if prev.Status == core.StatusPaused && curr.Status == core.StatusPlaying {
		events = append(events, Event{
			Type:      EventResume,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if prev.Shuffle != curr.Shuffle {
		events = append(events, Event{
			Type:      EventShuffleChange,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}
	if prev.Repeat != curr.Repeat {
		events = append(events, Event{
			Type:      EventRepeatChange,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	return events
}

// trackChanged returns true if the track identity changed.
func trackChanged(prev, curr *core.PlaybackState) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.Track.ID != curr.Track.ID
}

// wasCompleted returns true if the track likely finished naturally.
func wasCompleted(state *core.PlaybackState) bool {
	if state.Track == nil || state.Track.DurationSeconds == 0 {
		return false
	}
	// Consider completed if position reached 95% of duration
	threshold := float64(state.Track.DurationSeconds) * 0.95
	return float64(state.Track.PositionSeconds) >= threshold
}
