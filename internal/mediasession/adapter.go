// Package mediasession implements the extraction variant that reads the
// platform now-playing metadata the host page publishes itself. The
// page does not wire handlers for most controls on this surface, and
// several fields are simply not published, so this variant is always
// composed with the markup adapter as its delegate (core.Fallback).
package mediasession

import (
	"strings"

	"github.com/stagehand-app/stagehand/internal/core"
	"github.com/stagehand-app/stagehand/internal/page"
)

// Adapter reads from the platform media-session surface.
type Adapter struct {
	session page.MediaSession
}

func New(session page.MediaSession) *Adapter {
	return &Adapter{session: session}
}

func (a *Adapter) Name() string { return "media-session" }

// Status maps the session state string. Absent metadata means stopped,
// never an error.
func (a *Adapter) Status() core.Status {
	if _, ok := a.session.Metadata(); !ok {
		return core.StatusStopped
	}
	switch a.session.PlaybackState() {
	case "playing":
		return core.StatusPlaying
	case "paused":
		return core.StatusPaused
	default:
		return core.StatusStopped
	}
}

// TrackID is not published on this surface.
func (a *Adapter) TrackID() (string, bool) { return "", false }

func (a *Adapter) Title() string {
	md, ok := a.session.Metadata()
	if !ok {
		return ""
	}
	return md.Title
}

func (a *Adapter) Album() string {
	md, ok := a.session.Metadata()
	if !ok {
		return ""
	}
	return md.Album
}

// Artists splits the session's single joined artist string.
func (a *Adapter) Artists() []string {
	md, ok := a.session.Metadata()
	if !ok || md.Artist == "" {
		return nil
	}
	parts := strings.Split(md.Artist, ",")
	artists := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			artists = append(artists, p)
		}
	}
	return artists
}

// Position and duration are not published on this surface.
func (a *Adapter) PositionSeconds() int { return 0 }
func (a *Adapter) DurationSeconds() int { return 0 }

// Shuffle, repeat and favorite are not published on this surface.
func (a *Adapter) Shuffle() bool           { return false }
func (a *Adapter) Repeat() core.RepeatMode { return core.RepeatOff }
func (a *Adapter) Favorite() bool          { return false }

// ArtworkURL prefers the largest published artwork size.
func (a *Adapter) ArtworkURL() string {
	md, ok := a.session.Metadata()
	if !ok {
		return ""
	}
	return bestArtwork(md.Artwork)
}

// bestArtwork picks the candidate with the largest declared pixel area.
// Sizes follow the "WxH" convention; candidates without a parsable size
// lose to any candidate with one.
func bestArtwork(refs []page.ArtworkRef) string {
	best := ""
	bestArea := -1
	for _, ref := range refs {
		area := artworkArea(ref.Sizes)
		if area > bestArea {
			best = ref.Src
			bestArea = area
		}
	}
	return best
}

func artworkArea(sizes string) int {
	w, h, ok := strings.Cut(strings.ToLower(sizes), "x")
	if !ok {
		return 0
	}
	width := atoi(w)
	height := atoi(h)
	return width * height
}

func atoi(s string) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func (a *Adapter) TrackURL() string { return "" }

// Dispatch is unsupported across the board: the page wires no handlers
// here. The composing fallback delegates to the markup adapter.
func (a *Adapter) Dispatch(core.Intent) error {
	return core.ErrUnsupportedIntent
}

var _ core.Source = (*Adapter)(nil)
