package mpris

import (
	"math"

	"github.com/stagehand-app/stagehand/internal/core"
)

// The media-control bus enforces a strict path-token grammar and
// rejects non-finite numbers, so everything pushed to it is sanitized
// first.

// sanitizeToken restricts an identifier to [A-Za-z0-9_] for use as a
// D-Bus object path element. Every other rune becomes an underscore; an
// empty identifier becomes "unknown".
func sanitizeToken(id string) string {
	if id == "" {
		return "unknown"
	}
	out := make([]byte, len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// sanitizeSeconds coerces a duration or position to a finite
// non-negative second count.
func sanitizeSeconds(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int64(v)
}

// clampVolume constrains a volume level to [0,1]; non-finite input
// falls back to full volume, the bus default.
func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// artistsOrUnknown guarantees a non-empty artist list for the bus.
func artistsOrUnknown(artists []string) []string {
	if len(artists) == 0 {
		return []string{core.UnknownArtist}
	}
	return artists
}
