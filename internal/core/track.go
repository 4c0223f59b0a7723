package core

import "strings"

// UnknownArtist is rendered when a track carries no artist names.
const UnknownArtist = "unknown artist(s)"

// shareSuffix marks a track URL as a universal link for sharing.
const shareSuffix = "?u"

// Track represents the currently loaded track. Values are immutable per
// track identity; a new snapshot is built on every extraction pass.
type Track struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Album           string   `json:"album,omitempty"`
	Artists         []string `json:"artists"`
	DurationSeconds int      `json:"durationInSeconds"`
	PositionSeconds int      `json:"currentInSeconds"`
	URL             string   `json:"url"`
	ImageURL        string   `json:"image"`
	Favorite        bool     `json:"favorite"`
}

// Artist returns the artist names joined for display.
func (t *Track) Artist() string {
	if t == nil || len(t.Artists) == 0 {
		return UnknownArtist
	}
	return strings.Join(t.Artists, ", ")
}

// ShareURL returns the universal-link variant of the track URL.
func (t *Track) ShareURL() string {
	if t == nil || t.URL == "" {
		return ""
	}
	if strings.HasSuffix(t.URL, shareSuffix) {
		return t.URL
	}
	return t.URL + shareSuffix
}

// Equal reports deep value equality.
func (t *Track) Equal(o *Track) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.ID != o.ID ||
		t.Title != o.Title ||
		t.Album != o.Album ||
		t.DurationSeconds != o.DurationSeconds ||
		t.PositionSeconds != o.PositionSeconds ||
		t.URL != o.URL ||
		t.ImageURL != o.ImageURL ||
		t.Favorite != o.Favorite {
		return false
	}
	if len(t.Artists) != len(o.Artists) {
		return false
	}
	for i := range t.Artists {
		if t.Artists[i] != o.Artists[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no mutable state with the receiver.
func (t *Track) Clone() *Track {
	if t == nil {
		return nil
	}
	c := *t
	c.Artists = append([]string(nil), t.Artists...)
	return &c
}
