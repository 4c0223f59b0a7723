package core

import "testing"

func sampleTrack() *Track {
	return &Track{
		ID:              "42",
		Title:           "A",
		Album:           "B-Sides",
		Artists:         []string{"B"},
		DurationSeconds: 180,
		PositionSeconds: 10,
		URL:             "https://listen.example.com/track/42",
		ImageURL:        "https://img.example.com/42/640.jpg",
	}
}

func TestStateEqual(t *testing.T) {
	a := &PlaybackState{Status: StatusPlaying, Track: sampleTrack(), Repeat: RepeatOff}
	b := &PlaybackState{Status: StatusPlaying, Track: sampleTrack(), Repeat: RepeatOff}

	if !a.Equal(b) {
		t.Error("identical states compared unequal")
	}

	b.Track.PositionSeconds = 11
	if a.Equal(b) {
		t.Error("states with different positions compared equal")
	}
}

func TestStateEqualTrackIdentity(t *testing.T) {
	a := &PlaybackState{Status: StatusPlaying, Track: sampleTrack()}
	b := &PlaybackState{Status: StatusPlaying, Track: sampleTrack()}
	b.Track.ID = "43"

	// Same title, different id: still a distinct state. The id is
	// authoritative even when other fields are stale.
	if a.Equal(b) {
		t.Error("track id change not detected")
	}
}

func TestStateEqualNilTrack(t *testing.T) {
	a := &PlaybackState{Status: StatusStopped}
	b := &PlaybackState{Status: StatusStopped}
	if !a.Equal(b) {
		t.Error("stopped states compared unequal")
	}

	b.Track = sampleTrack()
	if a.Equal(b) {
		t.Error("nil vs non-nil track compared equal")
	}
}

func TestStateClone(t *testing.T) {
	a := &PlaybackState{Status: StatusPlaying, Track: sampleTrack()}
	c := a.Clone()

	c.Track.Artists[0] = "mutated"
	if a.Track.Artists[0] != "B" {
		t.Error("clone shares artist slice with original")
	}
}

func TestTrackArtist(t *testing.T) {
	tests := []struct {
		artists []string
		want    string
	}{
		{nil, UnknownArtist},
		{[]string{}, UnknownArtist},
		{[]string{"B"}, "B"},
		{[]string{"B", "C"}, "B, C"},
	}

	for _, tt := range tests {
		tr := &Track{Artists: tt.artists}
		if got := tr.Artist(); got != tt.want {
			t.Errorf("Artist() with %v = %q, want %q", tt.artists, got, tt.want)
		}
	}
}

func TestTrackShareURL(t *testing.T) {
	tr := sampleTrack()
	want := "https://listen.example.com/track/42?u"
	if got := tr.ShareURL(); got != want {
		t.Errorf("ShareURL() = %q, want %q", got, want)
	}

	// Appending twice must not stack suffixes.
	tr.URL = want
	if got := tr.ShareURL(); got != want {
		t.Errorf("ShareURL() on suffixed URL = %q, want %q", got, want)
	}

	var none *Track
	if got := none.ShareURL(); got != "" {
		t.Errorf("nil ShareURL() = %q, want empty", got)
	}
}

func TestRepeatCycle(t *testing.T) {
	tests := []struct {
		in, want RepeatMode
	}{
		{RepeatOff, RepeatAll},
		{RepeatAll, RepeatSingle},
		{RepeatSingle, RepeatOff},
	}
	for _, tt := range tests {
		if got := tt.in.Cycle(); got != tt.want {
			t.Errorf("%s.Cycle() = %s, want %s", tt.in, got, tt.want)
		}
	}
}
