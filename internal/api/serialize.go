package api

import "github.com/stagehand-app/stagehand/internal/core"

// The /current payload keeps the field names the original desktop
// clients were built against, including the pre-joined artist string
// and the M:SS clock strings next to their second counts.

type PlayerState struct {
	Status  string `json:"status"`
	Shuffle bool   `json:"shuffle"`
	Repeat  string `json:"repeat"`
}

type State struct {
	ID                string      `json:"id,omitempty"`
	Artist            string      `json:"artist"`
	Artists           []string    `json:"artists"`
	Title             string      `json:"title"`
	Album             string      `json:"album,omitempty"`
	Current           string      `json:"current"`
	CurrentInSeconds  int         `json:"currentInSeconds"`
	Duration          string      `json:"duration"`
	DurationInSeconds int         `json:"durationInSeconds"`
	Image             string      `json:"image"`
	Favorite          bool        `json:"favorite"`
	Status            string      `json:"status"`
	URL               string      `json:"url,omitempty"`
	Player            PlayerState `json:"player"`
}

// Playback converts the wire form back into a playback state, for
// clients that reuse the event diffing built on core types.
func (s *State) Playback() *core.PlaybackState {
	st := &core.PlaybackState{
		Status:  core.Status(s.Status),
		Shuffle: s.Player.Shuffle,
		Repeat:  core.RepeatMode(s.Player.Repeat),
	}
	if s.ID == "" {
		return st
	}
	artists := s.Artists
	if len(artists) == 0 && s.Artist != core.UnknownArtist && s.Artist != "" {
		artists = []string{s.Artist}
	}
	st.Track = &core.Track{
		ID:              s.ID,
		Title:           s.Title,
		Album:           s.Album,
		Artists:         artists,
		DurationSeconds: s.DurationInSeconds,
		PositionSeconds: s.CurrentInSeconds,
		URL:             s.URL,
		ImageURL:        s.Image,
		Favorite:        s.Favorite,
	}
	return st
}

// fromState builds the legacy serialization of a playback state.
func fromState(st *core.PlaybackState) State {
	resp := State{
		Artist:   core.UnknownArtist,
		Artists:  []string{},
		Current:  core.FormatClock(0),
		Duration: core.FormatClock(0),
		Status:   string(st.Status),
		Player: PlayerState{
			Status:  string(st.Status),
			Shuffle: st.Shuffle,
			Repeat:  string(st.Repeat),
		},
	}
	if !st.HasTrack() {
		return resp
	}
	t := st.Track
	resp.ID = t.ID
	resp.Artist = t.Artist()
	if len(t.Artists) > 0 {
		resp.Artists = t.Artists
	}
	resp.Title = t.Title
	resp.Album = t.Album
	resp.Current = core.FormatClock(t.PositionSeconds)
	resp.CurrentInSeconds = t.PositionSeconds
	resp.Duration = core.FormatClock(t.DurationSeconds)
	resp.DurationInSeconds = t.DurationSeconds
	resp.Image = t.ImageURL
	resp.Favorite = t.Favorite
	resp.URL = t.URL
	return resp
}
