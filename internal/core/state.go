package core

// PlaybackState is the canonical playback snapshot. It is owned and
// mutated only by the synchronizer; everything else receives copies.
type PlaybackState struct {
	Status  Status     `json:"status"`
	Track   *Track     `json:"track,omitempty"`
	Shuffle bool       `json:"shuffle"`
	Repeat  RepeatMode `json:"repeat"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// Equal reports deep value equality between two snapshots.
func (s *PlaybackState) Equal(o *PlaybackState) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Status != o.Status || s.Shuffle != o.Shuffle || s.Repeat != o.Repeat {
		return false
	}
	return s.Track.Equal(o.Track)
}

// Clone returns a copy safe to hand to listeners.
func (s *PlaybackState) Clone() *PlaybackState {
	if s == nil {
		return nil
	}
	c := *s
	c.Track = s.Track.Clone()
	return &c
}
