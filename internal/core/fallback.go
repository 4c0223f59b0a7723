package core

import "errors"

// Fallback composes two sources by delegation: reads prefer the primary
// and fall back to the secondary when the primary reports a neutral
// value. Writes go to the primary first and fall through on unsupported
// actions. This is how the media-session variant borrows the operations
// the host page never wires for it.
type Fallback struct {
	primary  Source
	fallback Source
}

// NewFallback wraps primary with fallback as the delegate.
func NewFallback(primary, fallback Source) *Fallback {
	return &Fallback{primary: primary, fallback: fallback}
}

func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.fallback.Name()
}

func (f *Fallback) Status() Status {
	if s := f.primary.Status(); s != StatusStopped {
		return s
	}
	return f.fallback.Status()
}

func (f *Fallback) TrackID() (string, bool) {
	if id, ok := f.primary.TrackID(); ok {
		return id, true
	}
	return f.fallback.TrackID()
}

func (f *Fallback) Title() string {
	if v := f.primary.Title(); v != "" {
		return v
	}
	return f.fallback.Title()
}

func (f *Fallback) Album() string {
	if v := f.primary.Album(); v != "" {
		return v
	}
	return f.fallback.Album()
}

func (f *Fallback) Artists() []string {
	if v := f.primary.Artists(); len(v) > 0 {
		return v
	}
	return f.fallback.Artists()
}

func (f *Fallback) PositionSeconds() int {
	if v := f.primary.PositionSeconds(); v > 0 {
		return v
	}
	return f.fallback.PositionSeconds()
}

func (f *Fallback) DurationSeconds() int {
	if v := f.primary.DurationSeconds(); v > 0 {
		return v
	}
	return f.fallback.DurationSeconds()
}

func (f *Fallback) Shuffle() bool {
	return f.primary.Shuffle() || f.fallback.Shuffle()
}

func (f *Fallback) Repeat() RepeatMode {
	if v := f.primary.Repeat(); v != "" && v != RepeatOff {
		return v
	}
	if v := f.fallback.Repeat(); v != "" {
		return v
	}
	return RepeatOff
}

func (f *Fallback) Favorite() bool {
	return f.primary.Favorite() || f.fallback.Favorite()
}

func (f *Fallback) ArtworkURL() string {
	if v := f.primary.ArtworkURL(); v != "" {
		return v
	}
	return f.fallback.ArtworkURL()
}

func (f *Fallback) TrackURL() string {
	if v := f.primary.TrackURL(); v != "" {
		return v
	}
	return f.fallback.TrackURL()
}

func (f *Fallback) Dispatch(in Intent) error {
	if err := f.primary.Dispatch(in); !errors.Is(err, ErrUnsupportedIntent) {
		return err
	}
	return f.fallback.Dispatch(in)
}

// Subscribe forwards to whichever side can push.
func (f *Fallback) Subscribe(fn func()) {
	if n, ok := f.primary.(Notifier); ok {
		n.Subscribe(fn)
	}
	if n, ok := f.fallback.(Notifier); ok {
		n.Subscribe(fn)
	}
}

var _ Source = (*Fallback)(nil)
var _ Notifier = (*Fallback)(nil)
