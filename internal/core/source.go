package core

import "errors"

// ErrUnsupportedIntent is returned by Dispatch when the variant has no
// way to perform the requested action against the host page.
var ErrUnsupportedIntent = errors.New("intent not supported by this source")

// Source is the capability contract every extraction variant implements.
// Operations a variant cannot perform return a neutral value (empty
// string, false, zero) rather than an error; only Dispatch reports
// unsupported actions, and even that is best-effort.
type Source interface {
	// Name identifies the variant in logs and diagnostics.
	Name() string

	Status() Status
	// TrackID returns the stable identity of the current track. ok is
	// false when no identity can be determined this pass.
	TrackID() (id string, ok bool)
	Title() string
	Album() string
	Artists() []string
	PositionSeconds() int
	DurationSeconds() int
	Shuffle() bool
	Repeat() RepeatMode
	Favorite() bool
	ArtworkURL() string
	TrackURL() string

	// Dispatch performs a control action against the host page. There is
	// no guarantee of success; unsupported actions return
	// ErrUnsupportedIntent.
	Dispatch(Intent) error
}

// Notifier is implemented by sources that can push change notifications
// instead of relying purely on polling.
type Notifier interface {
	// Subscribe registers fn to be invoked whenever the source observes
	// a change. fn must be cheap; the synchronizer coalesces wake-ups.
	Subscribe(fn func())
}
