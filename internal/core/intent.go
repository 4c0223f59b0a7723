package core

import "fmt"

// IntentKind names a control action independent of how it is executed.
type IntentKind string

const (
	IntentPlay           IntentKind = "play"
	IntentPause          IntentKind = "pause"
	IntentTogglePlay     IntentKind = "toggle-play"
	IntentNext           IntentKind = "next"
	IntentPrevious       IntentKind = "previous"
	IntentToggleFavorite IntentKind = "toggle-favorite"
	IntentToggleShuffle  IntentKind = "toggle-shuffle"
	IntentCycleRepeat    IntentKind = "cycle-repeat"
	IntentSeek           IntentKind = "seek"
	IntentSetVolume      IntentKind = "set-volume"
)

// Intent is a control action plus its arguments.
type Intent struct {
	Kind IntentKind

	// Seek arguments. Relative seeks offset from the current position.
	SeekSeconds  int
	SeekRelative bool

	// Volume level in [0,1].
	Volume float64
}

// ParseIntent maps an action name from the control API or hotkey table to
// an Intent. Seek and volume arguments are supplied by the caller.
func ParseIntent(action string) (Intent, error) {
	switch IntentKind(action) {
	case IntentPlay, IntentPause, IntentTogglePlay, IntentNext,
		IntentPrevious, IntentToggleFavorite, IntentToggleShuffle,
		IntentCycleRepeat, IntentSeek, IntentSetVolume:
		return Intent{Kind: IntentKind(action)}, nil
	}
	return Intent{}, fmt.Errorf("unknown action %q", action)
}

// Intents returns the full control vocabulary, for help output and
// route registration.
func Intents() []IntentKind {
	return []IntentKind{
		IntentPlay, IntentPause, IntentTogglePlay, IntentNext,
		IntentPrevious, IntentToggleFavorite, IntentToggleShuffle,
		IntentCycleRepeat, IntentSeek, IntentSetVolume,
	}
}
