package core

// Status represents the playback status of the hosted page.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	// StatusStopped means no track is loaded, as opposed to a loaded
	// track that is not advancing.
	StatusStopped Status = "stopped"
)

// Active returns true if a track is loaded (playing or paused).
func (s Status) Active() bool {
	return s == StatusPlaying || s == StatusPaused
}

// RepeatMode indicates the repeat behavior of the player queue.
type RepeatMode string

const (
	RepeatOff    RepeatMode = "off"
	RepeatSingle RepeatMode = "single"
	RepeatAll    RepeatMode = "all"
)

// Cycle returns the next repeat mode in the off → all → single → off order
// the player itself advances through.
func (m RepeatMode) Cycle() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatSingle
	default:
		return RepeatOff
	}
}
