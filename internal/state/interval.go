package state

import "time"

// Polling interval bounds. Values outside are silently clamped, never
// rejected.
const (
	MinInterval = 100 * time.Millisecond
	MaxInterval = 60 * time.Second
)

// ClampInterval constrains a polling interval to [MinInterval,
// MaxInterval].
func ClampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}
