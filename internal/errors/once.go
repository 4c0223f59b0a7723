package errors

import (
	"log"
	"sync"
)

// Once suppresses repeat log lines per key, so a selector that went
// missing after a host-page update is reported once instead of flooding
// the log every poll tick.
type Once struct {
	mu   sync.Mutex
	seen map[string]bool
}

// Logf logs the formatted message the first time key is seen.
func (o *Once) Logf(key, format string, args ...interface{}) {
	o.mu.Lock()
	if o.seen == nil {
		o.seen = make(map[string]bool)
	}
	logged := o.seen[key]
	o.seen[key] = true
	o.mu.Unlock()

	if !logged {
		log.Printf(format, args...)
	}
}

// Reset clears the seen set, re-arming every key.
func (o *Once) Reset() {
	o.mu.Lock()
	o.seen = nil
	o.mu.Unlock()
}
