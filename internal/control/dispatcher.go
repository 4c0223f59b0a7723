// Package control translates named control intents into source dispatch
// calls. The vocabulary is fixed; callers never learn whether the host
// page honored an action.
package control

import (
	"errors"
	"log"

	"github.com/stagehand-app/stagehand/internal/core"
	stagehanderrors "github.com/stagehand-app/stagehand/internal/errors"
)

// StatusFunc reports the canonical playback status; the dispatcher uses
// it to resolve toggle-play locally.
type StatusFunc func() core.Status

// Dispatcher routes intents to the active extraction source.
type Dispatcher struct {
	source core.Source
	status StatusFunc
	warn   stagehanderrors.Once
}

// New creates a dispatcher over source. status supplies the canonical
// playback status for toggle resolution.
func New(source core.Source, status StatusFunc) *Dispatcher {
	return &Dispatcher{source: source, status: status}
}

// Do executes an intent. Toggle-play is resolved here rather than
// forwarded, because not every source supports native toggling: Playing
// becomes pause, anything else becomes play. Unsupported intents are
// logged once per kind and absorbed; Do never fails the caller for an
// action the page cannot perform.
func (d *Dispatcher) Do(in core.Intent) error {
	if in.Kind == core.IntentTogglePlay {
		if d.status() == core.StatusPlaying {
			in.Kind = core.IntentPause
		} else {
			in.Kind = core.IntentPlay
		}
	}

	err := d.source.Dispatch(in)
	if errors.Is(err, core.ErrUnsupportedIntent) {
		d.warn.Logf(string(in.Kind), "control: %s not supported by source %q", in.Kind, d.source.Name())
		return nil
	}
	if err != nil {
		log.Printf("control: dispatch %s: %v", in.Kind, err)
	}
	return err
}
