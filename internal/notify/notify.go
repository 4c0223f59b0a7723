// Package notify shows a desktop notification when the track changes,
// using the org.freedesktop.Notifications service on the session bus.
package notify

import (
	"fmt"
	"log"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/stagehand-app/stagehand/internal/core"
)

const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod    = "org.freedesktop.Notifications.Notify"
	notifyAppName   = "stagehand"
	notifyTimeoutMs = int32(-1)
)

// sendFunc posts one notification and returns the server-assigned id.
// replaceID non-zero replaces an existing notification in place.
type sendFunc func(replaceID uint32, summary, body, icon string) (uint32, error)

// Notifier emits one notification per track change. Repeated states for
// the same track id are suppressed, and each new notification replaces
// the previous one instead of stacking.
type Notifier struct {
	send sendFunc

	mu          sync.Mutex
	lastID      uint32
	lastTrackID string
}

// New connects to the session bus notification service.
func New() (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	obj := conn.Object(notifyService, notifyPath)
	send := func(replaceID uint32, summary, body, icon string) (uint32, error) {
		var id uint32
		call := obj.Call(notifyMethod, 0,
			notifyAppName, replaceID, icon, summary, body,
			[]string{}, map[string]dbus.Variant{}, notifyTimeoutMs)
		if call.Err != nil {
			return 0, call.Err
		}
		if err := call.Store(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	return &Notifier{send: send}, nil
}

// Notify posts a notification for the state's track if its id differs
// from the previously notified track. Failures are logged, never
// returned; a missing notification is not worth failing playback over.
func (n *Notifier) Notify(st *core.PlaybackState) {
	if !st.HasTrack() {
		return
	}
	t := st.Track

	n.mu.Lock()
	defer n.mu.Unlock()
	if t.ID == n.lastTrackID {
		return
	}
	id, err := n.send(n.lastID, t.Title, t.Artist(), t.ImageURL)
	if err != nil {
		log.Printf("desktop notification failed: %v", err)
		return
	}
	n.lastID = id
	n.lastTrackID = t.ID
}

// Listener adapts the notifier for synchronizer fan-out.
func (n *Notifier) Listener() func(*core.PlaybackState) {
	return n.Notify
}
