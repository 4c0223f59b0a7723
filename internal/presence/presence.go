// Package presence broadcasts the current track as a rich-presence
// activity to a local presence agent over HTTP.
package presence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/stagehand-app/stagehand/internal/core"
)

const (
	loginPath    = "/login"
	activityPath = "/activity"

	// The agent is either running or it is not; a handful of attempts
	// is enough to tell which, after that the sink stays quiet for the
	// rest of the process.
	maxLoginAttempts = 3
	loginBackoff     = 10 * time.Second
)

type loginRequest struct {
	Client string `json:"client"`
}

type activityTimestamps struct {
	Start int64 `json:"start"`
	End   int64 `json:"end,omitempty"`
}

type activity struct {
	Details    string              `json:"details"`
	State      string              `json:"state"`
	Timestamps *activityTimestamps `json:"timestamps,omitempty"`
}

type activityRequest struct {
	Activity *activity `json:"activity"`
}

// Client pushes presence updates. The first update performs a login
// handshake; if the agent cannot be reached after a few attempts the
// client disables itself for the rest of the process.
type Client struct {
	baseURL string
	http    *http.Client
	now     func() time.Time

	mu        sync.Mutex
	ready     bool
	disabled  bool
	attempts  int
	nextLogin time.Time
}

// New builds a presence client for the agent at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 3 * time.Second},
		now:     time.Now,
	}
}

// Update pushes the state as a presence activity. Failures are logged
// and dropped; presence is decoration, not state.
func (c *Client) Update(st *core.PlaybackState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ensureReadyLocked() {
		return
	}
	if err := c.post(activityPath, activityRequest{Activity: buildActivity(st, c.now())}); err != nil {
		log.Printf("presence update failed: %v", err)
	}
}

// Listener adapts the client for synchronizer fan-out without blocking
// the synchronizer on the agent.
func (c *Client) Listener() func(*core.PlaybackState) {
	return func(st *core.PlaybackState) {
		go c.Update(st)
	}
}

func (c *Client) ensureReadyLocked() bool {
	if c.ready {
		return true
	}
	if c.disabled || c.now().Before(c.nextLogin) {
		return false
	}
	err := c.post(loginPath, loginRequest{Client: "stagehand"})
	if err == nil {
		c.ready = true
		return true
	}
	c.attempts++
	if c.attempts >= maxLoginAttempts {
		c.disabled = true
		log.Printf("presence agent unreachable after %d attempts, disabling: %v", c.attempts, err)
		return false
	}
	c.nextLogin = c.now().Add(loginBackoff)
	log.Printf("presence login failed (attempt %d/%d): %v", c.attempts, maxLoginAttempts, err)
	return false
}

func (c *Client) post(path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("presence agent returned %s", resp.Status)
	}
	return nil
}

// buildActivity maps a playback state to an activity payload. States
// without a track clear the activity.
func buildActivity(st *core.PlaybackState, now time.Time) *activity {
	if !st.HasTrack() {
		return nil
	}
	t := st.Track
	a := &activity{
		Details: "Listening to " + t.Title,
		State:   t.Artist(),
	}
	if st.Status == core.StatusPlaying && t.DurationSeconds > 0 {
		start := now.Unix() - int64(t.PositionSeconds)
		a.Timestamps = &activityTimestamps{
			Start: start,
			End:   start + int64(t.DurationSeconds),
		}
	}
	return a
}
