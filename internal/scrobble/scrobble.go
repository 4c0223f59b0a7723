// Package scrobble reports listening events to a scrobble endpoint
// using the webscrobbler webhook payload shape.
package scrobble

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
	eventNowPlaying = "nowplaying"
	eventPaused     = "paused"
	eventResumed    = "resumedplaying"
)

type parsedSong struct {
	Album       string `json:"album"`
	Artist      string `json:"artist"`
	CurrentTime int64  `json:"currentTime"`
	Duration    int64  `json:"duration"`
	IsPlaying   bool   `json:"isPlaying"`
	OriginURL   string `json:"originUrl"`
	Track       string `json:"track"`
	TrackArt    string `json:"trackArt"`
	UniqueID    string `json:"uniqueID"`
}

type processedSong struct {
	Album    string `json:"album"`
	Artist   string `json:"artist"`
	Duration int64  `json:"duration"`
	Track    string `json:"track"`
}

type song struct {
	Parsed    parsedSong    `json:"parsed"`
	Processed processedSong `json:"processed"`
}

type event struct {
	EventName string `json:"eventName"`
	Time      int64  `json:"time"`
	Data      struct {
		Song song `json:"song"`
	} `json:"data"`
}

// Reporter posts a scrobble event on every track change and on
// play/pause transitions of the current track.
type Reporter struct {
	url  string
	http *http.Client
	now  func() time.Time

	mu          sync.Mutex
	announcedID string
	lastStatus  core.Status
}

// New builds a reporter posting to url.
func New(url string) *Reporter {
	return &Reporter{
		url:  url,
		http: &http.Client{Timeout: 3 * time.Second},
		now:  time.Now,
	}
}

// Update derives a scrobble event from the state transition, if any,
// and posts it. Delivery is fire-and-forget with a single retry.
func (r *Reporter) Update(st *core.PlaybackState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := r.eventNameLocked(st)
	if name == eventNowPlaying {
		r.announcedID = st.Track.ID
	}
	if !st.HasTrack() {
		r.announcedID = ""
	}
	r.lastStatus = st.Status
	if name == "" {
		return
	}

	ev := buildEvent(name, st, r.now())
	if err := r.post(ev); err != nil {
		if err = r.post(ev); err != nil {
			log.Printf("scrobble delivery failed: %v", err)
		}
	}
}

// Listener adapts the reporter for synchronizer fan-out without
// blocking the synchronizer on the endpoint.
func (r *Reporter) Listener() func(*core.PlaybackState) {
	return func(st *core.PlaybackState) {
		go r.Update(st)
	}
}

// eventNameLocked maps the transition from the previous state to an
// event name, or "" when the transition is not worth reporting. Pause
// and resume only apply to the track last announced via nowplaying; a
// track that started while another one was paused was never announced,
// so its first play is a nowplaying, not a resume.
func (r *Reporter) eventNameLocked(st *core.PlaybackState) string {
	if !st.HasTrack() {
		return ""
	}
	switch {
	case st.Status == core.StatusPlaying && st.Track.ID != r.announcedID:
		return eventNowPlaying
	case st.Track.ID == r.announcedID && st.Status == core.StatusPaused && r.lastStatus == core.StatusPlaying:
		return eventPaused
	case st.Track.ID == r.announcedID && st.Status == core.StatusPlaying && r.lastStatus == core.StatusPaused:
		return eventResumed
	}
	return ""
}

func (r *Reporter) post(ev event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	resp, err := r.http.Post(r.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("scrobble endpoint returned %s", resp.Status)
	}
	return nil
}

func buildEvent(name string, st *core.PlaybackState, now time.Time) event {
	t := st.Track
	var ev event
	ev.EventName = name
	ev.Time = now.UnixMilli()
	ev.Data.Song = song{
		Parsed: parsedSong{
			Album:       t.Album,
			Artist:      t.Artist(),
			CurrentTime: int64(t.PositionSeconds),
			Duration:    int64(t.DurationSeconds),
			IsPlaying:   st.Status == core.StatusPlaying,
			OriginURL:   t.URL,
			Track:       t.Title,
			TrackArt:    t.ImageURL,
			UniqueID:    t.ID,
		},
		Processed: processedSong{
			Album:    t.Album,
			Artist:   t.Artist(),
			Duration: int64(t.DurationSeconds),
			Track:    t.Title,
		},
	}
	return ev
}
