// Package api serves the local control API: current-state reads,
// fire-and-forget player actions, and a websocket push feed of state
// changes.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stagehand-app/stagehand/internal/core"
)

// StateProvider supplies the canonical playback state.
type StateProvider interface {
	Current() *core.PlaybackState
}

// ControlFunc executes a control intent.
type ControlFunc func(core.Intent) error

// API handles the HTTP control endpoints.
type API struct {
	states StateProvider
	do     ControlFunc
	hub    *Hub
}

// NewAPI creates the API over a state provider and a control function.
func NewAPI(states StateProvider, do ControlFunc, hub *Hub) *API {
	return &API{states: states, do: do, hub: hub}
}

// Current returns the playback state in the legacy serialization.
func (a *API) Current(c *gin.Context) {
	c.JSON(http.StatusOK, fromState(a.states.Current()))
}

// CurrentImage redirects to the current track's artwork.
func (a *API) CurrentImage(c *gin.Context) {
	st := a.states.Current()
	if !st.HasTrack() || st.Track.ImageURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no track loaded"})
		return
	}
	c.Redirect(http.StatusFound, st.Track.ImageURL)
}

// PlayerAction executes a named control action. The response is sent
// before the page reacts; callers poll /current or follow /ws for the
// outcome.
func (a *API) PlayerAction(c *gin.Context) {
	action := c.Param("action")
	intent, err := core.ParseIntent(action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var args ActionArgs
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	intent.SeekSeconds = args.Seconds
	intent.SeekRelative = args.Relative
	intent.Volume = args.Volume

	go a.do(intent)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "action": action})
}

// WS upgrades to a websocket that receives every state change as the
// legacy serialization.
func (a *API) WS(c *gin.Context) {
	a.hub.Serve(c.Writer, c.Request, a.states.Current())
}
