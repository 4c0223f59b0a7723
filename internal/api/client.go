package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stagehand-app/stagehand/internal/errors"
)

// Client talks to a running control API from the command line.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Current fetches the playback state.
func (c *Client) Current() (*State, error) {
	resp, err := c.http.Get(c.baseURL + "/current")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAPIUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("control API returned %s", resp.Status)
	}
	var st State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	return &st, nil
}

// Do executes a player action. args may be nil.
func (c *Client) Do(action string, args *ActionArgs) error {
	var body *bytes.Reader
	if args != nil {
		payload, err := json.Marshal(args)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	resp, err := c.http.Post(c.baseURL+"/player/"+action, "application/json", body)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrAPIUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("control API rejected %s: %s", action, e.Error)
		}
		return fmt.Errorf("control API returned %s for %s", resp.Status, action)
	}
	return nil
}

// ActionArgs carries the optional arguments for seek and set-volume.
type ActionArgs struct {
	Seconds  int     `json:"seconds,omitempty"`
	Relative bool    `json:"relative,omitempty"`
	Volume   float64 `json:"volume,omitempty"`
}

// Watch connects to the push feed and delivers every state change until
// ctx is cancelled. The channel closes when the feed ends.
func (c *Client) Watch(ctx context.Context) (<-chan State, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAPIUnreachable, err)
	}

	states := make(chan State, 16)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(states)
		defer conn.Close()
		for {
			var st State
			if err := conn.ReadJSON(&st); err != nil {
				return
			}
			select {
			case states <- st:
			case <-ctx.Done():
				return
			}
		}
	}()
	return states, nil
}
