// Package dom implements the markup-inspection extraction variant. It is
// the most fragile of the three variants and also the only one that can
// always be constructed, so it doubles as the fallback delegate for
// operations the other variants cannot perform.
package dom

import (
	"strings"

	"github.com/stagehand-app/stagehand/internal/core"
	"github.com/stagehand-app/stagehand/internal/errors"
	"github.com/stagehand-app/stagehand/internal/page"
)

// Adapter reads playback state from the hosted page's markup.
type Adapter struct {
	doc     page.Document
	baseURL string
	warn    errors.Once
}

// New creates a markup adapter over doc. baseURL is the canonical origin
// used to build track deep links.
func New(doc page.Document, baseURL string) *Adapter {
	return &Adapter{doc: doc, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (a *Adapter) Name() string { return "dom" }

// text returns the text of the first match, or "" on a miss.
func (a *Adapter) text(selector string) string {
	el, ok := a.doc.Query(selector)
	if !ok {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// attr returns an attribute of the first match, or "" on a miss.
func (a *Adapter) attr(selector, name string) string {
	el, ok := a.doc.Query(selector)
	if !ok {
		return ""
	}
	v, _ := el.Attr(name)
	return v
}

// ariaChecked coerces an ARIA state attribute to a boolean. The page
// reports the strings "true" and "false"; anything that is not exactly
// "true" is false.
func ariaChecked(v string) bool {
	return v == "true"
}

// Status derives playback status from which transport button is shown.
// A visible pause button means the page is playing; a visible play
// button means a track is loaded but paused; neither means nothing is
// loaded.
func (a *Adapter) Status() core.Status {
	if _, ok := a.doc.Query(selPauseButton); ok {
		return core.StatusPlaying
	}
	if _, ok := a.doc.Query(selPlayButton); ok {
		return core.StatusPaused
	}
	return core.StatusStopped
}

// TrackID reads the current track identity from the playing queue row,
// falling back to the id embedded in the page URL. A genuinely unknown
// identity is reported as a miss, never fabricated.
func (a *Adapter) TrackID() (string, bool) {
	if id := a.attr(selCurrentRow, attrTrackID); id != "" {
		return id, true
	}
	if id := trackIDFromLocation(a.doc.Location()); id != "" {
		return id, true
	}
	return "", false
}

// trackIDFromLocation extracts a track id from URLs of the form
// .../track/<id>[/...].
func trackIDFromLocation(loc string) string {
	_, rest, ok := strings.Cut(loc, "/track/")
	if !ok {
		return ""
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func (a *Adapter) Title() string {
	return a.text(selTitle)
}

// Album resolution depends on the page context. On an album page the
// header is authoritative; everywhere else the currently-playing queue
// row is tried; otherwise the album is unknown. Contexts outside this
// tie-break order are reported as a gap, not guessed.
func (a *Adapter) Album() string {
	loc := a.doc.Location()
	if strings.Contains(loc, "/album/") {
		if v := a.text(selAlbumHeader); v != "" {
			return v
		}
	}
	if v := a.text(selCurrentRowAlbum); v != "" {
		return v
	}
	if !knownContext(loc) {
		a.warn.Logf("album-context", "dom: no album resolution for page context %q", loc)
	}
	return ""
}

// knownContext reports whether the album tie-break order covers this
// page context.
func knownContext(loc string) bool {
	for _, marker := range []string{"/album/", "/playlist/", "/mix/", "/queue", "/track/", "/search", "/artist/"} {
		if strings.Contains(loc, marker) {
			return true
		}
	}
	// The landing page has no path marker worth warning about.
	return loc == "" || strings.HasSuffix(loc, "/")
}

// Artists reads the footer artist links. A single element carrying a
// comma-joined list is split; missing markup yields an empty list.
func (a *Adapter) Artists() []string {
	raw := a.text(selArtists)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	artists := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			artists = append(artists, p)
		}
	}
	return artists
}

func (a *Adapter) PositionSeconds() int {
	return core.ParseClock(a.text(selCurrentTime))
}

func (a *Adapter) DurationSeconds() int {
	return core.ParseClock(a.text(selDuration))
}

func (a *Adapter) Shuffle() bool {
	return ariaChecked(a.attr(selShuffleButton, attrChecked))
}

func (a *Adapter) Repeat() core.RepeatMode {
	switch a.attr(selRepeatButton, attrRepeat) {
	case repeatAttrAll:
		return core.RepeatAll
	case repeatAttrSingle:
		return core.RepeatSingle
	default:
		return core.RepeatOff
	}
}

func (a *Adapter) Favorite() bool {
	return ariaChecked(a.attr(selFavoriteButton, attrChecked))
}

func (a *Adapter) ArtworkURL() string {
	return a.attr(selArtwork, attrImageSrc)
}

func (a *Adapter) TrackURL() string {
	id, ok := a.TrackID()
	if !ok {
		return ""
	}
	return a.baseURL + "/track/" + id
}

// Dispatch executes an intent by clicking the matching transport button.
// Seeking and volume have no markup affordance here; those report
// ErrUnsupportedIntent so a composing source can take over.
func (a *Adapter) Dispatch(in core.Intent) error {
	var selector string
	switch in.Kind {
	case core.IntentPlay:
		selector = selPlayButton
	case core.IntentPause:
		selector = selPauseButton
	case core.IntentNext:
		selector = selNextButton
	case core.IntentPrevious:
		selector = selPrevButton
	case core.IntentToggleShuffle:
		selector = selShuffleButton
	case core.IntentCycleRepeat:
		selector = selRepeatButton
	case core.IntentToggleFavorite:
		selector = selFavoriteButton
	default:
		return core.ErrUnsupportedIntent
	}

	el, ok := a.doc.Query(selector)
	if !ok {
		// Transient miss: the control is not on screen this instant.
		a.warn.Logf("dispatch-"+string(in.Kind), "dom: no control for %s (selector %q)", in.Kind, selector)
		return nil
	}
	if err := el.Click(); err != nil {
		a.warn.Logf("click-"+string(in.Kind), "dom: click %s: %v", in.Kind, err)
	}
	return nil
}

var _ core.Source = (*Adapter)(nil)
