// Package page defines the boundary to the embedded streaming page. The
// wrapper shell owns the page; the extraction variants only ever see
// these interfaces. The page exposes no stable contract, so every
// operation is allowed to miss: a miss is data for the caller, not an
// error.
package page

import "encoding/json"

// Element is a handle to a DOM element located by selector.
type Element interface {
	Text() string
	// Attr returns an attribute value. ARIA state attributes carry the
	// strings "true"/"false", not booleans.
	Attr(name string) (string, bool)
	Click() error
}

// Document is the selector-lookup surface of the hosted page.
type Document interface {
	// Query locates the first element matching the selector. The second
	// return is false when nothing matches this pass; markup is not a
	// stable contract and selectors are maintained empirically.
	Query(selector string) (Element, bool)
	// Location returns the page's current URL.
	Location() string
}

// Node is a reference into the host's live object graph. Identity is by
// reference, exposed as a stable numeric handle for visited-set keying.
type Node interface {
	ID() uint64
	Keys() []string
	Child(key string) (Node, bool)
	// Call invokes a method on the node and returns its JSON-encoded
	// result. Used against the page's internal state container
	// (getState / dispatch / subscribe).
	Call(method string, args ...interface{}) (json.RawMessage, error)
}

// Graph is the entry point to the host object graph.
type Graph interface {
	Root() (Node, error)
}

// ArtworkRef is one artwork candidate from the media-session surface.
type ArtworkRef struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
}

// SessionMetadata mirrors the now-playing metadata the page publishes to
// the platform media-session surface.
type SessionMetadata struct {
	Title   string       `json:"title"`
	Artist  string       `json:"artist"`
	Album   string       `json:"album"`
	Artwork []ArtworkRef `json:"artwork"`
}

// MediaSession is the platform now-playing surface populated by the page
// itself.
type MediaSession interface {
	// Metadata returns the published metadata; false means nothing is
	// published, which callers must treat as stopped.
	Metadata() (SessionMetadata, bool)
	// PlaybackState returns the session state string: "playing",
	// "paused" or "none".
	PlaybackState() string
}
