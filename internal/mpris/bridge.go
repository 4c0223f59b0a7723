package mpris

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/stagehand-app/stagehand/internal/core"
)

const (
	busName    = "org.mpris.MediaPlayer2.stagehand"
	objectPath = dbus.ObjectPath("/org/mpris/MediaPlayer2")

	rootInterface   = "org.mpris.MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"
)

// propWriter is the owner-side write surface of prop.Properties.
type propWriter interface {
	SetMust(iface, property string, v interface{})
}

// Bridge exposes the current playback state on the session bus as an
// org.mpris.MediaPlayer2 player, and forwards method calls from desktop
// media controls back as intents.
type Bridge struct {
	conn  *dbus.Conn
	props propWriter
	do    func(core.Intent) error
}

// Connect claims the player bus name on the session bus and exports the
// root and Player interfaces. Method calls from the desktop are handed
// to do.
func Connect(do func(core.Intent) error) (*Bridge, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	b := &Bridge{conn: conn, do: do}
	if err := b.export(); err != nil {
		conn.Close()
		return nil, err
	}
	reply, err := conn.RequestName(busName, dbus.NameFlagReplaceExisting)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("claiming bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("bus name %s already owned", busName)
	}
	return b, nil
}

func (b *Bridge) export() error {
	root := &rootHandler{}
	player := &playerHandler{do: b.do}
	if err := b.conn.Export(root, objectPath, rootInterface); err != nil {
		return fmt.Errorf("exporting root interface: %w", err)
	}
	if err := b.conn.Export(player, objectPath, playerInterface); err != nil {
		return fmt.Errorf("exporting player interface: %w", err)
	}

	propsSpec := map[string]map[string]*prop.Prop{
		rootInterface: {
			"Identity":            constProp("stagehand"),
			"DesktopEntry":        constProp("stagehand"),
			"CanQuit":             constProp(false),
			"CanRaise":            constProp(false),
			"HasTrackList":        constProp(false),
			"SupportedUriSchemes": constProp([]string{}),
			"SupportedMimeTypes":  constProp([]string{}),
		},
		playerInterface: {
			"PlaybackStatus": emitProp("Stopped"),
			"LoopStatus":     emitProp("None"),
			"Shuffle":        emitProp(false),
			"Metadata":       emitProp(map[string]dbus.Variant{}),
			"Volume":         volumeProp(player),
			"Position":       constProp(int64(0)),
			"Rate":           constProp(1.0),
			"MinimumRate":    constProp(1.0),
			"MaximumRate":    constProp(1.0),
			"CanGoNext":      constProp(true),
			"CanGoPrevious":  constProp(true),
			"CanPlay":        constProp(true),
			"CanPause":       constProp(true),
			"CanSeek":        constProp(true),
			"CanControl":     constProp(true),
		},
	}
	props, err := prop.Export(b.conn, objectPath, propsSpec)
	if err != nil {
		return fmt.Errorf("exporting properties: %w", err)
	}
	b.props = props

	node := &introspect.Node{
		Name: string(objectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{Name: rootInterface, Methods: introspect.Methods(root)},
			{Name: playerInterface, Methods: introspect.Methods(player)},
		},
	}
	return b.conn.Export(introspect.NewIntrospectable(node), objectPath,
		"org.freedesktop.DBus.Introspectable")
}

// Update pushes a playback state to the bus, emitting PropertiesChanged
// for anything that moved.
func (b *Bridge) Update(st *core.PlaybackState) error {
	if err := b.set("PlaybackStatus", playbackStatus(st.Status)); err != nil {
		return err
	}
	if err := b.set("LoopStatus", loopStatus(st.Repeat)); err != nil {
		return err
	}
	if err := b.set("Shuffle", st.Shuffle); err != nil {
		return err
	}
	return b.set("Metadata", metadata(st.Track))
}

// set pushes a property value from the player side. Owner writes go
// through SetMust because Properties.Set is the bus-facing setter and
// rejects read-only properties; SetMust panics instead of returning
// transport errors, so a dead connection is recovered into an error the
// supervisor can treat as a dropped bridge.
func (b *Bridge) set(name string, value interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("setting %s: %v", name, r)
		}
	}()
	b.props.SetMust(playerInterface, name, value)
	return nil
}

// Close releases the bus name and drops the connection.
func (b *Bridge) Close() error {
	if _, err := b.conn.ReleaseName(busName); err != nil {
		b.conn.Close()
		return err
	}
	return b.conn.Close()
}

func playbackStatus(s core.Status) string {
	switch s {
	case core.StatusPlaying:
		return "Playing"
	case core.StatusPaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

func loopStatus(r core.RepeatMode) string {
	switch r {
	case core.RepeatAll:
		return "Playlist"
	case core.RepeatSingle:
		return "Track"
	default:
		return "None"
	}
}

// metadata builds the MPRIS metadata map for a track. A nil track maps
// to an empty map, which desktop controls render as "nothing playing".
func metadata(t *core.Track) map[string]dbus.Variant {
	if t == nil {
		return map[string]dbus.Variant{}
	}
	trackPath := dbus.ObjectPath("/org/mpris/MediaPlayer2/stagehand/track/" + sanitizeToken(t.ID))
	m := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackPath),
		"mpris:length":  dbus.MakeVariant(sanitizeSeconds(float64(t.DurationSeconds)) * 1_000_000),
		"xesam:title":   dbus.MakeVariant(t.Title),
		"xesam:artist":  dbus.MakeVariant(artistsOrUnknown(t.Artists)),
	}
	if t.Album != "" {
		m["xesam:album"] = dbus.MakeVariant(t.Album)
	}
	if t.ImageURL != "" {
		m["mpris:artUrl"] = dbus.MakeVariant(t.ImageURL)
	}
	if t.URL != "" {
		m["xesam:url"] = dbus.MakeVariant(t.URL)
	}
	return m
}

func constProp(value interface{}) *prop.Prop {
	return &prop.Prop{Value: value, Writable: false, Emit: prop.EmitFalse}
}

func emitProp(value interface{}) *prop.Prop {
	return &prop.Prop{Value: value, Writable: false, Emit: prop.EmitTrue}
}

// volumeProp is the one property desktop controls may write; writes are
// clamped and forwarded as set-volume intents.
func volumeProp(h *playerHandler) *prop.Prop {
	return &prop.Prop{
		Value:    1.0,
		Writable: true,
		Emit:     prop.EmitTrue,
		Callback: h.volumeChanged,
	}
}

type rootHandler struct{}

func (rootHandler) Raise() *dbus.Error { return nil }
func (rootHandler) Quit() *dbus.Error  { return nil }

type playerHandler struct {
	do func(core.Intent) error
}

func (h *playerHandler) dispatch(in core.Intent) *dbus.Error {
	if err := h.do(in); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (h *playerHandler) Play() *dbus.Error {
	return h.dispatch(core.Intent{Kind: core.IntentPlay})
}

func (h *playerHandler) Pause() *dbus.Error {
	return h.dispatch(core.Intent{Kind: core.IntentPause})
}

func (h *playerHandler) PlayPause() *dbus.Error {
	return h.dispatch(core.Intent{Kind: core.IntentTogglePlay})
}

func (h *playerHandler) Stop() *dbus.Error {
	return h.dispatch(core.Intent{Kind: core.IntentPause})
}

func (h *playerHandler) Next() *dbus.Error {
	return h.dispatch(core.Intent{Kind: core.IntentNext})
}

func (h *playerHandler) Previous() *dbus.Error {
	return h.dispatch(core.Intent{Kind: core.IntentPrevious})
}

func (h *playerHandler) Seek(offset int64) *dbus.Error {
	return h.dispatch(core.Intent{
		Kind:         core.IntentSeek,
		SeekSeconds:  int(offset / 1_000_000),
		SeekRelative: true,
	})
}

func (h *playerHandler) SetPosition(_ dbus.ObjectPath, position int64) *dbus.Error {
	return h.dispatch(core.Intent{
		Kind:        core.IntentSeek,
		SeekSeconds: int(sanitizeSeconds(float64(position) / 1_000_000)),
	})
}

func (h *playerHandler) OpenUri(_ string) *dbus.Error { return nil }

func (h *playerHandler) volumeChanged(c *prop.Change) *dbus.Error {
	vol, ok := c.Value.(float64)
	if !ok {
		return dbus.MakeFailedError(fmt.Errorf("volume must be a double, got %T", c.Value))
	}
	return h.dispatch(core.Intent{
		Kind:   core.IntentSetVolume,
		Volume: clampVolume(vol),
	})
}
