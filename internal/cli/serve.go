package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stagehand-app/stagehand/internal/api"
	"github.com/stagehand-app/stagehand/internal/control"
	"github.com/stagehand-app/stagehand/internal/core"
	"github.com/stagehand-app/stagehand/internal/dom"
	stagehanderrors "github.com/stagehand-app/stagehand/internal/errors"
	"github.com/stagehand-app/stagehand/internal/hotkey"
	"github.com/stagehand-app/stagehand/internal/mediasession"
	"github.com/stagehand-app/stagehand/internal/mpris"
	"github.com/stagehand-app/stagehand/internal/notify"
	"github.com/stagehand-app/stagehand/internal/page"
	"github.com/stagehand-app/stagehand/internal/presence"
	"github.com/stagehand-app/stagehand/internal/scrobble"
	"github.com/stagehand-app/stagehand/internal/state"
	"github.com/stagehand-app/stagehand/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the companion: mirror playback state to desktop integrations",
	Long: `Connect to the wrapper shell, synchronize playback state, and run
the configured integrations: the media-control bridge, desktop
notifications, rich presence, scrobbling and the local control API.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	remote, err := page.Dial(cfg.Player.PageURL)
	if err != nil {
		return fmt.Errorf("%w: %v", stagehanderrors.ErrPageUnavailable, err)
	}
	defer remote.Close()

	source := buildSource(remote)
	interval := time.Duration(cfg.Player.IntervalMs) * time.Millisecond
	sync := state.New(source, interval)
	sync.SetSkipArtists(cfg.Player.SkipArtists)

	dispatcher := control.New(source, sync.Status)

	// Media-control bridge, supervised across bus restarts.
	supervisor := mpris.NewSupervisor(func() (mpris.Sink, error) {
		bridge, err := mpris.Connect(dispatcher.Do)
		if err != nil {
			return nil, err
		}
		return bridge, nil
	})
	supervisor.Start()
	defer supervisor.Stop()
	sync.Subscribe(supervisor.Listener())

	if cfg.Notifications.Enabled {
		notifier, err := notify.New()
		if err != nil {
			log.Printf("desktop notifications unavailable: %v", err)
		} else {
			sync.Subscribe(notifier.Listener())
		}
	}

	if cfg.Presence.Enabled {
		sync.Subscribe(presence.New(cfg.Presence.AgentURL).Listener())
	}

	if cfg.Scrobble.Enabled {
		sync.Subscribe(scrobble.New(cfg.Scrobble.URL).Listener())
	}

	if cfg.API.Enabled {
		hub := api.NewHub()
		defer hub.Close()
		server := api.NewServer(
			fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
			api.NewAPI(sync, dispatcher.Do, hub),
		)
		if err := server.Start(); err != nil {
			// The rest of the companion still works without the API.
			fmt.Fprintln(os.Stderr, stagehanderrors.Format(err))
		} else {
			defer server.Close()
			sync.Subscribe(hub.Listener())
			NormalF("control API listening on %s", apiBase())
		}
	}

	startHotkeys(remote, dispatcher, sync)

	sync.Start()
	defer sync.Stop()

	NormalF("stagehand connected to %s (adapter: %s)", cfg.Player.PageURL, source.Name())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	NormalF("shutting down")
	return nil
}

// buildSource composes the extraction source per the configured
// adapter. Auto prefers the state store and degrades through the media
// session to raw markup.
func buildSource(remote *page.Remote) core.Source {
	markup := dom.New(remote, cfg.Player.BaseURL)

	switch cfg.Player.Adapter {
	case "dom":
		return markup
	case "mediasession":
		return core.NewFallback(mediasession.New(remote), markup)
	case "store":
		return store.New(remote, remote.Changes(), cfg.Player.BaseURL)
	default:
		return core.NewFallback(
			store.New(remote, remote.Changes(), cfg.Player.BaseURL),
			core.NewFallback(mediasession.New(remote), markup),
		)
	}
}

// startHotkeys forwards key combinations reported by the shell to the
// dispatcher.
func startHotkeys(remote *page.Remote, dispatcher *control.Dispatcher, sync *state.Synchronizer) {
	bindings, errs := hotkey.Load(cfg.Hotkeys)
	for _, err := range errs {
		log.Printf("hotkeys: %v", err)
	}
	if len(bindings.All()) == 0 {
		return
	}

	go func() {
		for combo := range remote.Hotkeys() {
			if intent, ok := bindings.Translate(combo); ok {
				_ = dispatcher.Do(intent)
				sync.Wake()
			}
		}
	}()
}
