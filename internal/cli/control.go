package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stagehand-app/stagehand/internal/api"
	"github.com/stagehand-app/stagehand/internal/core"
)

var seekRelative bool

func init() {
	simple := []struct {
		use, short string
		action     core.IntentKind
		aliases    []string
	}{
		{"play", "Start playback", core.IntentPlay, nil},
		{"pause", "Pause playback", core.IntentPause, nil},
		{"toggle", "Toggle play/pause", core.IntentTogglePlay, []string{"t"}},
		{"next", "Skip to the next track", core.IntentNext, []string{"skip"}},
		{"prev", "Go back to the previous track", core.IntentPrevious, []string{"previous", "back"}},
		{"shuffle", "Toggle shuffle", core.IntentToggleShuffle, nil},
		{"repeat", "Cycle the repeat mode", core.IntentCycleRepeat, nil},
		{"favorite", "Toggle favorite on the current track", core.IntentToggleFavorite, []string{"fav", "like"}},
	}

	for _, c := range simple {
		action := c.action
		rootCmd.AddCommand(&cobra.Command{
			Use:     c.use,
			Short:   c.short,
			Aliases: c.aliases,
			RunE: func(cmd *cobra.Command, args []string) error {
				return doAction(string(action), nil)
			},
		})
	}

	seekCmd := &cobra.Command{
		Use:   "seek <seconds>",
		Short: "Seek within the current track",
		Long: `Seek to a position in the current track.

With --relative, the value offsets the current position and may be
negative.

Examples:
  stagehand seek 90
  stagehand seek -- -15 --relative`,
		Args: cobra.ExactArgs(1),
		RunE: runSeek,
	}
	seekCmd.Flags().BoolVarP(&seekRelative, "relative", "r", false, "seek relative to the current position")
	rootCmd.AddCommand(seekCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "volume <percent>",
		Short: "Set the playback volume (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE:  runVolume,
	})
}

func doAction(action string, args *api.ActionArgs) error {
	client := api.NewClient(apiBase())
	if err := client.Do(action, args); err != nil {
		return err
	}
	if Verbose() {
		NormalF("sent %s", action)
	}
	return nil
}

func runSeek(cmd *cobra.Command, args []string) error {
	seconds, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("seconds must be an integer, got %q", args[0])
	}
	if !seekRelative && seconds < 0 {
		return fmt.Errorf("absolute seek position must be non-negative")
	}
	return doAction(string(core.IntentSeek), &api.ActionArgs{
		Seconds:  seconds,
		Relative: seekRelative,
	})
}

func runVolume(cmd *cobra.Command, args []string) error {
	percent, err := strconv.Atoi(args[0])
	if err != nil || percent < 0 || percent > 100 {
		return fmt.Errorf("volume must be an integer between 0 and 100, got %q", args[0])
	}
	return doAction(string(core.IntentSetVolume), &api.ActionArgs{
		Volume: float64(percent) / 100,
	})
}
