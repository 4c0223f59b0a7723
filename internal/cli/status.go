package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stagehand-app/stagehand/internal/api"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current playback state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := api.NewClient(apiBase())
	st, err := client.Current()
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(st)
	}

	printState(st)
	return nil
}

func printState(st *api.State) {
	if st.ID == "" {
		NormalF("%s Nothing playing", StatusIcon(st.Status))
		return
	}

	NormalF("%s %s — %s", StatusIcon(st.Status), st.Title, st.Artist)
	if st.Album != "" {
		NormalF("  %s", st.Album)
	}
	NormalF("  %s %s %s", st.Current, FormatProgress(st.CurrentInSeconds, st.DurationInSeconds, 24), st.Duration)

	line := fmt.Sprintf("  shuffle %s · repeat %s", OnOff(st.Player.Shuffle), st.Player.Repeat)
	if st.Favorite {
		line += " · ♥"
	}
	NormalF("%s", line)

	if Verbose() && st.URL != "" {
		NormalF("  %s", st.URL)
	}
}
