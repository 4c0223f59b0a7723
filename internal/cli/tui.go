package cli

import (
	"github.com/spf13/cobra"

	"github.com/stagehand-app/stagehand/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive now-playing view",
	Long: `Launch the terminal now-playing view, fed live from the control
API.

Keyboard shortcuts:
  q, Ctrl+C    Quit
  Space        Play/Pause
  n            Next track
  p            Previous track
  s            Toggle shuffle
  r            Cycle repeat
  f            Toggle favorite`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(apiBase())
}
