package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagehand-app/stagehand/internal/api"
	"github.com/stagehand-app/stagehand/internal/browser"
	"github.com/stagehand-app/stagehand/internal/core"
)

var shareOpen bool

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the current track's share link",
	RunE:  runShare,
}

func init() {
	shareCmd.Flags().BoolVarP(&shareOpen, "open", "o", false, "open the link in the browser")
	rootCmd.AddCommand(shareCmd)
}

func runShare(cmd *cobra.Command, args []string) error {
	client := api.NewClient(apiBase())
	st, err := client.Current()
	if err != nil {
		return err
	}
	if st.ID == "" || st.URL == "" {
		return fmt.Errorf("nothing playing to share")
	}

	track := core.Track{URL: st.URL}
	url := track.ShareURL()

	fmt.Println(url)
	if shareOpen {
		return browser.Open(url)
	}
	return nil
}
