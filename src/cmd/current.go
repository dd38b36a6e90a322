package cmd

import (
	"fmt"

	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the currently active version",
	Long: `Show the currently active version.

A warning is printed when the active pointer references a version that was
removed out-of-band; run 'cvm use <version>' to repair it.

Examples:
  cvm current`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctl, settings, err := newController()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		active, err := ctl.Store().ActiveVersion()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		if active == "" {
			ui.Info("No active version")
			ui.Info("Run 'cvm use <version>' to select one")
			return
		}

		if !ctl.Store().IsInstalled(active) {
			ui.Warning("%s (no longer installed - pointer is stale)", active)
			ui.Info("Repair it with: cvm use <version>")
			return
		}

		fmt.Printf("%s: %s\n", ui.Highlight(settings.Binary), ui.HighlightVersion(active))
	},
}

func init() {
	rootCmd.AddCommand(currentCmd)
}
