package cmd

import (
	"fmt"

	"github.com/cvm-sh/cvm/src/internal/tui"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed versions",
	Long: `List all installed versions in ascending version order.
The active version is highlighted.

Examples:
  cvm list`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctl, settings, err := newController()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		versions, err := ctl.Store().ListInstalled()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		if len(versions) == 0 {
			ui.Info("No versions installed")
			ui.Info("Run 'cvm install <version>' to install one")
			return
		}

		active, _ := ctl.Store().ActiveVersion()

		table := tui.NewTable("Version", "Status")
		table.SetTitle(fmt.Sprintf("Installed versions of %s", settings.Package))

		for _, v := range versions {
			if v == active {
				table.AddActiveRow(v, "active")
			} else {
				table.AddRow(v, "")
			}
		}

		fmt.Println(table.Render())

		if active != "" && !ctl.Store().IsInstalled(active) {
			ui.Warning("Active pointer references %s, which is no longer installed", active)
			ui.Info("Repair it with: cvm use <version>")
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
