package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/constants"
	"github.com/cvm-sh/cvm/src/internal/lifecycle"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var uninstallYesFlag bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <version>",
	Short: "Uninstall a version",
	Long: `Uninstall a version of the managed tool.

The version directory and all its contents will be deleted.

Safety features:
  - Cannot uninstall the currently active version
  - Prompts for confirmation before deletion

Examples:
  cvm uninstall 1.0.42`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		version := strings.TrimPrefix(args[0], "v")

		ctl, _, err := newController()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		if !ctl.Store().IsInstalled(version) {
			ui.Error("Version %s is not installed", version)
			ui.Info("Run 'cvm list' to see installed versions")
			return
		}

		if !uninstallYesFlag {
			ui.Warning("This will permanently delete:")
			ui.Info("  %s", ctl.Store().VersionPath(version))
			fmt.Printf("\nAre you sure you want to uninstall %s? [y/N]: ", version)

			var response string
			_, _ = fmt.Scanln(&response)
			response = strings.ToLower(strings.TrimSpace(response))

			if response != constants.ResponseY && response != constants.ResponseYes {
				ui.Info("Uninstall canceled")
				return
			}
		}

		if err := ctl.Uninstall(context.Background(), version); err != nil {
			var activeErr *lifecycle.ActiveVersionError
			if errors.As(err, &activeErr) {
				ui.Error("Cannot uninstall the currently active version")
				ui.Info("Switch to another version first: cvm use <version>")
				return
			}
			ui.Error("%v", err)
			return
		}

		ui.Success("Uninstalled %s", ui.HighlightVersion(version))
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
	uninstallCmd.Flags().BoolVarP(&uninstallYesFlag, "yes", "y", false, "Skip confirmation prompt")
}
