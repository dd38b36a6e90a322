package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/lifecycle"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var useCmd = &cobra.Command{
	Use:   "use <version>",
	Short: "Switch the active version",
	Long: `Switch the active version of the managed tool.

The active pointer and the launcher in ~/.cvm/bin are repointed atomically
to the chosen version. Switching also repairs a pointer left dangling by an
out-of-band removal.

Examples:
  cvm use 1.0.42`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		version := strings.TrimPrefix(args[0], "v")

		ctl, _, err := newController()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		launcherLinked, err := ctl.Use(context.Background(), version)
		if err != nil {
			var notInstalled *lifecycle.NotInstalledError
			if errors.As(err, &notInstalled) {
				ui.Error("Version %s is not installed", version)
				ui.Info("Run 'cvm install %s' to install it first", version)
				ui.Info("Run 'cvm list' to see installed versions")
				return
			}
			ui.Error("%v", err)
			return
		}

		ui.Success("Now using %s", ui.HighlightVersion(version))

		if !launcherLinked {
			ui.Warning("No runnable binary found in version %s; launcher not updated", version)
			ui.Info("Reinstall with: cvm uninstall %s && cvm install %s", version, version)
		}
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
