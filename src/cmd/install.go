package cmd

import (
	"context"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/lifecycle"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <version>",
	Short: "Install a version",
	Long: `Install a specific version of the managed tool.

Versions install side-by-side under ~/.cvm/versions and never touch a
system-level install of the same tool. Installing an already-installed
version is a no-op.

Examples:
  cvm install 1.0.42
  cvm install 0.2.9`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		version := strings.TrimPrefix(args[0], "v")

		ctl, settings, err := newController()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		if ctl.Store().IsInstalled(version) {
			ui.Info("Version %s is already installed", ui.HighlightVersion(version))
			return
		}

		ui.Header("Installing %s %s...", settings.Package, version)

		if err := ctl.Install(context.Background(), version); err != nil {
			ui.Error("%v", err)
			return
		}

		ui.Success("Installed %s", ui.HighlightVersion(version))

		// First install becomes active automatically
		autoUseIfNeeded(ctl, version)
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}

// autoUseIfNeeded switches to the installed version when nothing is active yet
func autoUseIfNeeded(ctl *lifecycle.Controller, version string) {
	active, err := ctl.Store().ActiveVersion()
	if err != nil || active != "" {
		ui.Debug("Active version check: current=%q, err=%v", active, err)
		return
	}

	if _, err := ctl.Use(context.Background(), version); err != nil {
		ui.Warning("Could not activate version automatically: %v", err)
		return
	}

	ui.Info("Set as active version (first install)")
}
