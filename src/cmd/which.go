package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cvm-sh/cvm/src/internal/config"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var whichCmd = &cobra.Command{
	Use:   "which",
	Short: "Show the path of the active binary",
	Long: `Display the launcher path and the actual binary it resolves to.

Examples:
  cvm which`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctl, settings, err := newController()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		launcher := config.LauncherPath(settings.Binary)

		target, err := os.Readlink(launcher)
		if err != nil {
			ui.Error("No launcher found at %s", launcher)
			ui.Info("Run 'cvm use <version>' to create it")
			return
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(launcher), target)
		}

		active, _ := ctl.Store().ActiveVersion()

		ui.Header("Command: %s", ui.Highlight(settings.Binary))
		fmt.Println()
		ui.Info("Launcher:   %s", launcher)
		ui.Info("Executable: %s", target)
		ui.Info("Version:    %s", ui.HighlightVersion(active))

		if _, err := os.Stat(target); os.IsNotExist(err) {
			ui.Warning("Executable target is missing; version %s may not be properly installed", active)
		}
	},
}

func init() {
	rootCmd.AddCommand(whichCmd)
}
