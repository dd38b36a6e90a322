package cmd

import (
	"github.com/cvm-sh/cvm/src/internal/config"
	"github.com/cvm-sh/cvm/src/internal/path"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize cvm (setup directories and PATH)",
	Long: `Initialize cvm by creating necessary directories and configuring your PATH.

This command:
  - Creates the ~/.cvm directory structure
  - Adds ~/.cvm/bin to your PATH (with your permission)

Run this command after installing cvm for the first time.

Example:
  cvm init`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Header("Initializing cvm...")

		spinner := ui.NewSpinner("Creating directories...")
		spinner.Start()

		if err := config.EnsureDirectories(); err != nil {
			spinner.Error("Failed to create directories")
			ui.Error("%v", err)
			return
		}

		spinner.Success("Directories created")

		binDir := config.DefaultPaths().Bin

		if err := path.AddToPath(binDir); err != nil {
			ui.Error("Failed to configure PATH: %v", err)
			ui.Info("You can manually add %s to your PATH", binDir)
			return
		}

		ui.Success("cvm initialized successfully!")
		ui.Info("\nNext steps:")
		ui.Info("  1. Restart your terminal (required for PATH changes)")
		ui.Info("  2. Run: cvm install <version>")
		ui.Info("  3. Run: cvm use <version>")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
