package cmd

import (
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var execUseFlag string

var execCmd = &cobra.Command{
	Use:   "exec [-- args...]",
	Short: "Run the managed tool",
	Long: `Run the managed tool's binary, passing all arguments through.

By default the active version runs. With --use a specific installed version
runs instead, without moving the active pointer.

Examples:
  cvm exec -- --help
  cvm exec --use 1.0.39 -- --help`,
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		ctl, settings, err := newController()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		version := strings.TrimPrefix(execUseFlag, "v")
		if version == "" {
			version, err = ctl.Store().ActiveVersion()
			if err != nil {
				ui.Error("%v", err)
				return
			}
			if version == "" {
				ui.Error("No active version")
				ui.Info("Run 'cvm use <version>' or pass --use <version>")
				return
			}
		}

		if !ctl.Store().IsInstalled(version) {
			ui.Error("Version %s is not installed", version)
			ui.Info("Run 'cvm install %s' to install it first", version)
			return
		}

		binPath := ctl.Store().BinaryPath(version)
		if _, err := os.Stat(binPath); err != nil {
			ui.Error("Version %s has no runnable binary", version)
			ui.Info("Reinstall with: cvm uninstall %s && cvm install %s", version, version)
			return
		}

		ui.Debug("Running %s %s (%s)", settings.Binary, version, binPath)

		child := exec.Command(binPath, args...)
		child.Stdin = os.Stdin
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr

		if err := child.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				os.Exit(exitErr.ExitCode())
			}
			ui.Error("%v", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringVar(&execUseFlag, "use", "", "Run a specific installed version instead of the active one")
}
