package cmd

import (
	"context"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/config"
	"github.com/cvm-sh/cvm/src/internal/probe"
	"github.com/cvm-sh/cvm/src/internal/tui"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [version]",
	Short: "Check whether a version can serve requests",
	Long: `Probe an installed version to check that it can actually serve requests.

A version can be present on disk yet unable to talk to the backing service.
The probe runs the binary briefly, feeds it a trivial request, and classifies
the result. Silence within the timeout counts as healthy by default; tune
probeOnSilence in settings.json if your environment behaves differently.

Without an argument the active version is probed.

Examples:
  cvm doctor
  cvm doctor 1.0.39`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctl, settings, err := newController()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		var version string
		if len(args) == 1 {
			version = strings.TrimPrefix(args[0], "v")
		} else {
			version, err = ctl.Store().ActiveVersion()
			if err != nil {
				ui.Error("%v", err)
				return
			}
			if version == "" {
				ui.Error("No active version to probe")
				ui.Info("Run 'cvm doctor <version>' or 'cvm use <version>' first")
				return
			}
		}

		if !ctl.Store().IsInstalled(version) {
			ui.Error("Version %s is not installed", version)
			return
		}

		pr := probe.New(settings.ProbeTimeout(), settings.UpgradeMarker)
		pr.StartupDelay = settings.ProbeStartupDelay()
		if settings.ProbeOnSilence == config.OnSilenceNotViable {
			pr.OnSilence = probe.NotViable
		}

		var result probe.Result
		_ = ui.WithSpinner("Probing version "+version, func() error {
			result = pr.Run(context.Background(), ctl.Store().BinaryPath(version))
			return nil
		})

		switch result.Outcome {
		case probe.Viable:
			ui.Println("%s Version %s looks viable", tui.GetCheckMark(), ui.HighlightVersion(version))
		case probe.NeedsUpgrade:
			ui.Println("%s Version %s requires an upgrade to run", tui.GetCrossMark(), ui.HighlightVersion(version))
			ui.Info("Install a newer version: cvm install <version>")
		case probe.NotViable:
			ui.Println("%s Version %s is not viable (exit code %d)", tui.GetCrossMark(), ui.HighlightVersion(version), result.ExitCode)
			if result.Err != nil {
				ui.Debug("Probe error: %v", result.Err)
			}
			if result.Output != "" {
				ui.Info("Output:")
				ui.Println("%s", tui.RenderMuted(result.Output))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
