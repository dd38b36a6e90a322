package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/lifecycle"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var (
	cleanAllFlag   bool
	cleanKeepFlag  []string
	cleanPurgeFlag bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [version]",
	Short: "Reclaim storage from installed versions",
	Long: `Remove the derived artifacts of a version while keeping the raw download,
so the version can be rebuilt without refetching. With --purge the whole
version is removed, exactly like uninstall.

With --all every installed version is cleaned except the active one and any
versions named with --keep. Per-version failures are reported together at
the end instead of stopping the sweep.

Examples:
  cvm clean 1.0.42
  cvm clean 1.0.42 --purge
  cvm clean --all --keep 1.0.42 --keep 1.0.39`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctl, settings, err := newController()
		if err != nil {
			ui.Error("%v", err)
			return
		}

		keepRaw := settings.KeepRawOnClean && !cleanPurgeFlag

		if cleanAllFlag {
			if len(args) > 0 {
				ui.Error("--all does not take a version argument")
				return
			}
			if err := ctl.CleanExcept(context.Background(), cleanKeepFlag, keepRaw); err != nil {
				ui.Error("Some versions could not be cleaned:")
				ui.Error("%v", err)
				return
			}
			ui.Success("Cleaned all versions except the keep-set")
			return
		}

		if len(args) == 0 {
			ui.Error("Specify a version or use --all")
			return
		}
		version := strings.TrimPrefix(args[0], "v")

		if err := ctl.Clean(context.Background(), version, keepRaw); err != nil {
			var activeErr *lifecycle.ActiveVersionError
			if errors.As(err, &activeErr) {
				ui.Error("Cannot clean the currently active version")
				ui.Info("Switch to another version first: cvm use <version>")
				return
			}
			var notInstalled *lifecycle.NotInstalledError
			if errors.As(err, &notInstalled) {
				ui.Error("Version %s is not installed", version)
				return
			}
			ui.Error("%v", err)
			return
		}

		if keepRaw {
			ui.Success("Cleaned %s (raw download kept)", ui.HighlightVersion(version))
		} else {
			ui.Success("Removed %s", ui.HighlightVersion(version))
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVar(&cleanAllFlag, "all", false, "Clean every version not in the keep-set")
	cleanCmd.Flags().StringArrayVar(&cleanKeepFlag, "keep", nil, "Version to keep (repeatable, active version is always kept)")
	cleanCmd.Flags().BoolVar(&cleanPurgeFlag, "purge", false, "Remove the raw download too (same as uninstall)")
}
