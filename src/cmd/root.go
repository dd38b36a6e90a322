// Package cmd implements the CLI commands for cvm
package cmd

import (
	"fmt"
	"os"

	"github.com/cvm-sh/cvm/src/internal/tui"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "cvm",
	Short: "CLI Version Manager",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetVerbose(verbose)
	},
}

func Execute() {
	// Check for --version or -v flag before Cobra parses
	if versionFlagRequested(os.Args[1:]) {
		versionCmd.Run(versionCmd, []string{})
		return
	}

	registerPluginCommands()

	if err := rootCmd.Execute(); err != nil {
		// Error already printed by Cobra, just exit with error code
		os.Exit(1)
	}
}

func init() {
	// Hide the completion command until we implement it
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	// Add global verbose flag
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output for debugging")

	// Set custom usage and help functions with TUI table for commands
	rootCmd.SetUsageFunc(customUsage)
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		_ = customUsage(cmd)
	})
}

// versionFlagRequested reports whether the arguments ask for cvm's own
// version. Scanning stops at "--" so flags meant for an exec'd tool pass
// through untouched.
func versionFlagRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

func customUsage(cmd *cobra.Command) error {
	const tableWidth = 95 // Consistent width for all tables

	// Print header box with title and description
	headerTable := tui.NewTable("")
	headerTable.SetTitle(cmd.Short)
	headerTable.HideHeader()
	headerTable.SetMinWidth(tableWidth)
	headerTable.AddRow("cvm installs multiple versions of a registry-distributed CLI side-by-side,")
	headerTable.AddRow("switches between them with a single symlink, and keeps your system install untouched.")

	fmt.Println(headerTable.Render())
	fmt.Println()

	// Build commands table
	table := tui.NewTable("Command", "Description")
	table.SetTitle("Available Commands")
	table.SetMinWidth(tableWidth)

	for _, c := range cmd.Commands() {
		// Skip hidden commands and completion
		if c.Hidden || c.Name() == "completion" {
			continue
		}
		table.AddRow(c.Name(), c.Short)
	}

	fmt.Println(table.Render())

	return nil
}
