package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the cvm version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cvm %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
