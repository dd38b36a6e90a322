package cmd

import (
	"github.com/cvm-sh/cvm/src/internal/plugin"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/spf13/cobra"
)

// registerPluginCommands routes custom subcommands declared by plugins into
// the root command. The snapshot handed to a plugin command is built the
// same way as for hooks: fresh, through a controller.
func registerPluginCommands() {
	for _, p := range plugin.Default().Plugins() {
		commander, ok := p.(plugin.Commander)
		if !ok {
			continue
		}

		for _, pc := range commander.Commands() {
			pc := pc
			rootCmd.AddCommand(&cobra.Command{
				Use:   pc.Name,
				Short: pc.Short,
				Run: func(cmd *cobra.Command, args []string) {
					ctl, _, err := newController()
					if err != nil {
						ui.Error("%v", err)
						return
					}

					snap := plugin.Context{Root: ctl.Store().Root()}
					if active, err := ctl.Store().ActiveVersion(); err == nil {
						snap.Active = active
					}
					if installed, err := ctl.Store().ListInstalled(); err == nil {
						snap.Installed = installed
					}

					if err := pc.Run(args, snap); err != nil {
						ui.Error("%v", err)
					}
				},
			})
		}
	}
}
