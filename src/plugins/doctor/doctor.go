// Package doctor probes the newly activated version after every switch and
// warns when it does not look viable.
package doctor

import (
	"context"

	"github.com/cvm-sh/cvm/src/internal/config"
	"github.com/cvm-sh/cvm/src/internal/plugin"
	"github.com/cvm-sh/cvm/src/internal/probe"
	"github.com/cvm-sh/cvm/src/internal/store"
	"github.com/cvm-sh/cvm/src/internal/ui"
)

func init() {
	plugin.Register(&Plugin{})
}

// Plugin runs a viability probe after each switch
type Plugin struct{}

// Name returns the plugin name
func (p *Plugin) Name() string { return "doctor" }

// AfterSwitch probes the new active binary. Probe outcomes are advisory:
// a bad result warns the user but never fails the switch.
func (p *Plugin) AfterSwitch(ctx context.Context, previous, next string, snap plugin.Context) error {
	settings, err := config.LoadSettings()
	if err != nil {
		ui.Debug("doctor: settings unavailable: %v", err)
		return nil
	}

	st := store.New(snap.Root, settings.Binary)
	binPath := st.BinaryPath(next)

	pr := probe.New(settings.ProbeTimeout(), settings.UpgradeMarker)
	pr.StartupDelay = settings.ProbeStartupDelay()
	if settings.ProbeOnSilence == config.OnSilenceNotViable {
		pr.OnSilence = probe.NotViable
	}

	result := pr.Run(ctx, binPath)
	switch result.Outcome {
	case probe.NeedsUpgrade:
		ui.Warning("Version %s reports it requires an upgrade to run", next)
	case probe.NotViable:
		ui.Warning("Version %s does not look viable (exit code %d)", next, result.ExitCode)
		if result.Output != "" {
			ui.Debug("doctor: probe output: %s", result.Output)
		}
	default:
		ui.Debug("doctor: version %s probed viable", next)
	}

	return nil
}
