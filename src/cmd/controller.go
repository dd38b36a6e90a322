package cmd

import (
	"github.com/cvm-sh/cvm/src/internal/config"
	"github.com/cvm-sh/cvm/src/internal/lifecycle"
	"github.com/cvm-sh/cvm/src/internal/plugin"
	"github.com/cvm-sh/cvm/src/internal/provider"
	"github.com/cvm-sh/cvm/src/internal/store"
)

// newController wires a lifecycle controller from the current settings.
// Every mutating command goes through this path so plugins and settings are
// applied uniformly.
func newController() (*lifecycle.Controller, config.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, settings, err
	}

	pv, err := provider.FromSettings(settings)
	if err != nil {
		return nil, settings, err
	}

	st := store.New(config.DefaultPaths().Root, settings.Binary)
	ctl := lifecycle.New(st, pv, plugin.Default())
	return ctl, settings, nil
}
