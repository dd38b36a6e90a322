package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Default values used when no settings file exists
const (
	DefaultPackage  = "@anthropic-ai/claude-code"
	DefaultBinary   = "claude"
	DefaultProvider = "registry"

	// DefaultUpgradeMarker is the output substring that signals an installed
	// version can no longer talk to the backing service without an upgrade.
	DefaultUpgradeMarker = "update required"

	DefaultProbeTimeoutSeconds = 5
	DefaultProbeStartupDelayMs = 300
)

// Probe on-silence policies
const (
	OnSilenceViable    = "viable"
	OnSilenceNotViable = "not-viable"
)

// Settings holds user-tunable cvm behavior, persisted as JSON under the
// config directory. Missing fields fall back to defaults on load.
type Settings struct {
	Package             string `json:"package"`             // npm package spec (may be scoped)
	Binary              string `json:"binary"`              // launcher binary name
	Provider            string `json:"provider"`            // "registry" or "npm"
	KeepRawOnClean      bool   `json:"keepRawOnClean"`      // clean keeps the raw download
	UpgradeMarker       string `json:"upgradeMarker"`       // viability probe marker substring
	ProbeTimeoutSeconds int    `json:"probeTimeoutSeconds"` // viability probe timeout
	ProbeStartupDelayMs int    `json:"probeStartupDelayMs"` // delay before the probe writes stdin
	ProbeOnSilence      string `json:"probeOnSilence"`      // "viable" or "not-viable"
}

// DefaultSettings returns settings with all defaults applied
func DefaultSettings() Settings {
	return Settings{
		Package:             DefaultPackage,
		Binary:              DefaultBinary,
		Provider:            DefaultProvider,
		KeepRawOnClean:      true,
		UpgradeMarker:       DefaultUpgradeMarker,
		ProbeTimeoutSeconds: DefaultProbeTimeoutSeconds,
		ProbeStartupDelayMs: DefaultProbeStartupDelayMs,
		ProbeOnSilence:      OnSilenceViable,
	}
}

// LoadSettings reads the settings file, applies defaults for missing fields,
// and applies CVM_PACKAGE / CVM_BIN environment overrides.
// A missing settings file is not an error.
func LoadSettings() (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(SettingsPath())
	if err == nil {
		if err := json.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("failed to parse %s: %w", SettingsPath(), err)
		}
		applySettingsDefaults(&s)
	} else if !os.IsNotExist(err) {
		return s, fmt.Errorf("failed to read %s: %w", SettingsPath(), err)
	}

	if pkg := os.Getenv("CVM_PACKAGE"); pkg != "" {
		s.Package = pkg
	}
	if bin := os.Getenv("CVM_BIN"); bin != "" {
		s.Binary = bin
	}

	return s, nil
}

// SaveSettings writes the settings file, creating the config directory if needed
func SaveSettings(s Settings) error {
	if err := EnsureDirectories(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(SettingsPath(), append(data, '\n'), 0644)
}

// applySettingsDefaults fills zero-valued fields after a partial settings file
func applySettingsDefaults(s *Settings) {
	d := DefaultSettings()
	if s.Package == "" {
		s.Package = d.Package
	}
	if s.Binary == "" {
		s.Binary = d.Binary
	}
	if s.Provider == "" {
		s.Provider = d.Provider
	}
	if s.UpgradeMarker == "" {
		s.UpgradeMarker = d.UpgradeMarker
	}
	if s.ProbeTimeoutSeconds <= 0 {
		s.ProbeTimeoutSeconds = d.ProbeTimeoutSeconds
	}
	if s.ProbeStartupDelayMs <= 0 {
		s.ProbeStartupDelayMs = d.ProbeStartupDelayMs
	}
	if s.ProbeOnSilence == "" {
		s.ProbeOnSilence = d.ProbeOnSilence
	}
}

// ProbeTimeout returns the probe timeout as a duration
func (s Settings) ProbeTimeout() time.Duration {
	return time.Duration(s.ProbeTimeoutSeconds) * time.Second
}

// ProbeStartupDelay returns the probe startup delay as a duration
func (s Settings) ProbeStartupDelay() time.Duration {
	return time.Duration(s.ProbeStartupDelayMs) * time.Millisecond
}
