package provider

import (
	"fmt"

	"github.com/cvm-sh/cvm/src/internal/config"
)

// FromSettings builds the provider named by the settings
func FromSettings(s config.Settings) (Provider, error) {
	switch s.Provider {
	case "registry":
		return NewRegistryProvider(s.Package, s.Binary), nil
	case "npm":
		return NewNPMProvider(s.Package, s.Binary), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (expected \"registry\" or \"npm\")", s.Provider)
	}
}
