// Package config manages cvm configuration including paths and settings
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/cvm-sh/cvm/src/internal/constants"
)

// Paths holds all important cvm directory paths
type Paths struct {
	Root     string // Root cvm directory (~/.cvm)
	Versions string // Versions directory (~/.cvm/versions)
	Bin      string // Launcher directory (~/.cvm/bin)
	Config   string // Config directory (~/.cvm/config)
	Cache    string // Cache directory (~/.cvm/cache)
}

var (
	defaultPaths *Paths
	pathsOnce    sync.Once
)

// DefaultPaths returns the default cvm paths.
// This function is thread-safe and guarantees single initialization.
func DefaultPaths() *Paths {
	pathsOnce.Do(func() {
		defaultPaths = initPaths()
	})
	return defaultPaths
}

// initPaths initializes the default paths
func initPaths() *Paths {
	root := getRootDir()
	return &Paths{
		Root:     root,
		Versions: filepath.Join(root, "versions"),
		Bin:      filepath.Join(root, "bin"),
		Config:   filepath.Join(root, "config"),
		Cache:    filepath.Join(root, "cache"),
	}
}

// getRootDir returns the root cvm directory
func getRootDir() string {
	// Check for CVM_ROOT environment variable first
	if root := os.Getenv("CVM_ROOT"); root != "" {
		return root
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return ".cvm"
	}

	return filepath.Join(home, ".cvm")
}

// VersionPath returns the directory for a specific installed version
func VersionPath(version string) string {
	paths := DefaultPaths()
	return filepath.Join(paths.Versions, version)
}

// ActiveLinkPath returns the path of the active-version pointer
func ActiveLinkPath() string {
	paths := DefaultPaths()
	return filepath.Join(paths.Root, "active")
}

// LauncherPath returns the path of the launcher pointer for the given binary name
func LauncherPath(binName string) string {
	paths := DefaultPaths()
	if runtime.GOOS == constants.OSWindows {
		binName = binName + constants.ExtExe
	}
	return filepath.Join(paths.Bin, binName)
}

// SettingsPath returns the path to the settings file
func SettingsPath() string {
	paths := DefaultPaths()
	return filepath.Join(paths.Config, SettingsFileName)
}

// HistoryPath returns the path to the lifecycle history log
func HistoryPath() string {
	paths := DefaultPaths()
	return filepath.Join(paths.Cache, HistoryFileName)
}

// EnsureDirectories creates all necessary cvm directories
func EnsureDirectories() error {
	paths := DefaultPaths()
	dirs := []string{
		paths.Root,
		paths.Versions,
		paths.Bin,
		paths.Config,
		paths.Cache,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// SettingsFileName is the name of the settings file under the config directory
const SettingsFileName = "settings.json"

// HistoryFileName is the name of the lifecycle history log under the cache directory
const HistoryFileName = "history.jsonl"

// ResetPathsCache resets the cached paths, forcing reinitialization on next access.
// This is primarily useful for testing.
func ResetPathsCache() {
	pathsOnce = sync.Once{}
	defaultPaths = nil
}
