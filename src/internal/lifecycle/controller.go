// Package lifecycle implements the version lifecycle state machine: install,
// use, uninstall and clean as transactions over the store, each wrapped by
// plugin hooks and guarded by the active-version protection invariant.
//
// There is no cross-process locking: two concurrent invocations mutate the
// same on-disk pointers and last switch wins. A use racing an uninstall of
// the same version can leave a dangling active pointer, which the next use
// repairs.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/cvm-sh/cvm/src/internal/plugin"
	"github.com/cvm-sh/cvm/src/internal/provider"
	"github.com/cvm-sh/cvm/src/internal/store"
	"github.com/cvm-sh/cvm/src/internal/ui"
)

// Controller orchestrates lifecycle transactions over a store, a provider
// and a plugin bus.
type Controller struct {
	store    *store.Store
	provider provider.Provider
	bus      *plugin.Bus
}

// New creates a controller and binds the bus snapshot to the store
func New(st *store.Store, pv provider.Provider, bus *plugin.Bus) *Controller {
	c := &Controller{store: st, provider: pv, bus: bus}
	bus.Bind(c.snapshot)
	return c
}

// Store exposes the underlying store for read-only queries
func (c *Controller) Store() *store.Store {
	return c.store
}

// snapshot builds a fresh read-only state snapshot for hook dispatch
func (c *Controller) snapshot() plugin.Context {
	active, _ := c.store.ActiveVersion()
	installed, _ := c.store.ListInstalled()
	return plugin.Context{
		Root:      c.store.Root(),
		Active:    active,
		Installed: installed,
	}
}

// Install materializes the given version. Installing an already-installed
// version is a no-op success: no hooks fire and the provider is not called.
// Any failure after the version directory is created rolls the directory
// back completely before the error surfaces.
func (c *Controller) Install(ctx context.Context, id string) error {
	if err := store.ValidateID(id); err != nil {
		return err
	}
	if err := c.store.EnsureLayout(); err != nil {
		return err
	}

	if c.store.IsInstalled(id) {
		ui.Debug("Version %s already installed, nothing to do", id)
		return nil
	}

	if err := c.bus.BeforeInstall(ctx, id); err != nil {
		return err
	}

	versionDir := c.store.VersionPath(id)

	// Stage the raw directory before fetching so a crash mid-fetch leaves an
	// identifiable partial directory.
	if err := os.MkdirAll(c.store.RawPath(id), 0755); err != nil {
		c.rollback(id)
		return &InstallError{Version: id, Err: err}
	}

	binPath, err := c.provider.FetchAndInstall(ctx, id, versionDir)
	if err != nil {
		c.rollback(id)
		return &InstallError{Version: id, Err: err}
	}

	if err := c.linkStableBinary(id, binPath); err != nil {
		c.rollback(id)
		return &InstallError{Version: id, Err: err}
	}

	return c.bus.AfterInstall(ctx, id)
}

// rollback removes a partially materialized version directory. Install must
// never leave a half-installed version on disk.
func (c *Controller) rollback(id string) {
	if err := os.RemoveAll(c.store.VersionPath(id)); err != nil {
		ui.Warning("Failed to clean up partial install of %s: %v", id, err)
	}
}

// linkStableBinary records the provider's binary at the store's deterministic
// location (<version>/bin/<name>) so switching never depends on provider
// layout.
func (c *Controller) linkStableBinary(id, binPath string) error {
	if _, err := os.Stat(binPath); err != nil {
		return fmt.Errorf("provider returned missing binary %s: %w", binPath, err)
	}

	stable := c.store.BinaryPath(id)
	if err := os.MkdirAll(filepath.Dir(stable), 0755); err != nil {
		return err
	}

	rel, err := filepath.Rel(filepath.Dir(stable), binPath)
	if err != nil {
		// Fall back to an absolute target when the binary sits on another root
		rel = binPath
	}

	_ = os.Remove(stable)
	return os.Symlink(rel, stable)
}

// Use switches the active pointer to the given installed version.
// launcherLinked is false when the version directory holds no runnable
// binary; the switch still succeeds and the caller surfaces a warning.
func (c *Controller) Use(ctx context.Context, id string) (launcherLinked bool, err error) {
	if err := store.ValidateID(id); err != nil {
		return false, err
	}
	if !c.store.IsInstalled(id) {
		return false, &NotInstalledError{Version: id}
	}

	// May be the stale basename of a dangling pointer; the repoint below
	// repairs it either way.
	previous, err := c.store.ActiveVersion()
	if err != nil {
		return false, err
	}

	if err := c.bus.BeforeSwitch(ctx, previous, id); err != nil {
		return false, err
	}

	launcherLinked, err = c.store.RepointActive(id)
	if err != nil {
		return false, err
	}

	if err := c.bus.AfterSwitch(ctx, previous, id); err != nil {
		return launcherLinked, err
	}

	return launcherLinked, nil
}

// Uninstall removes an installed version. The currently active version is
// protected: callers must switch away first.
func (c *Controller) Uninstall(ctx context.Context, id string) error {
	if err := store.ValidateID(id); err != nil {
		return err
	}
	if !c.store.IsInstalled(id) {
		return &NotInstalledError{Version: id}
	}
	if err := c.guardActive(id); err != nil {
		return err
	}

	if err := c.bus.BeforeUninstall(ctx, id); err != nil {
		return err
	}

	if err := c.store.RemoveVersion(id); err != nil {
		return err
	}

	return c.bus.AfterUninstall(ctx, id)
}

// Clean reclaims storage for a version. With keepRaw the derived artifacts
// are removed but the raw download stays and the version remains installed
// in a degraded state; without keepRaw it behaves exactly like Uninstall.
// The active version is protected either way.
func (c *Controller) Clean(ctx context.Context, id string, keepRaw bool) error {
	if !keepRaw {
		return c.Uninstall(ctx, id)
	}

	if err := store.ValidateID(id); err != nil {
		return err
	}
	if !c.store.IsInstalled(id) {
		return &NotInstalledError{Version: id}
	}
	if err := c.guardActive(id); err != nil {
		return err
	}

	return c.store.RemoveDerived(id)
}

// CleanExcept cleans every installed version not in keep. The active version
// is always added to the keep-set. Per-version failures are collected and
// reported together instead of aborting the sweep.
func (c *Controller) CleanExcept(ctx context.Context, keep []string, keepRaw bool) error {
	installed, err := c.store.ListInstalled()
	if err != nil {
		return err
	}

	keepSet := make(map[string]bool, len(keep)+1)
	for _, id := range keep {
		keepSet[id] = true
	}
	if active, err := c.store.ActiveVersion(); err == nil && active != "" {
		keepSet[active] = true
	}

	var result *multierror.Error
	for _, id := range installed {
		if keepSet[id] {
			continue
		}
		if err := c.Clean(ctx, id, keepRaw); err != nil {
			result = multierror.Append(result, fmt.Errorf("clean %s: %w", id, err))
		}
	}

	return result.ErrorOrNil()
}

// guardActive enforces the central safety invariant: the version the active
// pointer records is never removable, even when the pointer is dangling.
func (c *Controller) guardActive(id string) error {
	active, err := c.store.ActiveVersion()
	if err != nil {
		return err
	}
	if active != "" && active == id {
		return &ActiveVersionError{Version: id}
	}
	return nil
}
