package plugin

import (
	"context"
	"fmt"
)

// SnapshotFunc produces a fresh state snapshot for a hook dispatch
type SnapshotFunc func() Context

// Bus maintains the ordered plugin registry and dispatches hooks
// sequentially in registration order. A hook error aborts the remaining
// chain and propagates to the enclosing transaction: plugins are trusted
// extensions, not sandboxed.
type Bus struct {
	plugins  []Plugin
	snapshot SnapshotFunc
	loaded   bool
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{}
}

// Bind attaches the snapshot source and delivers OnLoad to plugins
// registered before the bus was bound. Registration usually happens in
// package init, before any store exists to snapshot.
func (b *Bus) Bind(snapshot SnapshotFunc) {
	b.snapshot = snapshot
	if b.loaded {
		return
	}
	b.loaded = true
	for _, p := range b.plugins {
		if l, ok := p.(Loader); ok {
			l.OnLoad(b.snap())
		}
	}
}

// Register appends a plugin to the bus. When the bus is already bound the
// plugin's OnLoad hook fires immediately.
func (b *Bus) Register(p Plugin) {
	b.plugins = append(b.plugins, p)
	if b.loaded {
		if l, ok := p.(Loader); ok {
			l.OnLoad(b.snap())
		}
	}
}

// Plugins returns the registered plugins in registration order
func (b *Bus) Plugins() []Plugin {
	return b.plugins
}

func (b *Bus) snap() Context {
	if b.snapshot == nil {
		return Context{}
	}
	return b.snapshot()
}

// BeforeInstall dispatches the beforeInstall hook
func (b *Bus) BeforeInstall(ctx context.Context, version string) error {
	snap := b.snap()
	for _, p := range b.plugins {
		if h, ok := p.(BeforeInstaller); ok {
			if err := h.BeforeInstall(ctx, version, snap); err != nil {
				return fmt.Errorf("plugin %s: beforeInstall: %w", p.Name(), err)
			}
		}
	}
	return nil
}

// AfterInstall dispatches the afterInstall hook
func (b *Bus) AfterInstall(ctx context.Context, version string) error {
	snap := b.snap()
	for _, p := range b.plugins {
		if h, ok := p.(AfterInstaller); ok {
			if err := h.AfterInstall(ctx, version, snap); err != nil {
				return fmt.Errorf("plugin %s: afterInstall: %w", p.Name(), err)
			}
		}
	}
	return nil
}

// BeforeSwitch dispatches the beforeSwitch hook
func (b *Bus) BeforeSwitch(ctx context.Context, previous, next string) error {
	snap := b.snap()
	for _, p := range b.plugins {
		if h, ok := p.(BeforeSwitcher); ok {
			if err := h.BeforeSwitch(ctx, previous, next, snap); err != nil {
				return fmt.Errorf("plugin %s: beforeSwitch: %w", p.Name(), err)
			}
		}
	}
	return nil
}

// AfterSwitch dispatches the afterSwitch hook
func (b *Bus) AfterSwitch(ctx context.Context, previous, next string) error {
	snap := b.snap()
	for _, p := range b.plugins {
		if h, ok := p.(AfterSwitcher); ok {
			if err := h.AfterSwitch(ctx, previous, next, snap); err != nil {
				return fmt.Errorf("plugin %s: afterSwitch: %w", p.Name(), err)
			}
		}
	}
	return nil
}

// BeforeUninstall dispatches the beforeUninstall hook
func (b *Bus) BeforeUninstall(ctx context.Context, version string) error {
	snap := b.snap()
	for _, p := range b.plugins {
		if h, ok := p.(BeforeUninstaller); ok {
			if err := h.BeforeUninstall(ctx, version, snap); err != nil {
				return fmt.Errorf("plugin %s: beforeUninstall: %w", p.Name(), err)
			}
		}
	}
	return nil
}

// AfterUninstall dispatches the afterUninstall hook
func (b *Bus) AfterUninstall(ctx context.Context, version string) error {
	snap := b.snap()
	for _, p := range b.plugins {
		if h, ok := p.(AfterUninstaller); ok {
			if err := h.AfterUninstall(ctx, version, snap); err != nil {
				return fmt.Errorf("plugin %s: afterUninstall: %w", p.Name(), err)
			}
		}
	}
	return nil
}

// defaultBus is the process-wide bus plugins register into from init
var defaultBus = NewBus()

// Default returns the process-wide bus
func Default() *Bus {
	return defaultBus
}

// Register adds a plugin to the process-wide bus
func Register(p Plugin) {
	defaultBus.Register(p)
}
