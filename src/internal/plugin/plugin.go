// Package plugin defines the lifecycle hook contract and the ordered bus
// that dispatches hooks around every lifecycle transition.
//
// Plugins register once per process, in a fixed order, typically from their
// package init functions via blank imports in main. A plugin implements any
// subset of the optional hook interfaces; the bus asserts for each one at
// dispatch time.
package plugin

import "context"

// Plugin is the base interface every plugin must implement
type Plugin interface {
	// Name returns the unique plugin name
	Name() string
}

// Context is a read-only snapshot of manager state handed to every hook.
// It is rebuilt fresh for each hook dispatch so that state mutated by a
// before hook is visible to after hooks in the same transaction.
type Context struct {
	Root      string   // cvm root directory
	Active    string   // active version, empty if none
	Installed []string // installed versions in ascending order
}

// Loader receives a hook when the plugin is registered
type Loader interface {
	OnLoad(ctx Context)
}

// BeforeInstaller runs before a version is materialized
type BeforeInstaller interface {
	BeforeInstall(ctx context.Context, version string, snap Context) error
}

// AfterInstaller runs after a version has been materialized
type AfterInstaller interface {
	AfterInstall(ctx context.Context, version string, snap Context) error
}

// BeforeSwitcher runs before the active pointer moves
type BeforeSwitcher interface {
	BeforeSwitch(ctx context.Context, previous, next string, snap Context) error
}

// AfterSwitcher runs after the active pointer has moved
type AfterSwitcher interface {
	AfterSwitch(ctx context.Context, previous, next string, snap Context) error
}

// BeforeUninstaller runs before a version directory is removed
type BeforeUninstaller interface {
	BeforeUninstall(ctx context.Context, version string, snap Context) error
}

// AfterUninstaller runs after a version directory has been removed
type AfterUninstaller interface {
	AfterUninstall(ctx context.Context, version string, snap Context) error
}

// Command is a custom subcommand a plugin contributes to the CLI
type Command struct {
	Name  string
	Short string
	Run   func(args []string, snap Context) error
}

// Commander declares custom subcommands for the surrounding CLI to route
type Commander interface {
	Commands() []Command
}
