// Package constants holds platform and prompt constants shared across cvm
package constants

// Operating system identifiers as reported by runtime.GOOS
const (
	OSWindows = "windows"
	OSDarwin  = "darwin"
	OSLinux   = "linux"
)

// ExtExe is the executable extension on Windows
const ExtExe = ".exe"

// Affirmative prompt responses
const (
	ResponseY   = "y"
	ResponseYes = "yes"
)

// ShellFish is the fish shell name, which needs different PATH syntax
const ShellFish = "fish"
