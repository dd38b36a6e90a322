// Package provider fetches and materializes runnable artifacts for a version.
//
// A provider is handed the version directory (already containing the raw
// staging subdirectory) and must leave a runnable binary somewhere inside it,
// returning that binary's path. Provider failures are wrapped by the
// lifecycle layer; providers just return plain errors.
package provider

import "context"

// Provider materializes a runnable artifact for a version
type Provider interface {
	// Name identifies the provider in logs and settings
	Name() string

	// FetchAndInstall fetches the artifact for the given version into
	// versionDir and returns the path of the runnable binary inside it.
	FetchAndInstall(ctx context.Context, version, versionDir string) (binPath string, err error)
}
