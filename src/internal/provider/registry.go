package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/download"
	"github.com/cvm-sh/cvm/src/internal/ui"
)

// DefaultRegistryURL is the npm registry used when none is configured
const DefaultRegistryURL = "https://registry.npmjs.org"

// packageDirName is where the extracted package lands inside a version dir
const packageDirName = "package"

// RegistryProvider fetches package tarballs straight from the npm registry
// and extracts them, without shelling out to npm. The downloaded tarball
// stays in the raw staging directory so clean can keep it.
type RegistryProvider struct {
	BaseURL string
	Package string // package spec, possibly scoped ("@scope/name")
	Bin     string // bin entry to resolve from package.json
}

// NewRegistryProvider creates a registry provider for the given package
func NewRegistryProvider(pkg, bin string) *RegistryProvider {
	return &RegistryProvider{
		BaseURL: DefaultRegistryURL,
		Package: pkg,
		Bin:     bin,
	}
}

// Name identifies this provider
func (p *RegistryProvider) Name() string {
	return "registry"
}

// FetchAndInstall downloads the version tarball into raw/, extracts it into
// package/, and resolves the package's bin entry.
func (p *RegistryProvider) FetchAndInstall(ctx context.Context, version, versionDir string) (string, error) {
	base := unscopedName(p.Package)
	tarballURL := fmt.Sprintf("%s/%s/-/%s-%s.tgz", p.BaseURL, p.Package, base, version)
	tarballPath := filepath.Join(versionDir, "raw", fmt.Sprintf("%s-%s.tgz", base, version))

	if err := download.File(ctx, tarballURL, tarballPath); err != nil {
		return "", err
	}

	packageDir := filepath.Join(versionDir, packageDirName)
	if err := download.ExtractTarGz(tarballPath, packageDir); err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", tarballPath, err)
	}

	// Registry tarballs wrap their contents in a package/ directory
	if err := download.StripTopLevelDir(packageDir); err != nil {
		return "", err
	}

	binPath, err := resolveBinEntry(packageDir, p.Bin)
	if err != nil {
		return "", err
	}

	if err := os.Chmod(binPath, 0755); err != nil {
		return "", fmt.Errorf("failed to mark %s executable: %w", binPath, err)
	}

	ui.Debug("Resolved binary: %s", binPath)
	return binPath, nil
}

// resolveBinEntry reads package.json and resolves the bin entry for binName.
// The bin field is either a single string or a name-to-path map.
func resolveBinEntry(packageDir, binName string) (string, error) {
	manifestPath := filepath.Join(packageDir, "package.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", fmt.Errorf("package manifest missing: %w", err)
	}

	var manifest struct {
		Name string          `json:"name"`
		Bin  json.RawMessage `json:"bin"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}

	if len(manifest.Bin) == 0 {
		return "", fmt.Errorf("package %s declares no bin entries", manifest.Name)
	}

	var single string
	if err := json.Unmarshal(manifest.Bin, &single); err == nil {
		return filepath.Join(packageDir, filepath.FromSlash(single)), nil
	}

	var multi map[string]string
	if err := json.Unmarshal(manifest.Bin, &multi); err != nil {
		return "", fmt.Errorf("unrecognized bin field in %s", manifestPath)
	}

	rel, ok := multi[binName]
	if !ok {
		return "", fmt.Errorf("package %s has no bin entry named %q", manifest.Name, binName)
	}
	return filepath.Join(packageDir, filepath.FromSlash(rel)), nil
}

// unscopedName strips the scope from a package spec ("@scope/name" -> "name")
func unscopedName(pkg string) string {
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		return pkg[i+1:]
	}
	return pkg
}
