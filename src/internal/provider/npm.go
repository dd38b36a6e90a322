package provider

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/constants"
	"github.com/cvm-sh/cvm/src/internal/ui"
)

// NPMProvider installs through the npm CLI. Slower than the registry
// provider but runs install scripts and pulls in runtime dependencies, which
// some packages need to produce a working binary.
type NPMProvider struct {
	Package string
	Bin     string
}

// NewNPMProvider creates an npm-backed provider for the given package
func NewNPMProvider(pkg, bin string) *NPMProvider {
	return &NPMProvider{Package: pkg, Bin: bin}
}

// Name identifies this provider
func (p *NPMProvider) Name() string {
	return "npm"
}

// FetchAndInstall runs npm install with the version directory as prefix and
// returns the .bin launcher npm creates.
func (p *NPMProvider) FetchAndInstall(ctx context.Context, version, versionDir string) (string, error) {
	spec := fmt.Sprintf("%s@%s", p.Package, version)

	cmd := exec.CommandContext(ctx, npmExecutable(),
		"install",
		"--prefix", versionDir,
		"--no-fund",
		"--no-audit",
		"--loglevel", "error",
		spec,
	)
	cmd.Dir = versionDir

	ui.Debug("Running: %s", strings.Join(cmd.Args, " "))

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("npm install %s failed: %w\n%s", spec, err, strings.TrimSpace(string(out)))
	}

	binName := p.Bin
	if runtime.GOOS == constants.OSWindows {
		binName += ".cmd"
	}
	return filepath.Join(versionDir, "node_modules", ".bin", binName), nil
}

func npmExecutable() string {
	if runtime.GOOS == constants.OSWindows {
		return "npm.cmd"
	}
	return "npm"
}
