//go:build !windows

package path

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/constants"
	"github.com/cvm-sh/cvm/src/internal/ui"
)

// DetectShell returns the user's shell name (bash, zsh, fish, etc.)
func DetectShell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return "unknown"
	}

	return filepath.Base(shell)
}

// GetShellConfigFile returns the config file path for the given shell
func GetShellConfigFile(shell string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch shell {
	case "bash":
		// Prefer .bashrc if it exists, otherwise .bash_profile
		bashrc := filepath.Join(home, ".bashrc")
		if _, err := os.Stat(bashrc); err == nil {
			return bashrc
		}
		return filepath.Join(home, ".bash_profile")

	case "zsh":
		return filepath.Join(home, ".zshrc")

	case constants.ShellFish:
		return filepath.Join(home, ".config", "fish", "config.fish")

	default:
		return filepath.Join(home, ".profile")
	}
}

// AddToPath adds the launcher directory to the user's PATH by modifying
// their shell config.
func AddToPath(binDir string) error {
	shell := DetectShell()
	if shell == "unknown" {
		return fmt.Errorf("could not detect shell - please add %s to your PATH manually", binDir)
	}

	configFile := GetShellConfigFile(shell)
	if configFile == "" {
		return fmt.Errorf("could not determine config file for shell %s", shell)
	}

	if IsInPath(binDir) {
		ui.Info("%s is already in your PATH", binDir)
		return nil
	}

	if containsPathModification(configFile, binDir) {
		ui.Warning("PATH modification already exists in %s, but not active in current shell", configFile)
		ui.Info("Please restart your terminal or run: source %s", configFile)
		return nil
	}

	exportLine := ""
	if shell == constants.ShellFish {
		exportLine = fmt.Sprintf("\n# Added by cvm\nset -gx PATH \"%s\" $PATH\n", binDir)
	} else {
		exportLine = fmt.Sprintf("\n# Added by cvm\nexport PATH=\"%s:$PATH\"\n", binDir)
	}

	ui.Header("PATH Setup Required")
	ui.Info("cvm needs to add the launcher directory to your PATH")
	ui.Info("Shell: %s", ui.Highlight(shell))
	ui.Info("Config file: %s", ui.Highlight(configFile))
	ui.Info("Will append: %s", ui.Highlight(strings.TrimSpace(exportLine)))
	fmt.Printf("\nProceed? [Y/n]: ")

	var response string
	_, _ = fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))

	if response != "" && response != constants.ResponseY && response != constants.ResponseYes {
		ui.Warning("PATH not modified. Please add this manually to your %s:", configFile)
		ui.Info("%s", strings.TrimSpace(exportLine))
		return nil
	}

	if shell == constants.ShellFish {
		configDir := filepath.Dir(configFile)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	f, err := os.OpenFile(configFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(exportLine); err != nil {
		return fmt.Errorf("failed to write to config file: %w", err)
	}

	ui.Success("Added %s to PATH in %s", binDir, configFile)
	ui.Warning("Please restart your terminal or run: source %s", configFile)

	return nil
}

// containsPathModification checks if the config file already has the cvm PATH entry
func containsPathModification(configFile, binDir string) bool {
	f, err := os.Open(configFile)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, binDir) && (strings.Contains(line, "PATH") || strings.Contains(line, "path")) {
			return true
		}
	}

	return false
}
