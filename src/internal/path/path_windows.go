//go:build windows

package path

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"unsafe"

	"github.com/cvm-sh/cvm/src/internal/constants"
	"github.com/cvm-sh/cvm/src/internal/ui"
	"golang.org/x/sys/windows/registry"
)

var (
	moduser32              = syscall.NewLazyDLL("user32.dll")
	procSendMessageTimeout = moduser32.NewProc("SendMessageTimeoutW")
)

const (
	HWND_BROADCAST   = 0xffff
	WM_SETTINGCHANGE = 0x001A
	SMTO_ABORTIFHUNG = 0x0002
)

// AddToPath adds the launcher directory to the user's PATH on Windows
func AddToPath(binDir string) error {
	if IsInPath(binDir) {
		ui.Info("%s is already in your PATH", binDir)
		return nil
	}

	ui.Header("PATH Setup Required")
	ui.Info("cvm needs to add the launcher directory to your PATH")
	ui.Info("Directory: %s", ui.Highlight(binDir))
	ui.Info("This will modify your user PATH environment variable")
	fmt.Printf("\nProceed? [Y/n]: ")

	var response string
	_, _ = fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))

	if response != "" && response != constants.ResponseY && response != constants.ResponseYes {
		ui.Warning("PATH not modified. You can add it manually later by running: cvm init")
		return nil
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open registry key: %w", err)
	}
	defer func() { _ = key.Close() }()

	currentPath, _, err := key.GetStringValue("Path")
	if err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("failed to read current PATH: %w", err)
	}

	paths := strings.Split(currentPath, ";")
	for _, p := range paths {
		if strings.EqualFold(strings.TrimSpace(p), binDir) {
			ui.Info("%s is already in your registry PATH", binDir)
			return nil
		}
	}

	// Prepend for priority over any system-level install of the same tool
	newPath := binDir
	if currentPath != "" {
		newPath += ";" + currentPath
	}

	if err := key.SetStringValue("Path", newPath); err != nil {
		return fmt.Errorf("failed to update PATH in registry: %w", err)
	}

	broadcastSettingChange()

	ui.Success("Added %s to your PATH", binDir)
	ui.Warning("Please restart your terminal for the changes to take effect")

	return nil
}

// broadcastSettingChange broadcasts WM_SETTINGCHANGE to notify the system of environment changes
func broadcastSettingChange() {
	env := syscall.StringToUTF16Ptr("Environment")
	_, _, _ = procSendMessageTimeout.Call(
		uintptr(HWND_BROADCAST),
		uintptr(WM_SETTINGCHANGE),
		0,
		uintptr(unsafe.Pointer(env)),
		uintptr(SMTO_ABORTIFHUNG),
		5000, // 5 second timeout
		0,
	)
}

// DetectShell returns "powershell" or "cmd" on Windows
func DetectShell() string {
	if os.Getenv("PSModulePath") != "" {
		return "powershell"
	}
	return "cmd"
}

// GetShellConfigFile returns empty string on Windows (no shell config files)
func GetShellConfigFile(shell string) string {
	return ""
}
