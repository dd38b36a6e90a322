package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsDefaults(t *testing.T) {
	setTestRoot(t)

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}

	if s.Package != DefaultPackage {
		t.Errorf("Package = %q, want %q", s.Package, DefaultPackage)
	}
	if s.Binary != DefaultBinary {
		t.Errorf("Binary = %q, want %q", s.Binary, DefaultBinary)
	}
	if s.Provider != DefaultProvider {
		t.Errorf("Provider = %q, want %q", s.Provider, DefaultProvider)
	}
	if !s.KeepRawOnClean {
		t.Error("KeepRawOnClean should default to true")
	}
	if s.ProbeOnSilence != OnSilenceViable {
		t.Errorf("ProbeOnSilence = %q, want %q", s.ProbeOnSilence, OnSilenceViable)
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	root := setTestRoot(t)

	configDir := filepath.Join(root, "config")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `{"package": "some-tool", "probeTimeoutSeconds": 9}`
	if err := os.WriteFile(filepath.Join(configDir, SettingsFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}

	if s.Package != "some-tool" {
		t.Errorf("Package = %q, want %q", s.Package, "some-tool")
	}
	if s.ProbeTimeoutSeconds != 9 {
		t.Errorf("ProbeTimeoutSeconds = %d, want 9", s.ProbeTimeoutSeconds)
	}
	// Unset fields fall back to defaults
	if s.Binary != DefaultBinary {
		t.Errorf("Binary = %q, want default %q", s.Binary, DefaultBinary)
	}
	if s.UpgradeMarker != DefaultUpgradeMarker {
		t.Errorf("UpgradeMarker = %q, want default %q", s.UpgradeMarker, DefaultUpgradeMarker)
	}
}

func TestLoadSettingsEnvOverrides(t *testing.T) {
	setTestRoot(t)
	t.Setenv("CVM_PACKAGE", "override-pkg")
	t.Setenv("CVM_BIN", "override-bin")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}

	if s.Package != "override-pkg" {
		t.Errorf("Package = %q, want env override", s.Package)
	}
	if s.Binary != "override-bin" {
		t.Errorf("Binary = %q, want env override", s.Binary)
	}
}

func TestSaveAndLoadSettings(t *testing.T) {
	setTestRoot(t)

	s := DefaultSettings()
	s.Provider = "npm"
	s.KeepRawOnClean = false
	s.UpgradeMarker = "custom marker"

	if err := SaveSettings(s); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}

	loaded, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}

	if loaded.Provider != "npm" {
		t.Errorf("Provider = %q, want %q", loaded.Provider, "npm")
	}
	if loaded.UpgradeMarker != "custom marker" {
		t.Errorf("UpgradeMarker = %q, want %q", loaded.UpgradeMarker, "custom marker")
	}
}
