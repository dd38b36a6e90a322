package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func setTestRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("CVM_ROOT", root)
	ResetPathsCache()
	t.Cleanup(ResetPathsCache)
	return root
}

func TestDefaultPaths(t *testing.T) {
	root := setTestRoot(t)

	paths := DefaultPaths()
	if paths == nil {
		t.Fatal("DefaultPaths() returned nil")
	}

	if paths.Root != root {
		t.Errorf("Root = %q, want %q", paths.Root, root)
	}

	subdirs := map[string]string{
		"Versions": paths.Versions,
		"Bin":      paths.Bin,
		"Config":   paths.Config,
		"Cache":    paths.Cache,
	}
	for name, dir := range subdirs {
		if dir == "" {
			t.Errorf("%s path is empty", name)
		}
		if !strings.HasPrefix(dir, root) {
			t.Errorf("%s path %q should be under root %q", name, dir, root)
		}
	}
}

func TestVersionPath(t *testing.T) {
	root := setTestRoot(t)

	got := VersionPath("1.0.42")
	want := filepath.Join(root, "versions", "1.0.42")
	if got != want {
		t.Errorf("VersionPath(\"1.0.42\") = %q, want %q", got, want)
	}
}

func TestActiveLinkPath(t *testing.T) {
	root := setTestRoot(t)

	got := ActiveLinkPath()
	want := filepath.Join(root, "active")
	if got != want {
		t.Errorf("ActiveLinkPath() = %q, want %q", got, want)
	}
}

func TestLauncherPath(t *testing.T) {
	root := setTestRoot(t)

	got := LauncherPath("claude")
	if !strings.HasPrefix(got, filepath.Join(root, "bin")) {
		t.Errorf("LauncherPath(\"claude\") = %q, should be under %q", got, filepath.Join(root, "bin"))
	}
	if !strings.Contains(got, "claude") {
		t.Errorf("LauncherPath(\"claude\") = %q, should contain binary name", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	setTestRoot(t)

	if err := EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error: %v", err)
	}

	// Second call must be a no-op success
	if err := EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() second call error: %v", err)
	}
}
