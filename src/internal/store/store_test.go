package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir(), "tool")
	if err := s.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout() error: %v", err)
	}
	return s
}

// installVersion fakes an installed version with a runnable binary
func installVersion(t *testing.T, s *Store, id string) {
	t.Helper()
	binDir := filepath.Dir(s.BinaryPath(id))
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(s.RawPath(id), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.BinaryPath(id), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "plain version", id: "1.0.42", wantErr: false},
		{name: "prerelease", id: "1.0.0-rc.1", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "dot", id: ".", wantErr: true},
		{name: "dotdot", id: "..", wantErr: true},
		{name: "slash", id: "a/b", wantErr: true},
		{name: "backslash", id: `a\b`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestIsInstalled(t *testing.T) {
	s := newTestStore(t)

	if s.IsInstalled("1.0.0") {
		t.Error("IsInstalled should be false before install")
	}

	installVersion(t, s, "1.0.0")

	if !s.IsInstalled("1.0.0") {
		t.Error("IsInstalled should be true after install")
	}
}

func TestListInstalledOrdering(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"2.0.9", "2.0.42", "2.0.10"} {
		installVersion(t, s, id)
	}

	got, err := s.ListInstalled()
	if err != nil {
		t.Fatalf("ListInstalled() error: %v", err)
	}

	want := []string{"2.0.9", "2.0.10", "2.0.42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListInstalled() = %v, want %v (semantic order, not lexicographic)", got, want)
	}
}

func TestListInstalledEmptyRoot(t *testing.T) {
	s := New(t.TempDir(), "tool")
	// Layout never created: must degrade to an empty list, not an error
	got, err := s.ListInstalled()
	if err != nil {
		t.Fatalf("ListInstalled() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListInstalled() = %v, want empty", got)
	}
}

func TestActiveVersionAbsent(t *testing.T) {
	s := newTestStore(t)

	active, err := s.ActiveVersion()
	if err != nil {
		t.Fatalf("ActiveVersion() error: %v", err)
	}
	if active != "" {
		t.Errorf("ActiveVersion() = %q, want empty", active)
	}
}

func TestRepointActive(t *testing.T) {
	s := newTestStore(t)
	installVersion(t, s, "1.0.0")

	linked, err := s.RepointActive("1.0.0")
	if err != nil {
		t.Fatalf("RepointActive() error: %v", err)
	}
	if !linked {
		t.Error("launcher should have been linked")
	}

	active, err := s.ActiveVersion()
	if err != nil {
		t.Fatalf("ActiveVersion() error: %v", err)
	}
	if active != "1.0.0" {
		t.Errorf("ActiveVersion() = %q, want %q", active, "1.0.0")
	}

	// Launcher must resolve to a path inside the version directory
	target, err := os.Readlink(s.LauncherPath())
	if err != nil {
		t.Fatalf("launcher readlink error: %v", err)
	}
	if target != s.BinaryPath("1.0.0") {
		t.Errorf("launcher target = %q, want %q", target, s.BinaryPath("1.0.0"))
	}
}

func TestRepointActiveReplacesPrevious(t *testing.T) {
	s := newTestStore(t)
	installVersion(t, s, "1.0.0")
	installVersion(t, s, "2.0.0")

	if _, err := s.RepointActive("1.0.0"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RepointActive("2.0.0"); err != nil {
		t.Fatal(err)
	}

	active, _ := s.ActiveVersion()
	if active != "2.0.0" {
		t.Errorf("ActiveVersion() = %q, want %q", active, "2.0.0")
	}
}

func TestRepointActiveMissingBinary(t *testing.T) {
	s := newTestStore(t)

	// Version directory exists but holds no runnable binary
	if err := os.MkdirAll(s.VersionPath("1.0.0"), 0755); err != nil {
		t.Fatal(err)
	}

	linked, err := s.RepointActive("1.0.0")
	if err != nil {
		t.Fatalf("RepointActive() error: %v", err)
	}
	if linked {
		t.Error("launcher should not have been linked for a binaryless version")
	}

	// The active pointer repoint is the primary guarantee and must still hold
	active, _ := s.ActiveVersion()
	if active != "1.0.0" {
		t.Errorf("ActiveVersion() = %q, want %q", active, "1.0.0")
	}

	if _, err := os.Lstat(s.LauncherPath()); !errors.Is(err, os.ErrNotExist) {
		t.Error("launcher pointer should be absent")
	}
}

func TestActiveVersionDanglingPointer(t *testing.T) {
	s := newTestStore(t)
	installVersion(t, s, "1.0.0")

	if _, err := s.RepointActive("1.0.0"); err != nil {
		t.Fatal(err)
	}

	// Remove the target out-of-band: the pointer now dangles
	if err := os.RemoveAll(s.VersionPath("1.0.0")); err != nil {
		t.Fatal(err)
	}

	active, err := s.ActiveVersion()
	if err != nil {
		t.Fatalf("ActiveVersion() with dangling pointer error: %v", err)
	}
	if active != "1.0.0" {
		t.Errorf("ActiveVersion() = %q, want stale basename %q", active, "1.0.0")
	}
}

func TestRemoveVersion(t *testing.T) {
	s := newTestStore(t)
	installVersion(t, s, "1.0.0")

	if err := s.RemoveVersion("1.0.0"); err != nil {
		t.Fatalf("RemoveVersion() error: %v", err)
	}
	if s.IsInstalled("1.0.0") {
		t.Error("version should be gone after RemoveVersion")
	}

	// Removing a missing version is an error
	if err := s.RemoveVersion("1.0.0"); err == nil {
		t.Error("RemoveVersion of a missing version should fail")
	}
}

func TestRemoveDerivedKeepsRaw(t *testing.T) {
	s := newTestStore(t)
	installVersion(t, s, "1.0.0")

	rawFile := filepath.Join(s.RawPath("1.0.0"), "artifact.tgz")
	if err := os.WriteFile(rawFile, []byte("tarball"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveDerived("1.0.0"); err != nil {
		t.Fatalf("RemoveDerived() error: %v", err)
	}

	if _, err := os.Stat(rawFile); err != nil {
		t.Errorf("raw artifact should survive RemoveDerived: %v", err)
	}
	if _, err := os.Stat(s.BinaryPath("1.0.0")); !errors.Is(err, os.ErrNotExist) {
		t.Error("derived binary should be removed")
	}
	if !s.IsInstalled("1.0.0") {
		t.Error("version directory itself should remain")
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	inner := os.ErrPermission
	err := &StorageError{Op: "mkdir", Path: "/x", Err: inner}

	if !errors.Is(err, os.ErrPermission) {
		t.Error("StorageError should unwrap to its cause")
	}
}
