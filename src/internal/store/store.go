// Package store owns the on-disk layout of installed versions: one directory
// per version under the versions root, an "active" symlink selecting the
// current version, and a launcher symlink pointing at the runnable binary
// inside the active version.
package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/semver"
)

// BinaryDirName is the directory inside every version that holds the stable
// runnable-binary location, created at install time.
const BinaryDirName = "bin"

// RawDirName is the staging directory inside a version that holds the
// originally fetched artifact.
const RawDirName = "raw"

// CompareFunc orders two version identifiers; it reports whether a sorts
// before b.
type CompareFunc func(a, b string) bool

// Store translates version identifiers into filesystem paths and performs
// pointer updates. It carries no policy beyond "installed means the version
// directory exists".
type Store struct {
	root         string // cvm root, parent of the active pointer
	versionsRoot string
	activeLink   string
	launcherLink string
	binName      string
	less         CompareFunc
}

// New creates a store over the given cvm root for the given binary name
func New(root, binName string) *Store {
	launcher := filepath.Join(root, BinaryDirName, binName)
	return &Store{
		root:         root,
		versionsRoot: filepath.Join(root, "versions"),
		activeLink:   filepath.Join(root, "active"),
		launcherLink: launcher,
		binName:      binName,
		less:         semver.Less,
	}
}

// WithComparator overrides the version ordering used by ListInstalled
func (s *Store) WithComparator(less CompareFunc) *Store {
	s.less = less
	return s
}

// Root returns the cvm root directory
func (s *Store) Root() string {
	return s.root
}

// VersionPath returns the directory for the given version
func (s *Store) VersionPath(id string) string {
	return filepath.Join(s.versionsRoot, id)
}

// RawPath returns the raw staging directory for the given version
func (s *Store) RawPath(id string) string {
	return filepath.Join(s.VersionPath(id), RawDirName)
}

// BinaryPath returns the stable runnable-binary location for the given
// version. Install materializes this path; Use targets the launcher at it.
func (s *Store) BinaryPath(id string) string {
	return filepath.Join(s.VersionPath(id), BinaryDirName, s.binName)
}

// LauncherPath returns the launcher pointer location
func (s *Store) LauncherPath() string {
	return s.launcherLink
}

// ValidateID rejects version identifiers that cannot serve as a single path
// segment.
func ValidateID(id string) error {
	if id == "" || id == "." || id == ".." {
		return &InvalidVersionError{ID: id}
	}
	if strings.ContainsAny(id, `/\`) {
		return &InvalidVersionError{ID: id}
	}
	return nil
}

// EnsureLayout idempotently creates the versions root and launcher directory
func (s *Store) EnsureLayout() error {
	for _, dir := range []string{s.root, s.versionsRoot, filepath.Dir(s.launcherLink)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &StorageError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return nil
}

// IsInstalled reports whether the version directory exists
func (s *Store) IsInstalled(id string) bool {
	info, err := os.Stat(s.VersionPath(id))
	return err == nil && info.IsDir()
}

// ListInstalled enumerates installed versions, ordered ascending by the
// store's comparator (numeric semantic order by default).
func (s *Store) ListInstalled() ([]string, error) {
	entries, err := os.ReadDir(s.versionsRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, &StorageError{Op: "readdir", Path: s.versionsRoot, Err: err}
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}

	sort.SliceStable(ids, func(i, j int) bool { return s.less(ids[i], ids[j]) })
	return ids, nil
}

// ActiveVersion resolves the active pointer to a version identifier.
// No pointer returns ("", nil). A dangling pointer still returns the
// basename of the recorded target: callers must not assume the result is
// currently installed. Surfacing a stale name beats failing, since Use is
// expected to repair the pointer.
func (s *Store) ActiveVersion() (string, error) {
	target, err := os.Readlink(s.activeLink)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", &StorageError{Op: "readlink", Path: s.activeLink, Err: err}
	}
	return filepath.Base(target), nil
}

// RepointActive replaces the active pointer to target the given version,
// then recreates the launcher pointer at the version's binary.
//
// The active pointer replace is delete-then-create; the launcher update is a
// second, non-atomic step. A crash in between leaves the active pointer
// correct and the launcher stale, which the next Use repairs.
//
// When the version directory has no runnable binary the launcher is left
// absent and launcherLinked is false; the switch itself still succeeds.
func (s *Store) RepointActive(id string) (launcherLinked bool, err error) {
	versionDir := s.VersionPath(id)

	if err := os.Remove(s.activeLink); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, &StorageError{Op: "remove", Path: s.activeLink, Err: err}
	}
	if err := os.Symlink(versionDir, s.activeLink); err != nil {
		return false, &StorageError{Op: "symlink", Path: s.activeLink, Err: err}
	}

	binPath := s.BinaryPath(id)
	if _, err := os.Stat(binPath); err != nil {
		// Missing binary is a warning condition, not a failed switch
		_ = os.Remove(s.launcherLink)
		return false, nil
	}

	if err := os.Remove(s.launcherLink); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, &StorageError{Op: "remove", Path: s.launcherLink, Err: err}
	}
	if err := os.Symlink(binPath, s.launcherLink); err != nil {
		return false, &StorageError{Op: "symlink", Path: s.launcherLink, Err: err}
	}

	return true, nil
}

// RemoveVersion recursively deletes the version directory
func (s *Store) RemoveVersion(id string) error {
	versionDir := s.VersionPath(id)
	if _, err := os.Stat(versionDir); err != nil {
		return &StorageError{Op: "stat", Path: versionDir, Err: err}
	}
	if err := os.RemoveAll(versionDir); err != nil {
		return &StorageError{Op: "removeall", Path: versionDir, Err: err}
	}
	return nil
}

// RemoveDerived deletes everything inside the version directory except the
// raw staging directory, reclaiming the installed runtime while keeping the
// originally fetched artifact.
func (s *Store) RemoveDerived(id string) error {
	versionDir := s.VersionPath(id)
	entries, err := os.ReadDir(versionDir)
	if err != nil {
		return &StorageError{Op: "readdir", Path: versionDir, Err: err}
	}

	for _, entry := range entries {
		if entry.Name() == RawDirName {
			continue
		}
		path := filepath.Join(versionDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return &StorageError{Op: "removeall", Path: path, Err: err}
		}
	}
	return nil
}
