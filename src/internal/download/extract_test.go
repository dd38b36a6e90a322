package download

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

type tarEntry struct {
	name     string
	content  string
	typeflag byte
	linkname string
}

func writeTarGz(t *testing.T, entries []tarEntry) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		flag := e.typeflag
		if flag == 0 {
			flag = tar.TypeReg
		}
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     0644,
			Typeflag: flag,
			Linkname: e.linkname,
		}
		if flag == tar.TypeReg {
			hdr.Size = int64(len(e.content))
		}
		if flag == tar.TypeDir {
			hdr.Mode = 0755
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if flag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.content)); err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "archive.tgz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractTarGz(t *testing.T) {
	archive := writeTarGz(t, []tarEntry{
		{name: "dir/", typeflag: tar.TypeDir},
		{name: "dir/file.txt", content: "hello"},
		{name: "nested/deep/other.txt", content: "world"},
		{name: "link", typeflag: tar.TypeSymlink, linkname: "dir/file.txt"},
	})

	dest := t.TempDir()
	if err := ExtractTarGz(archive, dest); err != nil {
		t.Fatalf("ExtractTarGz() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "dir", "file.txt"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}

	// Parent directories are created even without explicit dir entries
	if _, err := os.Stat(filepath.Join(dest, "nested", "deep", "other.txt")); err != nil {
		t.Errorf("nested file missing: %v", err)
	}

	target, err := os.Readlink(filepath.Join(dest, "link"))
	if err != nil {
		t.Fatalf("symlink missing: %v", err)
	}
	if target != "dir/file.txt" {
		t.Errorf("symlink target = %q, want %q", target, "dir/file.txt")
	}
}

func TestExtractTarGzRejectsPathTraversal(t *testing.T) {
	archive := writeTarGz(t, []tarEntry{
		{name: "../escape.txt", content: "bad"},
	})

	dest := filepath.Join(t.TempDir(), "dest")
	if err := ExtractTarGz(archive, dest); err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(dest), "escape.txt")); err == nil {
		t.Error("traversal entry must not be written outside the destination")
	}
}

func TestExtractTarGzInvalidArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.tgz")
	if err := os.WriteFile(path, []byte("not a gzip stream"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ExtractTarGz(path, t.TempDir()); err == nil {
		t.Fatal("expected error for a corrupt archive")
	}
}

func TestStripTopLevelDir(t *testing.T) {
	dest := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dest, "package", "bin"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(dest, "package", "package.json"):  "{}",
		filepath.Join(dest, "package", "bin", "run.js"): "",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := StripTopLevelDir(dest); err != nil {
		t.Fatalf("StripTopLevelDir() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dest, "package.json")); err != nil {
		t.Errorf("package.json should be hoisted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "bin", "run.js")); err != nil {
		t.Errorf("bin/run.js should be hoisted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "package")); !os.IsNotExist(err) {
		t.Error("wrapper directory should be removed")
	}
}

func TestStripTopLevelDirNoWrapper(t *testing.T) {
	dest := t.TempDir()
	if err := os.WriteFile(filepath.Join(dest, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dest, "b.txt"), []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}

	// Multiple top-level entries: nothing to strip, not an error
	if err := StripTopLevelDir(dest); err != nil {
		t.Fatalf("StripTopLevelDir() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "a.txt")); err != nil {
		t.Errorf("flat layout should be untouched: %v", err)
	}
}
