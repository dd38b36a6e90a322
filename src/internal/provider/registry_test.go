package provider

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildTarball assembles an in-memory npm-style .tgz: every path is placed
// under the conventional package/ top-level directory
func buildTarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range files {
		hdr := &tar.Header{
			Name: "package/" + name,
			Mode: 0644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// newRegistryServer serves the given tarball for any /-/ tarball request
func newRegistryServer(t *testing.T, tarball []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/-/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(tarball)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAndInstallBinMap(t *testing.T) {
	tarball := buildTarball(t, map[string]string{
		"package.json": `{"name": "@scope/tool", "bin": {"tool": "cli.js"}}`,
		"cli.js":       "#!/usr/bin/env node\nconsole.log('ok')\n",
	})
	srv := newRegistryServer(t, tarball)

	p := NewRegistryProvider("@scope/tool", "tool")
	p.BaseURL = srv.URL

	versionDir := t.TempDir()
	binPath, err := p.FetchAndInstall(context.Background(), "1.2.3", versionDir)
	if err != nil {
		t.Fatalf("FetchAndInstall() error: %v", err)
	}

	want := filepath.Join(versionDir, "package", "cli.js")
	if binPath != want {
		t.Errorf("binPath = %q, want %q", binPath, want)
	}

	info, err := os.Stat(binPath)
	if err != nil {
		t.Fatalf("binary missing: %v", err)
	}
	if info.Mode()&0111 == 0 {
		t.Error("binary should be executable")
	}

	// Raw tarball is staged for later clean decisions
	rawTarball := filepath.Join(versionDir, "raw", "tool-1.2.3.tgz")
	if _, err := os.Stat(rawTarball); err != nil {
		t.Errorf("raw tarball should be kept: %v", err)
	}
}

func TestFetchAndInstallBinString(t *testing.T) {
	tarball := buildTarball(t, map[string]string{
		"package.json": `{"name": "tool", "bin": "bin/run.js"}`,
		"bin/run.js":   "#!/usr/bin/env node\n",
	})
	srv := newRegistryServer(t, tarball)

	p := NewRegistryProvider("tool", "tool")
	p.BaseURL = srv.URL

	versionDir := t.TempDir()
	binPath, err := p.FetchAndInstall(context.Background(), "0.1.0", versionDir)
	if err != nil {
		t.Fatalf("FetchAndInstall() error: %v", err)
	}

	want := filepath.Join(versionDir, "package", "bin", "run.js")
	if binPath != want {
		t.Errorf("binPath = %q, want %q", binPath, want)
	}
}

func TestFetchAndInstallMissingBinEntry(t *testing.T) {
	tarball := buildTarball(t, map[string]string{
		"package.json": `{"name": "tool", "bin": {"other": "other.js"}}`,
		"other.js":     "",
	})
	srv := newRegistryServer(t, tarball)

	p := NewRegistryProvider("tool", "tool")
	p.BaseURL = srv.URL

	_, err := p.FetchAndInstall(context.Background(), "0.1.0", t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing bin entry")
	}
	if !strings.Contains(err.Error(), "tool") {
		t.Errorf("error %q should name the requested bin entry", err)
	}
}

func TestFetchAndInstallNoBinField(t *testing.T) {
	tarball := buildTarball(t, map[string]string{
		"package.json": `{"name": "tool"}`,
	})
	srv := newRegistryServer(t, tarball)

	p := NewRegistryProvider("tool", "tool")
	p.BaseURL = srv.URL

	if _, err := p.FetchAndInstall(context.Background(), "0.1.0", t.TempDir()); err == nil {
		t.Fatal("expected error for package with no bin field")
	}
}

func TestFetchAndInstallNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	p := NewRegistryProvider("tool", "tool")
	p.BaseURL = srv.URL

	if _, err := p.FetchAndInstall(context.Background(), "9.9.9", t.TempDir()); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestUnscopedName(t *testing.T) {
	tests := []struct {
		pkg  string
		want string
	}{
		{"@scope/tool", "tool"},
		{"plain", "plain"},
		{"@a/b", "b"},
	}
	for _, tt := range tests {
		if got := unscopedName(tt.pkg); got != tt.want {
			t.Errorf("unscopedName(%q) = %q, want %q", tt.pkg, got, tt.want)
		}
	}
}

func TestTarballURLShape(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	p := NewRegistryProvider("@anthropic-ai/claude-code", "claude")
	p.BaseURL = srv.URL
	_, _ = p.FetchAndInstall(context.Background(), "1.0.42", t.TempDir())

	want := "/@anthropic-ai/claude-code/-/claude-code-1.0.42.tgz"
	if gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}
}
