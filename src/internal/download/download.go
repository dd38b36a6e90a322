// Package download provides utilities for downloading and extracting artifact tarballs
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cvm-sh/cvm/src/internal/ui"
	"github.com/schollz/progressbar/v3"
)

// File downloads a file from a URL to a destination path with a progress bar
func File(ctx context.Context, url, destPath string) error {
	ui.Debug("Starting download: %s", url)
	ui.Debug("Destination: %s", destPath)

	// Create destination directory if it doesn't exist
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	ui.Debug("Making HTTP GET request...")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ui.Debug("HTTP request failed: %v", err)
		return fmt.Errorf("failed to connect: %w (URL: %s)", err, url)
	}
	defer func() { _ = resp.Body.Close() }()

	ui.Debug("HTTP response: %s", resp.Status)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed (HTTP %s): %s", resp.Status, url)
	}

	size := resp.ContentLength
	ui.Debug("Content-Length: %d bytes", size)

	bar := progressbar.DefaultBytes(
		size,
		"Downloading",
	)

	if _, err := io.Copy(io.MultiWriter(out, bar), resp.Body); err != nil {
		return fmt.Errorf("download interrupted: %w", err)
	}

	ui.Debug("Download complete")
	return nil
}
