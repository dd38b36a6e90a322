package download

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractTarGz extracts a tar.gz archive to a destination directory
func ExtractTarGz(tarGzPath, destDir string) error {
	file, err := os.Open(tarGzPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer func() { _ = gzReader.Close() }()

	tarReader := tar.NewReader(gzReader)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if err := extractTarFile(header, tarReader, destDir); err != nil {
			return fmt.Errorf("failed to extract %s: %w", header.Name, err)
		}
	}

	return nil
}

func extractTarFile(header *tar.Header, reader io.Reader, destDir string) error {
	destPath := filepath.Join(destDir, header.Name)

	// Check for tar-slip: entries must stay inside destDir
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("illegal file path: %s", header.Name)
	}

	switch header.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(destPath, os.FileMode(header.Mode))

	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}

		outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode))
		if err != nil {
			return err
		}

		if _, err := io.Copy(outFile, reader); err != nil {
			_ = outFile.Close()
			return err
		}

		return outFile.Close()

	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}
		// Remove any existing link before recreating
		_ = os.Remove(destPath)
		return os.Symlink(header.Linkname, destPath)

	default:
		// Skip unsupported entry types (hard links, devices)
		return nil
	}
}

// StripTopLevelDir moves the contents of a single top-level directory up one
// level and removes it. Registry tarballs wrap everything in a "package/"
// directory; callers want the contents directly under destDir.
func StripTopLevelDir(destDir string) error {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return err
	}

	if len(entries) != 1 || !entries[0].IsDir() {
		// Nothing to strip
		return nil
	}

	topDir := filepath.Join(destDir, entries[0].Name())
	children, err := os.ReadDir(topDir)
	if err != nil {
		return err
	}

	for _, child := range children {
		oldPath := filepath.Join(topDir, child.Name())
		newPath := filepath.Join(destDir, child.Name())
		if err := os.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("failed to move %s: %w", child.Name(), err)
		}
	}

	return os.Remove(topDir)
}
