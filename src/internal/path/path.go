// Package path provides utilities for PATH environment variable manipulation
package path

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cvm-sh/cvm/src/internal/constants"
)

// IsInPath checks if a directory is in the system PATH
func IsInPath(dir string) bool {
	pathEnv := os.Getenv("PATH")

	separator := ":"
	if runtime.GOOS == constants.OSWindows {
		separator = ";"
	}

	paths := strings.Split(pathEnv, separator)

	dir = filepath.Clean(dir)

	for _, p := range paths {
		if filepath.Clean(p) == dir {
			return true
		}
	}

	return false
}
