package store

import "fmt"

// StorageError reports a filesystem-layer failure with the offending path
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// InvalidVersionError reports a version identifier that is not a valid path
// segment.
type InvalidVersionError struct {
	ID string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version identifier %q", e.ID)
}
