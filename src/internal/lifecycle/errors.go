package lifecycle

import "fmt"

// NotInstalledError reports an operation against a version with no on-disk
// record.
type NotInstalledError struct {
	Version string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("version %s is not installed", e.Version)
}

// ActiveVersionError reports an uninstall or clean attempt against the
// currently active version.
type ActiveVersionError struct {
	Version string
}

func (e *ActiveVersionError) Error() string {
	return fmt.Sprintf("version %s is currently active and cannot be removed", e.Version)
}

// InstallError wraps any failure during fetch or materialization. The
// version directory has already been rolled back when this surfaces.
type InstallError struct {
	Version string
	Err     error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("failed to install version %s: %v", e.Version, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}
