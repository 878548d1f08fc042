// Package organizer handles folder renames and collision naming for refold.
package organizer

import (
	"fmt"
	"os"
)

// MoveErrorType represents the type of move error.
type MoveErrorType string

const (
	// SourceNotFound indicates the source does not exist.
	SourceNotFound MoveErrorType = "SOURCE_NOT_FOUND"
	// DestinationExists indicates something already sits at the destination.
	DestinationExists MoveErrorType = "DESTINATION_EXISTS"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied MoveErrorType = "PERMISSION_DENIED"
)

// MoveError represents an error that occurred while renaming or moving.
type MoveError struct {
	Type MoveErrorType
	Path string
	Err  error
}

func (e *MoveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// RenameDir renames an album folder in place. The destination must not
// already exist: collisions are reported, never merged. Folder renames stay
// on one filesystem, so no copy fallback is attempted.
func RenameDir(oldPath, newPath string) error {
	if _, err := os.Stat(newPath); err == nil {
		return &MoveError{Type: DestinationExists, Path: newPath}
	}
	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		return &MoveError{Type: SourceNotFound, Path: oldPath, Err: err}
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		if os.IsPermission(err) {
			return &MoveError{Type: PermissionDenied, Path: oldPath, Err: err}
		}
		return err
	}
	return nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		if os.IsPermission(err) {
			return &MoveError{Type: PermissionDenied, Path: dir, Err: err}
		}
		return err
	}
	return nil
}
