// Package organizer handles folder renames and collision naming for refold.
package organizer

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileExists checks if anything exists at the given path.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DuplicateName returns a folder name that does not collide inside dir,
// appending " (1)", " (2)", ... until a free name is found. Folder names
// keep their dots, so nothing is split off as an extension. A name without
// a collision is returned unchanged.
func DuplicateName(dir, name string) string {
	if !fileExists(filepath.Join(dir, name)) {
		return name
	}

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !fileExists(filepath.Join(dir, candidate)) {
			return candidate
		}
	}
}
