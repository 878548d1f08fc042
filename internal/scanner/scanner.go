// Package scanner walks the music tree and collects the album folders that
// fall inside the configured depth window.
package scanner

import (
	"os"
	"path/filepath"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// WalkOptions configures the depth window of a walk.
type WalkOptions struct {
	// StartLevel is the shallowest depth processed. Depth 1 is a direct
	// child of the root, depth 0 the root itself.
	StartLevel int
	// EndLevel is the depth whose directories become candidates. Nothing
	// below it is visited.
	EndLevel int
}

// DefaultWalkOptions covers artist/album trees.
func DefaultWalkOptions() WalkOptions {
	return WalkOptions{StartLevel: 1, EndLevel: 2}
}

// Candidate is a directory eligible for renaming.
type Candidate struct {
	Name     string // Folder name only
	Path     string // Path relative to the walk root
	FullPath string // Absolute path
}

// Walk collects the directories sitting at EndLevel below root, in lexical
// order, together with the errors met along the way. An unreadable
// directory is reported and skipped; the rest of the walk continues.
// Symlinks are never followed. A window whose EndLevel lies above its
// StartLevel yields no candidates.
func Walk(root string, opts WalkOptions) ([]Candidate, []error) {
	w := &walker{root: root, opts: opts}
	w.visit(root, 0)
	return w.candidates, w.errs
}

type walker struct {
	root       string
	opts       WalkOptions
	candidates []Candidate
	errs       []error
}

func (w *walker) visit(dir string, depth int) {
	if depth == w.opts.EndLevel && depth >= w.opts.StartLevel {
		w.collect(dir)
		return
	}
	if depth >= w.opts.EndLevel {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.errs = append(w.errs, classifyError(dir, err))
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		w.visit(filepath.Join(dir, entry.Name()), depth+1)
	}
}

func (w *walker) collect(dir string) {
	rel, err := filepath.Rel(w.root, dir)
	if err != nil {
		rel = dir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	w.candidates = append(w.candidates, Candidate{
		Name:     filepath.Base(dir),
		Path:     rel,
		FullPath: abs,
	})
}

func classifyError(path string, err error) error {
	if os.IsNotExist(err) {
		return &ScanError{Type: DirectoryNotFound, Path: path, Err: err}
	}
	if os.IsPermission(err) {
		return &ScanError{Type: PermissionDenied, Path: path, Err: err}
	}
	return err
}
