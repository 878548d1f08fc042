// Package watcher notices album folders arriving under the music root and
// reports them once copying has settled.
package watcher

import (
	"path/filepath"
	"strings"
)

// DefaultIgnorePatterns returns the artifacts download and sync tools leave
// next to a copy in progress.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.partial",
		"*.download",
		"*.crdownload",
		"*.!ut",
		".~*",
	}
}

// Filter drops watch events for transfer artifacts so half-written files
// never reach the settle stage under their temporary names.
type Filter struct {
	patterns []string
}

// NewFilter creates a Filter with the given glob patterns. Empty or nil
// patterns select DefaultIgnorePatterns.
func NewFilter(patterns []string) *Filter {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns()
	}
	return &Filter{patterns: patterns}
}

// ShouldIgnore reports whether the path's base name matches an ignore
// pattern. A pattern that is a bare extension, like ".part", matches as a
// case-insensitive suffix.
func (f *Filter) ShouldIgnore(path string) bool {
	name := filepath.Base(path)

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, ".") && !strings.Contains(pattern, "*") {
			if strings.HasSuffix(strings.ToLower(name), strings.ToLower(pattern)) {
				return true
			}
		}
	}
	return false
}

// Patterns returns a copy of the active ignore patterns.
func (f *Filter) Patterns() []string {
	patterns := make([]string, len(f.patterns))
	copy(patterns, f.patterns)
	return patterns
}

// IsTransferArtifact reports whether the path looks like a copy in progress,
// using the default patterns.
func IsTransferArtifact(path string) bool {
	return NewFilter(nil).ShouldIgnore(path)
}
