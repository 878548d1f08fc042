// Package config handles run options and environment loading for refold.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	InvalidLevelFormat ConfigErrorType = "INVALID_LEVEL_FORMAT"
	RootNotFound       ConfigErrorType = "ROOT_NOT_FOUND"
	RootNotDirectory   ConfigErrorType = "ROOT_NOT_DIRECTORY"
)

// ConfigError represents an error in the options given for a run.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case InvalidLevelFormat:
		return "Invalid -level format. Use start,end"
	case RootNotFound:
		return fmt.Sprintf("music root not found: %s", e.Path)
	case RootNotDirectory:
		return fmt.Sprintf("music root is not a directory: %s", e.Path)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// LevelRange bounds the directory depths visited below the music root.
// Depth 1 is a direct child of the root.
type LevelRange struct {
	Start int
	End   int
}

// DefaultLevelRange covers artist/album trees: album folders sit two levels
// below the root.
func DefaultLevelRange() LevelRange {
	return LevelRange{Start: 1, End: 2}
}

// ParseLevelRange parses a -level flag value of the form "start,end".
func ParseLevelRange(value string) (LevelRange, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return LevelRange{}, &ConfigError{Type: InvalidLevelFormat}
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return LevelRange{}, &ConfigError{Type: InvalidLevelFormat}
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return LevelRange{}, &ConfigError{Type: InvalidLevelFormat}
	}

	return LevelRange{Start: start, End: end}, nil
}

// edgeAliases maps the short -e values to their full option names.
var edgeAliases = map[string]string{
	"r": "remaster",
	"d": "delux",
	"m": "multiyears",
}

// ParseEdgeOptions canonicalizes -e flag values: trimmed, lowercased, short
// aliases expanded to their full names, duplicates dropped. Values that are
// not known aliases pass through untouched so individual titles can be
// unlocked by name.
func ParseEdgeOptions(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if full, ok := edgeAliases[v]; ok {
			v = full
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Options holds all settings for one refold run.
type Options struct {
	// Root is the music tree the walk starts from.
	Root string
	// DryRun reports renames without touching the filesystem.
	DryRun bool
	// Deflat splits flat "Artist - Album" folders into artist trees before
	// the rename pass.
	Deflat bool
	// TagYear enables reading release years from embedded audio tags.
	TagYear bool
	// Watch keeps the process alive and re-runs on new folders.
	Watch bool
	// Verbose echoes per-folder diagnostics.
	Verbose bool
	// Levels is the depth window in which album folders are processed.
	Levels LevelRange
	// Edges lists the enabled edge-case options and unlocked titles.
	Edges []string
	// LogDir is where the run logs are written.
	LogDir string
}

// DefaultOptions returns the options used when no flags are given: the
// current directory as root, the artist/album depth window, logs beside the
// invocation.
func DefaultOptions() *Options {
	return &Options{
		Root:   ".",
		Levels: DefaultLevelRange(),
		LogDir: ".",
	}
}

// Validate checks that the options point at a usable music tree.
func (o *Options) Validate() error {
	info, err := os.Stat(o.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return &ConfigError{Type: RootNotFound, Path: o.Root}
		}
		return &ConfigError{Type: RootNotFound, Path: o.Root, Message: err.Error()}
	}
	if !info.IsDir() {
		return &ConfigError{Type: RootNotDirectory, Path: o.Root}
	}
	return nil
}

// LoadToken reads the release database token from the environment. A .env
// file in the working directory is loaded first when present; a missing file
// is not an error.
func LoadToken() string {
	_ = godotenv.Load()
	return os.Getenv("DISCOGS_TOKEN")
}
