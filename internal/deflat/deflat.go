// Package deflat splits flat "Artist - Album" folders into artist trees.
package deflat

import (
	"os"
	"path/filepath"
	"strings"

	"refold/internal/organizer"
	"refold/internal/output"
	"refold/internal/runlog"
)

// audioExtensions marks a folder as an album candidate.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
}

// Options configure one flatten pass.
type Options struct {
	// DryRun reports moves without touching the filesystem.
	DryRun bool
}

// Summary counts the outcomes of one flatten pass.
type Summary struct {
	Moved  int
	Failed int
}

// Run inspects every direct child folder of root. A folder that directly
// contains audio files and carries an "Artist - Album" name is moved to
// <root>/<Artist>/<Album>, creating the artist folder when needed. A name
// without the separator is recorded as a failure and left alone.
func Run(root string, opts Options, logs *runlog.Files, out *output.Output) (Summary, error) {
	var summary Summary

	entries, err := os.ReadDir(root)
	if err != nil {
		return summary, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if !containsAudio(dir) {
			continue
		}

		artist, album, ok := SplitName(entry.Name())
		if !ok {
			record(logs.Deflat, out, "[ERROR] No ' - ' separator: "+entry.Name())
			summary.Failed++
			continue
		}

		artistDir := filepath.Join(root, artist)
		target := filepath.Join(artistDir, organizer.DuplicateName(artistDir, album))
		message := "Deflat: " + entry.Name() + " -> " + target

		if opts.DryRun {
			record(logs.Deflat, out, "[DRY-RUN] "+message)
			summary.Moved++
			continue
		}

		record(logs.Deflat, out, message)
		if err := organizer.EnsureDir(artistDir); err != nil {
			return summary, err
		}
		if err := organizer.RenameDir(dir, target); err != nil {
			return summary, err
		}
		summary.Moved++
	}

	return summary, nil
}

// SplitName divides a combined "Artist - Album" folder name on its first
// separator. Names missing the separator, or with an empty side, do not
// split.
func SplitName(name string) (artist, album string, ok bool) {
	parts := strings.SplitN(name, " - ", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// containsAudio reports whether dir directly holds at least one audio file.
// Unreadable folders are not candidates.
func containsAudio(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			return true
		}
	}
	return false
}

func record(log *runlog.Log, out *output.Output, line string) {
	out.Report(line)
	if err := log.Append(line); err != nil {
		out.Error("writing deflat log: %v", err)
	}
}
