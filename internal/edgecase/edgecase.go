// Package edgecase decides which album folders are too irregular to rename.
package edgecase

import (
	"strings"

	"refold/internal/yearparser"
)

// Named categories that -e can switch off.
const (
	optionRemaster   = "remaster"
	optionDelux      = "delux"
	optionMultiyears = "multiyears"
)

// irregularTitles lists folder names that defeat the year heuristics and are
// skipped outright unless unlocked by name.
var irregularTitles = []string{
	"In Time_ The Best Of R.E.M.",
	"1992–2012 - The Anthology",
	"The Best Of 1980 1990 & B Sides",
	"The Best Of 1990-2000",
}

// Detector reports whether a folder should be left alone instead of renamed.
// Enabling a named category through -e removes that category from detection;
// any other enabled literal unlocks irregular titles it matches.
type Detector struct {
	enabled map[string]bool
}

// NewDetector builds a Detector from canonicalized edge options.
func NewDetector(options []string) *Detector {
	enabled := make(map[string]bool, len(options))
	for _, opt := range options {
		enabled[opt] = true
	}
	return &Detector{enabled: enabled}
}

// IsEdgeCase reports whether the folder at path is irregular. The whole path
// is inspected, not just the final element, so a remastered artist directory
// shields every album under it.
func (d *Detector) IsEdgeCase(path string) bool {
	lower := strings.ToLower(path)

	if !d.enabled[optionRemaster] && strings.Contains(lower, optionRemaster) {
		return true
	}
	if !d.enabled[optionDelux] && strings.Contains(lower, optionDelux) {
		return true
	}
	if !d.enabled[optionMultiyears] && yearparser.HasYearSpan(lower) {
		return true
	}

	for _, title := range irregularTitles {
		if strings.Contains(lower, strings.ToLower(title)) {
			if d.unlockedBy(lower) {
				break
			}
			return true
		}
	}
	return false
}

// unlockedBy reports whether an enabled literal outside the named categories
// matches the path.
func (d *Detector) unlockedBy(lowerPath string) bool {
	for opt := range d.enabled {
		switch opt {
		case optionRemaster, optionDelux, optionMultiyears:
			continue
		}
		if strings.Contains(lowerPath, opt) {
			return true
		}
	}
	return false
}
