// Package orchestrator provides the run accounting for refold passes.
package orchestrator

import (
	"fmt"
	"time"
)

// Summary represents the overall results of a refold run.
type Summary struct {
	Candidates       int           // Album folders inspected
	Renamed          int           // Folders renamed (or previewed in dry-run)
	AlreadyFormatted int           // Folders whose name was already final
	EdgeCases        int           // Folders that hit edge-case detection
	EmptyTitles      int           // Folders whose title sanitized to nothing
	LookupMisses     int           // Year lookups that produced no year
	DeflatMoved      int           // Flat folders split into artist trees
	DeflatFailed     int           // Flat folders with unusable names
	ScanErrors       int           // Directories that could not be walked
	Duration         time.Duration // Total processing time
}

// HasErrors returns true if the run hit scan or flatten failures.
func (s *Summary) HasErrors() bool {
	return s.ScanErrors > 0 || s.DeflatFailed > 0
}

// PrintSummary returns a formatted summary string.
func (s *Summary) PrintSummary() string {
	line := fmt.Sprintf("Processed %d folders in %s: %d renamed, %d already formatted, %d edge cases, %d lookup misses",
		s.Candidates, s.Duration.Round(time.Millisecond),
		s.Renamed, s.AlreadyFormatted, s.EdgeCases, s.LookupMisses)
	if s.DeflatMoved > 0 || s.DeflatFailed > 0 {
		line += fmt.Sprintf("; deflat: %d moved, %d failed", s.DeflatMoved, s.DeflatFailed)
	}
	return line
}
