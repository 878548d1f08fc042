// Package lookup resolves release years for album folders that carry none.
package lookup

import "context"

// Status classifies the outcome of a year lookup.
type Status string

const (
	// StatusFound means the source produced a year.
	StatusFound Status = "FOUND"
	// StatusNotFound means the source answered but knows no year.
	StatusNotFound Status = "NOT_FOUND"
	// StatusFailed means the source could not answer.
	StatusFailed Status = "FAILED"
)

// Query identifies the album a year is wanted for.
type Query struct {
	// Artist is the name of the containing folder.
	Artist string
	// Album is the sanitized album title.
	Album string
	// Dir is the absolute path of the album folder.
	Dir string
}

// Result is the answer of a single source.
type Result struct {
	Status Status
	Year   string
	Err    error
}

// Found wraps a year into a successful Result.
func Found(year string) Result {
	return Result{Status: StatusFound, Year: year}
}

// NotFound reports that the source answered but knows no year.
func NotFound() Result {
	return Result{Status: StatusNotFound}
}

// Failed reports that the source could not answer.
func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

// Source finds release years. Implementations must honor cancellation of
// ctx on blocking work.
type Source interface {
	// Name identifies the source in diagnostics.
	Name() string
	// Find resolves the year for one album.
	Find(ctx context.Context, q Query) Result
}
