// Package runlog writes the per-run log files refold leaves beside the
// invocation: renamed, skipped, not found and deflat. Every file is
// truncated at the start of a run, so each log describes the latest run
// only.
package runlog

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Log file names, created fresh on every run.
const (
	RenamedLog  = "renamed.log"
	SkippedLog  = "skipped.log"
	NotFoundLog = "not_found.log"
	DeflatLog   = "deflat.log"
)

// Log is an append-only line log backed by a file that is truncated when
// opened. Append is safe for concurrent use.
type Log struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	path   string
}

// openLog creates or truncates the log file at path.
func openLog(path string) (*Log, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log %s", path)
	}
	return &Log{
		file:   file,
		writer: bufio.NewWriter(file),
		path:   path,
	}, nil
}

// Append writes one line to the log and flushes it, so an interrupted run
// keeps everything logged up to the interruption.
func (l *Log) Append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.writer.WriteString(line + "\n"); err != nil {
		return errors.Wrapf(err, "writing to %s", l.path)
	}
	if err := l.writer.Flush(); err != nil {
		return errors.Wrapf(err, "flushing %s", l.path)
	}
	return nil
}

// Path returns where the log is written.
func (l *Log) Path() string {
	return l.path
}

// Close flushes buffered lines and syncs the file to disk.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.writer.Flush(); err != nil {
		return errors.Wrapf(err, "flushing %s", l.path)
	}
	if err := l.file.Sync(); err != nil {
		return errors.Wrapf(err, "syncing %s", l.path)
	}
	return errors.Wrapf(l.file.Close(), "closing %s", l.path)
}

// Files bundles the run logs of one invocation.
type Files struct {
	Renamed  *Log
	Skipped  *Log
	NotFound *Log
	Deflat   *Log
}

// Open creates the four run logs in dir, truncating leftovers from previous
// runs. On failure every log opened so far is closed again.
func Open(dir string) (*Files, error) {
	files := &Files{}
	targets := []struct {
		slot **Log
		name string
	}{
		{&files.Renamed, RenamedLog},
		{&files.Skipped, SkippedLog},
		{&files.NotFound, NotFoundLog},
		{&files.Deflat, DeflatLog},
	}

	for _, target := range targets {
		log, err := openLog(filepath.Join(dir, target.name))
		if err != nil {
			files.Close()
			return nil, err
		}
		*target.slot = log
	}
	return files, nil
}

// Close closes every open log and reports the first error encountered.
func (f *Files) Close() error {
	var first error
	for _, log := range []*Log{f.Renamed, f.Skipped, f.NotFound, f.Deflat} {
		if log == nil {
			continue
		}
		if err := log.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
