// Package watcher notices album folders arriving under the music root and
// reports them once copying has settled.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Config controls how arrivals are debounced and settled.
type Config struct {
	// Debounce is how long a folder must stay quiet before a settle check
	// starts.
	Debounce time.Duration
	// SettleWindow is how long a folder's contents must stop growing before
	// it counts as fully copied.
	SettleWindow time.Duration
	// IgnorePatterns lists glob patterns for transfer artifacts whose events
	// are dropped.
	IgnorePatterns []string
}

// DefaultConfig returns the settings used by watch mode.
func DefaultConfig() *Config {
	return &Config{
		Debounce:       2 * time.Second,
		SettleWindow:   time.Second,
		IgnorePatterns: DefaultIgnorePatterns(),
	}
}

// Stats reports what a watch session saw.
type Stats struct {
	Settled  int
	Ignored  int
	Duration time.Duration
}

// Watcher monitors a music root for new album folders. Events are keyed on
// the direct child of the root they land under, so a multi-track copy
// produces a single settle report.
type Watcher struct {
	config   *Config
	onSettle func(path string)
	fs       *fsnotify.Watcher
	filter   *Filter
	debounce *Debouncer
	settle   *SettleChecker
	root     string
	started  time.Time
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	settled int
	ignored int
}

// New creates a Watcher that calls onSettle for every folder that finishes
// arriving under the watched root. A nil config selects DefaultConfig.
func New(config *Config, onSettle func(path string)) *Watcher {
	if config == nil {
		config = DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		config:   config,
		onSettle: onSettle,
		filter:   NewFilter(config.IgnorePatterns),
		settle:   NewSettleChecker(config.SettleWindow),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	w.debounce = NewDebouncer(config.Debounce, w.checkArrival)
	return w
}

// Start begins watching root and its direct child folders. New folders
// appearing at the root level are added to the watch as they arrive, so
// albums landing inside a brand new artist folder are still seen. The
// watcher runs until Stop is called.
func (w *Watcher) Start(root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fs.Add(absRoot); err != nil {
		fs.Close()
		return err
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		fs.Close()
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := fs.Add(filepath.Join(absRoot, entry.Name())); err != nil {
			fs.Close()
			return err
		}
	}

	w.fs = fs
	w.root = absRoot
	w.started = time.Now()
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.loop()

	return nil
}

// Stop shuts the watcher down, drops pending arrivals, and reports what the
// session saw.
func (w *Watcher) Stop() *Stats {
	w.cancel()
	w.debounce.CancelAll()

	close(w.done)
	w.wg.Wait()

	if w.fs != nil {
		w.fs.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	stats := &Stats{
		Settled: w.settled,
		Ignored: w.ignored,
	}
	if !w.started.IsZero() {
		stats.Duration = time.Since(w.started)
	}
	return stats
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				w.handleArrival(event.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logrus.WithError(err).Warn("watch error")
		}
	}
}

// handleArrival records a create event. Transfer artifacts are dropped; the
// final rename to the real file name raises its own create event.
func (w *Watcher) handleArrival(path string) {
	if w.filter.ShouldIgnore(path) {
		w.mu.Lock()
		w.ignored++
		w.mu.Unlock()
		logrus.WithField("path", path).Debug("ignoring transfer artifact")
		return
	}

	key := w.arrivalRoot(path)
	if key == "" {
		return
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() && filepath.Dir(path) == w.root {
		if err := w.fs.Add(path); err != nil {
			logrus.WithError(err).WithField("path", path).Warn("watching new folder")
		}
	}

	logrus.WithField("path", path).Debug("arrival detected")
	w.debounce.Add(key)
}

// arrivalRoot maps an event path to the direct child of the watched root
// that contains it. Settling is keyed on that folder so every track of a
// copy in progress coalesces into one report.
func (w *Watcher) arrivalRoot(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.SplitN(rel, string(filepath.Separator), 2)
	return filepath.Join(w.root, parts[0])
}

// checkArrival runs once the debounce delay expires. The folder is reported
// only after its contents stop growing.
func (w *Watcher) checkArrival(path string) {
	if err := w.settle.Wait(w.ctx, path); err != nil {
		logrus.WithError(err).WithField("path", path).Debug("arrival never settled")
		return
	}

	w.mu.Lock()
	w.settled++
	w.mu.Unlock()

	logrus.WithField("path", path).Debug("arrival settled")
	if w.onSettle != nil {
		w.onSettle(path)
	}
}
