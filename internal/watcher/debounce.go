// Package watcher notices album folders arriving under the music root and
// reports them once copying has settled.
package watcher

import (
	"sync"
	"time"
)

// Debouncer holds arrivals back until their events go quiet. Every track of
// an album copy resets the timer for its folder, so the fire callback runs
// once per folder instead of once per file.
type Debouncer struct {
	delay  time.Duration
	fire   func(path string)
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDebouncer creates a Debouncer that invokes fire for a path once no new
// events for it have arrived for the full delay.
func NewDebouncer(delay time.Duration, fire func(path string)) *Debouncer {
	return &Debouncer{
		delay:  delay,
		fire:   fire,
		timers: make(map[string]*time.Timer),
	}
}

// Add schedules a path, resetting its timer if one is already running.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[path]; ok {
		timer.Stop()
	}

	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()

		// The callback runs outside the lock so it may call back into the
		// debouncer.
		if d.fire != nil {
			d.fire(path)
		}
	})
}

// Cancel drops a pending path without firing.
func (d *Debouncer) Cancel(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[path]; ok {
		timer.Stop()
		delete(d.timers, path)
	}
}

// CancelAll drops every pending path. Used at shutdown so no callback fires
// into a stopped watcher.
func (d *Debouncer) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
	}
}

// PendingCount returns how many paths are waiting to fire.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// IsPending reports whether the path is waiting to fire.
func (d *Debouncer) IsPending(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[path]
	return ok
}
