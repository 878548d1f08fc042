// Package watcher notices album folders arriving under the music root and
// reports them once copying has settled.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultSettleTimeout = 30 * time.Second
	minSampleInterval    = 50 * time.Millisecond
)

// ErrVanished is returned when the arrival disappears before settling.
var ErrVanished = errors.New("arrival vanished before settling")

// ErrNeverSettled is returned when the arrival keeps growing past the
// timeout.
var ErrNeverSettled = errors.New("arrival did not settle within timeout")

// fingerprint summarizes a subtree as its entry count and total file bytes.
// Two equal fingerprints taken apart in time mean the copy has stopped.
type fingerprint struct {
	entries int
	bytes   int64
}

func takeFingerprint(root string) (fingerprint, error) {
	var fp fingerprint
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Entries may be renamed away mid-walk while a copier cleans
			// up its artifacts. Only the arrival itself vanishing matters.
			if os.IsNotExist(err) && path != root {
				return nil
			}
			return err
		}
		fp.entries++
		if !info.IsDir() {
			fp.bytes += info.Size()
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return fp, ErrVanished
		}
		return fp, err
	}
	return fp, nil
}

// SettleChecker waits for a folder's contents to stop growing. A folder is
// settled once its fingerprint holds still for the full window.
type SettleChecker struct {
	window   time.Duration
	timeout  time.Duration
	interval time.Duration
}

// NewSettleChecker creates a checker with the given quiet window, a 30
// second timeout, and a sampling interval of a quarter window, floored at
// 50ms.
func NewSettleChecker(window time.Duration) *SettleChecker {
	interval := window / 4
	if interval < minSampleInterval {
		interval = minSampleInterval
	}
	return &SettleChecker{
		window:   window,
		timeout:  defaultSettleTimeout,
		interval: interval,
	}
}

// NewSettleCheckerWithOptions creates a checker with explicit window,
// timeout, and sampling interval.
func NewSettleCheckerWithOptions(window, timeout, interval time.Duration) *SettleChecker {
	return &SettleChecker{
		window:   window,
		timeout:  timeout,
		interval: interval,
	}
}

// Wait blocks until the path's fingerprint has held still for the window.
// It returns ErrVanished if the path disappears, ErrNeverSettled if the
// timeout passes first, or the context error on cancellation.
func (s *SettleChecker) Wait(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	last, err := takeFingerprint(path)
	if err != nil {
		return err
	}
	lastChange := time.Now()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrNeverSettled
			}
			return ctx.Err()
		case <-ticker.C:
			current, err := takeFingerprint(path)
			if err != nil {
				return err
			}
			if current != last {
				last = current
				lastChange = time.Now()
			} else if time.Since(lastChange) >= s.window {
				return nil
			}
		}
	}
}
