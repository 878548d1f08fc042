// Package orchestrator coordinates the album folder rename workflow for refold.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"refold/internal/config"
	"refold/internal/deflat"
	"refold/internal/discogs"
	"refold/internal/edgecase"
	"refold/internal/lookup"
	"refold/internal/normalizer"
	"refold/internal/organizer"
	"refold/internal/output"
	"refold/internal/runlog"
	"refold/internal/scanner"
	"refold/internal/yearparser"
)

// Options wires one rename run together.
type Options struct {
	// Config carries the parsed command-line settings.
	Config *config.Options
	// Sources are consulted in order for a release year; the first hit wins.
	Sources []lookup.Source
	// Output receives console reporting. Nil selects the default console.
	Output *output.Output
}

// Run executes one full pass: the optional flatten splitter, then the level
// walk, renaming every candidate album folder whose computed name differs
// from its current one. Scan errors and lookup misses are reported and the
// pass continues; a failed rename aborts it.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()

	out := opts.Output
	if out == nil {
		out = output.New(output.DefaultConfig())
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultOptions()
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", cfg.Root, err)
	}

	logs, err := runlog.Open(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("opening run logs: %w", err)
	}

	summary := &Summary{}
	defer func() { summary.Duration = time.Since(start) }()
	defer func() {
		if err := logs.Close(); err != nil {
			out.Error("closing run logs: %v", err)
		}
	}()

	if cfg.Deflat {
		deflatSummary, err := deflat.Run(root, deflat.Options{DryRun: cfg.DryRun}, logs, out)
		summary.DeflatMoved = deflatSummary.Moved
		summary.DeflatFailed = deflatSummary.Failed
		if err != nil {
			return summary, fmt.Errorf("deflat pass: %w", err)
		}
	}

	candidates, scanErrs := scanner.Walk(root, scanner.WalkOptions{
		StartLevel: cfg.Levels.Start,
		EndLevel:   cfg.Levels.End,
	})
	summary.Candidates = len(candidates)
	summary.ScanErrors = len(scanErrs)
	for _, scanErr := range scanErrs {
		out.Error("scan: %v", scanErr)
	}

	r := &run{
		root:     root,
		dryRun:   cfg.DryRun,
		detector: edgecase.NewDetector(cfg.Edges),
		sources:  opts.Sources,
		logs:     logs,
		out:      out,
		summary:  summary,
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := r.processDir(ctx, candidate); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

// run carries the shared state of one pass over the candidates.
type run struct {
	root             string
	dryRun           bool
	detector         *edgecase.Detector
	sources          []lookup.Source
	logs             *runlog.Files
	out              *output.Output
	summary          *Summary
	tokenErrorLogged bool
}

// processDir applies the title pipeline to one candidate folder and renames
// it when the computed name differs. An edge case only bypasses the year
// stages; the sanitized title still feeds the rename decision. The rename
// line is recorded before the rename is attempted.
func (r *run) processDir(ctx context.Context, candidate scanner.Candidate) error {
	r.out.Verbose("inspecting %s", candidate.Path)

	parent := filepath.Dir(candidate.FullPath)
	band := filepath.Base(parent)

	title := normalizer.StripArtistPrefix(candidate.Name, band)
	title = normalizer.Sanitize(title)

	if r.detector.IsEdgeCase(candidate.FullPath) {
		r.record(r.logs.Skipped, "[SKIP] Edge case: "+candidate.Path)
		r.summary.EdgeCases++
	} else {
		title = normalizer.MoveYearToFront(title)
		if !yearparser.HasYearPrefix(title) {
			if year := r.lookupYear(ctx, band, title, candidate.FullPath); year != "" {
				title = year + " - " + title
			}
		}
	}

	if title == "" {
		r.record(r.logs.Skipped, "[UNCHANGED] Empty title after sanitization: "+candidate.Path)
		r.summary.EmptyTitles++
		return nil
	}

	newPath := filepath.Join(parent, title)
	if newPath == candidate.FullPath {
		r.record(r.logs.Skipped, "[SKIP] Already formatted: "+candidate.Path)
		r.summary.AlreadyFormatted++
		return nil
	}

	message := "Rename: " + candidate.Path + " -> " + newPath
	if r.dryRun {
		message = "[DRY-RUN] " + message
	}
	r.record(r.logs.Renamed, message)

	if !r.dryRun {
		if err := organizer.RenameDir(candidate.FullPath, newPath); err != nil {
			return fmt.Errorf("renaming %s: %w", candidate.Path, err)
		}
	}
	r.summary.Renamed++
	return nil
}

// lookupYear walks the source chain for a release year and returns it, or ""
// when no source has one. The last source's answer drives the miss
// reporting. A missing API token is reported once per run, then stays quiet.
func (r *run) lookupYear(ctx context.Context, band, title, dir string) string {
	if len(r.sources) == 0 {
		return ""
	}

	r.out.Info("search albums \"%s\" year on Discogs", title)

	var result lookup.Result
	for _, source := range r.sources {
		result = source.Find(ctx, lookup.Query{Artist: band, Album: title, Dir: dir})
		if result.Status == lookup.StatusFound {
			return result.Year
		}
	}

	r.summary.LookupMisses++
	switch result.Status {
	case lookup.StatusNotFound:
		r.record(r.logs.NotFound, "[NOT-FOUND] Discogs API not found for "+band+"/"+title)
	case lookup.StatusFailed:
		if errors.Is(result.Err, discogs.ErrMissingToken) && r.tokenErrorLogged {
			break
		}
		if errors.Is(result.Err, discogs.ErrMissingToken) {
			r.tokenErrorLogged = true
		}
		r.record(r.logs.NotFound, fmt.Sprintf("[ERROR] Discogs API failed for %s/%s: %v", band, title, result.Err))
	}
	return ""
}

// record echoes a report line to the console and appends it to a run log.
func (r *run) record(log *runlog.Log, line string) {
	r.out.Report(line)
	if err := log.Append(line); err != nil {
		r.out.Error("writing run log: %v", err)
	}
}
