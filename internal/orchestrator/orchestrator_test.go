// Package orchestrator coordinates the album folder rename workflow for refold.
package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"refold/internal/config"
	"refold/internal/discogs"
	"refold/internal/lookup"
	"refold/internal/organizer"
	"refold/internal/output"
	"refold/internal/runlog"
)

// stubSource returns a canned result and records the queries it received.
type stubSource struct {
	result  lookup.Result
	queries []lookup.Query
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Find(_ context.Context, q lookup.Query) lookup.Result {
	s.queries = append(s.queries, q)
	return s.result
}

// forbiddenSource fails the test when it is consulted.
type forbiddenSource struct {
	t *testing.T
}

func (f *forbiddenSource) Name() string { return "forbidden" }

func (f *forbiddenSource) Find(context.Context, lookup.Query) lookup.Result {
	f.t.Error("no lookup may run for this title")
	return lookup.NotFound()
}

// runFixture bundles a temp music tree, a log directory and a buffered
// console for one Run call.
type runFixture struct {
	root    string
	logDir  string
	console *bytes.Buffer
	opts    Options
}

func newFixture(t *testing.T, sources ...lookup.Source) *runFixture {
	t.Helper()
	console := &bytes.Buffer{}
	cfg := config.DefaultOptions()
	cfg.Root = t.TempDir()
	cfg.LogDir = t.TempDir()
	return &runFixture{
		root:    cfg.Root,
		logDir:  cfg.LogDir,
		console: console,
		opts: Options{
			Config:  cfg,
			Sources: sources,
			Output:  output.New(output.Config{Writer: console, ErrWriter: console}),
		},
	}
}

func (f *runFixture) album(t *testing.T, artist, album string) string {
	t.Helper()
	dir := filepath.Join(f.root, artist, album)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	return dir
}

func (f *runFixture) flatAlbum(t *testing.T, name string) {
	t.Helper()
	dir := filepath.Join(f.root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "track.mp3"), []byte("audio"), 0644); err != nil {
		t.Fatalf("creating track: %v", err)
	}
}

func (f *runFixture) run(t *testing.T) *Summary {
	t.Helper()
	summary, err := Run(context.Background(), f.opts)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return summary
}

func (f *runFixture) log(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(f.logDir, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(content)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRunRenamesAlbumFolder(t *testing.T) {
	f := newFixture(t, &forbiddenSource{t: t})
	f.album(t, "Muse", "Muse - Absolution {2003}")

	summary := f.run(t)

	if summary.Candidates != 1 || summary.Renamed != 1 {
		t.Errorf("expected 1 candidate and 1 rename, got %+v", summary)
	}
	newDir := filepath.Join(f.root, "Muse", "2003 - Absolution")
	if !exists(newDir) {
		t.Errorf("expected renamed folder at %s", newDir)
	}
	if exists(filepath.Join(f.root, "Muse", "Muse - Absolution {2003}")) {
		t.Error("expected original folder to be gone")
	}
	want := "Rename: " + filepath.Join("Muse", "Muse - Absolution {2003}") + " -> " + newDir + "\n"
	if got := f.log(t, runlog.RenamedLog); got != want {
		t.Errorf("renamed log = %q, want %q", got, want)
	}
}

func TestRunSkipsAlreadyFormatted(t *testing.T) {
	f := newFixture(t, &forbiddenSource{t: t})
	dir := f.album(t, "Muse", "2003 - Absolution")

	summary := f.run(t)

	if summary.AlreadyFormatted != 1 || summary.Renamed != 0 {
		t.Errorf("expected only a skip, got %+v", summary)
	}
	if !exists(dir) {
		t.Error("expected folder untouched")
	}
	want := "[SKIP] Already formatted: " + filepath.Join("Muse", "2003 - Absolution") + "\n"
	if got := f.log(t, runlog.SkippedLog); got != want {
		t.Errorf("skipped log = %q, want %q", got, want)
	}
}

func TestRunLooksUpMissingYear(t *testing.T) {
	source := &stubSource{result: lookup.Found("2003")}
	f := newFixture(t, source)
	dir := f.album(t, "Muse", "Absolution")

	summary := f.run(t)

	if summary.Renamed != 1 || summary.LookupMisses != 0 {
		t.Errorf("expected a lookup-backed rename, got %+v", summary)
	}
	if !exists(filepath.Join(f.root, "Muse", "2003 - Absolution")) {
		t.Error("expected folder renamed with the looked-up year")
	}
	if len(source.queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(source.queries))
	}
	q := source.queries[0]
	if q.Artist != "Muse" || q.Album != "Absolution" || q.Dir != dir {
		t.Errorf("unexpected query %+v", q)
	}
	if !strings.Contains(f.console.String(), `search albums "Absolution" year on Discogs`) {
		t.Errorf("expected search announcement, got %q", f.console.String())
	}
}

func TestRunRecordsLookupMiss(t *testing.T) {
	f := newFixture(t, &stubSource{result: lookup.NotFound()})
	dir := f.album(t, "Muse", "Absolution")

	summary := f.run(t)

	if summary.LookupMisses != 1 || summary.AlreadyFormatted != 1 {
		t.Errorf("expected a recorded miss and an unchanged folder, got %+v", summary)
	}
	if !exists(dir) {
		t.Error("expected folder untouched")
	}
	if got := f.log(t, runlog.NotFoundLog); got != "[NOT-FOUND] Discogs API not found for Muse/Absolution\n" {
		t.Errorf("not_found log = %q", got)
	}
}

func TestRunChainFirstHitWins(t *testing.T) {
	first := &stubSource{result: lookup.Found("1999")}
	second := &stubSource{result: lookup.Found("2002")}
	f := newFixture(t, first, second)
	f.album(t, "Moby", "Play")

	f.run(t)

	if !exists(filepath.Join(f.root, "Moby", "1999 - Play")) {
		t.Error("expected the first source's year to win")
	}
	if len(second.queries) != 0 {
		t.Errorf("expected the second source to stay unconsulted, got %d queries", len(second.queries))
	}
}

func TestRunChainFallsThrough(t *testing.T) {
	first := &stubSource{result: lookup.NotFound()}
	second := &stubSource{result: lookup.Found("1999")}
	f := newFixture(t, first, second)
	f.album(t, "Moby", "Play")

	f.run(t)

	if !exists(filepath.Join(f.root, "Moby", "1999 - Play")) {
		t.Error("expected the second source's year to be used")
	}
	if len(first.queries) != 1 || len(second.queries) != 1 {
		t.Errorf("expected both sources consulted once, got %d and %d",
			len(first.queries), len(second.queries))
	}
}

func TestRunChainReportsLastSourceMiss(t *testing.T) {
	first := &stubSource{result: lookup.Failed(errors.New("tags unreadable"))}
	second := &stubSource{result: lookup.NotFound()}
	f := newFixture(t, first, second)
	f.album(t, "Moby", "Play")

	f.run(t)

	got := f.log(t, runlog.NotFoundLog)
	if got != "[NOT-FOUND] Discogs API not found for Moby/Play\n" {
		t.Errorf("expected the last source to drive the message, got %q", got)
	}
}

func TestRunEdgeCaseSkipsYearStages(t *testing.T) {
	f := newFixture(t, &forbiddenSource{t: t})
	dir := f.album(t, "Muse", "Absolution Remastered 2003")

	summary := f.run(t)

	if summary.EdgeCases != 1 || summary.Renamed != 0 {
		t.Errorf("expected an edge-case skip, got %+v", summary)
	}
	if !exists(dir) {
		t.Error("expected folder untouched")
	}
	rel := filepath.Join("Muse", "Absolution Remastered 2003")
	want := "[SKIP] Edge case: " + rel + "\n[SKIP] Already formatted: " + rel + "\n"
	if got := f.log(t, runlog.SkippedLog); got != want {
		t.Errorf("skipped log = %q, want %q", got, want)
	}
}

func TestRunEdgeOptionEnablesProcessing(t *testing.T) {
	f := newFixture(t, &forbiddenSource{t: t})
	f.opts.Config.Edges = []string{"remaster"}
	f.album(t, "Muse", "Absolution Remastered 2003")

	summary := f.run(t)

	if summary.EdgeCases != 0 || summary.Renamed != 1 {
		t.Errorf("expected the folder to be processed, got %+v", summary)
	}
	if !exists(filepath.Join(f.root, "Muse", "2003 - Absolution Remastered")) {
		t.Error("expected the year to be moved in front")
	}
}

func TestRunEdgeCaseStillAppliesSanitizedTitle(t *testing.T) {
	f := newFixture(t, &forbiddenSource{t: t})
	f.album(t, "Muse", "Absolution~ Remastered")

	summary := f.run(t)

	if summary.EdgeCases != 1 || summary.Renamed != 1 {
		t.Errorf("expected a sanitize-only rename, got %+v", summary)
	}
	if !exists(filepath.Join(f.root, "Muse", "Absolution Remastered")) {
		t.Error("expected the sanitized name to be applied")
	}
	if !strings.Contains(f.log(t, runlog.SkippedLog), "[SKIP] Edge case: ") {
		t.Error("expected the edge-case skip to be recorded")
	}
}

func TestRunEmptyTitle(t *testing.T) {
	source := &stubSource{result: lookup.NotFound()}
	f := newFixture(t, source)
	dir := f.album(t, "Muse", "Muse")

	summary := f.run(t)

	if summary.EmptyTitles != 1 || summary.Renamed != 0 {
		t.Errorf("expected an empty-title skip, got %+v", summary)
	}
	if !exists(dir) {
		t.Error("expected folder untouched")
	}
	want := "[UNCHANGED] Empty title after sanitization: " + filepath.Join("Muse", "Muse") + "\n"
	if got := f.log(t, runlog.SkippedLog); got != want {
		t.Errorf("skipped log = %q, want %q", got, want)
	}
	if len(source.queries) != 1 || source.queries[0].Album != "" {
		t.Errorf("expected one lookup with the emptied title, got %+v", source.queries)
	}
}

func TestRunMissingTokenReportedOnce(t *testing.T) {
	f := newFixture(t, discogs.NewClient(""))
	f.album(t, "ZZ Top", "Fandango")
	f.album(t, "ZZ Top", "Tres Hombres")

	summary := f.run(t)

	if summary.LookupMisses != 2 {
		t.Errorf("expected both lookups to miss, got %+v", summary)
	}
	want := "[ERROR] Discogs API failed for ZZ Top/Fandango: DISCOGS_TOKEN is not set\n"
	if got := f.log(t, runlog.NotFoundLog); got != want {
		t.Errorf("expected a single token error, got %q", got)
	}
}

func TestRunDeflatFeedsWalk(t *testing.T) {
	source := &stubSource{result: lookup.Found("1979")}
	f := newFixture(t, source)
	f.flatAlbum(t, "Pink Floyd - The Wall")
	f.opts.Config.Deflat = true

	summary := f.run(t)

	if summary.DeflatMoved != 1 || summary.Renamed != 1 {
		t.Errorf("expected the split folder to be renamed, got %+v", summary)
	}
	final := filepath.Join(f.root, "Pink Floyd", "1979 - The Wall", "track.mp3")
	if !exists(final) {
		t.Errorf("expected track at %s", final)
	}
	if !strings.Contains(f.log(t, runlog.DeflatLog), "Deflat: Pink Floyd - The Wall -> ") {
		t.Error("expected the split to be recorded")
	}
}

func TestRunAbortsOnRenameCollision(t *testing.T) {
	f := newFixture(t)
	f.album(t, "Muse", "Absolution")
	f.album(t, "Muse", "Absolution~")

	summary, err := Run(context.Background(), f.opts)
	if err == nil {
		t.Fatal("expected the collision to abort the run")
	}
	var moveErr *organizer.MoveError
	if !errors.As(err, &moveErr) || moveErr.Type != organizer.DestinationExists {
		t.Fatalf("expected a DESTINATION_EXISTS error, got %v", err)
	}
	if summary == nil || summary.AlreadyFormatted != 1 {
		t.Errorf("expected the earlier skip to be counted, got %+v", summary)
	}
	if !exists(filepath.Join(f.root, "Muse", "Absolution~")) {
		t.Error("expected the colliding folder to stay in place")
	}
	if !strings.Contains(f.log(t, runlog.RenamedLog), "Rename: ") {
		t.Error("expected the rename line to be recorded before the attempt")
	}
}

func TestRunReportsScanErrors(t *testing.T) {
	f := newFixture(t)
	f.opts.Config.Root = filepath.Join(f.root, "absent")

	summary := f.run(t)

	if summary.ScanErrors != 1 || summary.Candidates != 0 {
		t.Errorf("expected a scan error and no candidates, got %+v", summary)
	}
	if !summary.HasErrors() {
		t.Error("expected HasErrors to be true")
	}
	if !strings.Contains(f.console.String(), "scan: ") {
		t.Errorf("expected a scan error line, got %q", f.console.String())
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	f := newFixture(t, &forbiddenSource{t: t})
	dir := f.album(t, "Muse", "Absolution {Live}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Run(ctx, f.opts)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary.Renamed != 0 {
		t.Errorf("expected no renames, got %+v", summary)
	}
	if !exists(dir) {
		t.Error("expected folder untouched")
	}
}
