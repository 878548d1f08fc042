// Package main provides the CLI entry point for refold.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"refold/internal/config"
	"refold/internal/discogs"
	"refold/internal/lookup"
	"refold/internal/orchestrator"
	"refold/internal/output"
	"refold/internal/watcher"
)

// version is shown in --version and help; override at build time with
// -ldflags "-X main.version=...".
var version = "1.1.1"

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	setLogLevel()

	if err := opts.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	outConfig := output.DefaultConfig()
	outConfig.Verbose = opts.Verbose
	out := output.New(outConfig)

	token := config.LoadToken()
	if token == "" {
		logrus.Debug("no discogs token configured, lookups will be skipped")
	}
	var sources []lookup.Source
	if opts.TagYear {
		sources = append(sources, lookup.NewFileTags())
	}
	sources = append(sources, discogs.NewClient(token))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runOpts := orchestrator.Options{
		Config:  opts,
		Sources: sources,
		Output:  out,
	}

	summary, err := orchestrator.Run(ctx, runOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(summary.PrintSummary())

	if opts.Watch {
		if err := watchLoop(ctx, runOpts, opts.Root, out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if summary.HasErrors() {
		os.Exit(1)
	}
}

// parseFlags parses args into run options. On --version it prints and exits;
// on --help the flag package prints usage and ErrHelp comes back.
func parseFlags(args []string) (*config.Options, error) {
	fs := flag.NewFlagSet("refold", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	opts := config.DefaultOptions()

	var edges edgeList
	var level string
	var showVersion bool

	fs.BoolVar(&opts.DryRun, "dry-run", false, "Report renames without touching the filesystem")
	fs.BoolVar(&opts.DryRun, "d", false, "Same as --dry-run")
	fs.Var(&edges, "edge", "Edge-case options to process instead of skip")
	fs.Var(&edges, "e", "Same as --edge")
	fs.StringVar(&level, "level", "1,2", "Depth window for album folders, as start,end")
	fs.StringVar(&level, "l", "1,2", "Same as --level")
	fs.BoolVar(&opts.Deflat, "deflat", false, "Split flat \"Artist - Album\" folders before renaming")
	fs.BoolVar(&opts.TagYear, "tag-year", false, "Read release years from embedded audio tags first")
	fs.BoolVar(&opts.Watch, "watch", false, "Keep running and re-run when new folders settle")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&opts.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showVersion, "V", false, "Same as --version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if showVersion {
		fmt.Fprintln(os.Stdout, "refold v"+version)
		os.Exit(0)
	}

	levels, err := config.ParseLevelRange(level)
	if err != nil {
		return nil, err
	}
	opts.Levels = levels
	opts.Edges = config.ParseEdgeOptions(edges)

	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected at most one root directory, got %d arguments", fs.NArg())
	}
	if fs.NArg() == 1 {
		opts.Root = fs.Arg(0)
	}

	return opts, nil
}

// edgeList collects repeatable -e values, splitting each occurrence on
// commas.
type edgeList []string

func (e *edgeList) String() string {
	return strings.Join(*e, ",")
}

func (e *edgeList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			*e = append(*e, part)
		}
	}
	return nil
}

// setLogLevel configures diagnostic logging from the LOG_LEVEL environment
// variable.
func setLogLevel() {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// watchLoop re-runs the pass whenever a new arrival settles, until the
// context is cancelled.
func watchLoop(ctx context.Context, runOpts orchestrator.Options, root string, out *output.Output) error {
	trigger := make(chan struct{}, 1)
	w := watcher.New(nil, func(path string) {
		logrus.WithField("path", path).Debug("arrival settled, scheduling a pass")
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	if err := w.Start(root); err != nil {
		return err
	}
	defer w.Stop()

	out.Info("watching %s for new album folders", root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
			summary, err := orchestrator.Run(ctx, runOpts)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			out.Info("%s", summary.PrintSummary())
		}
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet) {
	const col1 = 28
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "refold v" + version + " renames album folders to \"YYYY - Album Title\""},
		{"", ""},
		{"  refold [OPTIONS] [root]", ""},
		{"", ""},
		{"  -d, --dry-run", "Report renames without touching the filesystem"},
		{"  -e, --edge <options>", "Process edge cases instead of skipping them:"},
		{"", "r|remaster, d|delux, m|multiyears, or a title substring"},
		{"  -l, --level <start,end>", "Depth window for album folders (default: 1,2)"},
		{"      --deflat", "Split flat \"Artist - Album\" folders before renaming"},
		{"      --tag-year", "Read release years from embedded audio tags first"},
		{"      --watch", "Keep running and re-run when new folders settle"},
		{"  -v, --verbose", "Verbose output"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintf(os.Stderr, "%*s%s\n", col1, "", l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
