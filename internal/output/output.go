// Package output handles CLI output formatting including verbose mode and
// colored report lines.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI sequences used for report tags.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	Color     bool      // Colorize report tags
}

// Output handles formatted output with verbose and color support.
type Output struct {
	config Config
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{
		config: config,
	}
}

// DefaultConfig returns a Config with sensible defaults and terminal
// detection. Color is disabled when stdout is not a terminal, NO_COLOR is
// set, or TERM is dumb.
func DefaultConfig() Config {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	color := isTTY && os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb"
	return Config{
		Verbose:   false,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Color:     color,
	}
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(o.config.Writer, msg)
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(o.config.Writer, msg)
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(o.config.ErrWriter, msg)
}

// reportColors maps the leading tag of a report line to its color.
var reportColors = map[string]string{
	"[ERROR]":     colorRed,
	"[SKIP]":      colorYellow,
	"[UNCHANGED]": colorYellow,
	"[NOT-FOUND]": colorYellow,
	"[DRY-RUN]":   colorCyan,
}

// Report prints one per-folder result line. Report lines always go to the
// main writer, mirroring what the run logs record; recognized leading tags
// are colorized on capable terminals.
func (o *Output) Report(line string) {
	fmt.Fprintln(o.config.Writer, o.colorize(line))
}

func (o *Output) colorize(line string) string {
	if !o.config.Color {
		return line
	}
	for tag, color := range reportColors {
		if strings.HasPrefix(line, tag) {
			return color + tag + colorReset + line[len(tag):]
		}
	}
	if strings.HasPrefix(line, "Rename:") || strings.HasPrefix(line, "Deflat:") {
		return colorGreen + line + colorReset
	}
	return line
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}
