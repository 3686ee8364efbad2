// Package report renders lint runs as stylish text, ESLint-compatible JSON,
// YAML or unified diffs.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/termfx/jsxlint/core"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDiff Format = "diff"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatDiff}

// ParseFormat accepts a format name; "stylish" is an alias for text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "stylish":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "diff":
		return FormatDiff, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options tweak rendering.
type Options struct {
	Quiet bool // drop warnings
	Color bool
}

// Write renders run to w.
func Write(w io.Writer, run *core.RunResult, format Format, opts Options) error {
	if opts.Quiet {
		run = errorsOnly(run)
	}
	switch format {
	case FormatText:
		return writeText(w, run, opts)
	case FormatJSON:
		return writeJSON(w, run)
	case FormatYAML:
		return writeYAML(w, run)
	case FormatDiff:
		return writeDiff(w, run, opts)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// errorsOnly returns a copy of run without warnings.
func errorsOnly(run *core.RunResult) *core.RunResult {
	out := *run
	out.Files = make([]core.FileResult, len(run.Files))
	for i, f := range run.Files {
		kept := make([]core.Diagnostic, 0, len(f.Diagnostics))
		for _, d := range f.Diagnostics {
			if d.Severity == core.SeverityError {
				kept = append(kept, d)
			}
		}
		f.Diagnostics = kept
		f.Count()
		out.Files[i] = f
	}
	out.Tally()
	return &out
}
