package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/termfx/jsxlint/core"
)

type palette struct {
	path, pos, rule, err, warn, summaryErr, summaryWarn, added, removed, hunk *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:        color.New(color.Underline),
		pos:         color.New(color.Faint),
		rule:        color.New(color.Faint),
		err:         color.New(color.FgRed),
		warn:        color.New(color.FgYellow),
		summaryErr:  color.New(color.FgRed, color.Bold),
		summaryWarn: color.New(color.FgYellow, color.Bold),
		added:       color.New(color.FgGreen),
		removed:     color.New(color.FgRed),
		hunk:        color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.path, p.pos, p.rule, p.err, p.warn, p.summaryErr, p.summaryWarn, p.added, p.removed, p.hunk} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// writeText renders the stylish layout: one block per file with findings,
// then a problem summary.
func writeText(w io.Writer, run *core.RunResult, opts Options) error {
	p := newPalette(opts.Color)
	var errs, warns, fixErrs, fixWarns int

	for _, f := range run.Files {
		if len(f.Diagnostics) == 0 && f.Error == "" {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", p.path.Sprint(f.FilePath))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if f.Error != "" {
			errs++
			fmt.Fprintf(tw, "  %s\t%s\t%s\t\n", p.pos.Sprint("0:0"), p.err.Sprint("error"), f.Error)
		}
		for _, d := range f.Diagnostics {
			sev := p.warn.Sprint("warning")
			if d.Severity == core.SeverityError {
				sev = p.err.Sprint("error")
				errs++
				if d.Fix != nil {
					fixErrs++
				}
			} else {
				warns++
				if d.Fix != nil {
					fixWarns++
				}
			}
			pos := fmt.Sprintf("%d:%d", d.Location.Line, d.Location.Column)
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", p.pos.Sprint(pos), sev, d.Message, p.rule.Sprint(d.RuleID))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if run.FilesModified > 0 {
		fmt.Fprintf(w, "\nFixed %s.\n", plural(run.FilesModified, "file"))
	}

	total := errs + warns
	if total == 0 {
		return nil
	}
	summary := p.summaryWarn
	if errs > 0 {
		summary = p.summaryErr
	}
	fmt.Fprintf(w, "\n%s\n", summary.Sprintf("✖ %s (%s, %s)",
		plural(total, "problem"), plural(errs, "error"), plural(warns, "warning")))
	if fixErrs+fixWarns > 0 {
		fmt.Fprintf(w, "%s\n", summary.Sprintf("  %s and %s potentially fixable with the `--fix` option.",
			plural(fixErrs, "error"), plural(fixWarns, "warning")))
	}
	fmt.Fprintln(w)
	return nil
}

// writeDiff prints the unified diff of every file a fix would change.
func writeDiff(w io.Writer, run *core.RunResult, opts Options) error {
	p := newPalette(opts.Color)
	for _, f := range run.Files {
		if f.Diff == "" {
			continue
		}
		for _, line := range strings.SplitAfter(f.Diff, "\n") {
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				fmt.Fprint(w, line)
			case strings.HasPrefix(line, "@@"):
				fmt.Fprint(w, p.hunk.Sprint(line))
			case strings.HasPrefix(line, "+"):
				fmt.Fprint(w, p.added.Sprint(line))
			case strings.HasPrefix(line, "-"):
				fmt.Fprint(w, p.removed.Sprint(line))
			default:
				fmt.Fprint(w, line)
			}
		}
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
