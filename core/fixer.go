package core

import (
	"fmt"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
)

// FixOutcome is the result of a single fix pass.
type FixOutcome struct {
	Output    string
	Applied   []Diagnostic
	Remaining []Diagnostic
}

// Changed reports whether any fix was applied.
func (o FixOutcome) Changed() bool { return len(o.Applied) > 0 }

// ApplyFixes applies the fixes carried by diags to src in one left-to-right
// pass. Fixes are ordered by range; a fix whose start is not past the end of
// the previously applied fix is left in Remaining for a later pass, as are
// diagnostics without a fix and fixes with an invalid range.
func ApplyFixes(src string, diags []Diagnostic) FixOutcome {
	fixable := make([]Diagnostic, 0, len(diags))
	var out FixOutcome
	for _, d := range diags {
		if d.Fix == nil {
			out.Remaining = append(out.Remaining, d)
			continue
		}
		fixable = append(fixable, d)
	}

	sort.SliceStable(fixable, func(i, j int) bool {
		a, b := fixable[i].Fix.Range, fixable[j].Fix.Range
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})

	buf := make([]byte, 0, len(src)+64)
	lastPos := -1
	for _, d := range fixable {
		start, end := d.Fix.Range[0], d.Fix.Range[1]
		if start <= lastPos || start > end || start < 0 || end > len(src) {
			out.Remaining = append(out.Remaining, d)
			continue
		}
		buf = append(buf, src[max(lastPos, 0):start]...)
		buf = append(buf, d.Fix.Text...)
		lastPos = end
		out.Applied = append(out.Applied, d)
	}
	buf = append(buf, src[max(lastPos, 0):]...)
	out.Output = string(buf)

	SortDiagnostics(out.Remaining)
	return out
}

// SortDiagnostics orders diagnostics by line, column, then rule id.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Location, diags[j].Location
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return diags[i].RuleID < diags[j].RuleID
	})
}

// UnifiedDiff renders a unified diff between original and modified using
// path for both file headers. It returns "" when the inputs are equal.
func UnifiedDiff(path, original, modified string) string {
	if original == modified {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- a/%s\n+++ b/%s\n@@ changes @@\n%d bytes -> %d bytes\n",
			path, path, len(original), len(modified))
	}
	return text
}
