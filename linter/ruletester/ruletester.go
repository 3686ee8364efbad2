// Package ruletester runs a rule over source snippets and checks its
// diagnostics and fixes, in the manner of ESLint's RuleTester.
package ruletester

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/linter"
	"github.com/termfx/jsxlint/providers/catalog"
	"github.com/termfx/jsxlint/rules"
)

// DefaultFilename is used when a case does not name its file.
const DefaultFilename = "Component.tsx"

// ValidCase must produce no diagnostics.
type ValidCase struct {
	Name     string
	Code     string
	Filename string
	Options  map[string]any
}

// ExpectedError describes one expected diagnostic. Zero Line or Column and
// nil Data are not checked; Data is compared key by key.
type ExpectedError struct {
	MessageID string
	Data      map[string]string
	Line      int
	Column    int
}

// InvalidCase must produce exactly Errors, in position order. Output is the
// source after one pass of fixes; empty means the source is unchanged.
type InvalidCase struct {
	Name     string
	Code     string
	Filename string
	Options  map[string]any
	Errors   []ExpectedError
	Output   string
}

// Run checks every case as a subtest. For invalid cases it also runs the
// fix loop to completion and requires that no fixable diagnostic remains.
func Run(t *testing.T, rule rules.Rule, valid []ValidCase, invalid []InvalidCase) {
	t.Helper()
	id := rule.Meta().ID

	for i, tc := range valid {
		t.Run(caseName("valid", i, tc.Name), func(t *testing.T) {
			l := newLinter(t, rule, tc.Options)
			diags, err := l.Verify(filename(tc.Filename), []byte(tc.Code))
			require.NoError(t, err)
			assert.Empty(t, diags, "%s: expected no diagnostics for:\n%s", id, tc.Code)
		})
	}

	for i, tc := range invalid {
		t.Run(caseName("invalid", i, tc.Name), func(t *testing.T) {
			l := newLinter(t, rule, tc.Options)
			path := filename(tc.Filename)

			diags, err := l.Verify(path, []byte(tc.Code))
			require.NoError(t, err)
			for _, d := range diags {
				require.False(t, d.Fatal, "unexpected parse error: %s", d.Message)
			}
			require.Len(t, diags, len(tc.Errors), "%s: diagnostics: %s", id, describe(diags))

			for j, want := range tc.Errors {
				got := diags[j]
				assert.Equal(t, id, got.RuleID)
				assert.Equal(t, want.MessageID, got.MessageID, "error %d", j)
				for k, v := range want.Data {
					assert.Equal(t, v, got.Data[k], "error %d data %q", j, k)
				}
				if want.Line > 0 {
					assert.Equal(t, want.Line, got.Location.Line, "error %d line", j)
				}
				if want.Column > 0 {
					assert.Equal(t, want.Column, got.Location.Column, "error %d column", j)
				}
			}

			wantOutput := tc.Output
			if wantOutput == "" {
				wantOutput = tc.Code
			}
			assert.Equal(t, wantOutput, core.ApplyFixes(tc.Code, diags).Output, "%s: fix output", id)

			fixed, err := l.Fix(path, []byte(tc.Code))
			require.NoError(t, err)
			for _, d := range fixed.Diagnostics {
				assert.Nil(t, d.Fix, "%s: fix did not converge, still reported %q after %d passes",
					id, d.Message, fixed.Passes)
			}
		})
	}
}

func newLinter(t *testing.T, rule rules.Rule, options map[string]any) *linter.Linter {
	t.Helper()
	opts, err := rule.ParseOptions(options)
	require.NoError(t, err)
	cfg := linter.Config{Rules: []linter.RuleSetting{{Rule: rule, Severity: core.SeverityError, Options: opts}}}
	return linter.New(cfg, catalog.New(nil))
}

func filename(name string) string {
	if name == "" {
		return DefaultFilename
	}
	return name
}

func caseName(kind string, i int, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s_%d", kind, i)
}

func describe(diags []core.Diagnostic) string {
	out := ""
	for _, d := range diags {
		out += fmt.Sprintf("\n  %d:%d %s (%s)", d.Location.Line, d.Location.Column, d.Message, d.MessageID)
	}
	return out
}
