package linter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/linter"
	"github.com/termfx/jsxlint/providers"
	"github.com/termfx/jsxlint/providers/catalog"
	"github.com/termfx/jsxlint/rules"
	"github.com/termfx/jsxlint/syntax"
)

func newLinter(t *testing.T, entries map[string]linter.Entry) *linter.Linter {
	t.Helper()
	cfg, err := linter.Configure(entries)
	require.NoError(t, err)
	return linter.New(cfg, catalog.New(nil))
}

func ruleIDs(diags []core.Diagnostic) []string {
	ids := make([]string, len(diags))
	for i, d := range diags {
		ids[i] = d.RuleID
	}
	return ids
}

func TestConfigure(t *testing.T) {
	cfg, err := linter.Configure(map[string]linter.Entry{
		"conventions/component-factory": {Severity: core.SeverityError},
		"component-naming":              {Severity: core.SeverityWarn},
		"require-aria":                  {Severity: core.SeverityOff},
	})
	require.NoError(t, err)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "component-naming", cfg.Rules[0].Rule.Meta().ID)
	assert.Equal(t, "component-factory", cfg.Rules[1].Rule.Meta().ID)
	assert.Equal(t, core.SeverityError, cfg.Rules[1].Severity)

	_, err = linter.Configure(map[string]linter.Entry{"no-such-rule": {Severity: core.SeverityWarn}})
	assert.ErrorIs(t, err, linter.ErrUnknownRule)

	_, err = linter.Configure(map[string]linter.Entry{
		"component-naming": {Severity: core.SeverityWarn, Options: map[string]any{"pattern": "("}},
	})
	assert.ErrorIs(t, err, rules.ErrInvalidOptions)
}

func TestPresetEntries(t *testing.T) {
	entries, err := linter.PresetEntries("strict")
	require.NoError(t, err)
	cfg, err := linter.Configure(entries)
	require.NoError(t, err)
	require.Len(t, cfg.Rules, 5)
	for _, r := range cfg.Rules {
		assert.Equal(t, core.SeverityError, r.Severity)
	}

	_, err = linter.PresetEntries("lenient")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	entries, err := linter.PresetEntries("recommended")
	require.NoError(t, err)
	l := newLinter(t, entries)

	src := `interface CardProps {
  className?: string;
}

export const card = (props: CardProps) => (
  <div>
    <button onClick={props.onClick}>Go</button>
  </div>
);
`
	diags, err := l.Verify("src/Card.tsx", []byte(src))
	require.NoError(t, err)

	// Ties on position are broken by rule id.
	assert.Equal(t, []string{"component-factory", "component-naming", "props-interface", "require-test-id"}, ruleIDs(diags))
	for _, d := range diags {
		assert.Equal(t, core.SeverityWarn, d.Severity)
		assert.Equal(t, "src/Card.tsx", d.Location.File)
		assert.NotEmpty(t, d.Message)
	}
	assert.Equal(t, "Component name 'card' must match pattern ^[A-Z][a-zA-Z0-9]*$", diags[1].Message)
	assert.Equal(t, 5, diags[1].Location.Line)
	assert.Equal(t, 14, diags[1].Location.Column)
	assert.Equal(t, 29, diags[2].Location.Column)
	assert.Equal(t, 7, diags[3].Location.Line)
}

func TestVerifyParseError(t *testing.T) {
	l := newLinter(t, map[string]linter.Entry{"require-test-id": {Severity: core.SeverityError}})

	diags, err := l.Verify("Broken.tsx", []byte("const a = <button;\n"))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.True(t, diags[0].Fatal)
	assert.Empty(t, diags[0].RuleID)
	assert.Equal(t, core.SeverityError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "Parsing error")
}

func TestVerifyUnsupported(t *testing.T) {
	l := newLinter(t, nil)
	_, err := l.Verify("styles.css", []byte("a {}"))
	assert.True(t, errors.Is(err, providers.ErrUnsupported))
	assert.False(t, l.Supports("styles.css"))
	assert.True(t, l.Supports("App.jsx"))
}

func TestFixLoop(t *testing.T) {
	l := newLinter(t, map[string]linter.Entry{
		"require-aria":    {Severity: core.SeverityError},
		"require-test-id": {Severity: core.SeverityWarn},
	})

	src := `const m = <Modal open><button>Close</button></Modal>;`
	res, err := l.Fix("Dialog.tsx", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, `const m = <Modal open aria-modal="true" role="dialog"><button data-testid="button-element">Close</button></Modal>;`, res.Output)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, 2, res.Passes)
	assert.True(t, res.Fixed())
}

func TestFixLeavesUnfixable(t *testing.T) {
	l := newLinter(t, map[string]linter.Entry{"component-factory": {Severity: core.SeverityError}})

	src := "const Button = () => <button />;\n"
	res, err := l.Fix("Button.tsx", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, src, res.Output)
	assert.False(t, res.Fixed())
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "useFactory", res.Diagnostics[0].MessageID)
}

func TestAnalyze(t *testing.T) {
	l := newLinter(t, map[string]linter.Entry{"require-test-id": {Severity: core.SeverityError}})
	src := []byte("const a = <a href=\"#\">x</a>;\n")

	res := l.Analyze("Link.jsx", src, false)
	assert.Equal(t, "javascript", res.Language)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Equal(t, 1, res.FixableCount)
	assert.Empty(t, res.Output)

	res = l.Analyze("Link.jsx", src, true)
	assert.Equal(t, "const a = <a href=\"#\" data-testid=\"a-element\">x</a>;\n", res.Output)
	assert.Equal(t, 0, res.ErrorCount)

	res = l.Analyze("Link.vue", src, false)
	assert.NotEmpty(t, res.Error)
}

// panicRule reports every opening element and panics on <Explode />.
type panicRule struct{}

func (panicRule) Meta() rules.Meta {
	return rules.Meta{ID: "panic-rule", Messages: map[string]string{"seen": "saw {{tag}}"}}
}

func (panicRule) ParseOptions(map[string]any) (any, error) { return nil, nil }

func (panicRule) Create(ctx *rules.Context) rules.Visitor {
	return rules.Visitor{
		JSXOpeningElement: func(o *syntax.JSXOpening) {
			ctx.Report(rules.Report{Node: o, MessageID: "seen", Data: map[string]string{"tag": o.Name.Text}})
			if o.Name.Text == "Explode" {
				panic("unexpected node shape")
			}
		},
	}
}

func TestRulePanicIsContained(t *testing.T) {
	cfg := linter.Config{Rules: []linter.RuleSetting{{Rule: panicRule{}, Severity: core.SeverityWarn}}}
	l := linter.New(cfg, catalog.New(nil))

	diags, err := l.Verify("a.tsx", []byte(`const a = <div><Explode /><span /></div>;`))
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, "saw div", diags[0].Message)
	assert.Equal(t, "saw span", diags[1].Message)
}
