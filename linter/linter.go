// Package linter runs configured rules over parsed files, applies their
// fixes and honours inline disable directives.
package linter

import (
	"errors"
	"fmt"
	"os"

	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/internal/log"
	"github.com/termfx/jsxlint/providers"
	"github.com/termfx/jsxlint/providers/base"
	"github.com/termfx/jsxlint/rules"
	"github.com/termfx/jsxlint/syntax"
)

// MaxFixPasses bounds the verify/fix loop.
const MaxFixPasses = 10

// Linter is safe for concurrent use; every Verify builds fresh per-file state.
type Linter struct {
	config   Config
	registry *providers.Registry
}

// New creates a linter over the given parsers.
func New(config Config, registry *providers.Registry) *Linter {
	return &Linter{config: config, registry: registry}
}

// Config returns the rule set the linter runs.
func (l *Linter) Config() Config { return l.config }

// Supports reports whether path has a registered parser.
func (l *Linter) Supports(path string) bool {
	return l.registry.Supports(path)
}

// Verify parses src and returns diagnostics sorted by position. A syntax
// error yields a single fatal diagnostic and no rule runs.
func (l *Linter) Verify(path string, src []byte) ([]core.Diagnostic, error) {
	p, err := l.registry.ForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := p.Parse(path, src)
	if err != nil {
		var perr *base.ParseError
		if errors.As(err, &perr) {
			return []core.Diagnostic{{
				Message:  perr.Message,
				Severity: core.SeverityError,
				Location: core.Location{File: path, Line: perr.Line, Column: perr.Column, Offset: perr.Offset},
				Fatal:    true,
			}}, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return l.VerifyFile(file), nil
}

// VerifyFile runs every configured rule over an already parsed file.
func (l *Linter) VerifyFile(file *syntax.File) []core.Diagnostic {
	index := rules.NewFileIndex(file)
	active := make([]*activeRule, 0, len(l.config.Rules))
	for _, setting := range l.config.Rules {
		if ar := newActiveRule(setting, file, index); ar != nil {
			active = append(active, ar)
		}
	}

	syntax.Inspect(file, func(n syntax.Node) bool {
		for _, ar := range active {
			ar.dispatch(n)
		}
		return true
	})

	directives := parseDirectives(file)
	diags := []core.Diagnostic{}
	for _, ar := range active {
		for _, rep := range ar.ctx.Reports() {
			d := ar.diagnostic(file.Path, rep)
			if directives.suppressed(d) {
				continue
			}
			diags = append(diags, d)
		}
	}
	core.SortDiagnostics(diags)
	return diags
}

// FixResult is the outcome of the fix loop.
type FixResult struct {
	Output      string
	Diagnostics []core.Diagnostic // remaining after the last pass
	Passes      int
}

// Fixed reports whether the output differs from the input.
func (r FixResult) Fixed() bool { return r.Passes > 0 }

// Fix verifies and applies non-overlapping fixes repeatedly until nothing
// changes or MaxFixPasses is reached, then verifies the final text.
func (l *Linter) Fix(path string, src []byte) (FixResult, error) {
	text := string(src)
	res := FixResult{}
	for {
		diags, err := l.Verify(path, []byte(text))
		if err != nil {
			return FixResult{}, err
		}
		res.Diagnostics = diags
		if res.Passes >= MaxFixPasses || hasFatal(diags) {
			break
		}
		outcome := core.ApplyFixes(text, diags)
		if !outcome.Changed() || outcome.Output == text {
			break
		}
		text = outcome.Output
		res.Passes++
	}
	res.Output = text
	return res, nil
}

// Analyze implements core.Analyzer.
func (l *Linter) Analyze(path string, src []byte, fix bool) core.FileResult {
	res := core.FileResult{FilePath: path, Source: string(src), Diagnostics: []core.Diagnostic{}}
	if p, err := l.registry.ForPath(path); err == nil {
		res.Language = p.Language()
	}

	if fix {
		fr, err := l.Fix(path, src)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Diagnostics = fr.Diagnostics
		res.Output = fr.Output
	} else {
		diags, err := l.Verify(path, src)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Diagnostics = diags
	}
	res.Count()
	return res
}

// VerifyPath reads and verifies a file from disk.
func (l *Linter) VerifyPath(path string) ([]core.Diagnostic, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return l.Verify(path, src)
}

func hasFatal(diags []core.Diagnostic) bool {
	for _, d := range diags {
		if d.Fatal {
			return true
		}
	}
	return false
}

// activeRule is one rule bound to one file.
type activeRule struct {
	setting RuleSetting
	meta    rules.Meta
	ctx     *rules.Context
	visitor rules.Visitor
}

func newActiveRule(setting RuleSetting, file *syntax.File, index *rules.FileIndex) (ar *activeRule) {
	meta := setting.Rule.Meta()
	ctx := rules.NewContext(file, setting.Options, index)
	defer func() {
		if p := recover(); p != nil {
			log.Debug("rule setup failed", "rule", meta.ID, "file", file.Path, "panic", p)
			ar = nil
		}
	}()
	return &activeRule{setting: setting, meta: meta, ctx: ctx, visitor: setting.Rule.Create(ctx)}
}

// dispatch runs the callback matching n. A panicking callback loses only
// the reports it made for n.
func (ar *activeRule) dispatch(n syntax.Node) {
	var call func()
	switch n := n.(type) {
	case *syntax.File:
		if ar.visitor.Program != nil {
			call = func() { ar.visitor.Program(n) }
		}
	case *syntax.FunctionDecl:
		if ar.visitor.FunctionDeclaration != nil {
			call = func() { ar.visitor.FunctionDeclaration(n) }
		}
	case *syntax.VarDeclarator:
		if ar.visitor.VariableDeclarator != nil {
			call = func() { ar.visitor.VariableDeclarator(n) }
		}
	case *syntax.JSXOpening:
		if ar.visitor.JSXOpeningElement != nil {
			call = func() { ar.visitor.JSXOpeningElement(n) }
		}
	}
	if call == nil {
		return
	}

	mark := ar.ctx.Mark()
	defer func() {
		if p := recover(); p != nil {
			ar.ctx.Rollback(mark)
			span := n.Span()
			log.Debug("rule failed on node", "rule", ar.meta.ID, "file", ar.ctx.Filename,
				"line", span.StartLine, "kind", n.Kind().String(), "panic", p)
		}
	}()
	call()
}

func (ar *activeRule) diagnostic(path string, rep rules.Report) core.Diagnostic {
	span := rep.Node.Span()
	return core.Diagnostic{
		RuleID:    ar.meta.ID,
		MessageID: rep.MessageID,
		Message:   rules.FormatMessage(ar.meta.Messages[rep.MessageID], rep.Data),
		Data:      rep.Data,
		Severity:  ar.setting.Severity,
		Location: core.Location{
			File:      path,
			Line:      span.StartLine,
			Column:    span.StartCol,
			EndLine:   span.EndLine,
			EndColumn: span.EndCol,
			Offset:    span.Start,
		},
		Fix: rep.Fix,
	}
}
