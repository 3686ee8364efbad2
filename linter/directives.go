package linter

import (
	"strings"

	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/rules"
	"github.com/termfx/jsxlint/syntax"
)

const directivePrefix = "jsxlint-"

// ruleSet is the rule list of a directive; nil means every rule.
type ruleSet map[string]bool

func (s ruleSet) matches(id string) bool {
	return s == nil || s[id]
}

type toggle struct {
	offset  int
	disable bool
	rules   ruleSet
}

// directives holds the disable comments of one file.
type directives struct {
	lines   map[int][]ruleSet
	toggles []toggle // in source order
}

// parseDirectives reads
//
//	jsxlint-disable-next-line [rule, ...]
//	jsxlint-disable-line [rule, ...]
//	jsxlint-disable [rule, ...]
//	jsxlint-enable [rule, ...]
//
// from the file's comments. Text after "--" is a description and ignored.
func parseDirectives(f *syntax.File) *directives {
	d := &directives{lines: make(map[int][]ruleSet)}
	for _, c := range f.Comments {
		text, _, _ := strings.Cut(strings.TrimSpace(c.Text), "--")
		keyword, rest, _ := strings.Cut(strings.TrimSpace(text), " ")
		if !strings.HasPrefix(keyword, directivePrefix) {
			continue
		}
		set := parseRuleList(rest)

		switch strings.TrimPrefix(keyword, directivePrefix) {
		case "disable-next-line":
			line := c.Loc.EndLine + 1
			d.lines[line] = append(d.lines[line], set)
		case "disable-line":
			d.lines[c.Loc.StartLine] = append(d.lines[c.Loc.StartLine], set)
		case "disable":
			d.toggles = append(d.toggles, toggle{offset: c.Loc.Start, disable: true, rules: set})
		case "enable":
			d.toggles = append(d.toggles, toggle{offset: c.Loc.Start, rules: set})
		}
	}
	return d
}

func parseRuleList(s string) ruleSet {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil
	}
	set := make(ruleSet, len(fields))
	for _, f := range fields {
		set[strings.TrimPrefix(f, rules.PluginName+"/")] = true
	}
	return set
}

// suppressed reports whether a directive silences d. Fatal diagnostics are
// never silenced.
func (ds *directives) suppressed(d core.Diagnostic) bool {
	if d.Fatal {
		return false
	}
	for _, set := range ds.lines[d.Location.Line] {
		if set.matches(d.RuleID) {
			return true
		}
	}
	off := false
	for _, t := range ds.toggles {
		if t.offset > d.Location.Offset {
			break
		}
		if t.rules.matches(d.RuleID) {
			off = t.disable
		}
	}
	return off
}
