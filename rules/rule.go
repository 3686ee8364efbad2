// Package rules implements the conventions plugin: five rules that enforce
// React component naming, test ids, ARIA attributes, props interfaces and
// factory usage over the syntax model.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/syntax"
)

// ErrInvalidOptions is wrapped by every ParseOptions failure.
var ErrInvalidOptions = errors.New("invalid rule options")

// Meta describes a rule.
type Meta struct {
	ID          string
	Description string
	Fixable     bool
	Messages    map[string]string // message id -> template with {{key}} placeholders
}

// Rule is one static-analysis unit. Implementations hold no state; all
// per-file state lives in the Context and in the Visitor closures returned by
// Create.
type Rule interface {
	Meta() Meta

	// ParseOptions validates and decodes raw user options. A nil map yields
	// the defaults. The returned value is passed back through Context.Options.
	ParseOptions(raw map[string]any) (any, error)

	// Create returns the callbacks to run for one file.
	Create(ctx *Context) Visitor
}

// Visitor holds per-node callbacks. Nil callbacks are skipped.
type Visitor struct {
	Program             func(f *syntax.File)
	FunctionDeclaration func(d *syntax.FunctionDecl)
	VariableDeclarator  func(d *syntax.VarDeclarator)
	JSXOpeningElement   func(o *syntax.JSXOpening)
}

// Report is a violation as produced by a rule, before the host stamps the
// rule id, severity and location.
type Report struct {
	Node      syntax.Node
	MessageID string
	Data      map[string]string
	Fix       *core.Fix
}

// Context is the per-file view handed to a rule.
type Context struct {
	File     *syntax.File
	Filename string
	Options  any
	Index    *FileIndex

	reports []Report
}

// NewContext builds a context for one rule over one file.
func NewContext(file *syntax.File, options any, index *FileIndex) *Context {
	if index == nil {
		index = NewFileIndex(file)
	}
	return &Context{File: file, Filename: file.Path, Options: options, Index: index}
}

// Report records a violation.
func (c *Context) Report(r Report) {
	c.reports = append(c.reports, r)
}

// Mark returns a position that Rollback can return to.
func (c *Context) Mark() int { return len(c.reports) }

// Rollback discards every report made after mark.
func (c *Context) Rollback(mark int) {
	if mark >= 0 && mark < len(c.reports) {
		c.reports = c.reports[:mark]
	}
}

// Reports returns the recorded violations in report order.
func (c *Context) Reports() []Report { return c.reports }

var placeholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// FormatMessage substitutes {{key}} placeholders from data. Unknown keys are
// left as written.
func FormatMessage(template string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		if v, ok := data[key]; ok {
			return v
		}
		return m
	})
}

// decodeOptions decodes raw into out, which must already hold the defaults.
// Lists given by the user replace the default lists.
func decodeOptions(ruleID string, raw map[string]any, out any) error {
	if raw == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		ZeroFields:  true,
		MatchName:   strings.EqualFold,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidOptions, ruleID, err)
	}
	return nil
}

func compileOption(ruleID, name, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %v", ErrInvalidOptions, ruleID, name, err)
	}
	return re, nil
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}
