package rules

import (
	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/syntax"
)

// InsertAfter returns a fix inserting text right after node.
func InsertAfter(node syntax.Node, text string) *core.Fix {
	end := node.Span().End
	return &core.Fix{Range: [2]int{end, end}, Text: text}
}

// ReplaceNode returns a fix replacing node's source text.
func ReplaceNode(node syntax.Node, text string) *core.Fix {
	s := node.Span()
	return &core.Fix{Range: [2]int{s.Start, s.End}, Text: text}
}

// insertAttribute appends attr (which must start with a space) after the
// last attribute of o, or after the tag name and its type arguments when o
// has none.
func insertAttribute(o *syntax.JSXOpening, attr string) *core.Fix {
	if n := len(o.Attrs); n > 0 {
		return InsertAfter(o.Attrs[n-1], attr)
	}
	if o.TypeArgs != nil {
		return InsertAfter(o.TypeArgs, attr)
	}
	return InsertAfter(o.Name, attr)
}

// jsxAttr renders ` name="value"` for insertAttribute.
func jsxAttr(name, value string) string {
	return " " + name + `="` + value + `"`
}
