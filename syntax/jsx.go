package syntax

import "strings"

// JSXNameForm distinguishes the three tag-name shapes.
type JSXNameForm uint8

const (
	JSXNameIdentifier JSXNameForm = iota // Button, div
	JSXNameMember                        // Tabs.Item
	JSXNameNamespaced                    // svg:path
)

// JSXName is the tag of an opening element.
type JSXName struct {
	Loc  Span
	Text string
	Form JSXNameForm
}

// IsIntrinsic reports whether the tag names a host element such as `div`.
func (n *JSXName) IsIntrinsic() bool {
	if n == nil || n.Text == "" || n.Form != JSXNameIdentifier {
		return false
	}
	c := n.Text[0]
	return c >= 'a' && c <= 'z' || strings.Contains(n.Text, "-")
}

// JSXElement is `<Opening ...>Children</Name>` or a self-closing element.
type JSXElement struct {
	Loc      Span
	Opening  *JSXOpening
	Children []Node
}

// JSXFragment is `<>...</>`.
type JSXFragment struct {
	Loc      Span
	Children []Node
}

// JSXOpening is the opening (or self-closing) tag of an element.
type JSXOpening struct {
	Loc         Span
	Name        *JSXName
	TypeArgs    *Opaque // <Icon<string> />
	Attrs       []Node  // *JSXAttribute or *JSXSpreadAttribute
	SelfClosing bool
}

// Attributes returns the plain attributes, skipping spreads.
func (o *JSXOpening) Attributes() []*JSXAttribute {
	out := make([]*JSXAttribute, 0, len(o.Attrs))
	for _, a := range o.Attrs {
		if attr, ok := a.(*JSXAttribute); ok {
			out = append(out, attr)
		}
	}
	return out
}

// JSXAttribute is `name`, `name="v"`, `name={expr}` or `name=<El/>`.
// Value is nil for a bare attribute.
type JSXAttribute struct {
	Loc        Span
	Name       string
	NameLoc    Span
	Namespaced bool
	Value      Node
}

// JSXSpreadAttribute is `{...props}`.
type JSXSpreadAttribute struct {
	Loc Span
	X   Expr
}

// JSXExprContainer is `{X}`. X is nil for an empty container.
type JSXExprContainer struct {
	Loc Span
	X   Expr
}

// JSXText is literal text between tags.
type JSXText struct {
	Loc  Span
	Text string
}

func (n *JSXElement) Kind() Kind         { return KindJSXElement }
func (n *JSXFragment) Kind() Kind        { return KindJSXFragment }
func (n *JSXOpening) Kind() Kind         { return KindJSXOpening }
func (n *JSXName) Kind() Kind            { return KindJSXName }
func (n *JSXAttribute) Kind() Kind       { return KindJSXAttribute }
func (n *JSXSpreadAttribute) Kind() Kind { return KindJSXSpreadAttribute }
func (n *JSXExprContainer) Kind() Kind   { return KindJSXExprContainer }
func (n *JSXText) Kind() Kind            { return KindJSXText }

func (n *JSXElement) Span() Span         { return n.Loc }
func (n *JSXFragment) Span() Span        { return n.Loc }
func (n *JSXOpening) Span() Span         { return n.Loc }
func (n *JSXName) Span() Span            { return n.Loc }
func (n *JSXAttribute) Span() Span       { return n.Loc }
func (n *JSXSpreadAttribute) Span() Span { return n.Loc }
func (n *JSXExprContainer) Span() Span   { return n.Loc }
func (n *JSXText) Span() Span            { return n.Loc }

func (*JSXElement) exprNode()  {}
func (*JSXFragment) exprNode() {}
