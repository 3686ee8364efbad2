package rules

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/termfx/jsxlint/syntax"
)

// HasAttribute reports whether o carries a plain attribute called name.
// Spread attributes are not looked through.
func HasAttribute(o *syntax.JSXOpening, name string) bool {
	return FindAttribute(o, name) != nil
}

// FindAttribute returns the first plain attribute called name, or nil.
func FindAttribute(o *syntax.JSXOpening, name string) *syntax.JSXAttribute {
	if o == nil {
		return nil
	}
	for _, a := range o.Attrs {
		if attr, ok := a.(*syntax.JSXAttribute); ok && attr.Name == name {
			return attr
		}
	}
	return nil
}

// AttributeValue returns the value of attribute name when it is a plain
// string literal. Expression containers, elements and bare attributes yield
// ok == false.
func AttributeValue(o *syntax.JSXOpening, name string) (string, bool) {
	attr := FindAttribute(o, name)
	if attr == nil {
		return "", false
	}
	lit, ok := attr.Value.(*syntax.StringLit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// IsMarkup reports whether e, ignoring parentheses, is a JSX element or
// fragment.
func IsMarkup(e syntax.Expr) bool {
	switch syntax.Unparen(e).(type) {
	case *syntax.JSXElement, *syntax.JSXFragment:
		return true
	}
	return false
}

// ReturnsMarkup reports whether fn's expression body is markup, or whether
// any return statement of its block body returns markup. Returns inside
// nested functions belong to those functions and are not considered.
// Markup stored in a variable and returned through it is not detected.
func ReturnsMarkup(fn *syntax.Function) bool {
	if fn == nil || fn.Body == nil {
		return false
	}
	block, ok := fn.Body.(*syntax.BlockStmt)
	if !ok {
		body, isExpr := fn.Body.(syntax.Expr)
		return isExpr && IsMarkup(body)
	}

	found := false
	syntax.Inspect(block, func(n syntax.Node) bool {
		if found {
			return false
		}
		switch n := n.(type) {
		case *syntax.Function, *syntax.FunctionDecl:
			return false
		case *syntax.ReturnStmt:
			if IsMarkup(n.Result) {
				found = true
			}
			return false
		}
		return true
	})
	return found
}

// IsCompoundComponent reports whether some top-level statement of f is
// `Object.assign(name, ...)` with at least two arguments.
func IsCompoundComponent(f *syntax.File, name string) bool {
	for _, s := range f.Body {
		if target, ok := compoundTarget(s); ok && target == name {
			return true
		}
	}
	return false
}

// compoundTarget extracts the component a top-level Object.assign extends.
func compoundTarget(s syntax.Stmt) (string, bool) {
	stmt, ok := s.(*syntax.ExprStmt)
	if !ok {
		return "", false
	}
	call, ok := syntax.Unparen(stmt.X).(*syntax.CallExpr)
	if !ok || len(call.Args) < 2 {
		return "", false
	}
	callee, ok := call.Callee.(*syntax.MemberExpr)
	if !ok || callee.Property == nil || callee.Property.Name != "assign" {
		return "", false
	}
	if obj, ok := callee.Object.(*syntax.Ident); !ok || obj.Name != "Object" {
		return "", false
	}
	first, ok := call.Args[0].(*syntax.Ident)
	if !ok {
		return "", false
	}
	return first.Name, true
}

// component is a markup-returning declaration.
type component struct {
	name *syntax.Ident
	fn   *syntax.Function
	decl syntax.Node
}

func functionComponent(d *syntax.FunctionDecl) (component, bool) {
	if d == nil || d.Name == nil || d.Func == nil || !ReturnsMarkup(d.Func) {
		return component{}, false
	}
	return component{name: d.Name, fn: d.Func, decl: d}, true
}

func variableComponent(d *syntax.VarDeclarator) (component, bool) {
	if d == nil || d.Name == nil {
		return component{}, false
	}
	fn, ok := syntax.Unparen(d.Init).(*syntax.Function)
	if !ok || !ReturnsMarkup(fn) {
		return component{}, false
	}
	return component{name: d.Name, fn: fn, decl: d}, true
}

// Kebab converts a component name to kebab case: ButtonGroup -> button-group.
func Kebab(name string) string {
	var b strings.Builder
	var prev rune
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}

// upperFirst uppercases only the first character; mybutton -> Mybutton.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

const componentNameVar = "{{componentName}}"

// expandPattern substitutes the component name into a pattern template.
func expandPattern(template, name string) string {
	return strings.ReplaceAll(template, componentNameVar, regexp.QuoteMeta(name))
}

// literalFromPattern returns the single identifier an anchored pattern such
// as ^ButtonProps$ accepts. ok is false when the pattern admits more than one
// name.
func literalFromPattern(pattern string) (string, bool) {
	lit := strings.TrimSuffix(strings.TrimPrefix(pattern, "^"), "$")
	if lit == "" {
		return "", false
	}
	for _, r := range lit {
		if !(r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return "", false
		}
	}
	return lit, true
}
