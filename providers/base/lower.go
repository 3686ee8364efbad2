package base

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/jsxlint/syntax"
)

// statementTypes are tree-sitter node types lowered through lowerStmt when
// they appear inside an opaque construct.
var statementTypes = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"lexical_declaration":            true,
	"variable_declaration":           true,
	"interface_declaration":          true,
	"import_statement":               true,
	"export_statement":               true,
	"expression_statement":           true,
	"return_statement":               true,
	"statement_block":                true,
}

// lowerer converts one tree-sitter tree into a syntax.File.
type lowerer struct {
	src []byte
}

func lowerFile(path string, src []byte, root *sitter.Node) *syntax.File {
	l := &lowerer{src: src}
	f := &syntax.File{
		Loc:    l.span(root),
		Path:   path,
		Source: src,
	}
	for _, c := range l.named(root) {
		if c.Type() == "hash_bang_line" {
			continue
		}
		f.Body = append(f.Body, l.stmt(c))
	}
	f.Comments = l.comments(root)
	return f
}

func (l *lowerer) span(n *sitter.Node) syntax.Span {
	sp, ep := n.StartPoint(), n.EndPoint()
	return syntax.Span{
		Start:     int(n.StartByte()),
		End:       int(n.EndByte()),
		StartLine: int(sp.Row) + 1,
		StartCol:  int(sp.Column) + 1,
		EndLine:   int(ep.Row) + 1,
		EndCol:    int(ep.Column) + 1,
	}
}

// tagSpan is span(n) starting at n's first token. The tsx grammar folds the
// whitespace preceding a nested JSX node into the node itself.
func (l *lowerer) tagSpan(n *sitter.Node) syntax.Span {
	sp := l.span(n)
	first := n
	for first.ChildCount() > 0 {
		first = first.Child(0)
	}
	if first == n || first.StartByte() <= n.StartByte() {
		return sp
	}
	p := first.StartPoint()
	sp.Start = int(first.StartByte())
	sp.StartLine = int(p.Row) + 1
	sp.StartCol = int(p.Column) + 1
	return sp
}

func (l *lowerer) text(n *sitter.Node) string {
	return n.Content(l.src)
}

// named returns the named children of n, skipping comments.
func (l *lowerer) named(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// hasToken reports whether n has a direct anonymous child with type tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

// childOfType returns the first direct named child with the given type.
func (l *lowerer) childOfType(n *sitter.Node, typ string) *sitter.Node {
	for _, c := range l.named(n) {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

func (l *lowerer) node(n *sitter.Node) syntax.Node {
	if statementTypes[n.Type()] {
		return l.stmt(n)
	}
	return l.expr(n)
}

func (l *lowerer) opaque(n *sitter.Node) *syntax.Opaque {
	o := &syntax.Opaque{Loc: l.span(n), Type: n.Type()}
	for _, c := range l.named(n) {
		o.Children = append(o.Children, l.node(c))
	}
	return o
}

func (l *lowerer) ident(n *sitter.Node) *syntax.Ident {
	if n == nil {
		return nil
	}
	return &syntax.Ident{Loc: l.span(n), Name: l.text(n)}
}

func (l *lowerer) stmt(n *sitter.Node) syntax.Stmt {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		fn := l.function(n)
		return &syntax.FunctionDecl{Loc: fn.Loc, Name: fn.Name, Func: fn}
	case "lexical_declaration", "variable_declaration":
		return l.varDecl(n)
	case "interface_declaration":
		return l.interfaceDecl(n)
	case "import_statement":
		return l.importDecl(n)
	case "export_statement":
		return l.exportDecl(n)
	case "expression_statement":
		s := &syntax.ExprStmt{Loc: l.span(n)}
		if kids := l.named(n); len(kids) > 0 {
			s.X = l.expr(kids[0])
		}
		return s
	case "return_statement":
		s := &syntax.ReturnStmt{Loc: l.span(n)}
		if kids := l.named(n); len(kids) > 0 {
			s.Result = l.expr(kids[0])
		}
		return s
	case "statement_block":
		return l.block(n)
	}
	return l.opaque(n)
}

func (l *lowerer) block(n *sitter.Node) *syntax.BlockStmt {
	b := &syntax.BlockStmt{Loc: l.span(n)}
	for _, c := range l.named(n) {
		b.List = append(b.List, l.stmt(c))
	}
	return b
}

func (l *lowerer) varDecl(n *sitter.Node) *syntax.VarDecl {
	d := &syntax.VarDecl{Loc: l.span(n), Keyword: "var"}
	if kind := n.ChildByFieldName("kind"); kind != nil {
		d.Keyword = l.text(kind)
	} else if n.Type() == "lexical_declaration" && n.ChildCount() > 0 {
		d.Keyword = l.text(n.Child(0))
	}
	for _, c := range l.named(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		d.Declarators = append(d.Declarators, l.declarator(c))
	}
	return d
}

func (l *lowerer) declarator(n *sitter.Node) *syntax.VarDeclarator {
	d := &syntax.VarDeclarator{Loc: l.span(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		if name.Type() == "identifier" {
			d.Name = l.ident(name)
		} else {
			d.Pattern = l.opaque(name)
		}
	}
	if ann := l.childOfType(n, "type_annotation"); ann != nil {
		d.Type = l.typeAnnotation(ann)
	}
	if v := n.ChildByFieldName("value"); v != nil {
		d.Init = l.expr(v)
	}
	return d
}

func (l *lowerer) interfaceDecl(n *sitter.Node) *syntax.InterfaceDecl {
	d := &syntax.InterfaceDecl{Loc: l.span(n), Name: l.ident(n.ChildByFieldName("name"))}
	body := n.ChildByFieldName("body")
	if body == nil {
		body = l.childOfType(n, "object_type")
	}
	if body == nil {
		body = l.childOfType(n, "interface_body")
	}
	if body == nil {
		return d
	}
	for _, m := range l.named(body) {
		switch m.Type() {
		case "property_signature", "method_signature":
			name := m.ChildByFieldName("name")
			if name == nil {
				continue
			}
			d.Members = append(d.Members, &syntax.InterfaceMember{
				Loc:      l.span(m),
				Name:     unquote(l.text(name)),
				Optional: hasToken(m, "?"),
			})
		}
	}
	return d
}

func (l *lowerer) importDecl(n *sitter.Node) *syntax.ImportDecl {
	d := &syntax.ImportDecl{Loc: l.span(n), TypeOnly: hasToken(n, "type")}
	if src := n.ChildByFieldName("source"); src != nil {
		d.Source = unquote(l.text(src))
	}
	clause := l.childOfType(n, "import_clause")
	if clause == nil {
		return d
	}
	for _, c := range l.named(clause) {
		switch c.Type() {
		case "identifier":
			d.Default = l.text(c)
		case "namespace_import":
			if id := l.childOfType(c, "identifier"); id != nil {
				d.Namespace = l.text(id)
			}
		case "named_imports":
			for _, s := range l.named(c) {
				if s.Type() != "import_specifier" {
					continue
				}
				spec := &syntax.ImportSpecifier{Loc: l.span(s)}
				if name := s.ChildByFieldName("name"); name != nil {
					spec.Imported = unquote(l.text(name))
					spec.Local = spec.Imported
				}
				if alias := s.ChildByFieldName("alias"); alias != nil {
					spec.Local = l.text(alias)
				}
				d.Specifiers = append(d.Specifiers, spec)
			}
		}
	}
	return d
}

func (l *lowerer) exportDecl(n *sitter.Node) *syntax.ExportDecl {
	d := &syntax.ExportDecl{Loc: l.span(n), Default: hasToken(n, "default")}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		d.Decl = l.stmt(decl)
	}
	if v := n.ChildByFieldName("value"); v != nil {
		d.Value = l.expr(v)
		// `export default function Name() {}` is a declaration even when the
		// grammar reports it as a value.
		if fn, ok := d.Value.(*syntax.Function); ok && fn.Name != nil && !fn.Arrow {
			d.Decl = &syntax.FunctionDecl{Loc: fn.Loc, Name: fn.Name, Func: fn}
			d.Value = nil
		}
	}
	return d
}

func (l *lowerer) expr(n *sitter.Node) syntax.Expr {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "arrow_function", "function", "function_expression", "generator_function":
		return l.function(n)
	case "identifier":
		return l.ident(n)
	case "string":
		raw := l.text(n)
		return &syntax.StringLit{Loc: l.span(n), Raw: raw, Value: unquote(raw)}
	case "true", "false":
		return &syntax.BoolLit{Loc: l.span(n), Value: n.Type() == "true"}
	case "call_expression":
		return l.call(n)
	case "member_expression":
		m := &syntax.MemberExpr{Loc: l.span(n), Object: l.expr(n.ChildByFieldName("object"))}
		if prop := n.ChildByFieldName("property"); prop != nil {
			m.Property = l.ident(prop)
		}
		return m
	case "parenthesized_expression":
		p := &syntax.ParenExpr{Loc: l.span(n)}
		if kids := l.named(n); len(kids) > 0 {
			p.X = l.expr(kids[0])
		}
		return p
	case "jsx_element":
		return l.jsxElement(n)
	case "jsx_self_closing_element":
		return &syntax.JSXElement{Loc: l.tagSpan(n), Opening: l.jsxOpening(n, true)}
	case "jsx_fragment":
		return &syntax.JSXFragment{Loc: l.tagSpan(n), Children: l.jsxChildren(n)}
	}
	return l.opaque(n)
}

func (l *lowerer) call(n *sitter.Node) *syntax.CallExpr {
	c := &syntax.CallExpr{Loc: l.span(n), Callee: l.expr(n.ChildByFieldName("function"))}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return c
	}
	for _, a := range l.named(args) {
		c.Args = append(c.Args, l.expr(a))
	}
	return c
}

func (l *lowerer) function(n *sitter.Node) *syntax.Function {
	fn := &syntax.Function{
		Loc:   l.span(n),
		Name:  l.ident(n.ChildByFieldName("name")),
		Arrow: n.Type() == "arrow_function",
		Async: hasToken(n, "async"),
	}
	if single := n.ChildByFieldName("parameter"); single != nil {
		fn.Params = append(fn.Params, l.param(single))
	} else if params := n.ChildByFieldName("parameters"); params != nil {
		for _, p := range l.named(params) {
			fn.Params = append(fn.Params, l.param(p))
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "statement_block" {
			fn.Body = l.block(body)
		} else {
			fn.Body = l.expr(body)
		}
	}
	return fn
}

func patternShape(typ string) syntax.ParamShape {
	switch typ {
	case "identifier":
		return syntax.ParamIdent
	case "object_pattern":
		return syntax.ParamObject
	case "array_pattern":
		return syntax.ParamArray
	case "rest_pattern":
		return syntax.ParamRest
	}
	return syntax.ParamOther
}

func (l *lowerer) param(n *sitter.Node) *syntax.Param {
	p := &syntax.Param{Loc: l.span(n), Shape: syntax.ParamOther}
	pattern := n
	switch n.Type() {
	case "required_parameter", "optional_parameter":
		p.Optional = n.Type() == "optional_parameter"
		p.HasDefault = n.ChildByFieldName("value") != nil
		pattern = n.ChildByFieldName("pattern")
		if ann := l.childOfType(n, "type_annotation"); ann != nil {
			p.Type = l.typeAnnotation(ann)
		}
	case "assignment_pattern":
		p.HasDefault = true
		pattern = n.ChildByFieldName("left")
	}
	if pattern == nil {
		return p
	}
	p.Shape = patternShape(pattern.Type())
	if p.Shape == syntax.ParamIdent {
		p.Name = l.text(pattern)
	}
	return p
}

// typeAnnotation lowers the type inside `: T`. Only a bare type name becomes
// a TypeRef.
func (l *lowerer) typeAnnotation(ann *sitter.Node) syntax.Type {
	kids := l.named(ann)
	if len(kids) == 0 {
		return nil
	}
	t := kids[0]
	if t.Type() == "type_identifier" {
		return &syntax.TypeRef{Loc: l.span(t), Name: l.text(t)}
	}
	return l.opaque(t)
}

func (l *lowerer) jsxElement(n *sitter.Node) syntax.Expr {
	open := n.ChildByFieldName("open_tag")
	if open == nil {
		open = l.childOfType(n, "jsx_opening_element")
	}
	if open == nil || open.ChildByFieldName("name") == nil {
		return &syntax.JSXFragment{Loc: l.tagSpan(n), Children: l.jsxChildren(n)}
	}
	return &syntax.JSXElement{
		Loc:      l.tagSpan(n),
		Opening:  l.jsxOpening(open, false),
		Children: l.jsxChildren(n),
	}
}

func (l *lowerer) jsxChildren(n *sitter.Node) []syntax.Node {
	var out []syntax.Node
	for _, c := range l.named(n) {
		switch c.Type() {
		case "jsx_opening_element", "jsx_closing_element":
			continue
		case "jsx_text", "html_character_reference":
			out = append(out, &syntax.JSXText{Loc: l.span(c), Text: l.text(c)})
		case "jsx_expression":
			out = append(out, l.jsxExpr(c))
		default:
			out = append(out, l.node(c))
		}
	}
	return out
}

func (l *lowerer) jsxExpr(n *sitter.Node) *syntax.JSXExprContainer {
	e := &syntax.JSXExprContainer{Loc: l.tagSpan(n)}
	if kids := l.named(n); len(kids) > 0 {
		e.X = l.expr(kids[0])
	}
	return e
}

func (l *lowerer) jsxOpening(n *sitter.Node, selfClosing bool) *syntax.JSXOpening {
	o := &syntax.JSXOpening{Loc: l.tagSpan(n), SelfClosing: selfClosing}
	name := n.ChildByFieldName("name")
	if name != nil {
		o.Name = &syntax.JSXName{Loc: l.span(name), Text: l.text(name)}
		switch name.Type() {
		case "member_expression", "nested_identifier":
			o.Name.Form = syntax.JSXNameMember
		case "jsx_namespace_name":
			o.Name.Form = syntax.JSXNameNamespaced
		}
	}
	args := n.ChildByFieldName("type_arguments")
	if args == nil {
		args = l.childOfType(n, "type_arguments")
	}
	if args != nil {
		o.TypeArgs = l.opaque(args)
	}
	for _, c := range l.named(n) {
		switch c.Type() {
		case "jsx_attribute":
			o.Attrs = append(o.Attrs, l.jsxAttribute(c))
		case "jsx_expression":
			spread := &syntax.JSXSpreadAttribute{Loc: l.span(c)}
			if kids := l.named(c); len(kids) > 0 {
				inner := kids[0]
				if inner.Type() == "spread_element" {
					if arg := l.named(inner); len(arg) > 0 {
						inner = arg[0]
					}
				}
				spread.X = l.expr(inner)
			}
			o.Attrs = append(o.Attrs, spread)
		}
	}
	return o
}

func (l *lowerer) jsxAttribute(n *sitter.Node) *syntax.JSXAttribute {
	a := &syntax.JSXAttribute{Loc: l.span(n)}
	kids := l.named(n)
	if len(kids) == 0 {
		return a
	}
	a.Name = l.text(kids[0])
	a.NameLoc = l.span(kids[0])
	a.Namespaced = kids[0].Type() == "jsx_namespace_name"
	if len(kids) < 2 {
		return a
	}
	switch v := kids[1]; v.Type() {
	case "jsx_expression":
		a.Value = l.jsxExpr(v)
	default:
		a.Value = l.expr(v)
	}
	return a
}

// comments collects every comment in document order.
func (l *lowerer) comments(root *sitter.Node) []*syntax.Comment {
	var out []*syntax.Comment
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "comment" {
			raw := l.text(n)
			c := &syntax.Comment{Loc: l.span(n)}
			if strings.HasPrefix(raw, "/*") {
				c.Block = true
				c.Text = strings.TrimSuffix(strings.TrimPrefix(raw, "/*"), "*/")
			} else {
				c.Text = strings.TrimPrefix(raw, "//")
			}
			out = append(out, c)
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c != nil {
				visit(c)
			}
		}
	}
	visit(root)
	return out
}

// unquote strips one pair of matching quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}
