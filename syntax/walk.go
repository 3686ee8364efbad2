package syntax

import "fmt"

// Visitor is called for each node by Walk. If Visit returns a non-nil
// visitor w, Walk visits the node's children with w and then calls
// w.Visit(nil).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses the tree rooted at n in document order.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v = v.Visit(n); v == nil {
		return
	}

	switch n := n.(type) {
	case *File:
		for _, s := range n.Body {
			Walk(v, s)
		}
	case *Comment, *Ident, *StringLit, *BoolLit, *TypeRef, *InterfaceMember,
		*ImportSpecifier, *JSXName, *JSXText:
		// leaves
	case *FunctionDecl:
		walkIdent(v, n.Name)
		if n.Func != nil {
			Walk(v, n.Func)
		}
	case *VarDecl:
		for _, d := range n.Declarators {
			Walk(v, d)
		}
	case *VarDeclarator:
		walkIdent(v, n.Name)
		Walk(v, n.Pattern)
		Walk(v, n.Type)
		Walk(v, n.Init)
	case *InterfaceDecl:
		walkIdent(v, n.Name)
		for _, m := range n.Members {
			Walk(v, m)
		}
	case *ImportDecl:
		for _, s := range n.Specifiers {
			Walk(v, s)
		}
	case *ExportDecl:
		Walk(v, n.Decl)
		Walk(v, n.Value)
	case *ExprStmt:
		Walk(v, n.X)
	case *ReturnStmt:
		Walk(v, n.Result)
	case *BlockStmt:
		for _, s := range n.List {
			Walk(v, s)
		}
	case *Function:
		for _, p := range n.Params {
			Walk(v, p)
		}
		Walk(v, n.Body)
	case *Param:
		Walk(v, n.Type)
	case *CallExpr:
		Walk(v, n.Callee)
		for _, a := range n.Args {
			Walk(v, a)
		}
	case *MemberExpr:
		Walk(v, n.Object)
		walkIdent(v, n.Property)
	case *ParenExpr:
		Walk(v, n.X)
	case *JSXElement:
		if n.Opening != nil {
			Walk(v, n.Opening)
		}
		for _, c := range n.Children {
			Walk(v, c)
		}
	case *JSXFragment:
		for _, c := range n.Children {
			Walk(v, c)
		}
	case *JSXOpening:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		if n.TypeArgs != nil {
			Walk(v, n.TypeArgs)
		}
		for _, a := range n.Attrs {
			Walk(v, a)
		}
	case *JSXAttribute:
		Walk(v, n.Value)
	case *JSXSpreadAttribute:
		Walk(v, n.X)
	case *JSXExprContainer:
		Walk(v, n.X)
	case *Opaque:
		for _, c := range n.Children {
			Walk(v, c)
		}
	default:
		panic(fmt.Sprintf("syntax.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

// walkIdent guards against typed-nil *Ident values reaching Walk as a
// non-nil interface.
func walkIdent(v Visitor, id *Ident) {
	if id != nil {
		Walk(v, id)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect traverses the tree rooted at n, calling f for each node and with
// nil after a node's children. Returning false skips the children.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}
