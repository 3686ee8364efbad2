// Package syntax defines the closed node model jsxlint rules operate on.
//
// Parsers lower their concrete trees into these types. Every construct a rule
// does not inspect becomes an Opaque node that still carries its lowered
// children, so traversal reaches nested declarations and JSX.
package syntax

// Kind identifies a node variant.
type Kind uint8

const (
	KindFile Kind = iota
	KindComment
	KindFunctionDecl
	KindVarDecl
	KindVarDeclarator
	KindInterfaceDecl
	KindInterfaceMember
	KindImportDecl
	KindImportSpecifier
	KindExportDecl
	KindExprStmt
	KindReturnStmt
	KindBlockStmt
	KindFunction
	KindParam
	KindTypeRef
	KindIdent
	KindStringLit
	KindBoolLit
	KindCallExpr
	KindMemberExpr
	KindParenExpr
	KindJSXElement
	KindJSXFragment
	KindJSXOpening
	KindJSXName
	KindJSXAttribute
	KindJSXSpreadAttribute
	KindJSXExprContainer
	KindJSXText
	KindOpaque
)

var kindNames = [...]string{
	KindFile:               "File",
	KindComment:            "Comment",
	KindFunctionDecl:       "FunctionDecl",
	KindVarDecl:            "VarDecl",
	KindVarDeclarator:      "VarDeclarator",
	KindInterfaceDecl:      "InterfaceDecl",
	KindInterfaceMember:    "InterfaceMember",
	KindImportDecl:         "ImportDecl",
	KindImportSpecifier:    "ImportSpecifier",
	KindExportDecl:         "ExportDecl",
	KindExprStmt:           "ExprStmt",
	KindReturnStmt:         "ReturnStmt",
	KindBlockStmt:          "BlockStmt",
	KindFunction:           "Function",
	KindParam:              "Param",
	KindTypeRef:            "TypeRef",
	KindIdent:              "Ident",
	KindStringLit:          "StringLit",
	KindBoolLit:            "BoolLit",
	KindCallExpr:           "CallExpr",
	KindMemberExpr:         "MemberExpr",
	KindParenExpr:          "ParenExpr",
	KindJSXElement:         "JSXElement",
	KindJSXFragment:        "JSXFragment",
	KindJSXOpening:         "JSXOpening",
	KindJSXName:            "JSXName",
	KindJSXAttribute:       "JSXAttribute",
	KindJSXSpreadAttribute: "JSXSpreadAttribute",
	KindJSXExprContainer:   "JSXExprContainer",
	KindJSXText:            "JSXText",
	KindOpaque:             "Opaque",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Span locates a node in its source. Offsets are bytes; lines and columns
// are 1-based.
type Span struct {
	Start     int `json:"start"`
	End       int `json:"end"`
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
}

// Len returns the byte length of the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether offset lies within [Start, End).
func (s Span) Contains(offset int) bool { return offset >= s.Start && offset < s.End }

// Node is implemented by every syntax node.
type Node interface {
	Kind() Kind
	Span() Span
}

// Stmt is a node that may appear in a statement list.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a node that may appear in expression position.
type Expr interface {
	Node
	exprNode()
}

// Type is a type annotation. Only plain references are modelled; everything
// else lowers to Opaque.
type Type interface {
	Node
	typeNode()
}

// File is the root of a lowered source file.
type File struct {
	Loc      Span
	Path     string
	Source   []byte
	Body     []Stmt
	Comments []*Comment
}

// Text returns the source text covered by span.
func (f *File) Text(s Span) string {
	if f == nil || s.Start < 0 || s.End > len(f.Source) || s.Start > s.End {
		return ""
	}
	return string(f.Source[s.Start:s.End])
}

// Comment is a line or block comment.
type Comment struct {
	Loc   Span
	Text  string // without delimiters
	Block bool
}

// FunctionDecl is `function Name(...) {...}`.
type FunctionDecl struct {
	Loc  Span
	Name *Ident
	Func *Function
}

// VarDecl is a const/let/var statement.
type VarDecl struct {
	Loc         Span
	Keyword     string
	Declarators []*VarDeclarator
}

// VarDeclarator binds one name. Name is nil when the binding is a pattern.
type VarDeclarator struct {
	Loc     Span
	Name    *Ident
	Pattern Node
	Type    Type
	Init    Expr
}

// InterfaceDecl is a TypeScript interface declaration.
type InterfaceDecl struct {
	Loc     Span
	Name    *Ident
	Members []*InterfaceMember
}

// HasMember reports whether the interface declares a member called name.
func (d *InterfaceDecl) HasMember(name string) bool {
	for _, m := range d.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// InterfaceMember is a property or method signature.
type InterfaceMember struct {
	Loc      Span
	Name     string
	Optional bool
}

// ImportDecl is an import statement.
type ImportDecl struct {
	Loc        Span
	Source     string
	Default    string
	Namespace  string
	Specifiers []*ImportSpecifier
	TypeOnly   bool
}

// ImportSpecifier is one `{ Imported as Local }` entry.
type ImportSpecifier struct {
	Loc      Span
	Imported string
	Local    string
}

// ExportDecl wraps an exported declaration or a default-exported value.
type ExportDecl struct {
	Loc     Span
	Default bool
	Decl    Stmt
	Value   Expr
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Loc Span
	X   Expr
}

// ReturnStmt is `return [Result]`.
type ReturnStmt struct {
	Loc    Span
	Result Expr
}

// BlockStmt is a braced statement list.
type BlockStmt struct {
	Loc  Span
	List []Stmt
}

// Function is an arrow function or function expression, or the function part
// of a FunctionDecl. Body is a *BlockStmt or an Expr.
type Function struct {
	Loc    Span
	Name   *Ident
	Params []*Param
	Body   Node
	Arrow  bool
	Async  bool
}

// ParamShape describes how a parameter binds its value.
type ParamShape uint8

const (
	ParamIdent ParamShape = iota
	ParamObject
	ParamArray
	ParamRest
	ParamOther
)

// Param is a formal parameter.
type Param struct {
	Loc        Span
	Shape      ParamShape
	Name       string // set for ParamIdent
	Type       Type
	Optional   bool
	HasDefault bool
}

// TypeRef is a bare type name such as `ButtonProps`.
type TypeRef struct {
	Loc  Span
	Name string
}

// Ident is an identifier.
type Ident struct {
	Loc  Span
	Name string
}

// StringLit is a quoted string. Value has the quotes removed.
type StringLit struct {
	Loc   Span
	Value string
	Raw   string
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Loc   Span
	Value bool
}

// CallExpr is Callee(Args...).
type CallExpr struct {
	Loc    Span
	Callee Expr
	Args   []Expr
}

// MemberExpr is Object.Property.
type MemberExpr struct {
	Loc      Span
	Object   Expr
	Property *Ident
}

// ParenExpr is (X).
type ParenExpr struct {
	Loc Span
	X   Expr
}

// Opaque stands in for constructs rules do not inspect.
type Opaque struct {
	Loc      Span
	Type     string // parser node type, for debugging
	Children []Node
}

func (n *File) Kind() Kind            { return KindFile }
func (n *Comment) Kind() Kind         { return KindComment }
func (n *FunctionDecl) Kind() Kind    { return KindFunctionDecl }
func (n *VarDecl) Kind() Kind         { return KindVarDecl }
func (n *VarDeclarator) Kind() Kind   { return KindVarDeclarator }
func (n *InterfaceDecl) Kind() Kind   { return KindInterfaceDecl }
func (n *InterfaceMember) Kind() Kind { return KindInterfaceMember }
func (n *ImportDecl) Kind() Kind      { return KindImportDecl }
func (n *ImportSpecifier) Kind() Kind { return KindImportSpecifier }
func (n *ExportDecl) Kind() Kind      { return KindExportDecl }
func (n *ExprStmt) Kind() Kind        { return KindExprStmt }
func (n *ReturnStmt) Kind() Kind      { return KindReturnStmt }
func (n *BlockStmt) Kind() Kind       { return KindBlockStmt }
func (n *Function) Kind() Kind        { return KindFunction }
func (n *Param) Kind() Kind           { return KindParam }
func (n *TypeRef) Kind() Kind         { return KindTypeRef }
func (n *Ident) Kind() Kind           { return KindIdent }
func (n *StringLit) Kind() Kind       { return KindStringLit }
func (n *BoolLit) Kind() Kind         { return KindBoolLit }
func (n *CallExpr) Kind() Kind        { return KindCallExpr }
func (n *MemberExpr) Kind() Kind      { return KindMemberExpr }
func (n *ParenExpr) Kind() Kind       { return KindParenExpr }
func (n *Opaque) Kind() Kind          { return KindOpaque }

func (n *File) Span() Span            { return n.Loc }
func (n *Comment) Span() Span         { return n.Loc }
func (n *FunctionDecl) Span() Span    { return n.Loc }
func (n *VarDecl) Span() Span         { return n.Loc }
func (n *VarDeclarator) Span() Span   { return n.Loc }
func (n *InterfaceDecl) Span() Span   { return n.Loc }
func (n *InterfaceMember) Span() Span { return n.Loc }
func (n *ImportDecl) Span() Span      { return n.Loc }
func (n *ImportSpecifier) Span() Span { return n.Loc }
func (n *ExportDecl) Span() Span      { return n.Loc }
func (n *ExprStmt) Span() Span        { return n.Loc }
func (n *ReturnStmt) Span() Span      { return n.Loc }
func (n *BlockStmt) Span() Span       { return n.Loc }
func (n *Function) Span() Span        { return n.Loc }
func (n *Param) Span() Span           { return n.Loc }
func (n *TypeRef) Span() Span         { return n.Loc }
func (n *Ident) Span() Span           { return n.Loc }
func (n *StringLit) Span() Span       { return n.Loc }
func (n *BoolLit) Span() Span         { return n.Loc }
func (n *CallExpr) Span() Span        { return n.Loc }
func (n *MemberExpr) Span() Span      { return n.Loc }
func (n *ParenExpr) Span() Span       { return n.Loc }
func (n *Opaque) Span() Span          { return n.Loc }

func (*FunctionDecl) stmtNode()  {}
func (*VarDecl) stmtNode()       {}
func (*InterfaceDecl) stmtNode() {}
func (*ImportDecl) stmtNode()    {}
func (*ExportDecl) stmtNode()    {}
func (*ExprStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()    {}
func (*BlockStmt) stmtNode()     {}
func (*Opaque) stmtNode()        {}

func (*Function) exprNode()   {}
func (*Ident) exprNode()      {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*CallExpr) exprNode()   {}
func (*MemberExpr) exprNode() {}
func (*ParenExpr) exprNode()  {}
func (*Opaque) exprNode()     {}

func (*TypeRef) typeNode() {}
func (*Opaque) typeNode()  {}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok || p.X == nil {
			return e
		}
		e = p.X
	}
}
