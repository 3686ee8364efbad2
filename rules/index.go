package rules

import (
	"regexp"

	"github.com/termfx/jsxlint/syntax"
)

// FileIndex is built once per file and shared by every rule. It records the
// top-level facts rules would otherwise rescan the statement list for.
type FileIndex struct {
	interfaces map[string]*syntax.InterfaceDecl
	ordered    []*syntax.InterfaceDecl
	compound   map[string]bool
	imports    []*syntax.ImportDecl
	topLevel   map[syntax.Node]bool
}

// NewFileIndex indexes the top-level statements of f. When a name is declared
// twice the first declaration wins.
func NewFileIndex(f *syntax.File) *FileIndex {
	idx := &FileIndex{
		interfaces: make(map[string]*syntax.InterfaceDecl),
		compound:   make(map[string]bool),
		topLevel:   make(map[syntax.Node]bool),
	}
	if f == nil {
		return idx
	}
	for _, s := range f.Body {
		idx.add(s)
	}
	return idx
}

func (idx *FileIndex) add(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.ExportDecl:
		if s.Decl != nil {
			idx.add(s.Decl)
		}
	case *syntax.InterfaceDecl:
		if s.Name == nil {
			return
		}
		if _, dup := idx.interfaces[s.Name.Name]; !dup {
			idx.interfaces[s.Name.Name] = s
			idx.ordered = append(idx.ordered, s)
		}
	case *syntax.ImportDecl:
		idx.imports = append(idx.imports, s)
	case *syntax.FunctionDecl:
		idx.topLevel[s] = true
	case *syntax.VarDecl:
		for _, d := range s.Declarators {
			idx.topLevel[d] = true
		}
	case *syntax.ExprStmt:
		if name, ok := compoundTarget(s); ok {
			idx.compound[name] = true
		}
	}
}

// Interface returns the first top-level interface called name.
func (idx *FileIndex) Interface(name string) *syntax.InterfaceDecl {
	return idx.interfaces[name]
}

// FindInterface returns the first top-level interface whose name matches re.
func (idx *FileIndex) FindInterface(re *regexp.Regexp) *syntax.InterfaceDecl {
	for _, d := range idx.ordered {
		if re.MatchString(d.Name.Name) {
			return d
		}
	}
	return nil
}

// IsCompound reports whether name is the first argument of a top-level
// Object.assign call.
func (idx *FileIndex) IsCompound(name string) bool {
	return idx.compound[name]
}

// IsTopLevel reports whether decl is declared at module scope, directly or
// through an export.
func (idx *FileIndex) IsTopLevel(decl syntax.Node) bool {
	return idx.topLevel[decl]
}

// ImportsFrom reports whether a value import from source binds one of names,
// or binds the module as a default or namespace import.
func (idx *FileIndex) ImportsFrom(source string, names map[string]bool) bool {
	for _, imp := range idx.imports {
		if imp.Source != source || imp.TypeOnly {
			continue
		}
		if imp.Default != "" || imp.Namespace != "" {
			return true
		}
		for _, spec := range imp.Specifiers {
			if names[spec.Imported] {
				return true
			}
		}
	}
	return false
}
