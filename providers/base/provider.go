package base

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/jsxlint/providers"
	"github.com/termfx/jsxlint/syntax"
)

// LanguageConfig defines language-specific behavior that must be implemented
type LanguageConfig interface {
	Language() string
	Extensions() []string
	GetLanguage() *sitter.Language
}

// ParseError reports the first syntax error in a file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

// Provider provides common functionality for all language providers
type Provider struct {
	config LanguageConfig
	lang   *sitter.Language
	pool   sync.Pool
	cache  *ASTCache

	borrowed atomic.Int64
	returned atomic.Int64
}

// New creates a base provider with language-specific config
func New(config LanguageConfig) *Provider {
	lang := config.GetLanguage()
	if lang == nil {
		panic(fmt.Sprintf("Failed to load %s language for tree-sitter", config.Language()))
	}

	p := &Provider{
		config: config,
		lang:   lang,
		cache:  GlobalCache,
	}
	p.pool.New = func() any {
		parser := sitter.NewParser()
		parser.SetLanguage(lang)
		return parser
	}
	return p
}

// WithCache swaps the parse cache; nil disables caching.
func (p *Provider) WithCache(c *ASTCache) *Provider {
	p.cache = c
	return p
}

// Language returns language identifier
func (p *Provider) Language() string {
	return p.config.Language()
}

// Extensions returns supported file extensions
func (p *Provider) Extensions() []string {
	return p.config.Extensions()
}

// Stats reports parser pool usage.
func (p *Provider) Stats() providers.Stats {
	b, r := p.borrowed.Load(), p.returned.Load()
	return providers.Stats{BorrowCount: b, ReturnCount: r, Active: b - r}
}

func (p *Provider) borrow() *sitter.Parser {
	p.borrowed.Add(1)
	return p.pool.Get().(*sitter.Parser)
}

func (p *Provider) release(parser *sitter.Parser) {
	p.pool.Put(parser)
	p.returned.Add(1)
}

func (p *Provider) parseTree(source []byte) (*sitter.Tree, error) {
	parser := p.borrow()
	defer p.release(parser)

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse source")
	}
	return tree, nil
}

// Parse lowers source into a syntax.File. A file containing syntax errors
// yields a *ParseError.
func (p *Provider) Parse(path string, source []byte) (*syntax.File, error) {
	key := p.Language()
	if p.cache != nil {
		if f, ok := p.cache.Get(key, source); ok {
			clone := *f
			clone.Path = path
			return &clone, nil
		}
	}

	tree, err := p.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if perr := firstError(root); perr != nil {
		perr.Path = path
		return nil, perr
	}

	f := lowerFile(path, source, root)
	if p.cache != nil {
		p.cache.Put(key, source, f)
	}
	return f, nil
}

// firstError returns the first ERROR or missing node in document order.
func firstError(root *sitter.Node) *ParseError {
	if !root.HasError() {
		return nil
	}
	var found *ParseError
	var visit func(n *sitter.Node) bool
	visit = func(n *sitter.Node) bool {
		if n.Type() == "ERROR" || n.IsMissing() {
			found = &ParseError{
				Line:    int(n.StartPoint().Row) + 1,
				Column:  int(n.StartPoint().Column) + 1,
				Offset:  int(n.StartByte()),
				Message: errorMessage(n),
			}
			return true
		}
		if !n.HasError() {
			return false
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c != nil && visit(c) {
				return true
			}
		}
		return false
	}
	visit(root)
	if found == nil {
		found = &ParseError{Line: 1, Column: 1, Message: "Parsing error: invalid syntax"}
	}
	return found
}

func errorMessage(n *sitter.Node) string {
	if n.IsMissing() {
		return fmt.Sprintf("Parsing error: missing %q", n.Type())
	}
	return "Parsing error: unexpected token"
}
