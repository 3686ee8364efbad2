package providers

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/termfx/jsxlint/syntax"
)

// ErrUnsupported is returned when no provider handles a file extension.
var ErrUnsupported = errors.New("unsupported file type")

// Provider interface for language-specific implementations
type Provider interface {
	// Metadata
	Language() string
	Extensions() []string

	// Core operations
	Parse(path string, source []byte) (*syntax.File, error)

	// Observability
	Stats() Stats
}

// Registry manages all providers
type Registry struct {
	providers map[string]Provider
	byExt     map[string]Provider
}

// NewRegistry creates provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		byExt:     make(map[string]Provider),
	}
}

// Register adds a provider. Later registrations win for shared extensions.
func (r *Registry) Register(provider Provider) {
	r.providers[provider.Language()] = provider
	for _, ext := range provider.Extensions() {
		r.byExt[strings.ToLower(ext)] = provider
	}
}

// Get retrieves provider by language
func (r *Registry) Get(language string) (Provider, bool) {
	p, exists := r.providers[language]
	return p, exists
}

// ForPath returns the provider registered for path's extension.
func (r *Registry) ForPath(path string) (Provider, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if p, ok := r.byExt[ext]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

// Supports reports whether some provider handles path.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// List returns all providers sorted by language
func (r *Registry) List() []Provider {
	result := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Language() < result[j].Language() })
	return result
}

// Languages returns all registered language identifiers
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.providers))
	for k := range r.providers {
		langs = append(langs, k)
	}
	sort.Strings(langs)
	return langs
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Stats captures parser-pool level metrics exposed by providers.
type Stats struct {
	BorrowCount int64 `json:"borrow_count"`
	ReturnCount int64 `json:"return_count"`
	Active      int64 `json:"active"`
}
