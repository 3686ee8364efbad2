// Package catalog wires the built-in parsers into a provider registry.
package catalog

import (
	"github.com/termfx/jsxlint/providers"
	"github.com/termfx/jsxlint/providers/base"
	"github.com/termfx/jsxlint/providers/javascript"
	"github.com/termfx/jsxlint/providers/typescript"
)

// Default returns a registry of the tsx, typescript and javascript parsers
// sharing base.GlobalCache.
func Default() *providers.Registry {
	return New(base.GlobalCache)
}

// New returns the built-in parsers using cache; a nil cache disables parse
// caching.
func New(cache *base.ASTCache) *providers.Registry {
	reg := providers.NewRegistry()
	for _, p := range []*base.Provider{typescript.NewTSX(), typescript.New(), javascript.New()} {
		reg.Register(p.WithCache(cache))
	}
	return reg
}
