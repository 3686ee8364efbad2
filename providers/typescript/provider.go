package typescript

import "github.com/termfx/jsxlint/providers/base"

// New creates a TypeScript provider for .ts sources.
func New() *base.Provider {
	return base.New(&Config{})
}

// NewTSX creates a provider for .tsx sources.
func NewTSX() *base.Provider {
	return base.New(&TSXConfig{})
}
