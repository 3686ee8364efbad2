package javascript

import "github.com/termfx/jsxlint/providers/base"

// New creates a JavaScript/JSX provider.
func New() *base.Provider {
	return base.New(&Config{})
}
