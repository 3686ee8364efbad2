package typescript

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Config implements LanguageConfig for plain TypeScript. JSX is not valid
// in these files; `<T>expr` parses as a type assertion.
type Config struct{}

// Language identifier
func (c *Config) Language() string {
	return "typescript"
}

// Extensions supported
func (c *Config) Extensions() []string {
	return []string{".ts", ".mts", ".cts"}
}

// GetLanguage returns tree-sitter language for TypeScript
func (c *Config) GetLanguage() *sitter.Language {
	return typescript.GetLanguage()
}

// TSXConfig implements LanguageConfig for TypeScript with JSX.
type TSXConfig struct{}

// Language identifier
func (c *TSXConfig) Language() string {
	return "tsx"
}

// Extensions supported
func (c *TSXConfig) Extensions() []string {
	return []string{".tsx"}
}

// GetLanguage returns tree-sitter language for TSX
func (c *TSXConfig) GetLanguage() *sitter.Language {
	return tsx.GetLanguage()
}
