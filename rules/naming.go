package rules

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/termfx/jsxlint/syntax"
)

// NamingOptions configures component-naming.
type NamingOptions struct {
	Pattern       string `mapstructure:"pattern"`
	IgnorePattern string `mapstructure:"ignorePattern"`
	CheckFilename bool   `mapstructure:"checkFilename"`
}

type namingConfig struct {
	NamingOptions
	pattern *regexp.Regexp
	ignore  *regexp.Regexp
}

// ComponentNaming checks that markup-returning declarations are PascalCase.
type ComponentNaming struct{}

func (ComponentNaming) Meta() Meta {
	return Meta{
		ID:          "component-naming",
		Description: "Enforce a naming pattern for React components and optionally match it against the filename",
		Fixable:     true,
		Messages: map[string]string{
			"invalidName":      "Component name '{{name}}' must match pattern {{pattern}}",
			"filenameMismatch": "Component '{{name}}' should live in a file named '{{expected}}', not '{{filename}}'",
		},
	}
}

func (r ComponentNaming) ParseOptions(raw map[string]any) (any, error) {
	opts := NamingOptions{
		Pattern:       "^[A-Z][a-zA-Z0-9]*$",
		IgnorePattern: "^_",
	}
	if err := decodeOptions(r.Meta().ID, raw, &opts); err != nil {
		return nil, err
	}

	cfg := &namingConfig{NamingOptions: opts}
	var err error
	if cfg.pattern, err = compileOption(r.Meta().ID, "pattern", opts.Pattern); err != nil {
		return nil, err
	}
	if opts.IgnorePattern != "" {
		if cfg.ignore, err = compileOption(r.Meta().ID, "ignorePattern", opts.IgnorePattern); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (r ComponentNaming) Create(ctx *Context) Visitor {
	cfg := ctx.Options.(*namingConfig)

	check := func(c component) {
		name := c.name.Name
		if cfg.ignore != nil && cfg.ignore.MatchString(name) {
			return
		}

		if !cfg.pattern.MatchString(name) {
			rep := Report{
				Node:      c.name,
				MessageID: "invalidName",
				Data:      map[string]string{"name": name, "pattern": cfg.Pattern},
			}
			if fixed := upperFirst(name); fixed != name {
				rep.Fix = ReplaceNode(c.name, fixed)
			}
			ctx.Report(rep)
		}

		if cfg.CheckFilename && ctx.Index.IsTopLevel(c.decl) {
			checkFilename(ctx, c.name)
		}
	}

	return Visitor{
		FunctionDeclaration: func(d *syntax.FunctionDecl) {
			if c, ok := functionComponent(d); ok {
				check(c)
			}
		},
		VariableDeclarator: func(d *syntax.VarDeclarator) {
			if c, ok := variableComponent(d); ok {
				check(c)
			}
		},
	}
}

func checkFilename(ctx *Context, name *syntax.Ident) {
	base := filepath.Base(ctx.Filename)
	if ctx.Filename == "" || base == "." || strings.HasPrefix(base, "<") {
		return
	}
	stem, _, _ := strings.Cut(base, ".")
	if stem == "" || stem == "index" {
		return
	}
	if expected := Kebab(name.Name); stem != expected {
		ctx.Report(Report{
			Node:      name,
			MessageID: "filenameMismatch",
			Data:      map[string]string{"name": name.Name, "expected": expected, "filename": stem},
		})
	}
}
