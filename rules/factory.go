package rules

import (
	"github.com/termfx/jsxlint/syntax"
)

// FactoryOptions configures component-factory. An empty Components list
// targets every component.
type FactoryOptions struct {
	Components   []string `mapstructure:"components"`
	Ignore       []string `mapstructure:"ignore"`
	Factories    []string `mapstructure:"factories"`
	ImportSource string   `mapstructure:"importSource"`
}

type factoryConfig struct {
	FactoryOptions
	components map[string]bool
	ignore     map[string]bool
	factories  map[string]bool
}

// ComponentFactory flags components declared without an approved factory.
type ComponentFactory struct{}

func (ComponentFactory) Meta() Meta {
	return Meta{
		ID:          "component-factory",
		Description: "Require components to be built with the component factory",
		Fixable:     false,
		Messages: map[string]string{
			"useFactory":         "Component '{{component}}' should be created with a component factory",
			"useCompoundFactory": "Compound component '{{component}}' should be created with a compound component factory",
		},
	}
}

func (r ComponentFactory) ParseOptions(raw map[string]any) (any, error) {
	opts := FactoryOptions{
		Factories:    []string{"createComponent", "createCompoundComponent"},
		ImportSource: "@/lib/component-factory",
	}
	if err := decodeOptions(r.Meta().ID, raw, &opts); err != nil {
		return nil, err
	}
	return &factoryConfig{
		FactoryOptions: opts,
		components:     stringSet(opts.Components),
		ignore:         stringSet(opts.Ignore),
		factories:      stringSet(opts.Factories),
	}, nil
}

func (r ComponentFactory) Create(ctx *Context) Visitor {
	cfg := ctx.Options.(*factoryConfig)
	if ctx.Index.ImportsFrom(cfg.ImportSource, cfg.factories) {
		return Visitor{}
	}

	check := func(c component) {
		name := c.name.Name
		if len(cfg.components) > 0 && !cfg.components[name] || cfg.ignore[name] {
			return
		}
		id := "useFactory"
		if ctx.Index.IsCompound(name) {
			id = "useCompoundFactory"
		}
		ctx.Report(Report{
			Node:      c.name,
			MessageID: id,
			Data:      map[string]string{"component": name},
		})
	}

	return Visitor{
		FunctionDeclaration: func(d *syntax.FunctionDecl) {
			if c, ok := functionComponent(d); ok {
				check(c)
			}
		},
		VariableDeclarator: func(d *syntax.VarDeclarator) {
			if cfg.isFactoryCall(d.Init) {
				return
			}
			if c, ok := variableComponent(d); ok {
				check(c)
			}
		},
	}
}

// isFactoryCall matches createComponent(...) and ns.createComponent(...).
func (cfg *factoryConfig) isFactoryCall(e syntax.Expr) bool {
	call, ok := syntax.Unparen(e).(*syntax.CallExpr)
	if !ok {
		return false
	}
	switch callee := call.Callee.(type) {
	case *syntax.Ident:
		return cfg.factories[callee.Name]
	case *syntax.MemberExpr:
		return callee.Property != nil && cfg.factories[callee.Property.Name]
	}
	return false
}
