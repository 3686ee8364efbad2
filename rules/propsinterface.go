package rules

import (
	"regexp"

	"github.com/termfx/jsxlint/syntax"
)

// PropsInterfaceOptions configures props-interface. Pattern may contain
// {{componentName}}.
type PropsInterfaceOptions struct {
	Pattern         string   `mapstructure:"pattern"`
	RequiredMembers []string `mapstructure:"requiredMembers"`
	Ignore          []string `mapstructure:"ignore"`
}

type propsConfig struct {
	PropsInterfaceOptions
	ignore map[string]bool
}

// PropsInterface checks the naming and members of a component's props type.
type PropsInterface struct{}

func (PropsInterface) Meta() Meta {
	return Meta{
		ID:          "props-interface",
		Description: "Require components to type their props with a conventionally named interface",
		Fixable:     true,
		Messages: map[string]string{
			"missingInterface": "Component '{{component}}' has no props interface matching {{pattern}}",
			"invalidName":      "Props type '{{name}}' of component '{{component}}' must match {{pattern}}",
			"missingMember":    "Props interface '{{interface}}' is missing required member '{{member}}'",
		},
	}
}

func (r PropsInterface) ParseOptions(raw map[string]any) (any, error) {
	opts := PropsInterfaceOptions{
		Pattern:         "^" + componentNameVar + "Props$",
		RequiredMembers: []string{"className"},
	}
	if err := decodeOptions(r.Meta().ID, raw, &opts); err != nil {
		return nil, err
	}
	if _, err := compileOption(r.Meta().ID, "pattern", expandPattern(opts.Pattern, "Component")); err != nil {
		return nil, err
	}
	return &propsConfig{PropsInterfaceOptions: opts, ignore: stringSet(opts.Ignore)}, nil
}

func (r PropsInterface) Create(ctx *Context) Visitor {
	cfg := ctx.Options.(*propsConfig)

	check := func(c component) {
		if cfg.ignore[c.name.Name] {
			return
		}
		cfg.check(ctx, c)
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

func (cfg *propsConfig) check(ctx *Context, c component) {
	name := c.name.Name
	pattern := expandPattern(cfg.Pattern, name)
	re, err := regexp.Compile(pattern)
	if err != nil {
		return
	}

	var param *syntax.Param
	if len(c.fn.Params) > 0 {
		param = c.fn.Params[0]
		if param.Shape != syntax.ParamIdent && param.Shape != syntax.ParamObject {
			return
		}
	}

	if param == nil || param.Type == nil {
		iface := ctx.Index.FindInterface(re)
		if iface == nil {
			ctx.Report(Report{
				Node:      c.name,
				MessageID: "missingInterface",
				Data:      map[string]string{"component": name, "pattern": pattern},
			})
			return
		}
		cfg.checkMembers(ctx, iface)
		return
	}

	ref, ok := param.Type.(*syntax.TypeRef)
	if !ok {
		return
	}

	var iface *syntax.InterfaceDecl
	if re.MatchString(ref.Name) {
		iface = ctx.Index.Interface(ref.Name)
	} else {
		rep := Report{
			Node:      ref,
			MessageID: "invalidName",
			Data:      map[string]string{"name": ref.Name, "component": name, "pattern": pattern},
		}
		if expected, ok := literalFromPattern(pattern); ok {
			rep.Data["expected"] = expected
			rep.Fix = ReplaceNode(ref, expected)
			iface = ctx.Index.Interface(expected)
		} else {
			iface = ctx.Index.FindInterface(re)
		}
		ctx.Report(rep)
	}

	if iface != nil {
		cfg.checkMembers(ctx, iface)
	}
}

func (cfg *propsConfig) checkMembers(ctx *Context, iface *syntax.InterfaceDecl) {
	for _, member := range cfg.RequiredMembers {
		if iface.HasMember(member) {
			continue
		}
		ctx.Report(Report{
			Node:      iface.Name,
			MessageID: "missingMember",
			Data:      map[string]string{"interface": iface.Name.Name, "member": member},
		})
	}
}

