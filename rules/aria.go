package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/termfx/jsxlint/internal/log"
	"github.com/termfx/jsxlint/syntax"
)

// AriaAttribute is one required attribute. When Compute is set it decides
// the value per element; ok == false means the attribute does not apply.
type AriaAttribute struct {
	Name    string
	Value   string
	Compute func(o *syntax.JSXOpening) (value string, ok bool)
}

// AriaRequirement lists what an element must carry. Any role satisfies
// Roles; the first one is used by the fix.
type AriaRequirement struct {
	Attributes []AriaAttribute
	Roles      []string
}

// AriaRegistry maps exact tag names to their requirements.
type AriaRegistry map[string]AriaRequirement

// DefaultAriaRegistry returns a fresh copy of the built-in registry.
func DefaultAriaRegistry() AriaRegistry {
	return AriaRegistry{
		"Button": {Attributes: []AriaAttribute{{Name: "aria-busy", Compute: busyWhenLoading}}},
		"Skeleton": {
			Attributes: []AriaAttribute{{Name: "aria-busy", Value: "true"}, {Name: "aria-live", Value: "polite"}},
			Roles:      []string{"status"},
		},
		"Spinner": {
			Attributes: []AriaAttribute{{Name: "aria-label", Value: "Loading"}},
			Roles:      []string{"status"},
		},
		"Modal": {
			Attributes: []AriaAttribute{{Name: "aria-modal", Value: "true"}},
			Roles:      []string{"dialog"},
		},
		"Dialog": {
			Attributes: []AriaAttribute{{Name: "aria-modal", Value: "true"}},
			Roles:      []string{"dialog", "alertdialog"},
		},
		"Alert": {
			Attributes: []AriaAttribute{{Name: "aria-live", Value: "assertive"}},
			Roles:      []string{"alert"},
		},
		"Toast": {
			Attributes: []AriaAttribute{{Name: "aria-live", Value: "polite"}},
			Roles:      []string{"status"},
		},
		"Progress": {
			Attributes: []AriaAttribute{{Name: "aria-valuemin", Value: "0"}, {Name: "aria-valuemax", Value: "100"}},
			Roles:      []string{"progressbar"},
		},
		"Tooltip": {Roles: []string{"tooltip"}},
		"Icon":    {Attributes: []AriaAttribute{{Name: "aria-hidden", Value: "true"}}},
	}
}

// busyWhenLoading yields aria-busy="true" when isLoading is set and not
// literally {false}.
func busyWhenLoading(o *syntax.JSXOpening) (string, bool) {
	attr := FindAttribute(o, "isLoading")
	if attr == nil {
		return "", false
	}
	if c, ok := attr.Value.(*syntax.JSXExprContainer); ok {
		if b, ok := c.X.(*syntax.BoolLit); ok && !b.Value {
			return "", false
		}
	}
	return "true", true
}

// AriaComponentOptions is one user registry entry. It replaces the built-in
// entry of the same name wholesale.
type AriaComponentOptions struct {
	Name       string            `mapstructure:"name"`
	Attributes map[string]string `mapstructure:"attributes"`
	Roles      []string          `mapstructure:"roles"`
}

// AriaOptions configures require-aria.
type AriaOptions struct {
	Components []AriaComponentOptions `mapstructure:"components"`
}

// RequireAria requires registry-driven ARIA attributes and roles.
type RequireAria struct{}

func (RequireAria) Meta() Meta {
	return Meta{
		ID:          "require-aria",
		Description: "Require ARIA attributes and roles on registered components",
		Fixable:     true,
		Messages: map[string]string{
			"missingAttribute": "<{{element}}> is missing {{attribute}}=\"{{value}}\"",
			"missingRole":      "<{{element}}> is missing a role (expected one of: {{roles}})",
		},
	}
}

func (r RequireAria) ParseOptions(raw map[string]any) (any, error) {
	var opts AriaOptions
	if err := decodeOptions(r.Meta().ID, raw, &opts); err != nil {
		return nil, err
	}

	registry := DefaultAriaRegistry()
	for i, c := range opts.Components {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: %s: components[%d]: name is required", ErrInvalidOptions, r.Meta().ID, i)
		}
		names := make([]string, 0, len(c.Attributes))
		for name := range c.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)

		req := AriaRequirement{Roles: c.Roles}
		for _, name := range names {
			req.Attributes = append(req.Attributes, AriaAttribute{Name: name, Value: c.Attributes[name]})
		}
		registry[c.Name] = req
	}
	return registry, nil
}

func (r RequireAria) Create(ctx *Context) Visitor {
	registry := ctx.Options.(AriaRegistry)

	return Visitor{
		JSXOpeningElement: func(o *syntax.JSXOpening) {
			if o.Name == nil {
				return
			}
			req, ok := registry[o.Name.Text]
			if !ok {
				return
			}
			tag := o.Name.Text

			for _, attr := range req.Attributes {
				if HasAttribute(o, attr.Name) {
					continue
				}
				value, ok := attr.value(o)
				if !ok {
					continue
				}
				ctx.Report(Report{
					Node:      o,
					MessageID: "missingAttribute",
					Data:      map[string]string{"element": tag, "attribute": attr.Name, "value": value},
					Fix:       insertAttribute(o, jsxAttr(attr.Name, value)),
				})
			}

			if len(req.Roles) > 0 && !HasAttribute(o, "role") {
				ctx.Report(Report{
					Node:      o,
					MessageID: "missingRole",
					Data:      map[string]string{"element": tag, "role": req.Roles[0], "roles": strings.Join(req.Roles, ", ")},
					Fix:       insertAttribute(o, jsxAttr("role", req.Roles[0])),
				})
			}
		},
	}
}

// value resolves the attribute value. A panicking Compute skips the
// attribute for this element.
func (a AriaAttribute) value(o *syntax.JSXOpening) (value string, ok bool) {
	if a.Compute == nil {
		return a.Value, true
	}
	defer func() {
		if p := recover(); p != nil {
			log.Debug("aria value computation failed", "attribute", a.Name, "panic", p)
			value, ok = "", false
		}
	}()
	return a.Compute(o)
}
