package rules

import (
	"strings"

	"github.com/termfx/jsxlint/syntax"
)

var interactiveTags = []string{
	"button", "a", "input", "select", "textarea", "form", "details", "summary",
}

var interactiveRoles = []string{
	"button", "link", "checkbox", "radio", "switch", "tab", "menuitem",
	"menuitemcheckbox", "menuitemradio", "option", "textbox", "combobox",
	"slider", "spinbutton", "searchbox", "listbox",
}

// TestIDOptions configures require-test-id.
type TestIDOptions struct {
	Components []string `mapstructure:"components"`
	Ignore     []string `mapstructure:"ignore"`
}

type testIDConfig struct {
	components map[string]bool
	ignore     map[string]bool
}

// RequireTestID requires data-testid on interactive elements.
type RequireTestID struct{}

func (RequireTestID) Meta() Meta {
	return Meta{
		ID:          "require-test-id",
		Description: "Require a data-testid attribute on interactive elements and components",
		Fixable:     true,
		Messages: map[string]string{
			"missingTestId": "Interactive element <{{element}}> is missing a data-testid attribute",
		},
	}
}

func (r RequireTestID) ParseOptions(raw map[string]any) (any, error) {
	var opts TestIDOptions
	if err := decodeOptions(r.Meta().ID, raw, &opts); err != nil {
		return nil, err
	}
	return &testIDConfig{
		components: stringSet(opts.Components),
		ignore:     stringSet(opts.Ignore),
	}, nil
}

var (
	interactiveTagSet  = stringSet(interactiveTags)
	interactiveRoleSet = stringSet(interactiveRoles)
)

func (r RequireTestID) Create(ctx *Context) Visitor {
	cfg := ctx.Options.(*testIDConfig)

	return Visitor{
		JSXOpeningElement: func(o *syntax.JSXOpening) {
			if o.Name == nil {
				return
			}
			tag := o.Name.Text
			if cfg.ignore[tag] || !cfg.interactive(o) || HasAttribute(o, "data-testid") {
				return
			}
			ctx.Report(Report{
				Node:      o,
				MessageID: "missingTestId",
				Data:      map[string]string{"element": tag},
				Fix:       insertAttribute(o, jsxAttr("data-testid", strings.ToLower(tag)+"-element")),
			})
		},
	}
}

func (cfg *testIDConfig) interactive(o *syntax.JSXOpening) bool {
	tag := o.Name.Text
	if cfg.components[tag] {
		return true
	}
	if o.Name.IsIntrinsic() && interactiveTagSet[tag] {
		return true
	}
	role, ok := AttributeValue(o, "role")
	return ok && interactiveRoleSet[role]
}
