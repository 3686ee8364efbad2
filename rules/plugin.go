package rules

import (
	"fmt"
	"strings"

	"github.com/termfx/jsxlint/core"
)

// PluginName prefixes rule ids in configuration: conventions/<id>.
const PluginName = "conventions"

// Preset names.
const (
	PresetRecommended = "recommended"
	PresetStrict      = "strict"
)

// All returns the plugin's rules in a stable order.
func All() []Rule {
	return []Rule{
		ComponentNaming{},
		RequireTestID{},
		RequireAria{},
		PropsInterface{},
		ComponentFactory{},
	}
}

// IDs returns the rule ids in the order of All.
func IDs() []string {
	all := All()
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.Meta().ID
	}
	return ids
}

// Lookup finds a rule by bare id or by conventions/<id>.
func Lookup(id string) (Rule, bool) {
	id = strings.TrimPrefix(id, PluginName+"/")
	for _, r := range All() {
		if r.Meta().ID == id {
			return r, true
		}
	}
	return nil, false
}

// Preset returns the severity of every rule under the named preset:
// recommended maps each rule to warn, strict to error.
func Preset(name string) (map[string]core.Severity, error) {
	var sev core.Severity
	switch name {
	case PresetRecommended:
		sev = core.SeverityWarn
	case PresetStrict:
		sev = core.SeverityError
	default:
		return nil, fmt.Errorf("unknown preset %q (want %s or %s)", name, PresetRecommended, PresetStrict)
	}
	out := make(map[string]core.Severity)
	for _, id := range IDs() {
		out[id] = sev
	}
	return out, nil
}

// Presets lists the preset names.
func Presets() []string {
	return []string{PresetRecommended, PresetStrict}
}
