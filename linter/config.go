package linter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/rules"
)

// ErrUnknownRule is returned by Configure for ids the plugin does not define.
var ErrUnknownRule = errors.New("unknown rule")

// Entry is the user configuration of one rule.
type Entry struct {
	Severity core.Severity
	Options  map[string]any
}

// RuleSetting is a configured, enabled rule.
type RuleSetting struct {
	Rule     rules.Rule
	Severity core.Severity
	Options  any
}

// Config is the immutable rule set for one run. Build it with Configure.
type Config struct {
	Rules []RuleSetting
}

// Configure resolves ids, validates options and drops rules turned off.
// Rules keep the plugin's order regardless of map iteration.
func Configure(entries map[string]Entry) (Config, error) {
	order := make(map[string]int)
	for i, id := range rules.IDs() {
		order[id] = i
	}

	var cfg Config
	for id, entry := range entries {
		rule, ok := rules.Lookup(id)
		if !ok {
			return Config{}, fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
		if entry.Severity == core.SeverityOff {
			continue
		}
		opts, err := rule.ParseOptions(entry.Options)
		if err != nil {
			return Config{}, err
		}
		cfg.Rules = append(cfg.Rules, RuleSetting{Rule: rule, Severity: entry.Severity, Options: opts})
	}

	sort.SliceStable(cfg.Rules, func(i, j int) bool {
		return order[cfg.Rules[i].Rule.Meta().ID] < order[cfg.Rules[j].Rule.Meta().ID]
	})
	return cfg, nil
}

// PresetEntries returns the entries of a named preset with default options.
func PresetEntries(name string) (map[string]Entry, error) {
	severities, err := rules.Preset(name)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]Entry, len(severities))
	for id, sev := range severities {
		entries[id] = Entry{Severity: sev}
	}
	return entries, nil
}
