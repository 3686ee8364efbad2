package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/rules"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Path)
	assert.Equal(t, rules.PresetRecommended, cfg.Extends)
	assert.Equal(t, DefaultDSN, cfg.Cache.DSN)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 50, cfg.Cache.Keep)
	assert.Equal(t, -1, cfg.MaxWarnings)
	assert.Equal(t, "text", cfg.Format)

	entries, err := cfg.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, len(rules.All()))
	for _, e := range entries {
		assert.Equal(t, core.SeverityWarn, e.Severity)
	}
}

func TestLoadDiscoversYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".jsxlint.yaml", `extends: strict
rules:
  component-naming: [warn, {ignorePattern: "^Legacy", checkFilename: true}]
  conventions/require-aria: off
  component-factory: 0
include: ["src/**/*.tsx"]
exclude: ["**/*.stories.tsx"]
cache:
  enabled: true
maxWarnings: 3
`)

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, []string{"src/**/*.tsx"}, cfg.Include)
	assert.Equal(t, []string{"**/*.stories.tsx"}, cfg.Exclude)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultDSN, cfg.Cache.DSN)
	assert.Equal(t, 3, cfg.MaxWarnings)

	entries, err := cfg.Entries()
	require.NoError(t, err)
	assert.Equal(t, core.SeverityWarn, entries["component-naming"].Severity)
	assert.Len(t, entries["component-naming"].Options, 2)
	assert.Equal(t, core.SeverityOff, entries["require-aria"].Severity)
	assert.Equal(t, core.SeverityOff, entries["component-factory"].Severity)
	assert.Equal(t, core.SeverityError, entries["props-interface"].Severity)

	lc, err := cfg.Linter()
	require.NoError(t, err)
	var ids []string
	for _, s := range lc.Rules {
		ids = append(ids, s.Rule.Meta().ID)
	}
	assert.Equal(t, []string{"component-naming", "require-test-id", "props-interface"}, ids)
	assert.Equal(t, core.SeverityWarn, lc.Rules[0].Severity)
}

func TestLoadJSONAndExplicitPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".jsxlint.yaml", "extends: strict\n")
	path := writeFile(t, dir, "custom.json", `{
  "extends": "none",
  "rules": {"require-test-id": ["error", {"components": ["Link"]}]}
}`)

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Extends)

	lc, err := cfg.Linter()
	require.NoError(t, err)
	require.Len(t, lc.Rules, 1)
	assert.Equal(t, "require-test-id", lc.Rules[0].Rule.Meta().ID)
	assert.Equal(t, core.SeverityError, lc.Rules[0].Severity)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "JSXLINT_CACHE_DSN=from-dotenv.db\n")
	t.Setenv("JSXLINT_EXTENDS", "strict")
	t.Setenv("JSXLINT_WORKERS", "3")
	t.Cleanup(func() { os.Unsetenv("JSXLINT_CACHE_DSN") })

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "strict", cfg.Extends)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "from-dotenv.db", cfg.Cache.DSN)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "rules: [unclosed\n"},
		{"unknown top-level key", "colour: red\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, ".jsxlint.yml", tt.content)
			_, err := Load("", dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), ".")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLinterValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown preset", Config{Extends: "loose"}},
		{"unknown rule", Config{Rules: map[string]any{"no-such-rule": "warn"}}},
		{"bad severity", Config{Rules: map[string]any{"component-naming": "loud"}}},
		{"bad option key", Config{Rules: map[string]any{"component-naming": []any{"warn", map[string]any{"casing": "pascal"}}}}},
		{"bad regex", Config{Rules: map[string]any{"component-naming": []any{"warn", map[string]any{"pattern": "("}}}}},
		{"options not a map", Config{Rules: map[string]any{"component-naming": []any{"warn", "pascal"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Linter()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestParseRuleEntry(t *testing.T) {
	e, err := ParseRuleEntry(2)
	require.NoError(t, err)
	assert.Equal(t, core.SeverityError, e.Severity)

	e, err = ParseRuleEntry([]any{"warn"})
	require.NoError(t, err)
	assert.Equal(t, core.SeverityWarn, e.Severity)
	assert.Nil(t, e.Options)

	e, err = ParseRuleEntry([]any{"error", map[any]any{"ignore": []any{"Legacy"}}})
	require.NoError(t, err)
	assert.Equal(t, []any{"Legacy"}, e.Options["ignore"])

	_, err = ParseRuleEntry([]any{})
	assert.Error(t, err)
	_, err = ParseRuleEntry(true)
	assert.Error(t, err)
}

func TestHashTracksRuleConfiguration(t *testing.T) {
	a := &Config{Extends: "recommended"}
	b := &Config{Extends: "recommended"}
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Len(t, a.Hash(), 64)

	strict := &Config{Extends: "strict"}
	assert.NotEqual(t, a.Hash(), strict.Hash())

	withOpts := &Config{Extends: "recommended", Rules: map[string]any{
		"component-naming": []any{"warn", map[string]any{"ignorePattern": "^Legacy"}},
	}}
	assert.NotEqual(t, a.Hash(), withOpts.Hash())
}

func TestScopes(t *testing.T) {
	cfg := &Config{Include: []string{"**/*.tsx"}, Exclude: []string{"**/gen/**"}}
	scopes := cfg.Scopes([]string{"src", "app"})
	require.Len(t, scopes, 2)
	assert.Equal(t, "app", scopes[1].Path)
	assert.Equal(t, []string{"**/gen/**"}, scopes[0].Exclude)
}

func TestStarterRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".jsxlint.yaml")
	require.NoError(t, WriteStarter(path, rules.PresetStrict, false))

	err := WriteStarter(path, rules.PresetStrict, false)
	assert.ErrorIs(t, err, ErrExists)
	require.NoError(t, WriteStarter(path, rules.PresetStrict, true))

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, rules.PresetStrict, cfg.Extends)
	lc, err := cfg.Linter()
	require.NoError(t, err)
	assert.Len(t, lc.Rules, len(rules.All()))
	for _, s := range lc.Rules {
		assert.Equal(t, core.SeverityError, s.Severity)
	}

	_, err = Starter("loose")
	assert.ErrorIs(t, err, ErrConfig)
}
