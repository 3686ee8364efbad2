package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/jsxlint/internal/log"
)

const cleanComponent = `import { createComponent } from "@/lib/component-factory";

interface CardProps {
  className?: string;
}

export function Card({ className }: CardProps) {
  return <div className={className} />;
}
`

const buttonComponent = `import { createComponent } from "@/lib/component-factory";

interface CardProps {
  className?: string;
}

export function Card({ className }: CardProps) {
  return <button className={className}>Go</button>;
}
`

// workspace creates a project directory, makes it the working directory and
// returns its path.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return dir
}

func execute(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestLintClean(t *testing.T) {
	workspace(t, map[string]string{"src/card.tsx": cleanComponent})

	code, out, stderr := execute("lint", "--no-color", "src")
	assert.Equal(t, exitOK, code, stderr)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestLintWarningsAndThresholds(t *testing.T) {
	workspace(t, map[string]string{"src/card.tsx": buttonComponent})

	code, out, _ := execute("lint", "--no-color", "src")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "require-test-id")
	assert.Contains(t, out, "✖ 1 problem (0 errors, 1 warning)")

	code, _, stderr := execute("lint", "--no-color", "--max-warnings", "0", "src")
	assert.Equal(t, exitLint, code)
	assert.Contains(t, stderr, "too many warnings (maximum: 0)")

	code, _, _ = execute("lint", "--no-color", "--rule", "require-test-id=error", "src")
	assert.Equal(t, exitLint, code)

	code, _, _ = execute("lint", "--no-color", "--preset", "strict", "src")
	assert.Equal(t, exitLint, code)

	code, out, _ = execute("lint", "--no-color", "--preset", "strict", "--rule", "conventions/require-test-id=off", "src")
	assert.Equal(t, exitOK, code)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestLintJSONFormat(t *testing.T) {
	workspace(t, map[string]string{"src/card.tsx": buttonComponent})

	code, out, _ := execute("lint", "--format", "json", "src")
	require.Equal(t, exitOK, code)

	var results []struct {
		FilePath string `json:"filePath"`
		Messages []struct {
			RuleID    string `json:"ruleId"`
			MessageID string `json:"messageId"`
			Severity  int    `json:"severity"`
			Line      int    `json:"line"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join("src", "card.tsx"), results[0].FilePath)
	require.Len(t, results[0].Messages, 1)
	assert.Equal(t, "require-test-id", results[0].Messages[0].RuleID)
	assert.Equal(t, "missingTestId", results[0].Messages[0].MessageID)
	assert.Equal(t, 1, results[0].Messages[0].Severity)
	assert.Equal(t, 8, results[0].Messages[0].Line)
}

func TestLintFixAndDryRun(t *testing.T) {
	dir := workspace(t, map[string]string{"src/card.tsx": buttonComponent})
	path := filepath.Join(dir, "src", "card.tsx")
	fixed := strings.Replace(buttonComponent, "<button className={className}>", `<button className={className} data-testid="button-element">`, 1)

	code, out, _ := execute("lint", "--dry-run", "--format", "diff", "--no-color", "src")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, `+  return <button className={className} data-testid="button-element">Go</button>;`)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buttonComponent, string(content))

	code, out, _ = execute("lint", "--fix", "--backup", "--no-color", "src")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Fixed 1 file.")
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fixed, string(content))
	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, buttonComponent, string(backup))

	code, _, stderr := execute("lint", "--fix", "--dry-run", "src")
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, stderr, "mutually exclusive")
}

func TestLintUsesConfigFile(t *testing.T) {
	workspace(t, map[string]string{
		"src/card.tsx": buttonComponent,
		".jsxlint.yaml": `extends: none
rules:
  require-test-id: [error, {ignore: [button]}]
`,
	})

	code, out, stderr := execute("lint", "--no-color", "src")
	assert.Equal(t, exitOK, code, stderr)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestLintConfigurationErrors(t *testing.T) {
	workspace(t, map[string]string{"src/card.tsx": cleanComponent})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad rule flag", []string{"lint", "--rule", "require-test-id", "src"}, "want id=severity"},
		{"unknown rule", []string{"lint", "--rule", "no-such-rule=warn", "src"}, "unknown rule"},
		{"unknown preset", []string{"lint", "--preset", "loose", "src"}, "unknown preset"},
		{"unknown format", []string{"lint", "--format", "sarif", "src"}, "unknown output format"},
		{"empty directory", []string{"lint", "empty"}, "no files matching empty"},
		{"missing path", []string{"lint", "missing"}, "cannot access path"},
		{"unknown flag", []string{"lint", "--colour"}, "unknown flag"},
	}
	require.NoError(t, os.Mkdir("empty", 0o755))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(tt.args...)
			assert.Equal(t, exitConfig, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestLintNoMatchingFiles(t *testing.T) {
	workspace(t, map[string]string{"README.md": "# docs\n"})

	code, _, stderr := execute("lint", ".")
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, stderr, "no files matching .")
}

func TestCacheAndHistory(t *testing.T) {
	dir := workspace(t, map[string]string{"src/card.tsx": buttonComponent})
	dsn := filepath.Join(dir, "state", "jsxlint.db")

	code, _, stderr := execute("lint", "--cache", "--db", dsn, "--no-color", "src")
	require.Equal(t, exitOK, code, stderr)
	code, _, _ = execute("lint", "--cache", "--db", dsn, "--no-color", "src")
	require.Equal(t, exitOK, code)

	code, out, stderr := execute("history", "--db", dsn)
	require.Equal(t, exitOK, code, stderr)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "PRESET")
	assert.Contains(t, lines[1], "recommended")

	id := strings.Fields(lines[1])[0]
	code, out, _ = execute("history", "--db", dsn, id)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "require-test-id")
	assert.Contains(t, out, "card.tsx:8:")

	code, out, _ = execute("history", "--db", dsn, "--prune", "1")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Removed 1 runs.")

	code, _, stderr = execute("history", "--db", dsn, "ffffffff")
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, stderr, "run not found")
}

func TestRulesCommand(t *testing.T) {
	code, out, _ := execute("rules", "--json")
	require.Equal(t, exitOK, code)

	var infos []ruleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 5)
	assert.Equal(t, "component-naming", infos[0].ID)
	assert.True(t, infos[0].Fixable)
	assert.Equal(t, "warn", infos[0].Presets["recommended"])
	assert.Equal(t, "error", infos[4].Presets["strict"])
	assert.False(t, infos[4].Fixable)

	code, out, _ = execute("rules")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "conventions/require-aria")
	assert.Contains(t, out, "Languages:  javascript, tsx, typescript")
	assert.Contains(t, out, ".tsx")
	assert.Contains(t, out, ".jsx")
}

func TestLintDebugLogsParserStats(t *testing.T) {
	workspace(t, map[string]string{"src/card.tsx": cleanComponent})
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.LevelWarn)
	})

	code, _, stderr := execute("lint", "--debug", "--no-color", "src")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, logs.String(), "parser pool")
	assert.Contains(t, logs.String(), "language=tsx")
	assert.Contains(t, logs.String(), "parse cache")
}

func TestInitCommand(t *testing.T) {
	dir := workspace(t, nil)

	code, out, _ := execute("init", "--preset", "strict")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Wrote .jsxlint.yaml")
	content, err := os.ReadFile(filepath.Join(dir, ".jsxlint.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "extends: strict")

	code, _, stderr := execute("init")
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, stderr, "already exists")

	code, _, _ = execute("init", "--force")
	assert.Equal(t, exitOK, code)
}
