package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upperAnalyzer reports one warning per lowercase "todo" and fixes it to "TODO".
type upperAnalyzer struct {
	mu    sync.Mutex
	calls int
}

func (a *upperAnalyzer) Supports(path string) bool {
	_, ok := detectJSX(path)
	return ok
}

func (a *upperAnalyzer) Analyze(path string, source []byte, fix bool) FileResult {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()

	src := string(source)
	res := FileResult{FilePath: path, Source: src, Diagnostics: []Diagnostic{}}
	if fix {
		src = strings.ReplaceAll(src, "todo", "TODO")
		res.Output = src
	}
	for i := strings.Index(src, "todo"); i >= 0; {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			RuleID:   "no-todo",
			Severity: SeverityWarn,
			Location: Location{File: path, Line: 1, Column: i + 1, Offset: i},
			Fix:      &Fix{Range: [2]int{i, i + 4}, Text: "TODO"},
		})
		next := strings.Index(src[i+4:], "todo")
		if next < 0 {
			break
		}
		i += 4 + next
	}
	return res
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]Diagnostic
	failing bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]Diagnostic)}
}

func (c *memoryCache) Lookup(path, checksum string) ([]Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[path+"@"+checksum]
	return d, ok
}

func (c *memoryCache) Store(path, checksum string, diags []Diagnostic) error {
	if c.failing {
		return errors.New("store unavailable")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path+"@"+checksum] = diags
	return nil
}

func TestFileProcessor_LintFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.tsx":     "todo todo",
		"b.tsx":     "clean",
		"notes.txt": "todo",
	})

	analyzer := &upperAnalyzer{}
	run, err := NewFileProcessor(analyzer).LintFiles(context.Background(), []FileScope{{Path: root}}, LintOptions{Workers: 2})
	require.NoError(t, err)

	require.Len(t, run.Files, 2)
	assert.Equal(t, 2, run.FilesScanned)
	assert.Equal(t, 0, run.FilesModified)
	assert.Equal(t, 2, run.WarningCount)
	assert.Equal(t, 0, run.ErrorCount)
	assert.Equal(t, 2, run.FixableCount)
	assert.Equal(t, "tsx", run.Files[0].Language)

	got, err := os.ReadFile(filepath.Join(root, "a.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "todo todo", string(got), "lint without fix must not write")
}

func TestFileProcessor_Fix(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": "todo\n"})
	path := filepath.Join(root, "a.tsx")

	run, err := NewFileProcessor(&upperAnalyzer{}).LintFiles(context.Background(), []FileScope{{Path: root}}, LintOptions{Fix: true, Backup: true})
	require.NoError(t, err)

	require.Len(t, run.Files, 1)
	res := run.Files[0]
	assert.True(t, res.Fixed)
	assert.Equal(t, path+".bak", res.BackupPath)
	assert.Contains(t, res.Diff, "-todo")
	assert.Contains(t, res.Diff, "+TODO")
	assert.Equal(t, 1, run.FilesModified)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "TODO\n", string(got))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "todo\n", string(backup))
}

func TestFileProcessor_DryRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": "todo\n"})

	cache := newMemoryCache()
	run, err := NewFileProcessor(&upperAnalyzer{}).WithCache(cache).
		LintFiles(context.Background(), []FileScope{{Path: root}}, LintOptions{DryRun: true})
	require.NoError(t, err)

	res := run.Files[0]
	assert.False(t, res.Fixed)
	assert.NotEmpty(t, res.Diff)
	assert.Empty(t, cache.entries)

	got, err := os.ReadFile(filepath.Join(root, "a.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "todo\n", string(got))
}

func TestFileProcessor_Cache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": "todo"})

	analyzer := &upperAnalyzer{}
	cache := newMemoryCache()
	fp := NewFileProcessor(analyzer).WithCache(cache)
	scopes := []FileScope{{Path: root}}

	first, err := fp.LintFiles(context.Background(), scopes, LintOptions{})
	require.NoError(t, err)
	assert.False(t, first.Files[0].Cached)

	second, err := fp.LintFiles(context.Background(), scopes, LintOptions{})
	require.NoError(t, err)
	assert.True(t, second.Files[0].Cached)
	assert.Equal(t, 1, second.WarningCount)
	assert.Equal(t, 1, analyzer.calls)

	writeTree(t, root, map[string]string{"a.tsx": "todo todo"})
	third, err := fp.LintFiles(context.Background(), scopes, LintOptions{})
	require.NoError(t, err)
	assert.False(t, third.Files[0].Cached)
	assert.Equal(t, 2, analyzer.calls)
}

func TestFileProcessor_CacheStoreFailureIsNotFatal(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": "todo"})

	cache := newMemoryCache()
	cache.failing = true
	run, err := NewFileProcessor(&upperAnalyzer{}).WithCache(cache).
		LintFiles(context.Background(), []FileScope{{Path: root}}, LintOptions{})
	require.NoError(t, err)
	assert.Empty(t, run.Files[0].Error)
}

func TestFileProcessor_DeduplicatesScopes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": "x"})

	run, err := NewFileProcessor(&upperAnalyzer{}).LintFiles(context.Background(),
		[]FileScope{{Path: root}, {Path: filepath.Join(root, "a.tsx")}}, LintOptions{})
	require.NoError(t, err)
	assert.Len(t, run.Files, 1)
}

func TestFileProcessor_NoFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"README.md": "x"})

	_, err := NewFileProcessor(&upperAnalyzer{}).LintFiles(context.Background(), []FileScope{{Path: root}}, LintOptions{})
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, Checksum([]byte("a")), Checksum([]byte("a")))
	assert.NotEqual(t, Checksum([]byte("a")), Checksum([]byte("b")))
	assert.Len(t, Checksum(nil), 64)
}
