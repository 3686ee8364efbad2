package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/jsxlint/core"
)

func setupTestStore(t *testing.T, configHash string) *Store {
	t.Helper()
	gdb, err := Connect(filepath.Join(t.TempDir(), "nested", "cache.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { Close(gdb) })
	return NewStore(gdb, configHash)
}

func sampleRun() *core.RunResult {
	run := &core.RunResult{
		Files: []core.FileResult{
			{
				FilePath: "src/Button.tsx",
				Diagnostics: []core.Diagnostic{
					{
						RuleID:    "require-test-id",
						MessageID: "missingTestId",
						Message:   "Interactive element <button> is missing a data-testid attribute",
						Data:      map[string]string{"element": "button"},
						Severity:  core.SeverityWarn,
						Location:  core.Location{Line: 3, Column: 5, EndLine: 3, EndColumn: 13},
						Fix:       &core.Fix{Range: [2]int{40, 40}, Text: ` data-testid="button-element"`},
					},
					{
						RuleID:    "component-factory",
						MessageID: "useFactory",
						Message:   "Component 'Button' should be created with a component factory",
						Severity:  core.SeverityError,
						Location:  core.Location{Line: 1, Column: 14},
					},
				},
			},
			{FilePath: "src/Clean.tsx", Diagnostics: []core.Diagnostic{}},
		},
	}
	for i := range run.Files {
		run.Files[i].Count()
	}
	run.Tally()
	return run
}

func TestStore_Cache(t *testing.T) {
	store := setupTestStore(t, "cfg-1")
	diags := sampleRun().Files[0].Diagnostics

	_, ok := store.Lookup("src/Button.tsx", "sum-a")
	assert.False(t, ok)

	require.NoError(t, store.Store("src/Button.tsx", "sum-a", diags))
	got, ok := store.Lookup("src/Button.tsx", "sum-a")
	require.True(t, ok)
	assert.Equal(t, diags, got)

	_, ok = store.Lookup("src/Button.tsx", "sum-b")
	assert.False(t, ok, "changed content must miss")

	require.NoError(t, store.Store("src/Button.tsx", "sum-b", []core.Diagnostic{}))
	got, ok = store.Lookup("src/Button.tsx", "sum-b")
	require.True(t, ok)
	assert.Empty(t, got)

	other := NewStore(store.db, "cfg-2")
	_, ok = other.Lookup("src/Button.tsx", "sum-b")
	assert.False(t, ok, "a different configuration must miss")
}

func TestStore_RecordAndListRuns(t *testing.T) {
	store := setupTestStore(t, "cfg")
	ctx := context.Background()

	first, err := store.RecordRun(ctx, RunInfo{Preset: "recommended", Paths: []string{"src"}}, sampleRun())
	require.NoError(t, err)
	assert.Len(t, first.ID, 36)
	assert.Equal(t, 1, first.ErrorCount)
	assert.Equal(t, 1, first.WarningCount)
	assert.Len(t, first.Findings, 2)

	time.Sleep(5 * time.Millisecond)
	second, err := store.RecordRun(ctx, RunInfo{Preset: "strict", Fix: true}, &core.RunResult{})
	require.NoError(t, err)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)

	limited, err := store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	findings, err := store.RunFindings(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, "component-factory", findings[0].RuleID)
	assert.Equal(t, "error", findings[0].Severity)
	assert.True(t, findings[1].Fixable)
	assert.JSONEq(t, `{"element":"button"}`, string(findings[1].Data))

	loaded, err := store.GetRun(ctx, first.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, first.ID, loaded.ID)
	assert.Len(t, loaded.Findings, 2)

	_, err = store.GetRun(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStore_PruneRuns(t *testing.T) {
	store := setupTestStore(t, "cfg")
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := store.RecordRun(ctx, RunInfo{Preset: "recommended"}, sampleRun())
		require.NoError(t, err)
		ids = append(ids, run.ID)
		time.Sleep(5 * time.Millisecond)
	}

	removed, err := store.PruneRuns(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, ids[2], runs[0].ID)

	findings, err := store.RunFindings(ctx, ids[0])
	require.NoError(t, err)
	assert.Empty(t, findings)

	removed, err = store.PruneRuns(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
