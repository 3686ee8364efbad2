package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/termfx/jsxlint/internal/log"
)

// Analyzer lints one file. Implementations must be safe for concurrent use.
type Analyzer interface {
	Analyze(path string, source []byte, fix bool) FileResult
	Supports(path string) bool
}

// ResultCache stores diagnostics keyed by file path and content checksum.
type ResultCache interface {
	Lookup(path, checksum string) ([]Diagnostic, bool)
	Store(path, checksum string, diags []Diagnostic) error
}

// FileProcessor lints files in parallel.
type FileProcessor struct {
	walker       *FileWalker
	analyzer     Analyzer
	cache        ResultCache
	workers      int
	atomicWriter *AtomicWriter
}

// NewFileProcessor creates a new file processor
func NewFileProcessor(analyzer Analyzer) *FileProcessor {
	return &FileProcessor{
		walker: NewFileWalker(func(path string) (string, bool) {
			return "", analyzer.Supports(path)
		}),
		analyzer:     analyzer,
		workers:      runtime.NumCPU(),
		atomicWriter: NewAtomicWriter(DefaultAtomicConfig()),
	}
}

// WithCache enables result caching for non-fix runs.
func (fp *FileProcessor) WithCache(cache ResultCache) *FileProcessor {
	fp.cache = cache
	return fp
}

// WithAtomicConfig replaces the writer configuration.
func (fp *FileProcessor) WithAtomicConfig(config AtomicWriteConfig) *FileProcessor {
	fp.atomicWriter = NewAtomicWriter(config)
	return fp
}

// LintFiles lints every file under each scope. Per-file failures are
// recorded on the FileResult; only walk errors and cancellation abort.
func (fp *FileProcessor) LintFiles(ctx context.Context, scopes []FileScope, opts LintOptions) (*RunResult, error) {
	start := time.Now()

	seen := make(map[string]bool)
	var files []WalkResult
	for _, scope := range scopes {
		found, err := fp.walker.Collect(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("failed to walk files: %w", err)
		}
		for _, f := range found {
			if !seen[f.Path] {
				seen[f.Path] = true
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	scanDuration := time.Since(start)
	lintStart := time.Now()

	workers := opts.Workers
	if workers <= 0 {
		workers = fp.workers
	}

	writer := fp.atomicWriter
	if opts.Backup && !writer.config.BackupOriginal {
		cfg := writer.config
		cfg.BackupOriginal = true
		writer = NewAtomicWriter(cfg)
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, wr := range files {
		i, wr := i, wr
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = fp.lintFile(wr, opts, writer)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := &RunResult{
		Files:        results,
		ScanDuration: scanDuration.Milliseconds(),
		LintDuration: time.Since(lintStart).Milliseconds(),
	}
	run.Tally()
	return run, nil
}

// lintFile analyzes, and in fix mode rewrites, a single file
func (fp *FileProcessor) lintFile(wr WalkResult, opts LintOptions, writer *AtomicWriter) FileResult {
	if wr.Error != nil {
		return FileResult{FilePath: wr.Path, Error: wr.Error.Error(), Diagnostics: []Diagnostic{}}
	}

	content, err := os.ReadFile(wr.Path)
	if err != nil {
		return FileResult{FilePath: wr.Path, Error: fmt.Sprintf("failed to read file: %v", err), Diagnostics: []Diagnostic{}}
	}

	fixing := opts.Fix || opts.DryRun
	checksum := Checksum(content)
	if fp.cache != nil && !fixing {
		if diags, ok := fp.cache.Lookup(wr.Path, checksum); ok {
			res := FileResult{FilePath: wr.Path, Language: wr.Language, Diagnostics: diags, Cached: true}
			res.Count()
			return res
		}
	}

	res := fp.analyzer.Analyze(wr.Path, content, fixing)
	res.FilePath = wr.Path
	if res.Language == "" {
		res.Language = wr.Language
	}

	if fixing && res.Output != "" && res.Output != string(content) {
		res.Diff = UnifiedDiff(wr.Path, string(content), res.Output)
		if !opts.DryRun {
			backup, err := writer.WriteFile(wr.Path, res.Output)
			if err != nil {
				res.Error = fmt.Sprintf("failed to write file: %v", err)
				res.Count()
				return res
			}
			res.Fixed = true
			res.BackupPath = backup
		}
	}

	// Dry-run diagnostics describe the fixed output, not the file on disk.
	if fp.cache != nil && res.Error == "" && !opts.DryRun {
		sum := checksum
		if res.Fixed {
			sum = Checksum([]byte(res.Output))
		}
		if err := fp.cache.Store(wr.Path, sum, res.Diagnostics); err != nil {
			log.Warn("failed to store cached result", "file", wr.Path, "error", err)
		}
	}

	res.Count()
	return res
}

// Checksum returns the hex SHA-256 of content.
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
