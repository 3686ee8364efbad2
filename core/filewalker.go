package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoFiles is returned when a scope matches no lintable files.
var ErrNoFiles = errors.New("no files matched")

// DefaultExcludes are skipped by every walk.
var DefaultExcludes = []string{"**/node_modules/**", "**/.git/**", "**/dist/**"}

// DetectFunc maps a path to a language id; ok is false for unsupported files.
type DetectFunc func(path string) (language string, ok bool)

// FileWalker provides high-performance parallel file system traversal
type FileWalker struct {
	workers    int
	bufferSize int
	detect     DetectFunc
}

// NewFileWalker creates a file walker that yields only files detect accepts.
func NewFileWalker(detect DetectFunc) *FileWalker {
	return &FileWalker{
		workers:    runtime.NumCPU() * 2, // 2x CPU cores for I/O bound work
		bufferSize: 1000,                 // Channel buffer size
		detect:     detect,
	}
}

// WalkResult represents a discovered file
type WalkResult struct {
	Path     string
	Info     fs.FileInfo
	Language string
	Error    error
}

// Walk performs parallel directory traversal with pattern matching
func (fw *FileWalker) Walk(ctx context.Context, scope FileScope) (<-chan WalkResult, error) {
	info, err := fw.validateScope(scope)
	if err != nil {
		return nil, err
	}

	results := make(chan WalkResult, fw.bufferSize)
	if !info.IsDir() {
		// An explicitly named file is linted even if include patterns would
		// not select it.
		go func() {
			defer close(results)
			if _, ok := fw.language(scope.Path, scope); ok {
				results <- fw.processFile(scope.Path, scope)
			}
		}()
		return results, nil
	}

	paths := make(chan string, fw.bufferSize)

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < fw.workers; i++ {
		wg.Add(1)
		go fw.worker(ctx, paths, results, scope, &wg)
	}

	// Start directory scanner in separate goroutine
	go func() {
		defer close(paths)
		processed := 0
		var visited map[string]struct{}
		if scope.FollowSymlinks {
			visited = make(map[string]struct{})
			if resolved, err := filepath.EvalSymlinks(scope.Path); err == nil {
				visited[resolved] = struct{}{}
			} else {
				visited[scope.Path] = struct{}{}
			}
		}
		fw.scanDirectory(ctx, scope.Path, scope, paths, 0, &processed, visited)
	}()

	// Close results when all workers finish
	go func() {
		wg.Wait()
		close(results)
	}()

	return results, nil
}

// worker processes file paths in parallel
func (fw *FileWalker) worker(
	ctx context.Context,
	paths <-chan string,
	results chan<- WalkResult,
	scope FileScope,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}

			result := fw.processFile(path, scope)

			select {
			case <-ctx.Done():
				return
			case results <- result:
			}
		}
	}
}

// scanDirectory recursively discovers files matching patterns
func (fw *FileWalker) scanDirectory(
	ctx context.Context,
	dirPath string,
	scope FileScope,
	paths chan<- string,
	depth int,
	processed *int,
	visited map[string]struct{},
) {
	if scope.MaxFiles > 0 && *processed >= scope.MaxFiles {
		return
	}
	select {
	case <-ctx.Done():
		return
	default:
	}

	if scope.MaxDepth > 0 && depth > scope.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return // Skip directories we can't read
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		rel := fw.relative(scope.Path, fullPath)

		if fw.isExcluded(rel, scope.Exclude) || fw.isExcluded(rel, DefaultExcludes) {
			continue
		}

		// Handle symlinked directories when allowed
		if entry.Type()&os.ModeSymlink != 0 && scope.FollowSymlinks {
			resolvedPath, err := filepath.EvalSymlinks(fullPath)
			if err != nil || resolvedPath == "" {
				continue
			}

			info, err := os.Stat(resolvedPath)
			if err != nil {
				continue
			}

			if info.IsDir() {
				if _, seen := visited[resolvedPath]; seen {
					continue
				}
				visited[resolvedPath] = struct{}{}
				fw.scanDirectory(ctx, fullPath, scope, paths, depth+1, processed, visited)
				continue
			}
		}

		if entry.IsDir() {
			if visited != nil {
				realPath := fullPath
				if resolved, err := filepath.EvalSymlinks(fullPath); err == nil && resolved != "" {
					realPath = resolved
				}
				if _, seen := visited[realPath]; seen {
					continue
				}
				visited[realPath] = struct{}{}
			}

			fw.scanDirectory(ctx, fullPath, scope, paths, depth+1, processed, visited)
			continue
		}

		if _, ok := fw.language(fullPath, scope); !ok {
			continue
		}
		if fw.isIncluded(rel, scope.Include) {
			if scope.MaxFiles > 0 && *processed >= scope.MaxFiles {
				return
			}
			select {
			case <-ctx.Done():
				return
			case paths <- fullPath:
				*processed++
			}
		}
	}
}

// relative returns path relative to root using forward slashes, so patterns
// like "src/**/*.tsx" match regardless of how root was spelled.
func (fw *FileWalker) relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (fw *FileWalker) language(path string, scope FileScope) (string, bool) {
	if fw.detect == nil {
		return scope.Language, true
	}
	lang, ok := fw.detect(path)
	if scope.Language != "" {
		lang = scope.Language
	}
	return lang, ok
}

// processFile analyzes a single file and creates WalkResult
func (fw *FileWalker) processFile(path string, scope FileScope) WalkResult {
	info, err := os.Stat(path)
	if err != nil {
		return WalkResult{Path: path, Error: err}
	}

	language, _ := fw.language(path, scope)
	return WalkResult{
		Path:     path,
		Info:     info,
		Language: language,
	}
}

// isIncluded checks if file matches include patterns
func (fw *FileWalker) isIncluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true // Include all if no patterns specified
	}

	for _, pattern := range patterns {
		if fw.matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

// isExcluded checks if file matches exclude patterns
func (fw *FileWalker) isExcluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if fw.matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchPattern performs robust glob-style pattern matching with ** support
func (fw *FileWalker) matchPattern(path, pattern string) bool {
	candidates := []string{pattern}
	// "**/dir/**" also matches "dir" itself, at any depth including the root.
	if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
		candidates = append(candidates, dir)
	}
	for _, c := range candidates {
		if matched, err := doublestar.Match(c, path); err == nil && matched {
			return true
		}
		if trimmed, ok := strings.CutPrefix(c, "**/"); ok {
			if matched, err := doublestar.Match(trimmed, path); err == nil && matched {
				return true
			}
		}
	}

	// Try basename for simple patterns without path separators
	if !strings.Contains(pattern, "/") {
		if matched, err := doublestar.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}

	return false
}

// validateScope validates FileScope parameters
func (fw *FileWalker) validateScope(scope FileScope) (fs.FileInfo, error) {
	if scope.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	info, err := os.Stat(scope.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot access path %s: %w", scope.Path, err)
	}

	for _, p := range append(append([]string{}, scope.Include...), scope.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return info, nil
}

// Collect walks scope and returns the discovered paths sorted, so results
// are reported in a stable order.
func (fw *FileWalker) Collect(ctx context.Context, scope FileScope) ([]WalkResult, error) {
	results, err := fw.Walk(ctx, scope)
	if err != nil {
		return nil, err
	}

	var files []WalkResult
	for result := range results {
		files = append(files, result)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
