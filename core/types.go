package core

import (
	"fmt"
	"strings"
)

// Severity of a diagnostic. The numeric values follow ESLint (0 off, 1 warn, 2 error).
type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "off"
	}
}

// ParseSeverity accepts "off", "warn", "warning", "error" or the numeric
// forms "0", "1", "2".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return SeverityOff, nil
	case "warn", "warning", "1":
		return SeverityWarn, nil
	case "error", "2":
		return SeverityError, nil
	}
	return SeverityOff, fmt.Errorf("invalid severity %q", s)
}

// MarshalText encodes the severity by name for YAML and config round-trips.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Location in source code
type Location struct {
	File      string `json:"file,omitempty"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"end_line,omitempty"`
	EndColumn int    `json:"end_column,omitempty"`
	Offset    int    `json:"offset"`
}

// Fix replaces the byte range [Range[0], Range[1]) with Text. An insertion
// has an empty range.
type Fix struct {
	Range [2]int `json:"range" yaml:"range"`
	Text  string `json:"text" yaml:"text"`
}

// Diagnostic is one reported violation.
type Diagnostic struct {
	RuleID    string            `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	MessageID string            `json:"message_id,omitempty" yaml:"message_id,omitempty"`
	Message   string            `json:"message" yaml:"message"`
	Data      map[string]string `json:"data,omitempty" yaml:"data,omitempty"`
	Severity  Severity          `json:"severity" yaml:"severity"`
	Location  Location          `json:"location" yaml:"location"`
	Fix       *Fix              `json:"fix,omitempty" yaml:"fix,omitempty"`
	Fatal     bool              `json:"fatal,omitempty" yaml:"fatal,omitempty"`
}

// FileScope defines which files to process in filesystem operations
type FileScope struct {
	Path           string   `json:"path"`                // Root path to scan
	Include        []string `json:"include,omitempty"`   // File patterns to include (**/*.tsx)
	Exclude        []string `json:"exclude,omitempty"`   // File patterns to exclude
	MaxDepth       int      `json:"max_depth,omitempty"` // Max directory depth (0 = unlimited)
	MaxFiles       int      `json:"max_files,omitempty"` // Max files to process (0 = unlimited)
	FollowSymlinks bool     `json:"follow_symlinks"`     // Follow symbolic links
	Language       string   `json:"language,omitempty"`  // Auto-detect by extension if empty
}

// LintOptions controls a FileProcessor run.
type LintOptions struct {
	Fix     bool // apply fixes
	DryRun  bool // compute fixed output and diffs, never write
	Backup  bool // keep a .bak copy of every rewritten file
	Workers int  // 0 = runtime.NumCPU()
}

// FileResult is the outcome for a single file.
type FileResult struct {
	FilePath     string       `json:"file_path" yaml:"file_path"`
	Language     string       `json:"language" yaml:"language"`
	Diagnostics  []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Output       string       `json:"-" yaml:"-"`
	Source       string       `json:"-" yaml:"-"`
	Fixed        bool         `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Diff         string       `json:"diff,omitempty" yaml:"diff,omitempty"`
	BackupPath   string       `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	Cached       bool         `json:"cached,omitempty" yaml:"cached,omitempty"`
	Error        string       `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCount   int          `json:"error_count" yaml:"error_count"`
	WarningCount int          `json:"warning_count" yaml:"warning_count"`
	FixableCount int          `json:"fixable_count" yaml:"fixable_count"`
}

// Count recomputes the severity and fixable counters from Diagnostics.
func (r *FileResult) Count() {
	r.ErrorCount, r.WarningCount, r.FixableCount = 0, 0, 0
	for _, d := range r.Diagnostics {
		switch d.Severity {
		case SeverityError:
			r.ErrorCount++
		case SeverityWarn:
			r.WarningCount++
		}
		if d.Fix != nil {
			r.FixableCount++
		}
	}
}

// RunResult aggregates a lint run over many files.
type RunResult struct {
	Files         []FileResult `json:"files" yaml:"files"`
	FilesScanned  int          `json:"files_scanned" yaml:"files_scanned"`
	FilesModified int          `json:"files_modified" yaml:"files_modified"`
	ErrorCount    int          `json:"error_count" yaml:"error_count"`
	WarningCount  int          `json:"warning_count" yaml:"warning_count"`
	FixableCount  int          `json:"fixable_count" yaml:"fixable_count"`
	ScanDuration  int64        `json:"scan_duration_ms" yaml:"scan_duration_ms"`
	LintDuration  int64        `json:"lint_duration_ms" yaml:"lint_duration_ms"`
}

// Tally fills the aggregate counters from Files.
func (r *RunResult) Tally() {
	r.FilesScanned = len(r.Files)
	r.FilesModified, r.ErrorCount, r.WarningCount, r.FixableCount = 0, 0, 0, 0
	for _, f := range r.Files {
		if f.Fixed {
			r.FilesModified++
		}
		r.ErrorCount += f.ErrorCount
		r.WarningCount += f.WarningCount
		r.FixableCount += f.FixableCount
	}
}
