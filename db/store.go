package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/models"
)

// ErrRunNotFound is returned when no run matches an id or id prefix.
var ErrRunNotFound = errors.New("run not found")

// Store persists lint results. It implements core.ResultCache for one rule
// configuration, identified by its hash.
type Store struct {
	db         *gorm.DB
	configHash string
}

// NewStore wraps an open database.
func NewStore(db *gorm.DB, configHash string) *Store {
	return &Store{db: db, configHash: configHash}
}

// Lookup returns the cached diagnostics of path if its content checksum and
// the configuration are unchanged.
func (s *Store) Lookup(path, checksum string) ([]core.Diagnostic, bool) {
	var entry models.CacheEntry
	err := s.db.Where("path = ? AND config_hash = ?", path, s.configHash).Take(&entry).Error
	if err != nil || entry.Checksum != checksum {
		return nil, false
	}
	var diags []core.Diagnostic
	if err := json.Unmarshal(entry.Diagnostics, &diags); err != nil {
		return nil, false
	}
	if diags == nil {
		diags = []core.Diagnostic{}
	}
	return diags, true
}

// Store upserts the diagnostics of path.
func (s *Store) Store(path, checksum string, diags []core.Diagnostic) error {
	data, err := json.Marshal(diags)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}
	entry := models.CacheEntry{
		Path:        path,
		ConfigHash:  s.configHash,
		Checksum:    checksum,
		Diagnostics: datatypes.JSON(data),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}, {Name: "config_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"checksum", "diagnostics", "updated_at"}),
	}).Create(&entry).Error
}

// RunInfo describes how a run was invoked.
type RunInfo struct {
	Preset string
	Paths  []string
	Fix    bool
	DryRun bool
}

// RecordRun stores a run and all of its findings in one transaction.
func (s *Store) RecordRun(ctx context.Context, info RunInfo, result *core.RunResult) (*models.LintRun, error) {
	paths, err := json.Marshal(info.Paths)
	if err != nil {
		return nil, err
	}

	run := &models.LintRun{
		ID:            uuid.NewString(),
		Preset:        info.Preset,
		Paths:         datatypes.JSON(paths),
		Fix:           info.Fix,
		DryRun:        info.DryRun,
		FilesScanned:  result.FilesScanned,
		FilesModified: result.FilesModified,
		ErrorCount:    result.ErrorCount,
		WarningCount:  result.WarningCount,
		FixableCount:  result.FixableCount,
		ScanMillis:    result.ScanDuration,
		LintMillis:    result.LintDuration,
	}

	var findings []models.Finding
	for _, file := range result.Files {
		for _, d := range file.Diagnostics {
			f := models.Finding{
				RunID:     run.ID,
				FilePath:  file.FilePath,
				RuleID:    d.RuleID,
				MessageID: d.MessageID,
				Message:   d.Message,
				Severity:  d.Severity.String(),
				Line:      d.Location.Line,
				Column:    d.Location.Column,
				EndLine:   d.Location.EndLine,
				EndColumn: d.Location.EndColumn,
				Fixable:   d.Fix != nil,
				Fatal:     d.Fatal,
			}
			if len(d.Data) > 0 {
				data, err := json.Marshal(d.Data)
				if err != nil {
					return nil, err
				}
				f.Data = datatypes.JSON(data)
			}
			findings = append(findings, f)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		if len(findings) > 0 {
			if err := tx.CreateInBatches(findings, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	run.Findings = findings
	return run, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.LintRun, error) {
	var runs []models.LintRun
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun loads a run and its findings by full id or unique id prefix.
func (s *Store) GetRun(ctx context.Context, id string) (*models.LintRun, error) {
	var runs []models.LintRun
	err := s.db.WithContext(ctx).Where("id = ?", id).Find(&runs).Error
	if err == nil && len(runs) == 0 {
		err = s.db.WithContext(ctx).Where("id LIKE ?", id+"%").Limit(2).Find(&runs).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}

	run := runs[0]
	findings, err := s.RunFindings(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Findings = findings
	return &run, nil
}

// RunFindings returns the findings of a run ordered by file and position.
func (s *Store) RunFindings(ctx context.Context, runID string) ([]models.Finding, error) {
	var findings []models.Finding
	err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("file_path, line, \"column\", id").
		Find(&findings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load findings: %w", err)
	}
	return findings, nil
}

// PruneRuns deletes all but the newest keep runs and returns how many were
// removed.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int64, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.LintRun{}).
		Order("created_at DESC").
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list runs: %w", err)
	}
	if keep < 0 {
		keep = 0
	}
	if len(ids) <= keep {
		return 0, nil
	}
	stale := ids[keep:]

	var removed int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id IN ?", stale).Delete(&models.Finding{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", stale).Delete(&models.LintRun{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return removed, nil
}
