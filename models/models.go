package models

import (
	"time"

	"gorm.io/datatypes"
)

// LintRun records one `jsxlint lint` invocation.
type LintRun struct {
	ID     string         `gorm:"primaryKey;type:varchar(36)"`
	Preset string         `gorm:"type:varchar(20)"`
	Paths  datatypes.JSON `gorm:"type:jsonb"` // targets as given on the command line

	// Options
	Fix    bool `gorm:"default:false"`
	DryRun bool `gorm:"default:false"`

	// Totals
	FilesScanned  int `gorm:"default:0"`
	FilesModified int `gorm:"default:0"`
	ErrorCount    int `gorm:"default:0"`
	WarningCount  int `gorm:"default:0"`
	FixableCount  int `gorm:"default:0"`

	// Timings in milliseconds
	ScanMillis int64
	LintMillis int64

	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	Findings []Finding `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// Finding is one diagnostic reported during a run.
type Finding struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     string `gorm:"type:varchar(36);index;not null"`
	FilePath  string `gorm:"type:text;not null"`
	RuleID    string `gorm:"type:varchar(64);index"`
	MessageID string `gorm:"type:varchar(64)"`
	Message   string `gorm:"type:text"`
	Severity  string `gorm:"type:varchar(10)"`

	// Position
	Line      int
	Column    int
	EndLine   int
	EndColumn int

	Data    datatypes.JSON `gorm:"type:jsonb"`
	Fixable bool           `gorm:"default:false"`
	Fatal   bool           `gorm:"default:false"`
}

// CacheEntry holds the diagnostics of a file for one content checksum under
// one rule configuration.
type CacheEntry struct {
	Path        string         `gorm:"primaryKey;type:varchar(1024)"`
	ConfigHash  string         `gorm:"primaryKey;type:varchar(64)"`
	Checksum    string         `gorm:"type:varchar(64);not null"`
	Diagnostics datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

// TableName customizations for cleaner names
func (LintRun) TableName() string    { return "lint_runs" }
func (Finding) TableName() string    { return "findings" }
func (CacheEntry) TableName() string { return "cache_entries" }
