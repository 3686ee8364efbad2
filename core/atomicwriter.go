package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// AtomicWriteConfig controls atomic writing behavior
type AtomicWriteConfig struct {
	UseFsync       bool   // Force fsync for durability
	TempSuffix     string // Suffix for temporary files
	BackupOriginal bool   // Create backup before writing
	BackupSuffix   string // Suffix appended to backup copies
}

// DefaultAtomicConfig provides sensible defaults
func DefaultAtomicConfig() AtomicWriteConfig {
	return AtomicWriteConfig{
		UseFsync:       false,
		TempSuffix:     ".jsxlint.tmp",
		BackupOriginal: false,
		BackupSuffix:   ".bak",
	}
}

// AtomicWriter replaces files via temp file and rename, serializing writers
// per path.
type AtomicWriter struct {
	config AtomicWriteConfig
	locks  sync.Map // path -> *sync.Mutex
}

// NewAtomicWriter creates a new atomic writer
func NewAtomicWriter(config AtomicWriteConfig) *AtomicWriter {
	if config.TempSuffix == "" {
		config.TempSuffix = ".jsxlint.tmp"
	}
	if config.BackupSuffix == "" {
		config.BackupSuffix = ".bak"
	}
	return &AtomicWriter{config: config}
}

func (aw *AtomicWriter) lock(path string) func() {
	m, _ := aw.locks.LoadOrStore(path, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// WriteFile atomically replaces path with content. It returns the backup
// path when a backup was made.
func (aw *AtomicWriter) WriteFile(path, content string) (string, error) {
	unlock := aw.lock(path)
	defer unlock()

	var fileMode os.FileMode = 0o644
	originalInfo, statErr := os.Stat(path)
	if statErr == nil {
		fileMode = originalInfo.Mode().Perm()
	}

	var backupPath string
	if aw.config.BackupOriginal && statErr == nil {
		backupPath = path + aw.config.BackupSuffix
		if err := aw.createBackup(path, backupPath, fileMode); err != nil {
			return "", fmt.Errorf("failed to create backup: %w", err)
		}
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tempFile, err := os.CreateTemp(dir, "."+base+".*"+aw.config.TempSuffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to write content: %w", err)
	}

	if aw.config.UseFsync {
		if err := tempFile.Sync(); err != nil {
			tempFile.Close()
			os.Remove(tempPath)
			return "", fmt.Errorf("failed to sync: %w", err)
		}
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, fileMode); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to set mode: %w", err)
	}

	// Atomic rename (the critical atomic operation)
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to atomic rename: %w", err)
	}

	return backupPath, nil
}

// createBackup copies the current file contents next to it.
func (aw *AtomicWriter) createBackup(originalPath, backupPath string, mode os.FileMode) error {
	content, err := os.ReadFile(originalPath)
	if err != nil {
		return err
	}
	return os.WriteFile(backupPath, content, mode)
}
