// Package datastore persists a single JSON document to disk with atomic
// replacement, write verification and rotating backups.
package datastore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Config holds configuration options for the DataStore
type Config struct {
	FilePath    string
	BackupCount int // Number of backup files to keep (0 = none)
}

// DefaultConfig returns a default configuration
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:    filePath,
		BackupCount: 3,
	}
}

// DataStore reads and writes one JSON file. It is safe for concurrent use.
type DataStore struct {
	file         string
	config       *Config
	mu           sync.Mutex
	lastChecksum string // checksum of last saved data
}

// New creates a new DataStore with default configuration
func New(filePath string) (*DataStore, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

// NewWithConfig creates a new DataStore with custom configuration.
// The file itself is not created until the first Save.
func NewWithConfig(config *Config) (*DataStore, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.FilePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &DataStore{
		file:   config.FilePath,
		config: config,
	}, nil
}

// Path returns the backing file path.
func (ds *DataStore) Path() string {
	return ds.file
}

// Read returns the raw file content.
func (ds *DataStore) Read() ([]byte, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return os.ReadFile(ds.file)
}

// Load decodes the file into v. A missing file is reported with an error
// matching os.ErrNotExist.
func (ds *DataStore) Load(v any) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	data, err := os.ReadFile(ds.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}
	ds.lastChecksum = calculateChecksum(data)
	return nil
}

// Save encodes v and replaces the file atomically. Unchanged content is
// not rewritten.
func (ds *DataStore) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	checksum := calculateChecksum(data)
	if checksum == ds.lastChecksum {
		return nil
	}

	if ds.config.BackupCount > 0 {
		if err := ds.createBackup(); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	if err := ds.writeFileAtomic(data); err != nil {
		return err
	}
	if err := ds.verifyFile(checksum); err != nil {
		return fmt.Errorf("file verification failed: %w", err)
	}

	ds.lastChecksum = checksum
	return nil
}

// writeFileAtomic performs atomic file write using temporary file and rename
func (ds *DataStore) writeFileAtomic(data []byte) error {
	tmpFile := ds.file + ".tmp"

	f, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpFile, ds.file); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (ds *DataStore) verifyFile(checksum string) error {
	actual, err := os.ReadFile(ds.file)
	if err != nil {
		return fmt.Errorf("failed to read file for verification: %w", err)
	}
	if calculateChecksum(actual) != checksum {
		return errors.New("file checksum mismatch")
	}
	return nil
}

// createBackup copies the current file to a timestamped backup and prunes
// the oldest backups beyond the configured count.
func (ds *DataStore) createBackup() error {
	src, err := os.Open(ds.file)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	backupFile := fmt.Sprintf("%s.backup.%s", ds.file, time.Now().Format("20060102_150405.000"))
	dst, err := os.Create(backupFile)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	ds.cleanupOldBackups()
	return nil
}

// Backups returns existing backup paths, oldest first.
func (ds *DataStore) Backups() []string {
	matches, err := filepath.Glob(ds.file + ".backup.*")
	if err != nil {
		return nil
	}
	// the timestamp suffix sorts chronologically
	sort.Strings(matches)
	return matches
}

func (ds *DataStore) cleanupOldBackups() {
	backups := ds.Backups()
	for len(backups) > ds.config.BackupCount {
		os.Remove(backups[0])
		backups = backups[1:]
	}
}

func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
