// Package snapshot persists the normalized survey dataset as a JSON file
// so an imported spreadsheet survives server restarts.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// File is the on-disk envelope of a dataset snapshot.
type File struct {
	SavedAt time.Time       `json:"savedAt"`
	Total   int             `json:"total"`
	Records json.RawMessage `json:"records"`
}

// Store reads and writes dataset snapshots at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a snapshot store. The path is used as-is, so callers
// resolve it against the configured data directory first.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger.With(slog.String("component", "snapshot")),
		now:    time.Now,
	}
}

// Path returns the snapshot file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a snapshot is present on disk
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save marshals the records and replaces the snapshot atomically. The
// payload is written to a temp file in the same directory and renamed
// over the target so readers never observe a partial snapshot.
func (s *Store) Save(records interface{}, total int) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	file := File{
		SavedAt: s.now(),
		Total:   total,
		Records: payload,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	s.logger.Info("snapshot saved",
		slog.String("path", s.path),
		slog.Int("total", total),
		slog.Int("bytes", len(data)))

	return nil
}

// Load reads the snapshot into the given records value. A missing
// snapshot is not an error; ok reports whether one was found.
func (s *Store) Load(records interface{}) (ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return false, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if len(file.Records) > 0 {
		if err := json.Unmarshal(file.Records, records); err != nil {
			return false, fmt.Errorf("failed to parse snapshot records: %w", err)
		}
	}

	s.logger.Info("snapshot loaded",
		slog.String("path", s.path),
		slog.Int("total", file.Total),
		slog.Time("saved_at", file.SavedAt))

	return true, nil
}

// Delete removes the snapshot. Deleting a missing snapshot is a no-op.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	s.logger.Info("snapshot deleted", slog.String("path", s.path))
	return nil
}
