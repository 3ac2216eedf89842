// Package storage persists the home snapshot as a single JSON document on
// disk, the durable equivalent of the UI's one localStorage slot.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"homecontrol/internal/domain"
)

type FileStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the snapshot. A missing file means a fresh install and is not
// an error; a corrupt file is, so the caller can fall back to defaults.
func (s *FileStore) Load() (domain.HomeState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultHomeState(), false, nil
	}
	if err != nil {
		return domain.DefaultHomeState(), false, fmt.Errorf("reading snapshot: %w", err)
	}

	var state domain.HomeState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.DefaultHomeState(), false, fmt.Errorf("parsing snapshot: %w", err)
	}

	s.logger.Debug("snapshot loaded", "path", s.path, "rooms", len(state.Rooms))
	return state, true, nil
}

// Save overwrites the snapshot via a temp file and rename, so a crash
// mid-write never leaves a half-written snapshot behind.
func (s *FileStore) Save(state domain.HomeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
