package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileStore persists the state as one JSON document on disk. Every mutation
// rewrites the whole file (temp file + rename); there is no partial update
// and no transaction log. A process-local mutex serializes writers -- the
// deployment contract is a single server process per state file.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	state  State
	logger *zap.Logger
}

// NewFileStore loads the document at path, creating a fresh one if the file
// does not exist yet. An unreadable or unparsable file is an error; callers
// treat it as fatal at startup.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		state:  newState(),
		logger: logger,
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		if err := s.persist(); err != nil {
			return nil, err
		}
		logger.Info("created new state file", zap.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("read state file %q: %w", path, err)
	default:
		if err := json.Unmarshal(data, &s.state); err != nil {
			return nil, fmt.Errorf("parse state file %q: %w", path, err)
		}
		if s.state.Devices == nil {
			s.state.Devices = make(map[string]Device)
		}
		logger.Info("state loaded",
			zap.String("path", path),
			zap.Int("devices", len(s.state.Devices)),
			zap.Int("status_id", s.state.StatusID),
		)
	}

	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *FileStore) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// SetStatus replaces the active status id.
func (s *FileStore) SetStatus(id int) error {
	return s.mutate(func(st *State) {
		st.StatusID = id
	})
}

// UpsertDevice creates or updates a device record keyed by name.
func (s *FileStore) UpsertDevice(d Device) (bool, error) {
	var created bool
	err := s.mutate(func(st *State) {
		created = st.applyUpsert(d, time.Now().UTC())
	})
	return created, err
}

// RemoveDevice deletes the named device record.
func (s *FileStore) RemoveDevice(name string) error {
	return s.mutate(func(st *State) {
		delete(st.Devices, name)
	})
}

// ClearDevices removes all device records.
func (s *FileStore) ClearDevices() error {
	return s.mutate(func(st *State) {
		st.Devices = make(map[string]Device)
	})
}

// SetPrivate toggles private mode.
func (s *FileStore) SetPrivate(private bool) error {
	return s.mutate(func(st *State) {
		st.Private = private
	})
}

// mutate applies fn under the write lock, stamps LastUpdated, and rewrites
// the file wholesale.
func (s *FileStore) mutate(fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	s.state.LastUpdated = time.Now().UTC()
	return s.persist()
}

// persist writes the full document atomically. Must be called with the
// write lock held (or before the store is shared).
func (s *FileStore) persist() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
