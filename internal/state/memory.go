package state

import (
	"sync"
	"time"
)

// MemoryStore keeps the state in memory only. Used on serverless targets
// where the filesystem is not writable; state is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	state State
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newState()}
}

// Snapshot returns a copy of the current state.
func (s *MemoryStore) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// SetStatus replaces the active status id.
func (s *MemoryStore) SetStatus(id int) error {
	return s.mutate(func(st *State) {
		st.StatusID = id
	})
}

// UpsertDevice creates or updates a device record keyed by name.
func (s *MemoryStore) UpsertDevice(d Device) (bool, error) {
	var created bool
	err := s.mutate(func(st *State) {
		created = st.applyUpsert(d, time.Now().UTC())
	})
	return created, err
}

// RemoveDevice deletes the named device record.
func (s *MemoryStore) RemoveDevice(name string) error {
	return s.mutate(func(st *State) {
		delete(st.Devices, name)
	})
}

// ClearDevices removes all device records.
func (s *MemoryStore) ClearDevices() error {
	return s.mutate(func(st *State) {
		st.Devices = make(map[string]Device)
	})
}

// SetPrivate toggles private mode.
func (s *MemoryStore) SetPrivate(private bool) error {
	return s.mutate(func(st *State) {
		st.Private = private
	})
}

func (s *MemoryStore) mutate(fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.state.LastUpdated = time.Now().UTC()
	return nil
}
