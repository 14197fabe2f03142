// Package state holds the current status and device records and persists
// them as a single JSON document.
package state

import "time"

// Device is a client installation that reports activity.
type Device struct {
	Name     string            `json:"name"`
	ShowName string            `json:"show_name,omitempty"`
	Using    bool              `json:"using"`
	App      string            `json:"app,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	LastSeen time.Time         `json:"last_seen"`
}

// State is a point-in-time snapshot of everything the server persists.
type State struct {
	StatusID    int               `json:"status_id"`
	Private     bool              `json:"private"`
	Devices     map[string]Device `json:"devices"`
	LastUpdated time.Time         `json:"last_updated"`
}

// Store is the status/device store contract. Implementations are safe for
// concurrent use within a single process; running multiple server processes
// against the same backing file is not supported.
type Store interface {
	// Snapshot returns a copy of the current state.
	Snapshot() State

	// SetStatus replaces the active status id.
	SetStatus(id int) error

	// UpsertDevice creates the device on first sight or updates it in
	// place. Reports whether a new record was created.
	UpsertDevice(d Device) (created bool, err error)

	// RemoveDevice deletes the named device. Removing an unknown device
	// is not an error.
	RemoveDevice(name string) error

	// ClearDevices removes all device records.
	ClearDevices() error

	// SetPrivate toggles private mode (device records hidden from public
	// queries but still updated).
	SetPrivate(private bool) error
}

func newState() State {
	return State{Devices: make(map[string]Device)}
}

// clone returns a deep copy so callers can't mutate stored state.
func (s State) clone() State {
	out := s
	out.Devices = make(map[string]Device, len(s.Devices))
	for name, d := range s.Devices {
		if d.Fields != nil {
			fields := make(map[string]string, len(d.Fields))
			for k, v := range d.Fields {
				fields[k] = v
			}
			d.Fields = fields
		}
		out.Devices[name] = d
	}
	return out
}

// applyUpsert merges an incoming device record into the state.
func (s *State) applyUpsert(d Device, now time.Time) (created bool) {
	prev, ok := s.Devices[d.Name]
	if ok {
		// Keep the existing display name unless the update carries one.
		if d.ShowName == "" {
			d.ShowName = prev.ShowName
		}
		if d.Fields == nil {
			d.Fields = prev.Fields
		}
	}
	d.LastSeen = now
	s.Devices[d.Name] = d
	return !ok
}
