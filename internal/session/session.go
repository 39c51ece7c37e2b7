// Package session persists the dashboard's view state between runs.
package session

import (
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/joshribakoff/bearing-tui/internal/sorting"
	"github.com/joshribakoff/bearing-tui/internal/state"
)

// SlotKey names the single slot the view state is written to.
const SlotKey = "bearing-state"

type record struct {
	SelectedProject        *string `json:"selectedProject"`
	SelectedWorktreeFolder *string `json:"selectedWorktreeFolder"`
	SortColumn             string  `json:"sortColumn"`
	SortDirection          string  `json:"sortDirection"`
	CurrentView            string  `json:"currentView"`
}

type Store struct {
	slot Slot
	key  string
	log  *slog.Logger
}

func NewStore(slot Slot, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{slot: slot, key: SlotKey, log: logger}
}

// Save overwrites the slot with the persisted subset of p.
func (s *Store) Save(p state.Persisted) error {
	data, err := json.Marshal(record{
		SelectedProject:        p.SelectedProject,
		SelectedWorktreeFolder: p.SelectedWorktreeFolder,
		SortColumn:             string(p.SortColumn),
		SortDirection:          string(p.SortDirection),
		CurrentView:            string(p.CurrentView),
	})
	if err != nil {
		s.log.Warn("session_encode_failed", slog.String("err", err.Error()))
		return err
	}
	if err := s.slot.Set(s.key, data); err != nil {
		s.log.Warn("session_save_failed", slog.String("key", s.key), slog.String("err", err.Error()))
		return err
	}
	return nil
}

// Load reads the slot. It never fails: a missing or unreadable slot yields defaults,
// and each field that is absent or of the wrong shape falls back on its own.
func (s *Store) Load() state.Persisted {
	p := state.DefaultPersisted()
	data, ok, err := s.slot.Get(s.key)
	if err != nil {
		s.log.Warn("session_read_failed", slog.String("key", s.key), slog.String("err", err.Error()))
		return p
	}
	if !ok {
		return p
	}
	return decode(data, p, s.log)
}

// Reset removes the stored state.
func (s *Store) Reset() error {
	return s.slot.Delete(s.key)
}

func (s *Store) Close() error {
	return s.slot.Close()
}

func decode(data []byte, p state.Persisted, log *slog.Logger) state.Persisted {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		log.Warn("session_discarded", slog.String("reason", "not an object"))
		return p
	}

	if v, ok := optionalString(fields, "selectedProject", log); ok {
		p.SelectedProject = v
	}
	if v, ok := optionalString(fields, "selectedWorktreeFolder", log); ok {
		p.SelectedWorktreeFolder = v
	}
	if v, ok := requiredString(fields, "sortColumn", log); ok {
		if col, valid := sorting.ParseColumn(v); valid {
			p.SortColumn = col
		}
	}
	if v, ok := requiredString(fields, "sortDirection", log); ok {
		if dir, valid := sorting.ParseDirection(v); valid {
			p.SortDirection = dir
		}
	}
	if v, ok := requiredString(fields, "currentView", log); ok {
		if view, valid := state.ParseView(v); valid {
			p.CurrentView = view
		}
	}
	return p
}

// optionalString accepts a string or null.
func optionalString(fields map[string]json.RawMessage, name string, log *slog.Logger) (*string, bool) {
	raw, ok := fields[name]
	if !ok {
		return nil, false
	}
	if string(raw) == "null" {
		return nil, true
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn("session_field_discarded", slog.String("field", name))
		return nil, false
	}
	return &v, true
}

func requiredString(fields map[string]json.RawMessage, name string, log *slog.Logger) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn("session_field_discarded", slog.String("field", name))
		return "", false
	}
	return v, true
}
