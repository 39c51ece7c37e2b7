package session

import (
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/joshribakoff/bearing-tui/internal/logging"
	"github.com/joshribakoff/bearing-tui/internal/sorting"
	"github.com/joshribakoff/bearing-tui/internal/state"
)

func newStore(slot Slot) *Store {
	return NewStore(slot, logging.Discard())
}

func samplePersisted() state.Persisted {
	return state.Persisted{
		SelectedProject:        state.StringPtr("bearing"),
		SelectedWorktreeFolder: state.StringPtr("bearing-auth"),
		SortColumn:             sorting.ColumnStatus,
		SortDirection:          sorting.Desc,
		CurrentView:            state.ViewIssues,
	}
}

func assertPersisted(t *testing.T, got, want state.Persisted) {
	t.Helper()
	eq := func(a, b *string) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return *a == *b
	}
	if !eq(got.SelectedProject, want.SelectedProject) || !eq(got.SelectedWorktreeFolder, want.SelectedWorktreeFolder) {
		t.Fatalf("identities differ: got %v/%v", got.SelectedProject, got.SelectedWorktreeFolder)
	}
	if got.SortColumn != want.SortColumn || got.SortDirection != want.SortDirection || got.CurrentView != want.CurrentView {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadMissingGivesDefaults(t *testing.T) {
	s := newStore(NewMemorySlot())
	assertPersisted(t, s.Load(), state.DefaultPersisted())
}

func TestSaveLoadFileSlot(t *testing.T) {
	dir := t.TempDir()
	slot, err := OpenSlot(BackendFile, dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := newStore(slot)
	if err := s.Save(samplePersisted()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, SlotKey+".json")); err != nil {
		t.Fatalf("state file not written: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
	assertPersisted(t, newStore(&FileSlot{Dir: dir}).Load(), samplePersisted())

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	assertPersisted(t, s.Load(), state.DefaultPersisted())
	if err := s.Reset(); err != nil {
		t.Fatalf("second reset should be a no-op: %v", err)
	}
}

func TestSaveLoadSQLiteSlot(t *testing.T) {
	dir := t.TempDir()
	slot, err := OpenSlot(BackendSQLite, dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := newStore(slot)
	if err := s.Save(samplePersisted()); err != nil {
		t.Fatalf("save: %v", err)
	}
	next := samplePersisted()
	next.SortColumn = sorting.ColumnPR
	if err := s.Save(next); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenSlot(BackendSQLite, dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	assertPersisted(t, newStore(reopened).Load(), next)
}

func TestUnknownBackend(t *testing.T) {
	if _, err := OpenSlot("redis", t.TempDir()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestCorruptedPayloadFallsBack(t *testing.T) {
	for _, payload := range []string{"not json", "[1,2]", "null", `"str"`} {
		slot := NewMemorySlot()
		_ = slot.Set(SlotKey, []byte(payload))
		assertPersisted(t, newStore(slot).Load(), state.DefaultPersisted())
	}
}

func TestPerFieldFallback(t *testing.T) {
	slot := NewMemorySlot()
	_ = slot.Set(SlotKey, []byte(`{
		"selectedProject": 12,
		"selectedWorktreeFolder": "bearing-ui",
		"sortColumn": "size",
		"sortDirection": "desc",
		"currentView": true
	}`))
	got := newStore(slot).Load()
	want := state.DefaultPersisted()
	want.SelectedWorktreeFolder = state.StringPtr("bearing-ui")
	want.SortDirection = sorting.Desc
	assertPersisted(t, got, want)
}

func TestEmptyStringKeptDistinctFromNull(t *testing.T) {
	slot := NewMemorySlot()
	_ = slot.Set(SlotKey, []byte(`{"selectedProject":"","selectedWorktreeFolder":null,"sortColumn":"branch"}`))
	got := newStore(slot).Load()
	if got.SelectedProject == nil || *got.SelectedProject != "" {
		t.Fatalf("expected empty project name, got %v", got.SelectedProject)
	}
	if got.SelectedWorktreeFolder != nil {
		t.Fatalf("expected null folder, got %v", got.SelectedWorktreeFolder)
	}
	if got.SortColumn != sorting.ColumnBranch {
		t.Fatalf("sort column = %s", got.SortColumn)
	}
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		opt := func(label string) *string {
			if rapid.Bool().Draw(t, label+"-set") {
				return state.StringPtr(rapid.StringMatching(`[a-z0-9-]{0,16}`).Draw(t, label))
			}
			return nil
		}
		p := state.Persisted{
			SelectedProject:        opt("project"),
			SelectedWorktreeFolder: opt("folder"),
			SortColumn:             rapid.SampledFrom([]sorting.Column{sorting.ColumnDefault, sorting.ColumnFolder, sorting.ColumnBranch, sorting.ColumnStatus, sorting.ColumnPR}).Draw(t, "col"),
			SortDirection:          rapid.SampledFrom([]sorting.Direction{sorting.Asc, sorting.Desc}).Draw(t, "dir"),
			CurrentView:            rapid.SampledFrom(state.Views).Draw(t, "view"),
		}
		s := NewStore(NewMemorySlot(), logging.Discard())
		if err := s.Save(p); err != nil {
			t.Fatalf("save: %v", err)
		}
		got := s.Load()
		same := func(a, b *string) bool {
			if a == nil || b == nil {
				return a == nil && b == nil
			}
			return *a == *b
		}
		if !same(got.SelectedProject, p.SelectedProject) || !same(got.SelectedWorktreeFolder, p.SelectedWorktreeFolder) ||
			got.SortColumn != p.SortColumn || got.SortDirection != p.SortDirection || got.CurrentView != p.CurrentView {
			t.Fatalf("round trip: got %+v, want %+v", got, p)
		}
	})
}
