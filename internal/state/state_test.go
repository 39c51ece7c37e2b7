package state

import (
	"testing"

	"github.com/joshribakoff/bearing-tui/internal/model"
	"github.com/joshribakoff/bearing-tui/internal/sorting"
)

func TestViewCycleWraps(t *testing.T) {
	if ViewWorktrees.Cycle(-1) != ViewPRs {
		t.Fatalf("cycle back from first should wrap to last")
	}
	if ViewPRs.Cycle(1) != ViewWorktrees {
		t.Fatalf("cycle forward from last should wrap to first")
	}
	if ViewIssues.Cycle(4) != ViewPRs {
		t.Fatalf("multi-step cycle")
	}
	if v, ok := ParseView("bogus"); ok || v != ViewWorktrees {
		t.Fatalf("bad view should fall back: %s", v)
	}
}

func TestHydrateRoundTrip(t *testing.T) {
	s := Default()
	s.SelectedProject = StringPtr("bearing")
	s.SelectedWorktreeKey = StringPtr("bearing-feature")
	s.SortColumn = sorting.ColumnBranch
	s.SortDirection = sorting.Desc
	s.ActiveView = ViewPRs

	p := s.Persisted()
	got := Default().Hydrate(p)
	if *got.SelectedProject != "bearing" || *got.SelectedWorktreeKey != "bearing-feature" {
		t.Fatalf("identities lost: %+v", got)
	}
	if got.SortColumn != sorting.ColumnBranch || got.SortDirection != sorting.Desc || got.ActiveView != ViewPRs {
		t.Fatalf("sort or view lost: %+v", got)
	}

	*s.SelectedProject = "changed"
	if *p.SelectedProject != "bearing" {
		t.Fatalf("persisted snapshot aliases view state")
	}
}

func TestRowsFilterAndSort(t *testing.T) {
	s := Default()
	s.Worktrees = []model.Worktree{
		{Repo: "a", Folder: "a-zeta"},
		{Repo: "b", Folder: "b-one"},
		{Repo: "a", Folder: "a-alpha", PRState: model.PROpen},
	}
	if rows := s.Rows(); rows != nil {
		t.Fatalf("no project selected should give no rows, got %v", rows)
	}
	s.SelectedProject = StringPtr("a")
	rows := s.Rows()
	if len(rows) != 2 || rows[0].Folder != "a-alpha" || rows[1].Folder != "a-zeta" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestReselectFollowsIdentity(t *testing.T) {
	s := Default()
	s.SelectedProject = StringPtr("a")
	s.Worktrees = []model.Worktree{
		{Repo: "a", Folder: "one"},
		{Repo: "a", Folder: "two"},
		{Repo: "a", Folder: "three"},
	}
	s.SelectedWorktreeKey = StringPtr("two")
	s = s.Reselect()
	if s.WorktreeCursor != 2 {
		t.Fatalf("expected cursor on two in folder order, got %d", s.WorktreeCursor)
	}

	s.SortColumn = sorting.ColumnFolder
	s.SortDirection = sorting.Desc
	s = s.Reselect()
	if s.WorktreeCursor != 0 || *s.SelectedWorktreeKey != "two" {
		t.Fatalf("identity lost on re-sort: %d %v", s.WorktreeCursor, *s.SelectedWorktreeKey)
	}

	sel, ok := s.Project().Selected()
	if !ok || sel.Folder != "two" {
		t.Fatalf("projection selected %+v", sel)
	}
}

func TestReselectEmpty(t *testing.T) {
	s := Default()
	s.SelectedProject = StringPtr("empty")
	s.SelectedWorktreeKey = StringPtr("gone")
	s = s.Reselect()
	if s.WorktreeCursor != -1 || s.SelectedWorktreeKey != nil {
		t.Fatalf("expected no selection, got %d %v", s.WorktreeCursor, s.SelectedWorktreeKey)
	}
	if _, ok := s.Project().Selected(); ok {
		t.Fatalf("projection should have no selection")
	}
}

func TestSelectedPlanBounds(t *testing.T) {
	s := Default()
	if _, ok := s.SelectedPlan(); ok {
		t.Fatalf("no plans loaded")
	}
	s.Plans = []model.Plan{{Title: "p"}}
	s.PlanCursor = 3
	if _, ok := s.SelectedPlan(); ok {
		t.Fatalf("cursor out of range")
	}
}
