// Package state holds the dashboard's in-memory view state and the projection the
// renderer draws from it.
package state

import (
	"github.com/joshribakoff/bearing-tui/internal/model"
	"github.com/joshribakoff/bearing-tui/internal/selection"
	"github.com/joshribakoff/bearing-tui/internal/sorting"
)

type Panel string

const (
	PanelProjects  Panel = "project-list"
	PanelWorktrees Panel = "worktree-table"
	PanelDetails   Panel = "details-panel"
)

type View string

const (
	ViewWorktrees View = "worktrees"
	ViewIssues    View = "issues"
	ViewPRs       View = "prs"
)

// Views is the fixed tab order.
var Views = []View{ViewWorktrees, ViewIssues, ViewPRs}

func ParseView(s string) (View, bool) {
	for _, v := range Views {
		if string(v) == s {
			return v, true
		}
	}
	return ViewWorktrees, false
}

func (v View) Label() string {
	switch v {
	case ViewIssues:
		return "Issues"
	case ViewPRs:
		return "Pull Requests"
	default:
		return "Worktrees"
	}
}

// Index is the position of v in Views.
func (v View) Index() int {
	for i, candidate := range Views {
		if candidate == v {
			return i
		}
	}
	return 0
}

// Cycle steps delta tabs from v, wrapping at both ends.
func (v View) Cycle(delta int) View {
	n := len(Views)
	return Views[((v.Index()+delta)%n+n)%n]
}

type Modal string

const (
	ModalNone  Modal = "none"
	ModalHelp  Modal = "help"
	ModalPlans Modal = "plans"
)

type Connection string

const (
	ConnConnecting Connection = "connecting"
	ConnOK         Connection = "ok"
	ConnError      Connection = "error"
)

func (c Connection) Title() string {
	switch c {
	case ConnOK:
		return "Connected"
	case ConnError:
		return "Disconnected"
	default:
		return "Connecting..."
	}
}

// ViewState is the complete dashboard state. It is a value: transitions return a new
// ViewState and never mutate slices they did not allocate.
type ViewState struct {
	SelectedProject     *string
	SelectedWorktreeKey *string
	FocusedPanel        Panel
	ActiveView          View
	Modal               Modal
	SortColumn          sorting.Column
	SortDirection       sorting.Direction
	PlanCursor          int

	ProjectCursor  int
	WorktreeCursor int
	Projects       []model.Project
	Worktrees      []model.Worktree
	Plans          []model.Plan
	Notice         string

	// Connection is derived from Stream and FetchFailed by SyncConnection.
	Connection  Connection
	Stream      Connection
	FetchFailed bool

	// NextSeq numbers outgoing fetches; results older than LastAppliedSeq are dropped.
	NextSeq        uint64
	LastAppliedSeq uint64
	PendingPlans   uint64
}

func Default() ViewState {
	return ViewState{
		FocusedPanel:   PanelProjects,
		ActiveView:     ViewWorktrees,
		Modal:          ModalNone,
		SortColumn:     sorting.ColumnDefault,
		SortDirection:  sorting.Asc,
		WorktreeCursor: -1,
		Connection:     ConnConnecting,
		Stream:         ConnConnecting,
	}
}

// SyncConnection recomputes Connection. Only the stream's connected signal makes it
// ok; a failed stream or a failed fetch makes it error.
func (s ViewState) SyncConnection() ViewState {
	switch {
	case s.Stream == ConnError || s.FetchFailed:
		s.Connection = ConnError
	default:
		s.Connection = s.Stream
	}
	return s
}

// Persisted is the subset of ViewState that survives restarts.
type Persisted struct {
	SelectedProject        *string
	SelectedWorktreeFolder *string
	SortColumn             sorting.Column
	SortDirection          sorting.Direction
	CurrentView            View
}

func DefaultPersisted() Persisted {
	return Default().Persisted()
}

func (s ViewState) Persisted() Persisted {
	return Persisted{
		SelectedProject:        cloneString(s.SelectedProject),
		SelectedWorktreeFolder: cloneString(s.SelectedWorktreeKey),
		SortColumn:             s.SortColumn,
		SortDirection:          s.SortDirection,
		CurrentView:            s.ActiveView,
	}
}

// Hydrate returns s with the persisted fields of p applied.
func (s ViewState) Hydrate(p Persisted) ViewState {
	s.SelectedProject = cloneString(p.SelectedProject)
	s.SelectedWorktreeKey = cloneString(p.SelectedWorktreeFolder)
	s.SortColumn = p.SortColumn
	s.SortDirection = p.SortDirection
	s.ActiveView = p.CurrentView
	return s
}

// Rows is the selected project's worktrees in the active sort order.
func (s ViewState) Rows() []model.Worktree {
	if s.SelectedProject == nil {
		return nil
	}
	return sorting.Sort(model.VisibleWorktrees(s.Worktrees, *s.SelectedProject), s.SortColumn, s.SortDirection)
}

// Projection is everything a stateless renderer needs after a transition.
type Projection struct {
	State ViewState
	Rows  []model.Worktree
	Index int
}

func (s ViewState) Project() Projection {
	rows := s.Rows()
	idx := s.WorktreeCursor
	if idx >= len(rows) {
		idx = -1
	}
	return Projection{State: s, Rows: rows, Index: idx}
}

func (p Projection) Selected() (model.Worktree, bool) {
	if p.Index < 0 || p.Index >= len(p.Rows) {
		return model.Worktree{}, false
	}
	return p.Rows[p.Index], true
}

// Reselect re-runs identity resolution against the current rows.
func (s ViewState) Reselect() ViewState {
	r := selection.Resolve(s.SelectedWorktreeKey, s.Rows())
	s.WorktreeCursor = r.Index
	s.SelectedWorktreeKey = r.Key
	return s
}

func (s ViewState) SelectedPlan() (model.Plan, bool) {
	if s.PlanCursor < 0 || s.PlanCursor >= len(s.Plans) {
		return model.Plan{}, false
	}
	return s.Plans[s.PlanCursor], true
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StringPtr is a convenience for optional identities.
func StringPtr(s string) *string {
	return &s
}
