package nav

import (
	"github.com/joshribakoff/bearing-tui/internal/model"
	"github.com/joshribakoff/bearing-tui/internal/sorting"
	"github.com/joshribakoff/bearing-tui/internal/state"
)

// Event is one discrete input to the state machine.
type Event interface {
	event()
}

// KeyPressed carries a key name as Bubble Tea spells it ("j", "down", "shift+tab").
type KeyPressed struct {
	Key string
}

type ProjectClicked struct {
	Index int
}

type WorktreeClicked struct {
	Index int
}

type HeaderClicked struct {
	Column sorting.Column
}

type PlanClicked struct {
	Index int
}

// BackdropClicked is a click outside an open modal.
type BackdropClicked struct{}

// RefreshRequested asks for a full reload, e.g. at startup or after a config change.
type RefreshRequested struct{}

type DataLoaded struct {
	Seq       uint64
	Projects  []model.Project
	Worktrees []model.Worktree
}

type RefreshFailed struct {
	Seq uint64
	Err error
}

type PlansLoaded struct {
	Seq   uint64
	Plans []model.Plan
}

type PlansFailed struct {
	Seq uint64
	Err error
}

type StreamConnected struct{}

type StreamFailed struct {
	Err error
}

// RemoteChanged is a qualifying push update from the daemon.
type RemoteChanged struct {
	Kind string
}

func (KeyPressed) event()       {}
func (ProjectClicked) event()   {}
func (WorktreeClicked) event()  {}
func (HeaderClicked) event()    {}
func (PlanClicked) event()      {}
func (BackdropClicked) event()  {}
func (RefreshRequested) event() {}
func (DataLoaded) event()       {}
func (RefreshFailed) event()    {}
func (PlansLoaded) event()      {}
func (PlansFailed) event()      {}
func (StreamConnected) event()  {}
func (StreamFailed) event()     {}
func (RemoteChanged) event()    {}

// Effect is work the caller performs after a transition.
type Effect interface {
	effect()
}

type Persist struct {
	State state.Persisted
}

type Refresh struct {
	Seq uint64
}

type LoadPlans struct {
	Seq uint64
}

type OpenURL struct {
	URL string
}

type Copy struct {
	Text string
}

// Notify shows a transient message to the user.
type Notify struct {
	Message string
	Error   bool
}

type Quit struct{}

func (Persist) effect()   {}
func (Refresh) effect()   {}
func (LoadPlans) effect() {}
func (OpenURL) effect()   {}
func (Copy) effect()      {}
func (Notify) effect()    {}
func (Quit) effect()      {}
