// Package nav is the dashboard's input state machine.
//
// Every input becomes an Event. Transition folds it into a new ViewState and returns
// the side effects the caller has to run (persist, fetch, open a link). Open modals take
// absolute priority over the rest of the routing: help swallows everything but its
// dismiss keys, and the plans modal only answers to its own small key set.
package nav

import (
	"fmt"

	"github.com/joshribakoff/bearing-tui/internal/model"
	"github.com/joshribakoff/bearing-tui/internal/selection"
	"github.com/joshribakoff/bearing-tui/internal/sorting"
	"github.com/joshribakoff/bearing-tui/internal/state"
)

const (
	noticeNoPR     = "No PR for this worktree"
	noticeNoIssue  = "No issue for this plan"
	noticeNoSelect = "No worktree selected"
)

type Machine struct {
	Links Links
}

// Transition applies ev to s. A Persist effect is appended whenever a persisted field
// changed.
func (m Machine) Transition(s state.ViewState, ev Event) (state.ViewState, []Effect) {
	before := s.Persisted()
	next, effects := m.apply(s, ev)
	if persistedChanged(before, next.Persisted()) {
		effects = append(effects, Persist{State: next.Persisted()})
	}
	return next, effects
}

func (m Machine) apply(s state.ViewState, ev Event) (state.ViewState, []Effect) {
	switch ev := ev.(type) {
	case KeyPressed:
		return m.key(s, ev.Key)
	case ProjectClicked:
		if s.Modal != state.ModalNone || s.ActiveView != state.ViewWorktrees {
			return s, nil
		}
		if ev.Index < 0 || ev.Index >= len(s.Projects) {
			return s, nil
		}
		s = selectProject(s, ev.Index)
		s.FocusedPanel = state.PanelProjects
		return s, nil
	case WorktreeClicked:
		if s.Modal != state.ModalNone || s.ActiveView != state.ViewWorktrees {
			return s, nil
		}
		rows := s.Rows()
		if ev.Index < 0 || ev.Index >= len(rows) {
			return s, nil
		}
		key := rows[ev.Index].Key()
		s.SelectedWorktreeKey = &key
		s.WorktreeCursor = ev.Index
		s.FocusedPanel = state.PanelWorktrees
		return s, nil
	case HeaderClicked:
		if s.Modal != state.ModalNone || s.ActiveView != state.ViewWorktrees {
			return s, nil
		}
		s.SortColumn, s.SortDirection = sorting.Click(s.SortColumn, s.SortDirection, ev.Column)
		return s.Reselect(), nil
	case PlanClicked:
		if s.Modal != state.ModalPlans || ev.Index < 0 || ev.Index >= len(s.Plans) {
			return s, nil
		}
		s.PlanCursor = ev.Index
		return s, nil
	case BackdropClicked:
		s.Modal = state.ModalNone
		return s, nil
	case RefreshRequested, RemoteChanged:
		return requestRefresh(s)
	case DataLoaded:
		return loaded(s, ev), nil
	case RefreshFailed:
		if ev.Seq <= s.LastAppliedSeq {
			return s, nil
		}
		s.FetchFailed = true
		s = s.SyncConnection()
		s.Notice = fmt.Sprintf("Refresh failed: %v", ev.Err)
		return s, []Effect{Notify{Message: s.Notice, Error: true}}
	case PlansLoaded:
		if ev.Seq != s.PendingPlans {
			return s, nil
		}
		s.PendingPlans = 0
		s.Plans = nonNilPlans(ev.Plans)
		s.PlanCursor = 0
		if s.Modal == state.ModalNone {
			s.Modal = state.ModalPlans
		}
		return s, nil
	case PlansFailed:
		if ev.Seq != s.PendingPlans {
			return s, nil
		}
		s.PendingPlans = 0
		s.PlanCursor = selectionClamp(s.PlanCursor, len(s.Plans))
		if s.Modal == state.ModalNone {
			s.Modal = state.ModalPlans
		}
		s.Notice = fmt.Sprintf("Failed to load plans: %v", ev.Err)
		return s, []Effect{Notify{Message: s.Notice, Error: true}}
	case StreamConnected:
		s.Stream = state.ConnOK
		return s.SyncConnection(), nil
	case StreamFailed:
		s.Stream = state.ConnError
		return s.SyncConnection(), nil
	}
	return s, nil
}

func (m Machine) key(s state.ViewState, key string) (state.ViewState, []Effect) {
	if key == "ctrl+c" {
		return s, []Effect{Quit{}}
	}
	switch s.Modal {
	case state.ModalHelp:
		if key == "esc" || key == "?" {
			s.Modal = state.ModalNone
		}
		return s, nil
	case state.ModalPlans:
		return m.plansKey(s, key)
	}
	return m.normalKey(s, key)
}

func (m Machine) plansKey(s state.ViewState, key string) (state.ViewState, []Effect) {
	switch key {
	case "esc", "p":
		s.Modal = state.ModalNone
	case "j", "down":
		if s.PlanCursor < len(s.Plans)-1 {
			s.PlanCursor++
		}
	case "k", "up":
		if s.PlanCursor > 0 {
			s.PlanCursor--
		}
	case "o", "enter":
		plan, ok := s.SelectedPlan()
		if !ok {
			return s, nil
		}
		if !plan.Issue.Valid() {
			return s, []Effect{Notify{Message: noticeNoIssue}}
		}
		return s, []Effect{OpenURL{URL: m.Links.Issue(plan)}}
	}
	return s, nil
}

func (m Machine) normalKey(s state.ViewState, key string) (state.ViewState, []Effect) {
	switch key {
	case "q":
		return s, []Effect{Quit{}}
	case "?":
		s.Modal = state.ModalHelp
		return s, nil
	case "p":
		s.NextSeq++
		s.PendingPlans = s.NextSeq
		return s, []Effect{LoadPlans{Seq: s.NextSeq}}
	case "r":
		return requestRefresh(s)
	case "1", "2", "3":
		s.ActiveView = state.Views[int(key[0]-'1')]
		return s, nil
	case "tab":
		s.ActiveView = s.ActiveView.Cycle(1)
		return s, nil
	case "shift+tab":
		s.ActiveView = s.ActiveView.Cycle(-1)
		return s, nil
	}

	if s.ActiveView != state.ViewWorktrees {
		return s, nil
	}

	switch key {
	case "0", "h", "left":
		s.FocusedPanel = state.PanelProjects
	case "l", "right":
		switch s.FocusedPanel {
		case state.PanelProjects:
			s.FocusedPanel = state.PanelWorktrees
		case state.PanelWorktrees:
			s.FocusedPanel = state.PanelDetails
		}
	case "enter":
		if s.FocusedPanel == state.PanelProjects && s.ProjectCursor < len(s.Projects) {
			s = selectProject(s, s.ProjectCursor)
			s.FocusedPanel = state.PanelWorktrees
		}
	case "j", "down":
		s = moveCursor(s, 1)
	case "k", "up":
		s = moveCursor(s, -1)
	case "s":
		s.SortColumn, s.SortDirection = sorting.Click(s.SortColumn, s.SortDirection, s.SortColumn.Next())
		s = s.Reselect()
	case "S":
		s.SortDirection = s.SortDirection.Toggle()
		s = s.Reselect()
	case "o":
		w, ok := s.Project().Selected()
		if !ok {
			return s, []Effect{Notify{Message: noticeNoSelect}}
		}
		if !w.PRState.Known() {
			return s, []Effect{Notify{Message: noticeNoPR}}
		}
		return s, []Effect{OpenURL{URL: m.Links.PullRequest(w)}}
	case "y":
		w, ok := s.Project().Selected()
		if !ok {
			return s, []Effect{Notify{Message: noticeNoSelect}}
		}
		if w.PRState.Known() {
			return s, []Effect{Copy{Text: m.Links.PullRequest(w)}}
		}
		return s, []Effect{Copy{Text: w.Folder}}
	}
	return s, nil
}

func requestRefresh(s state.ViewState) (state.ViewState, []Effect) {
	s.NextSeq++
	return s, []Effect{Refresh{Seq: s.NextSeq}}
}

func moveCursor(s state.ViewState, delta int) state.ViewState {
	switch s.FocusedPanel {
	case state.PanelProjects:
		if len(s.Projects) == 0 {
			return s
		}
		next := selection.Clamp(s.ProjectCursor+delta, len(s.Projects))
		if next != s.ProjectCursor {
			s = selectProject(s, next)
		}
	case state.PanelWorktrees:
		r := selection.Move(s.Rows(), s.WorktreeCursor, delta)
		s.WorktreeCursor = r.Index
		s.SelectedWorktreeKey = r.Key
	}
	return s
}

// selectProject switches to the project at idx. The worktree cursor restarts at the
// top of the new project's rows.
func selectProject(s state.ViewState, idx int) state.ViewState {
	name := s.Projects[idx].Name
	s.SelectedProject = &name
	s.ProjectCursor = idx
	s.SelectedWorktreeKey = nil
	return s.Reselect()
}

func loaded(s state.ViewState, ev DataLoaded) state.ViewState {
	if ev.Seq <= s.LastAppliedSeq {
		return s
	}
	s.LastAppliedSeq = ev.Seq
	s.Projects = nonNilProjects(ev.Projects)
	s.Worktrees = nonNilWorktrees(ev.Worktrees)
	s.FetchFailed = false
	s = s.SyncConnection()

	if s.SelectedProject != nil {
		if idx := model.ProjectIndex(s.Projects, *s.SelectedProject); idx >= 0 {
			s.ProjectCursor = idx
			return s.Reselect()
		}
	}
	if len(s.Projects) > 0 {
		return selectProject(s, 0)
	}
	s.SelectedProject = nil
	s.ProjectCursor = 0
	return s.Reselect()
}

func persistedChanged(a, b state.Persisted) bool {
	return !equalPtr(a.SelectedProject, b.SelectedProject) ||
		!equalPtr(a.SelectedWorktreeFolder, b.SelectedWorktreeFolder) ||
		a.SortColumn != b.SortColumn ||
		a.SortDirection != b.SortDirection ||
		a.CurrentView != b.CurrentView
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func selectionClamp(i, n int) int {
	if n == 0 {
		return 0
	}
	return selection.Clamp(i, n)
}

func nonNilProjects(p []model.Project) []model.Project {
	if p == nil {
		return []model.Project{}
	}
	return p
}

func nonNilWorktrees(w []model.Worktree) []model.Worktree {
	if w == nil {
		return []model.Worktree{}
	}
	return w
}

func nonNilPlans(p []model.Plan) []model.Plan {
	if p == nil {
		return []model.Plan{}
	}
	return p
}
