// Package sorting orders worktree rows for the dashboard table.
package sorting

import (
	"sort"
	"strings"

	"github.com/joshribakoff/bearing-tui/internal/model"
)

type Column string

const (
	ColumnDefault Column = "default"
	ColumnFolder  Column = "folder"
	ColumnBranch  Column = "branch"
	ColumnStatus  Column = "status"
	ColumnPR      Column = "pr"
)

// Columns lists the sortable table headers in display order.
var Columns = []Column{ColumnFolder, ColumnBranch, ColumnStatus, ColumnPR}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseColumn(s string) (Column, bool) {
	switch c := Column(s); c {
	case ColumnDefault, ColumnFolder, ColumnBranch, ColumnStatus, ColumnPR:
		return c, true
	}
	return ColumnDefault, false
}

func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case Asc, Desc:
		return d, true
	}
	return Asc, false
}

func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Next returns the header after c, wrapping back to the default order after the last one.
func (c Column) Next() Column {
	if c == ColumnDefault {
		return Columns[0]
	}
	for i, col := range Columns {
		if col == c && i+1 < len(Columns) {
			return Columns[i+1]
		}
	}
	return ColumnDefault
}

// Click applies a header click: the active column flips direction, any other column
// becomes active in ascending order.
func Click(cur Column, dir Direction, clicked Column) (Column, Direction) {
	if clicked == cur {
		return cur, dir.Toggle()
	}
	return clicked, Asc
}

func (c Column) Label() string {
	switch c {
	case ColumnFolder:
		return "Folder"
	case ColumnBranch:
		return "Branch"
	case ColumnStatus:
		return "Status"
	case ColumnPR:
		return "PR"
	default:
		return "Default"
	}
}

// Sort returns a sorted copy of wts. The input slice is left untouched and equal
// elements keep their relative input order in both directions.
func Sort(wts []model.Worktree, col Column, dir Direction) []model.Worktree {
	out := make([]model.Worktree, len(wts))
	copy(out, wts)

	cmp := comparator(col)
	sign := 1
	if dir == Desc {
		sign = -1
	}
	sort.SliceStable(out, func(i, j int) bool {
		return cmp(out[i], out[j])*sign < 0
	})
	return out
}

func comparator(col Column) func(a, b model.Worktree) int {
	switch col {
	case ColumnFolder:
		return func(a, b model.Worktree) int { return strings.Compare(a.Folder, b.Folder) }
	case ColumnBranch:
		return func(a, b model.Worktree) int { return strings.Compare(a.Branch, b.Branch) }
	case ColumnStatus:
		return func(a, b model.Worktree) int { return a.StatusRank() - b.StatusRank() }
	case ColumnPR:
		return func(a, b model.Worktree) int { return a.PRState.Rank() - b.PRState.Rank() }
	default:
		return compareDefault
	}
}

// compareDefault ranks open PRs first, then dirty worktrees, then folder name.
func compareDefault(a, b model.Worktree) int {
	if d := a.PRState.Rank() - b.PRState.Rank(); d != 0 {
		return d
	}
	if a.Dirty != b.Dirty {
		if a.Dirty {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Folder, b.Folder)
}
