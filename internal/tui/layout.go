package tui

import (
	"github.com/joshribakoff/bearing-tui/internal/nav"
	"github.com/joshribakoff/bearing-tui/internal/sorting"
	"github.com/joshribakoff/bearing-tui/internal/state"
)

const (
	headerRows    = 2
	footerRows    = 2
	projectsWidth = 30
	detailsHeight = 9
	statusWidth   = 10
	prWidth       = 8
	minWidth      = projectsWidth + 40
	minHeight     = headerRows + footerRows + detailsHeight + 5
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout is the screen geometry shared by the renderer and mouse hit-testing.
type layout struct {
	width, height int
	projects      rect
	table         rect
	details       rect
}

func newLayout(width, height int) layout {
	if width < minWidth {
		width = minWidth
	}
	if height < minHeight {
		height = minHeight
	}
	body := height - headerRows - footerRows
	right := width - projectsWidth
	return layout{
		width:    width,
		height:   height,
		projects: rect{x: 0, y: headerRows, w: projectsWidth, h: body},
		table:    rect{x: projectsWidth, y: headerRows, w: right, h: body - detailsHeight},
		details:  rect{x: projectsWidth, y: headerRows + body - detailsHeight, w: right, h: detailsHeight},
	}
}

// Panels draw a title or header line inside the border, then their rows.

func (l layout) projectRows() int {
	return l.projects.h - 3
}

func (l layout) tableRows() int {
	return l.table.h - 3
}

func (l layout) tableInner() int {
	return l.table.w - 2
}

// columnWidths returns folder, branch, status and pr widths. Columns are separated
// by one space.
func (l layout) columnWidths() [4]int {
	rest := l.tableInner() - statusWidth - prWidth - 3
	folder := rest / 2
	return [4]int{folder, rest - folder, statusWidth, prWidth}
}

// columnAt maps an x offset inside the table to a header column.
func (l layout) columnAt(offset int) (sorting.Column, bool) {
	start := 0
	for i, w := range l.columnWidths() {
		if offset >= start && offset < start+w {
			return sorting.Columns[i], true
		}
		start += w + 1
	}
	return "", false
}

// scrollOffset keeps cursor within a window of visible rows.
func scrollOffset(cursor, visible int) int {
	if visible <= 0 || cursor < visible {
		return 0
	}
	return cursor - visible + 1
}

// modalBox sizes a modal with the given inner content size and centers it.
func modalBox(width, height, innerW, innerH int) rect {
	w := innerW + 6
	h := innerH + 4
	return rect{x: max(0, (width-w)/2), y: max(0, (height-h)/2), w: w, h: h}
}

// contentTop is the first content row inside a modal box (border plus padding).
func (r rect) contentTop() int {
	return r.y + 2
}

func (m model) plansInner() (int, int, int) {
	innerW := min(90, m.layout().width-10)
	rows := max(1, min(len(m.state.Plans), m.layout().height-12))
	// title, blank, rows, blank, hint
	return innerW, rows + 4, rows
}

func (m model) helpInner() (int, int) {
	innerW := min(80, m.layout().width-10)
	innerH := max(3, min(m.helpView.TotalLineCount(), m.layout().height-8))
	return innerW, innerH
}

// hitTest turns a left click at (x, y) into a navigation event.
func (m model) hitTest(x, y int) nav.Event {
	l := m.layout()
	switch m.state.Modal {
	case state.ModalHelp:
		w, h := m.helpInner()
		if !modalBox(l.width, l.height, w, h).contains(x, y) {
			return nav.BackdropClicked{}
		}
		return nil
	case state.ModalPlans:
		w, h, rows := m.plansInner()
		box := modalBox(l.width, l.height, w, h)
		if !box.contains(x, y) {
			return nav.BackdropClicked{}
		}
		first := box.contentTop() + 2
		if y >= first && y < first+rows {
			idx := scrollOffset(m.state.PlanCursor, rows) + y - first
			if idx < len(m.state.Plans) {
				return nav.PlanClicked{Index: idx}
			}
		}
		return nil
	}

	if m.state.ActiveView != state.ViewWorktrees {
		return nil
	}

	inner := func(r rect) bool {
		return x > r.x && x < r.x+r.w-1 && y > r.y && y < r.y+r.h-1
	}
	switch {
	case inner(l.projects):
		row := y - l.projects.y - 2
		if row < 0 || row >= l.projectRows() {
			return nil
		}
		idx := scrollOffset(m.state.ProjectCursor, l.projectRows()) + row
		if idx < len(m.state.Projects) {
			return nav.ProjectClicked{Index: idx}
		}
	case inner(l.table):
		if y == l.table.y+1 {
			if col, ok := l.columnAt(x - l.table.x - 1); ok {
				return nav.HeaderClicked{Column: col}
			}
			return nil
		}
		row := y - l.table.y - 2
		if row < 0 || row >= l.tableRows() {
			return nil
		}
		idx := scrollOffset(m.state.WorktreeCursor, l.tableRows()) + row
		if idx < len(m.state.Rows()) {
			return nav.WorktreeClicked{Index: idx}
		}
	}
	return nil
}
