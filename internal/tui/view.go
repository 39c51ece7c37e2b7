package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	domain "github.com/joshribakoff/bearing-tui/internal/model"
	"github.com/joshribakoff/bearing-tui/internal/sorting"
	"github.com/joshribakoff/bearing-tui/internal/state"
	"github.com/joshribakoff/bearing-tui/internal/tui/theme"
)

const emptyDetails = "Select a worktree to view details"

var columnTitles = map[sorting.Column]string{
	sorting.ColumnFolder: "Folder",
	sorting.ColumnBranch: "Branch",
	sorting.ColumnStatus: "Status",
	sorting.ColumnPR:     "PR",
}

func (m model) View() string {
	l := m.layout()
	switch m.state.Modal {
	case state.ModalHelp:
		return m.renderHelpModal(l)
	case state.ModalPlans:
		return m.renderPlansModal(l)
	}

	var body string
	if m.state.ActiveView == state.ViewWorktrees {
		right := lipgloss.JoinVertical(lipgloss.Left, m.renderTable(l), m.renderDetails(l))
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderProjects(l), right)
	} else {
		body = m.renderPlaceholder(l)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(l), body, m.renderFooter(l))
}

func (m model) renderHeader(l layout) string {
	tabs := make([]string, 0, len(state.Views))
	for i, v := range state.Views {
		label := fmt.Sprintf("%d %s", i+1, v.Label())
		if v == m.state.ActiveView {
			tabs = append(tabs, theme.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, theme.InactiveTabStyle.Render(label))
		}
	}
	left := theme.Logo + "  " + strings.Join(tabs, " ")
	status := m.renderConnection()
	gap := max(1, l.width-lipgloss.Width(left)-lipgloss.Width(status))
	line := left + strings.Repeat(" ", gap) + status
	return line + "\n" + theme.SeparatorStyle.Render(strings.Repeat("─", l.width))
}

func (m model) renderConnection() string {
	title := m.state.Connection.Title()
	switch m.state.Connection {
	case state.ConnOK:
		return theme.SuccessStyle.Render("● " + title)
	case state.ConnError:
		return theme.ErrorStyle.Render("● " + title)
	default:
		return m.spinner.View() + theme.DimStyle.Render(title)
	}
}

func (m model) renderProjects(l layout) string {
	inner := l.projects.w - 2
	focused := m.state.FocusedPanel == state.PanelProjects
	lines := []string{theme.SectionStyle.Render(cell("Projects", inner))}

	rows := l.projectRows()
	offset := scrollOffset(m.state.ProjectCursor, rows)
	for i := offset; i < len(m.state.Projects) && i < offset+rows; i++ {
		p := m.state.Projects[i]
		selected := m.state.SelectedProject != nil && *m.state.SelectedProject == p.Name
		count := fmt.Sprintf("%d", p.Count)
		name := cell(theme.IconProject+" "+p.Name, inner-len(count)-1)
		text := name + " " + count
		switch {
		case selected && focused:
			lines = append(lines, theme.SelectedRowStyle.Render(text))
		case selected:
			lines = append(lines, theme.TitleStyle.Render(text))
		default:
			lines = append(lines, theme.TextStyle.Render(name)+" "+theme.DimStyle.Render(count))
		}
	}
	if len(m.state.Projects) == 0 {
		lines = append(lines, theme.DimStyle.Render(cell("No projects", inner)))
	}
	return panel(lines, l.projects, focused)
}

func (m model) renderTable(l layout) string {
	widths := l.columnWidths()
	focused := m.state.FocusedPanel == state.PanelWorktrees

	headers := make([]string, len(sorting.Columns))
	for i, col := range sorting.Columns {
		title := columnTitles[col]
		if col == m.state.SortColumn {
			arrow := theme.IconSortAsc
			if m.state.SortDirection == sorting.Desc {
				arrow = theme.IconSortDsc
			}
			title += " " + arrow
		}
		headers[i] = theme.HeaderCellStyle.Render(cell(title, widths[i]))
	}
	lines := []string{strings.Join(headers, " ")}

	p := m.state.Project()
	switch {
	case len(p.Rows) == 0 && m.state.LastAppliedSeq == 0 && m.state.Connection != state.ConnError:
		lines = append(lines, m.spinner.View()+theme.DimStyle.Render("Loading worktrees..."))
	case len(p.Rows) == 0:
		lines = append(lines, theme.DimStyle.Render("No worktrees"))
	}

	rows := l.tableRows()
	offset := scrollOffset(p.Index, rows)
	for i := offset; i < len(p.Rows) && i < offset+rows; i++ {
		lines = append(lines, worktreeRow(p.Rows[i], widths, i == p.Index, focused))
	}
	return panel(lines, l.table, focused)
}

func worktreeRow(w domain.Worktree, widths [4]int, selected, focused bool) string {
	folder := w.Folder
	if w.Base {
		folder = theme.IconBase + " " + folder
	}
	cells := []string{
		cell(folder, widths[0]),
		cell(theme.IconBranch+" "+w.Branch, widths[1]),
		cell(statusLabel(w), widths[2]),
		cell(prLabel(w.PRState), widths[3]),
	}
	if selected {
		style := theme.SelectedRowStyle
		if !focused {
			style = theme.TitleStyle
		}
		return style.Render(strings.Join(cells, " "))
	}
	return strings.Join([]string{
		theme.TextStyle.Render(cells[0]),
		theme.BranchStyle.Render(cells[1]),
		theme.StatusStyle(w).Render(cells[2]),
		theme.PRStyle(w.PRState).Render(cells[3]),
	}, " ")
}

func statusLabel(w domain.Worktree) string {
	switch {
	case w.Dirty:
		return theme.IconDirty + " dirty"
	case w.Unpushed > 0:
		return fmt.Sprintf("%s %d", theme.IconAhead, w.Unpushed)
	default:
		return theme.IconClean + " clean"
	}
}

func prLabel(s domain.PRState) string {
	if !s.Known() {
		return "-"
	}
	return strings.ToLower(string(s))
}

func (m model) renderDetails(l layout) string {
	inner := l.details.w - 2
	focused := m.state.FocusedPanel == state.PanelDetails
	w, ok := m.state.Project().Selected()
	if !ok {
		return panel([]string{theme.DimStyle.Render(cell(emptyDetails, inner))}, l.details, focused)
	}

	field := func(label, value string) string {
		return theme.DimStyle.Render(cell(label, 9)) + theme.TextStyle.Render(cell(value, inner-9))
	}
	base := ""
	if w.Base {
		base = " (base)"
	}
	lines := []string{
		theme.TitleStyle.Render(cell(w.Folder, inner)),
		field("Repo", w.Repo),
		field("Branch", w.Branch+base),
		theme.DimStyle.Render(cell("Status", 9)) + theme.StatusStyle(w).Render(cell(statusText(w), inner-9)),
		m.prLine(w, inner),
		field("Purpose", orDash(w.Purpose)),
		field("Note", orDash(w.Status)),
	}
	return panel(lines, l.details, focused)
}

func statusText(w domain.Worktree) string {
	switch {
	case w.Dirty && w.Unpushed > 0:
		return fmt.Sprintf("uncommitted changes, %d unpushed", w.Unpushed)
	case w.Dirty:
		return "uncommitted changes"
	case w.Unpushed > 0:
		return fmt.Sprintf("%d unpushed commits", w.Unpushed)
	default:
		return "clean"
	}
}

// prLine renders the PR state as an OSC 8 link to the PR search.
func (m model) prLine(w domain.Worktree, inner int) string {
	label := theme.DimStyle.Render(cell("PR", 9))
	if !w.PRState.Known() {
		return label + theme.DimStyle.Render(cell("none", inner-9))
	}
	text := strings.ToLower(string(w.PRState))
	if runewidth.StringWidth(text) > inner-9 {
		return label + theme.PRStyle(w.PRState).Render(cell(text, inner-9))
	}
	pad := strings.Repeat(" ", inner-9-runewidth.StringWidth(text))
	link := termenv.Hyperlink(m.machine.Links.PullRequest(w), text)
	return label + theme.PRStyle(w.PRState).Render(link) + pad
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (m model) renderPlaceholder(l layout) string {
	r := rect{x: 0, y: headerRows, w: l.width, h: l.height - headerRows - footerRows}
	inner := r.w - 2
	lines := []string{
		theme.SectionStyle.Render(cell(m.state.ActiveView.Label(), inner)),
		"",
		theme.DimStyle.Render(cell("Nothing to show here yet. Press 1 to return to worktrees.", inner)),
	}
	return panel(lines, r, false)
}

func (m model) renderFooter(l layout) string {
	status := ""
	if m.toast != nil && !m.toast.expired() {
		status = m.toast.render(toastStyles{
			success: theme.SuccessStyle.Bold(true),
			error:   theme.ErrorStyle.Bold(true),
			warning: theme.WarnStyle.Bold(true),
			info:    theme.SectionStyle.Bold(true),
		})
	} else if p, ok := m.state.Project().Selected(); ok {
		status = theme.DimStyle.Render(p.Repo + "/" + p.Folder)
	}
	return status + "\n" + m.help.ShortHelpView(keys.ShortHelp())
}

func (m model) renderPlansModal(l layout) string {
	innerW, innerH, rows := m.plansInner()
	lines := []string{theme.TitleStyle.Render(cell(fmt.Sprintf("%s Plans (%d)", theme.IconPlan, len(m.state.Plans)), innerW)), ""}

	offset := scrollOffset(m.state.PlanCursor, rows)
	for i := offset; i < len(m.state.Plans) && i < offset+rows; i++ {
		lines = append(lines, planRow(m.state.Plans[i], innerW, i == m.state.PlanCursor))
	}
	if len(m.state.Plans) == 0 {
		lines = append(lines, theme.DimStyle.Render(cell("No plans", innerW)))
	}
	for len(lines) < innerH-2 {
		lines = append(lines, "")
	}
	lines = append(lines, "", m.help.ShortHelpView(keys.plansHelp()))

	box := theme.ModalStyle.Width(innerW + 4).Render(strings.Join(lines, "\n"))
	return place(modalBox(l.width, l.height, innerW, innerH), box)
}

func planRow(p domain.Plan, width int, selected bool) string {
	issue := ""
	if p.Issue.Valid() {
		issue = fmt.Sprintf("#%d", int(p.Issue))
	}
	meta := fmt.Sprintf("%s  %s  %s", p.Status, p.Project, issue)
	metaW := min(runewidth.StringWidth(meta), width/2)
	title := cell(p.Title, width-metaW-1)
	meta = cell(meta, metaW)
	if selected {
		return theme.SelectedRowStyle.Render(title + " " + meta)
	}
	return theme.TextStyle.Render(title) + " " + theme.DimStyle.Render(meta)
}

func (m model) renderHelpModal(l layout) string {
	innerW, innerH := m.helpInner()
	vp := m.helpView
	vp.Width = innerW
	vp.Height = innerH
	box := theme.ModalStyle.Width(innerW + 4).Render(vp.View())
	return place(modalBox(l.width, l.height, innerW, innerH), box)
}

// resizeHelp re-renders the help document for the current modal width.
func (m *model) resizeHelp() {
	innerW := min(80, m.layout().width-10)
	if innerW == m.helpWidth {
		return
	}
	m.helpWidth = innerW
	m.helpView.Width = innerW
	m.helpView.SetContent(renderMarkdown(helpMarkdown(keys), m.markdownStyle, innerW))
	_, m.helpView.Height = m.helpInner()
}

func renderMarkdown(md, style string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// place draws box at r on an otherwise blank screen.
func place(r rect, box string) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("\n", r.y))
	indent := strings.Repeat(" ", r.x)
	for i, line := range strings.Split(box, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(indent + line)
	}
	return b.String()
}

// panel frames lines in a bordered box filling r exactly.
func panel(lines []string, r rect, focused bool) string {
	innerH := r.h - 2
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	return theme.Panel(focused).
		Width(r.w - 2).
		Height(innerH).
		Render(strings.Join(lines, "\n"))
}

// cell truncates or pads s to exactly width display columns.
func cell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
