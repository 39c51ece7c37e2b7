package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Projects  key.Binding
	Enter     key.Binding
	Views     key.Binding
	NextView  key.Binding
	PrevView  key.Binding
	Sort      key.Binding
	SortDir   key.Binding
	Refresh   key.Binding
	OpenPR    key.Binding
	Copy      key.Binding
	Plans     key.Binding
	Help      key.Binding
	Close     key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "projects")),
	Right:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next panel")),
	Projects:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "focus projects")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select project")),
	Views:     key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "switch view")),
	NextView:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	PrevView:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous view")),
	Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
	SortDir:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort direction")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	OpenPR:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open PR")),
	Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
	Plans:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "plans")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit from anywhere, even this help")),
}

// ShortHelp is the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Left, k.Right, k.Views, k.Sort, k.OpenPR, k.Plans, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Projects, k.Enter},
		{k.Views, k.NextView, k.PrevView},
		{k.Sort, k.SortDir, k.Refresh},
		{k.OpenPR, k.Copy, k.Plans},
		{k.Help, k.Close, k.Quit, k.ForceQuit},
	}
}

// plansHelp is the footer shown while the plans modal is open.
func (k keyMap) plansHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open issue")), k.Close}
}

var helpSections = []string{"Navigation", "Views", "Sorting", "Links", "General"}

// helpMarkdown renders the full key map as a markdown document for the help modal.
func helpMarkdown(k keyMap) string {
	var b strings.Builder
	b.WriteString("# Keyboard shortcuts\n\n")
	for i, group := range k.FullHelp() {
		fmt.Fprintf(&b, "## %s\n\n| Key | Action |\n| --- | --- |\n", helpSections[i])
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("Click a column header to sort by it; click it again to flip the direction. ")
	b.WriteString("Press `esc` or `?` to close this window. `ctrl+c` quits even while it is open.\n")
	return b.String()
}
