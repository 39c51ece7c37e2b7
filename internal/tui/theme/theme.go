package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshribakoff/bearing-tui/internal/model"
)

var (
	BaseBg       = lipgloss.Color("#11111b")
	PanelBg      = lipgloss.Color("#1e1e2e")
	SurfaceBg    = lipgloss.Color("#313244")
	Accent       = lipgloss.Color("#cba6f7")
	Accent2      = lipgloss.Color("#89b4fa")
	Teal         = lipgloss.Color("#94e2d5")
	Peach        = lipgloss.Color("#fab387")
	SuccessColor = lipgloss.Color("#a6e3a1")
	WarnColor    = lipgloss.Color("#f9e2af")
	ErrorColor   = lipgloss.Color("#f38ba8")
	TextColor    = lipgloss.Color("#cdd6f4")
	SubTextColor = lipgloss.Color("#a6adc8")
	DimColor     = lipgloss.Color("#6c7086")
	OverlayColor = lipgloss.Color("#45475a")
	Flamingo     = lipgloss.Color("#f5c2e7")
	Lavender     = lipgloss.Color("#b4befe")
)

const (
	IconProject = "▸"
	IconBranch  = "⎇"
	IconDirty   = "●"
	IconAhead   = "↑"
	IconClean   = "✓"
	IconBase    = "◆"
	IconPlan    = "☰"
	IconSortAsc = "▲"
	IconSortDsc = "▼"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
	SectionStyle = lipgloss.NewStyle().
			Foreground(Accent2).
			Bold(true)
	TextStyle = lipgloss.NewStyle().
			Foreground(TextColor)
	SubTextStyle = lipgloss.NewStyle().
			Foreground(SubTextColor)
	DimStyle = lipgloss.NewStyle().
			Foreground(DimColor)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)
	WarnStyle = lipgloss.NewStyle().
			Foreground(WarnColor)
	KeyStyle = lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true)
	BranchStyle = lipgloss.NewStyle().
			Foreground(SubTextColor)
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(OverlayColor)
	SelectedRowStyle = lipgloss.NewStyle().
				Background(SurfaceBg).
				Foreground(Teal).
				Bold(true)
	HeaderCellStyle = lipgloss.NewStyle().
			Foreground(Accent2).
			Bold(true)
	ActiveTabStyle = lipgloss.NewStyle().
			Background(Accent).
			Foreground(BaseBg).
			Bold(true).
			Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(SubTextColor).
				Padding(0, 1)
	ModalStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Accent)
)

var PanelBorder = lipgloss.RoundedBorder()

// Panel frames a panel, highlighting the border when it has focus.
func Panel(focused bool) lipgloss.Style {
	color := OverlayColor
	if focused {
		color = Accent
	}
	return lipgloss.NewStyle().
		Border(PanelBorder).
		BorderForeground(color)
}

// PRStyle colors a PR state the way GitHub does.
func PRStyle(s model.PRState) lipgloss.Style {
	switch s {
	case model.PROpen:
		return lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)
	case model.PRDraft:
		return lipgloss.NewStyle().Foreground(SubTextColor)
	case model.PRMerged:
		return lipgloss.NewStyle().Foreground(Accent)
	case model.PRClosed:
		return lipgloss.NewStyle().Foreground(ErrorColor)
	default:
		return DimStyle
	}
}

func StatusStyle(w model.Worktree) lipgloss.Style {
	switch w.StatusRank() {
	case 0:
		return WarnStyle
	case 1:
		return lipgloss.NewStyle().Foreground(Peach)
	default:
		return SuccessStyle
	}
}

var Logo = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true).Render("◭ ") +
	lipgloss.NewStyle().Foreground(Flamingo).Bold(true).Render("bea") +
	lipgloss.NewStyle().Foreground(Accent).Bold(true).Render("ri") +
	lipgloss.NewStyle().Foreground(Accent2).Bold(true).Render("ng")

// MarkdownStyle maps a configured theme name to a glamour standard style.
func MarkdownStyle(name string) string {
	switch strings.ToLower(name) {
	case "light", "catppuccin-latte":
		return "light"
	case "ascii", "notty":
		return strings.ToLower(name)
	default:
		return "dark"
	}
}
