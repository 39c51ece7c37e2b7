package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshribakoff/bearing-tui/internal/config"
	domain "github.com/joshribakoff/bearing-tui/internal/model"
	"github.com/joshribakoff/bearing-tui/internal/refresh"
	"github.com/joshribakoff/bearing-tui/internal/stream"
)

type toastType int

const (
	toastSuccess toastType = iota
	toastError
	toastWarning
	toastInfo
)

const toastDuration = 3 * time.Second

type toast struct {
	message   string
	kind      toastType
	expiresAt time.Time
}

func newToast(message string, kind toastType) *toast {
	return &toast{message: message, kind: kind, expiresAt: time.Now().Add(toastDuration)}
}

func (t *toast) expired() bool {
	return time.Now().After(t.expiresAt)
}

type SuccessMsg struct {
	Message string
}

type ErrorMsg struct {
	Err     error
	Context string
}

func (e ErrorMsg) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %v", e.Context, e.Err)
	}
	return e.Err.Error()
}

type InfoMsg struct {
	Message string
}

type toastExpiredMsg struct{}

func toastExpireCmd() tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}

func (t *toast) render(styles toastStyles) string {
	var style lipgloss.Style
	var icon string

	switch t.kind {
	case toastSuccess:
		style = styles.success
		icon = "✓ "
	case toastError:
		style = styles.error
		icon = "✗ "
	case toastWarning:
		style = styles.warning
		icon = "! "
	case toastInfo:
		style = styles.info
		icon = "• "
	}

	return style.Render(icon + t.message)
}

type toastStyles struct {
	success lipgloss.Style
	error   lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
}

type refreshResultMsg struct {
	result refresh.Result
}

type plansResultMsg struct {
	seq   uint64
	plans []domain.Plan
	err   error
}

// streamMsg carries one stream event. gen identifies the backend that produced it so
// events from a replaced connection are dropped.
type streamMsg struct {
	gen    int
	event  stream.Event
	closed bool
}

type configChangedMsg struct {
	cfg *config.Config
	err error
}
