package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshribakoff/bearing-tui/internal/stream"
)

func refreshCmd(r Refresher, seq uint64, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		return refreshResultMsg{result: r.Refresh(ctx, seq)}
	}
}

func loadPlansCmd(src PlansSource, seq uint64, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		plans, err := src.Plans(ctx)
		return plansResultMsg{seq: seq, plans: plans, err: err}
	}
}

// waitForStreamCmd blocks until the next stream event. It is re-issued after every
// event it delivers.
func waitForStreamCmd(gen int, events <-chan stream.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		return streamMsg{gen: gen, event: ev, closed: !ok}
	}
}

func openURLCmd(o LinkOpener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := o.Open(url); err != nil {
			return ErrorMsg{Err: err, Context: "open link"}
		}
		return InfoMsg{Message: "Opened " + url}
	}
}

func copyCmd(o LinkOpener, text string) tea.Cmd {
	return func() tea.Msg {
		if err := o.Copy(text); err != nil {
			return ErrorMsg{Err: err, Context: "copy"}
		}
		return SuccessMsg{Message: "Copied " + text}
	}
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}
