package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshribakoff/bearing-tui/internal/config"
	domain "github.com/joshribakoff/bearing-tui/internal/model"
	"github.com/joshribakoff/bearing-tui/internal/nav"
	"github.com/joshribakoff/bearing-tui/internal/refresh"
	"github.com/joshribakoff/bearing-tui/internal/session"
	"github.com/joshribakoff/bearing-tui/internal/state"
	"github.com/joshribakoff/bearing-tui/internal/stream"
	"github.com/joshribakoff/bearing-tui/internal/tui/theme"
)

type Refresher interface {
	Refresh(ctx context.Context, seq uint64) refresh.Result
}

type PlansSource interface {
	Plans(ctx context.Context) ([]domain.Plan, error)
}

type LinkOpener interface {
	Open(url string) error
	Copy(text string) error
}

// Backend is everything the dashboard reads from one daemon.
type Backend struct {
	Refresher Refresher
	Plans     PlansSource
	Events    <-chan stream.Event
}

type Options struct {
	Backend        Backend
	Server         string
	Store          *session.Store
	Links          nav.Links
	Opener         LinkOpener
	Log            *slog.Logger
	RequestTimeout time.Duration
	ReconnectDelay time.Duration
	// Theme picks the help document style.
	Theme string
	// Connect builds a backend from a reloaded config when its connection settings
	// changed.
	Connect func(cfg *config.Config) Backend
	// Watch registers a config change callback.
	Watch func(func(*config.Config, error))
}

type model struct {
	machine nav.Machine
	state   state.ViewState

	backend Backend
	gen     int
	server  string
	delay   time.Duration
	connect func(*config.Config) Backend
	store   *session.Store
	opener  LinkOpener
	log     *slog.Logger
	timeout time.Duration

	width         int
	height        int
	spinner       spinner.Model
	help          help.Model
	helpView      viewport.Model
	helpWidth     int
	markdownStyle string
	toast         *toast

	startup []nav.Effect
}

type App struct {
	opts Options
}

func New(opts Options) *App {
	return &App{opts: opts}
}

func (a *App) Run() error {
	p := tea.NewProgram(newModel(a.opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if a.opts.Watch != nil {
		a.opts.Watch(func(cfg *config.Config, err error) {
			p.Send(configChangedMsg{cfg: cfg, err: err})
		})
	}
	_, err := p.Run()
	return err
}

func newModel(opts Options) model {
	logger := opts.Log
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	h := help.New()
	h.Styles.ShortKey = theme.KeyStyle
	h.Styles.ShortDesc = theme.DimStyle
	h.Styles.ShortSeparator = theme.SeparatorStyle

	s := state.Default()
	if opts.Store != nil {
		s = s.Hydrate(opts.Store.Load())
	}
	machine := nav.Machine{Links: opts.Links}
	s, startup := machine.Transition(s, nav.RefreshRequested{})

	return model{
		machine:       machine,
		state:         s,
		backend:       opts.Backend,
		server:        opts.Server,
		delay:         opts.ReconnectDelay,
		connect:       opts.Connect,
		store:         opts.Store,
		opener:        opts.Opener,
		log:           logger,
		timeout:       opts.RequestTimeout,
		spinner:       sp,
		help:          h,
		helpView:      viewport.New(0, 0),
		markdownStyle: theme.MarkdownStyle(opts.Theme),
		startup:       startup,
	}
}

// TEA plumbing

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, waitForStreamCmd(m.gen, m.backend.Events)}
	cmds = append(cmds, m.run(m.startup)...)
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeHelp()
		return m, nil

	case tea.KeyMsg:
		return m.dispatch(nav.KeyPressed{Key: msg.String()})

	case tea.MouseMsg:
		return m.mouse(msg)

	case refreshResultMsg:
		if msg.result.Err != nil {
			m.log.Warn("refresh_failed", slog.Uint64("seq", msg.result.Seq), slog.String("err", msg.result.Err.Error()))
			return m.dispatch(nav.RefreshFailed{Seq: msg.result.Seq, Err: msg.result.Err})
		}
		m.log.Debug("refresh_loaded", slog.Uint64("seq", msg.result.Seq),
			slog.Int("projects", len(msg.result.Projects)), slog.Int("worktrees", len(msg.result.Worktrees)))
		return m.dispatch(nav.DataLoaded{Seq: msg.result.Seq, Projects: msg.result.Projects, Worktrees: msg.result.Worktrees})

	case plansResultMsg:
		if msg.err != nil {
			m.log.Warn("plans_failed", slog.Uint64("seq", msg.seq), slog.String("err", msg.err.Error()))
			return m.dispatch(nav.PlansFailed{Seq: msg.seq, Err: msg.err})
		}
		return m.dispatch(nav.PlansLoaded{Seq: msg.seq, Plans: msg.plans})

	case streamMsg:
		if msg.gen != m.gen || msg.closed {
			return m, nil
		}
		var ev nav.Event
		switch msg.event.Kind {
		case stream.Connected:
			ev = nav.StreamConnected{}
		case stream.Failed:
			ev = nav.StreamFailed{Err: msg.event.Err}
		case stream.Changed:
			ev = nav.RemoteChanged{Kind: msg.event.Type}
		}
		next, cmd := m.dispatch(ev)
		return next, tea.Batch(cmd, waitForStreamCmd(m.gen, m.backend.Events))

	case configChangedMsg:
		return m.reconfigure(msg)

	case SuccessMsg:
		m.toast = newToast(msg.Message, toastSuccess)
		return m, toastExpireCmd()

	case ErrorMsg:
		m.log.Warn("action_failed", slog.String("err", msg.Error()))
		m.toast = newToast(msg.Error(), toastError)
		return m, toastExpireCmd()

	case InfoMsg:
		m.toast = newToast(msg.Message, toastInfo)
		return m, toastExpireCmd()

	case toastExpiredMsg:
		if m.toast != nil && m.toast.expired() {
			m.toast = nil
		}
		return m, nil
	}
	return m, nil
}

func (m model) mouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if m.state.Modal == state.ModalHelp {
			var cmd tea.Cmd
			m.helpView, cmd = m.helpView.Update(msg)
			return m, cmd
		}
		if msg.Button == tea.MouseButtonWheelUp {
			return m.dispatch(nav.KeyPressed{Key: "up"})
		}
		return m.dispatch(nav.KeyPressed{Key: "down"})
	case tea.MouseButtonLeft:
		if ev := m.hitTest(msg.X, msg.Y); ev != nil {
			return m.dispatch(ev)
		}
	}
	return m, nil
}

// dispatch runs one transition and turns its effects into commands.
func (m model) dispatch(ev nav.Event) (tea.Model, tea.Cmd) {
	var effects []nav.Effect
	m.state, effects = m.machine.Transition(m.state, ev)
	if len(effects) == 0 {
		return m, nil
	}
	for _, e := range effects {
		if n, ok := e.(nav.Notify); ok {
			kind := toastWarning
			if n.Error {
				kind = toastError
			}
			m.toast = newToast(n.Message, kind)
		}
	}
	return m, tea.Batch(m.run(effects)...)
}

func (m model) run(effects []nav.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case nav.Persist:
			// written in place so saves land in transition order
			if m.store != nil {
				_ = m.store.Save(e.State)
			}
		case nav.Refresh:
			if m.backend.Refresher != nil {
				cmds = append(cmds, refreshCmd(m.backend.Refresher, e.Seq, m.timeout))
			}
		case nav.LoadPlans:
			if m.backend.Plans != nil {
				cmds = append(cmds, loadPlansCmd(m.backend.Plans, e.Seq, m.timeout))
			}
		case nav.OpenURL:
			if m.opener != nil {
				cmds = append(cmds, openURLCmd(m.opener, e.URL))
			}
		case nav.Copy:
			if m.opener != nil {
				cmds = append(cmds, copyCmd(m.opener, e.Text))
			}
		case nav.Notify:
			cmds = append(cmds, toastExpireCmd())
		case nav.Quit:
			cmds = append(cmds, tea.Quit)
		}
	}
	return cmds
}

func (m model) reconfigure(msg configChangedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("config_reload_failed", slog.String("err", msg.err.Error()))
		m.toast = newToast("Config reload failed: "+msg.err.Error(), toastError)
		return m, toastExpireCmd()
	}
	cfg := msg.cfg
	m.machine.Links.Owner = cfg.GitHubOwner
	relink := cfg.Server != m.server || cfg.ReconnectDelay != m.delay || cfg.RequestTimeout != m.timeout
	m.timeout = cfg.RequestTimeout
	if style := theme.MarkdownStyle(cfg.Theme); style != m.markdownStyle {
		m.markdownStyle = style
		m.helpWidth = 0
		m.resizeHelp()
	}
	m.log.Info("config_reloaded", slog.String("server", cfg.Server), slog.String("owner", cfg.GitHubOwner))

	cmds := []tea.Cmd{}
	if relink && m.connect != nil {
		m.server = cfg.Server
		m.delay = cfg.ReconnectDelay
		m.backend = m.connect(cfg)
		m.gen++
		m.state.Stream = state.ConnConnecting
		m.state = m.state.SyncConnection()
		cmds = append(cmds, waitForStreamCmd(m.gen, m.backend.Events))
		var next tea.Model
		var cmd tea.Cmd
		next, cmd = m.dispatch(nav.RefreshRequested{})
		m = next.(model)
		cmds = append(cmds, cmd)
	}
	m.toast = newToast("Config reloaded", toastInfo)
	cmds = append(cmds, toastExpireCmd())
	return m, tea.Batch(cmds...)
}

func (m model) layout() layout {
	return newLayout(m.width, m.height)
}
