package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshribakoff/bearing-tui/internal/api"
	"github.com/joshribakoff/bearing-tui/internal/browser"
	"github.com/joshribakoff/bearing-tui/internal/config"
	"github.com/joshribakoff/bearing-tui/internal/logging"
	"github.com/joshribakoff/bearing-tui/internal/nav"
	"github.com/joshribakoff/bearing-tui/internal/refresh"
	"github.com/joshribakoff/bearing-tui/internal/session"
	"github.com/joshribakoff/bearing-tui/internal/shell"
	"github.com/joshribakoff/bearing-tui/internal/stream"
	"github.com/joshribakoff/bearing-tui/internal/tui"
	"github.com/joshribakoff/bearing-tui/pkg/version"
)

var (
	versionFlag bool
	loader      = config.NewLoader()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "bearing-tui",
	Short:        "Live dashboard of worktrees, PRs and plans from the bearing daemon",
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version")
	rootCmd.PersistentFlags().String("server", "", "bearing daemon URL (default http://localhost:8374)")
	rootCmd.PersistentFlags().String("state-backend", "", "view state backend: file or sqlite")
	_ = loader.Viper().BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = loader.Viper().BindPFlag("state.backend", rootCmd.PersistentFlags().Lookup("state-backend"))

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
}

type services struct {
	cfg    *config.Config
	log    *slog.Logger
	closer io.Closer
	client *api.Client
}

func (s *services) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

func loadServices() (*services, error) {
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = logging.DefaultFile(stateDir(cfg))
	}
	log, closer, err := logging.Open(logPath, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
		log = logging.Discard()
	}
	slog.SetDefault(log)
	log.Info("startup", slog.String("version", version.Version), slog.String("server", cfg.Server), slog.String("config", loader.File()))
	return &services{
		cfg:    cfg,
		log:    log,
		closer: closer,
		client: api.New(cfg.Server, cfg.RequestTimeout),
	}, nil
}

func stateDir(cfg *config.Config) string {
	if cfg.State.Dir != "" {
		return cfg.State.Dir
	}
	return session.StateDir()
}

// openStore falls back to an in-memory slot so a broken state backend never stops
// the dashboard from starting.
func openStore(cfg *config.Config, log *slog.Logger) *session.Store {
	slot, err := session.OpenSlot(cfg.State.Backend, stateDir(cfg))
	if err != nil {
		log.Warn("state_backend_unavailable", slog.String("backend", cfg.State.Backend), slog.String("err", err.Error()))
		slot = session.NewMemorySlot()
	}
	return session.NewStore(slot, log)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if versionFlag {
		fmt.Println(version.Version)
		return nil
	}

	svc, err := loadServices()
	if err != nil {
		return err
	}
	defer svc.Close()
	cfg := svc.cfg

	store := openStore(cfg, svc.log)
	defer store.Close()

	var cancelStream context.CancelFunc
	connect := func(c *config.Config) tui.Backend {
		if cancelStream != nil {
			cancelStream()
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancelStream = cancel

		client := api.New(c.Server, c.RequestTimeout)
		events := stream.New(&http.Client{}, client.URL("/api/events"), c.ReconnectDelay, svc.log)
		go events.Run(ctx)
		return tui.Backend{
			Refresher: refresh.New(client),
			Plans:     client,
			Events:    events.Events(),
		}
	}
	backend := connect(cfg)
	defer func() { cancelStream() }()

	app := tui.New(tui.Options{
		Backend:        backend,
		Server:         cfg.Server,
		Store:          store,
		Links:          nav.Links{Owner: cfg.GitHubOwner},
		Opener:         browser.New(&shell.ExecCommander{}),
		Log:            svc.log,
		RequestTimeout: cfg.RequestTimeout,
		ReconnectDelay: cfg.ReconnectDelay,
		Theme:          cfg.Theme,
		Connect:        connect,
		Watch:          loader.Watch,
	})
	return app.Run()
}
