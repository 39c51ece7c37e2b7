package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/joshribakoff/bearing-tui/internal/config"
	"github.com/joshribakoff/bearing-tui/internal/deps"
	"github.com/joshribakoff/bearing-tui/internal/model"
	"github.com/joshribakoff/bearing-tui/internal/refresh"
	"github.com/joshribakoff/bearing-tui/internal/shell"
	"github.com/joshribakoff/bearing-tui/internal/sorting"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print worktrees per project and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices()
		if err != nil {
			return err
		}
		defer svc.Close()

		res := refresh.New(svc.client).Refresh(cmd.Context(), 1)
		if res.Err != nil {
			return fmt.Errorf("fetch from %s: %w", svc.cfg.Server, res.Err)
		}
		listAction(res.Projects, res.Worktrees)
		return nil
	},
}

func listAction(projects []model.Project, worktrees []model.Worktree) {
	fmt.Println()
	for _, p := range projects {
		fmt.Printf("%s (%d)\n", p.Name, p.Count)
		rows := sorting.Sort(model.VisibleWorktrees(worktrees, p.Name), sorting.ColumnDefault, sorting.Asc)
		for _, wt := range rows {
			mark := " "
			if wt.Base {
				mark = "◆"
			}
			status := "clean"
			switch {
			case wt.Dirty:
				status = "dirty"
			case wt.Unpushed > 0:
				status = fmt.Sprintf("%d unpushed", wt.Unpushed)
			}
			pr := string(wt.PRState)
			if pr == "" {
				pr = "-"
			}
			fmt.Printf(" %s %-28s %-24s %-12s %s\n", mark, wt.Folder, wt.Branch, status, pr)
		}
		fmt.Println()
	}
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or reset the saved view state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved view state",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices()
		if err != nil {
			return err
		}
		defer svc.Close()
		store := openStore(svc.cfg, svc.log)
		defer store.Close()

		p := store.Load()
		out, err := json.MarshalIndent(map[string]any{
			"selectedProject":        p.SelectedProject,
			"selectedWorktreeFolder": p.SelectedWorktreeFolder,
			"sortColumn":             p.SortColumn,
			"sortDirection":          p.SortDirection,
			"currentView":            p.CurrentView,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved view state",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices()
		if err != nil {
			return err
		}
		defer svc.Close()
		store := openStore(svc.cfg, svc.log)
		defer store.Close()

		if err := store.Reset(); err != nil {
			return fmt.Errorf("reset view state: %w", err)
		}
		fmt.Println("View state cleared.")
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the daemon and the programs used to open links",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices()
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), svc.cfg.RequestTimeout)
		defer cancel()

		failed := false
		health, err := svc.client.Health(ctx)
		if err != nil {
			failed = true
			fmt.Printf("✗ daemon at %s: %v\n", svc.cfg.Server, err)
		} else {
			fmt.Printf("✓ daemon at %s (running=%t, %d worktrees, last check %s)\n",
				svc.cfg.Server, health.DaemonRunning, health.WorktreeCount, health.LastCheck)
		}

		missing := deps.Check(&shell.ExecCommander{})
		for _, dep := range missing {
			mark := "!"
			if dep.Required {
				failed = true
				mark = "✗"
			}
			fmt.Printf("%s %s not found (%s)\n", mark, dep.Name, deps.InstallHint(dep))
		}
		if len(missing) == 0 {
			fmt.Println("✓ link opener and clipboard helpers found")
		}

		if failed {
			return errors.New("doctor found problems")
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loader.Load()
		if err != nil {
			return err
		}
		out, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		if file := loader.File(); file != "" {
			fmt.Printf("# %s\n", file)
		}
		fmt.Print(string(out))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path()
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			overwrite := false
			err := huh.NewConfirm().
				Title(fmt.Sprintf("%s already exists. Overwrite it?", path)).
				Affirmative("Overwrite").
				Negative("Keep").
				Value(&overwrite).
				Run()
			if err != nil {
				return err
			}
			if !overwrite {
				fmt.Println("Kept existing config.")
				return nil
			}
		}
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateResetCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite without asking")
}
