// Package refresh loads projects and worktrees as one unit.
package refresh

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/joshribakoff/bearing-tui/internal/model"
)

// Source is the subset of the API the coordinator reads from.
type Source interface {
	Projects(ctx context.Context) ([]model.Project, error)
	Worktrees(ctx context.Context) ([]model.Worktree, error)
}

// Result is one refresh outcome. On error neither collection is set.
type Result struct {
	Seq       uint64
	Projects  []model.Project
	Worktrees []model.Worktree
	Err       error
}

type Coordinator struct {
	src Source
}

func New(src Source) *Coordinator {
	return &Coordinator{src: src}
}

// Refresh fetches both collections concurrently. Either failure cancels the other
// request and fails the whole refresh.
func (c *Coordinator) Refresh(ctx context.Context, seq uint64) Result {
	var projects []model.Project
	var worktrees []model.Worktree

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = c.src.Projects(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		worktrees, err = c.src.Worktrees(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{Seq: seq, Err: err}
	}
	return Result{Seq: seq, Projects: projects, Worktrees: worktrees}
}
