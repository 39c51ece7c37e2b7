package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joshribakoff/bearing-tui/internal/model"
)

type fakeSource struct {
	projects     []model.Project
	worktrees    []model.Worktree
	projectsErr  error
	worktreesErr error
	// block makes Worktrees wait for cancellation.
	block bool
}

func (f *fakeSource) Projects(ctx context.Context) ([]model.Project, error) {
	return f.projects, f.projectsErr
}

func (f *fakeSource) Worktrees(ctx context.Context) ([]model.Worktree, error) {
	if f.block {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return nil, errors.New("not cancelled")
		}
	}
	return f.worktrees, f.worktreesErr
}

func TestRefreshSuccess(t *testing.T) {
	src := &fakeSource{
		projects:  []model.Project{{Name: "bearing", Count: 1}},
		worktrees: []model.Worktree{{Repo: "bearing", Folder: "bearing"}},
	}
	res := New(src).Refresh(context.Background(), 7)
	if res.Err != nil {
		t.Fatalf("refresh: %v", res.Err)
	}
	if res.Seq != 7 || len(res.Projects) != 1 || len(res.Worktrees) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRefreshFailsAsUnit(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{projectsErr: boom, block: true}
	start := time.Now()
	res := New(src).Refresh(context.Background(), 3)
	if !errors.Is(res.Err, boom) {
		t.Fatalf("expected boom, got %v", res.Err)
	}
	if res.Projects != nil || res.Worktrees != nil {
		t.Fatalf("failed refresh must not carry data: %+v", res)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("sibling request was not cancelled")
	}
	if res.Seq != 3 {
		t.Fatalf("seq lost: %d", res.Seq)
	}
}
