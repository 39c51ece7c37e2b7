package selection

import (
	"testing"

	"github.com/joshribakoff/bearing-tui/internal/model"
)

func rows(names ...string) []model.Worktree {
	out := make([]model.Worktree, len(names))
	for i, n := range names {
		out[i] = model.Worktree{Folder: n}
	}
	return out
}

func TestResolveFindsKey(t *testing.T) {
	key := "b"
	r := Resolve(&key, rows("a", "b", "c"))
	if r.Index != 1 || r.Key == nil || *r.Key != "b" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestResolveFallsBackToFirst(t *testing.T) {
	key := "gone"
	r := Resolve(&key, rows("x", "y"))
	if r.Index != 0 || *r.Key != "x" {
		t.Fatalf("expected first row, got %+v", r)
	}
	r = Resolve(nil, rows("x", "y"))
	if r.Index != 0 || *r.Key != "x" {
		t.Fatalf("nil key should pick first row, got %+v", r)
	}
}

func TestResolveEmpty(t *testing.T) {
	key := "a"
	r := Resolve(&key, nil)
	if !r.Empty() || r.Key != nil || r.Index != -1 {
		t.Fatalf("expected empty result, got %+v", r)
	}
}

func TestResolveFollowsReorder(t *testing.T) {
	key := "b"
	r := Resolve(&key, rows("c", "a", "b"))
	if r.Index != 2 {
		t.Fatalf("identity lost across reorder: %+v", r)
	}
}

func TestMoveClamps(t *testing.T) {
	list := rows("a", "b", "c")
	if r := Move(list, 0, -1); r.Index != 0 || *r.Key != "a" {
		t.Fatalf("move above top: %+v", r)
	}
	if r := Move(list, 2, 1); r.Index != 2 || *r.Key != "c" {
		t.Fatalf("move past bottom: %+v", r)
	}
	if r := Move(list, 0, 1); r.Index != 1 || *r.Key != "b" {
		t.Fatalf("move down: %+v", r)
	}
	if r := Move(nil, 0, 1); !r.Empty() {
		t.Fatalf("move in empty list: %+v", r)
	}
}
