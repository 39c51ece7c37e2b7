// Package selection maps a remembered worktree identity onto the current row order.
package selection

import "github.com/joshribakoff/bearing-tui/internal/model"

// Result is a resolved cursor. Index is -1 and Key nil when there is nothing to select.
type Result struct {
	Index int
	Key   *string
}

func (r Result) Empty() bool {
	return r.Index < 0
}

// Resolve finds key in rows. A missing key falls back to the first row, whose folder
// becomes the new remembered key.
func Resolve(key *string, rows []model.Worktree) Result {
	if key != nil {
		for i, w := range rows {
			if w.Key() == *key {
				k := w.Key()
				return Result{Index: i, Key: &k}
			}
		}
	}
	if len(rows) == 0 {
		return Result{Index: -1}
	}
	k := rows[0].Key()
	return Result{Index: 0, Key: &k}
}

// Move shifts the cursor by delta, clamped to the row range.
func Move(rows []model.Worktree, current, delta int) Result {
	if len(rows) == 0 {
		return Result{Index: -1}
	}
	next := Clamp(current+delta, len(rows))
	k := rows[next].Key()
	return Result{Index: next, Key: &k}
}

// Clamp keeps i within [0, n). n must be positive.
func Clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
