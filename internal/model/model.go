package model

import (
	"bytes"
	"regexp"
	"strconv"

	json "github.com/goccy/go-json"
)

type PRState string

const (
	PROpen   PRState = "OPEN"
	PRDraft  PRState = "DRAFT"
	PRMerged PRState = "MERGED"
	PRClosed PRState = "CLOSED"
	PRNone   PRState = ""
)

// Rank orders PR states for sorting. Unknown or absent states rank last.
func (s PRState) Rank() int {
	switch s {
	case PROpen:
		return 0
	case PRDraft:
		return 1
	case PRMerged:
		return 2
	case PRClosed:
		return 3
	default:
		return 4
	}
}

func (s PRState) Known() bool {
	return s.Rank() < 4
}

type Project struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Worktree struct {
	Repo     string  `json:"repo"`
	Folder   string  `json:"folder"`
	Branch   string  `json:"branch"`
	Base     bool    `json:"base"`
	Dirty    bool    `json:"dirty"`
	Unpushed int     `json:"unpushed"`
	PRState  PRState `json:"prState,omitempty"`
	Purpose  string  `json:"purpose,omitempty"`
	Status   string  `json:"status,omitempty"`
}

// Key is the worktree identity within one fetch.
func (w Worktree) Key() string {
	return w.Folder
}

// StatusRank is 0 for dirty, 1 for clean with unpushed commits, 2 for clean and pushed.
func (w Worktree) StatusRank() int {
	switch {
	case w.Dirty:
		return 0
	case w.Unpushed > 0:
		return 1
	default:
		return 2
	}
}

type Plan struct {
	Title   string   `json:"title"`
	Project string   `json:"project"`
	Status  string   `json:"status"`
	Issue   IssueRef `json:"issue,omitempty"`
	Path    string   `json:"path,omitempty"`
}

// IssueRef is an optional issue number. Zero means no linked issue.
// The daemon serves it as a string ("#42" or "42"); fixtures use plain numbers.
type IssueRef int

var issueDigits = regexp.MustCompile(`^#?(\d+)$`)

func (r *IssueRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		m := issueDigits.FindStringSubmatch(s)
		if m == nil {
			*r = 0
			return nil
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			*r = 0
			return nil
		}
		*r = IssueRef(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		*r = 0
		return nil
	}
	if n < 0 {
		n = 0
	}
	*r = IssueRef(n)
	return nil
}

func (r IssueRef) Valid() bool {
	return r > 0
}

// Health is the daemon's summary of its last health sweep.
type Health struct {
	DaemonRunning bool   `json:"daemonRunning"`
	LastCheck     string `json:"lastCheck"`
	WorktreeCount int    `json:"worktreeCount"`
}

// VisibleWorktrees returns the worktrees whose repo is the given project, in input order.
func VisibleWorktrees(all []Worktree, project string) []Worktree {
	out := make([]Worktree, 0, len(all))
	for _, w := range all {
		if w.Repo == project {
			out = append(out, w)
		}
	}
	return out
}

func ProjectIndex(projects []Project, name string) int {
	for i, p := range projects {
		if p.Name == name {
			return i
		}
	}
	return -1
}
