package nav

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joshribakoff/bearing-tui/internal/model"
)

// Links builds links to the host that owns the repositories.
type Links struct {
	Host  string
	Owner string
}

func (l Links) host() string {
	if l.Host == "" {
		return "https://github.com"
	}
	return strings.TrimRight(l.Host, "/")
}

// PullRequest links to the PR search for the worktree's branch.
func (l Links) PullRequest(w model.Worktree) string {
	return fmt.Sprintf("%s/%s/%s/pulls?q=head:%s", l.host(), l.Owner, w.Repo, url.QueryEscape(w.Branch))
}

func (l Links) Issue(p model.Plan) string {
	return fmt.Sprintf("%s/%s/%s/issues/%d", l.host(), l.Owner, p.Project, int(p.Issue))
}
