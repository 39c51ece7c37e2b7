package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joshribakoff/bearing-tui/internal/model"
)

func newServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAll(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/api/projects":  `[{"name":"bearing","count":2}]`,
		"/api/worktrees": `[{"folder":"bearing-alpha","repo":"bearing","branch":"alpha","base":false,"dirty":true,"unpushed":0,"prState":"OPEN"},{"folder":"bearing","repo":"bearing","branch":"main","base":true,"dirty":false,"unpushed":0}]`,
		"/api/plans":     `[{"title":"Ship it","project":"bearing","status":"active","issue":"#42","path":"plans/ship.md"},{"title":"Later","project":"bearing","status":"draft","issue":""}]`,
		"/api/health":    `{"daemonRunning":true,"lastCheck":"2026-01-01T00:00:00Z","worktreeCount":2}`,
	})
	c := New(srv.URL+"/", time.Second)
	ctx := context.Background()

	projects, err := c.Projects(ctx)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "bearing" || projects[0].Count != 2 {
		t.Fatalf("unexpected projects: %+v", projects)
	}

	worktrees, err := c.Worktrees(ctx)
	if err != nil {
		t.Fatalf("worktrees: %v", err)
	}
	if len(worktrees) != 2 || worktrees[0].PRState != model.PROpen || worktrees[1].PRState != model.PRNone {
		t.Fatalf("unexpected worktrees: %+v", worktrees)
	}

	plans, err := c.Plans(ctx)
	if err != nil {
		t.Fatalf("plans: %v", err)
	}
	if plans[0].Issue != 42 || plans[1].Issue.Valid() {
		t.Fatalf("unexpected issue refs: %+v", plans)
	}

	health, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !health.DaemonRunning || health.WorktreeCount != 2 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestNullArrayIsEmpty(t *testing.T) {
	srv := newServer(t, map[string]string{"/api/projects": `null`})
	projects, err := New(srv.URL, time.Second).Projects(context.Background())
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if projects == nil || len(projects) != 0 {
		t.Fatalf("expected empty slice, got %#v", projects)
	}
}

func TestNon2xxIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "store unavailable", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Worktrees(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusInternalServerError || se.Path != "/api/worktrees" || se.Detail != "store unavailable" {
		t.Fatalf("unexpected status error: %+v", se)
	}
}

func TestMalformedBody(t *testing.T) {
	srv := newServer(t, map[string]string{"/api/projects": `{"oops"`})
	if _, err := New(srv.URL, time.Second).Projects(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	if _, err := New(url, time.Second).Projects(context.Background()); err == nil {
		t.Fatalf("expected transport error")
	}
}
