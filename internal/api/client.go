// Package api is a client for the bearing daemon's read-only JSON API.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/joshribakoff/bearing-tui/internal/model"
)

const maxBody = 8 << 20

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Path   string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: http %d", e.Path, e.Code)
	}
	return fmt.Sprintf("%s: http %d: %s", e.Path, e.Code, e.Detail)
}

type Client struct {
	base string
	http *http.Client
}

// New returns a client for the daemon at base (e.g. http://localhost:8374). A zero
// timeout leaves requests bounded only by their context.
func New(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Base is the daemon URL the client talks to.
func (c *Client) Base() string {
	return c.base
}

// URL joins path onto the daemon base.
func (c *Client) URL(path string) string {
	return c.base + path
}

// HTTP is the underlying client, shared with the event stream.
func (c *Client) HTTP() *http.Client {
	return c.http
}

func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	if err := c.get(ctx, "/api/projects", &out); err != nil {
		return nil, err
	}
	return orEmpty(out), nil
}

func (c *Client) Worktrees(ctx context.Context) ([]model.Worktree, error) {
	var out []model.Worktree
	if err := c.get(ctx, "/api/worktrees", &out); err != nil {
		return nil, err
	}
	return orEmpty(out), nil
}

func (c *Client) Plans(ctx context.Context) ([]model.Plan, error) {
	var out []model.Plan
	if err := c.get(ctx, "/api/plans", &out); err != nil {
		return nil, err
	}
	return orEmpty(out), nil
}

func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var out model.Health
	err := c.get(ctx, "/api/health", &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Path: path, Code: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}

// orEmpty maps a JSON null array to an empty slice.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
