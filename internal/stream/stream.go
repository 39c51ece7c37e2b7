// Package stream subscribes to the daemon's server-sent event feed and turns it into
// connection and change notifications.
package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

type Kind int

const (
	// Connected: the daemon acknowledged the subscription.
	Connected Kind = iota
	// Failed: the subscription dropped; one reconnect is scheduled.
	Failed
	// Changed: the daemon reported new health or worktree data.
	Changed
)

type Event struct {
	Kind Kind
	Type string
	Err  error
}

// refreshTypes are the update payload types that warrant a reload.
var refreshTypes = map[string]bool{
	"health":    true,
	"worktrees": true,
}

const maxLine = 1 << 20

type Channel struct {
	http   *http.Client
	url    string
	delay  time.Duration
	log    *slog.Logger
	events chan Event
}

// New returns a channel for url. httpc must not carry a request timeout, since the
// subscription is meant to stay open indefinitely.
func New(httpc *http.Client, url string, delay time.Duration, logger *slog.Logger) *Channel {
	if httpc == nil {
		httpc = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		http:   httpc,
		url:    url,
		delay:  delay,
		log:    logger,
		events: make(chan Event, 16),
	}
}

func (c *Channel) Events() <-chan Event {
	return c.events
}

// Run keeps one subscription open until ctx is cancelled. After a failure it waits the
// fixed delay and reconnects exactly once; the events channel is closed on return.
func (c *Channel) Run(ctx context.Context) error {
	defer close(c.events)
	for {
		err := c.subscribe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			err = io.EOF
		}
		c.log.Warn("stream_disconnected", slog.String("url", c.url), slog.String("err", err.Error()), slog.Duration("retry_in", c.delay))
		if !c.emit(ctx, Event{Kind: Failed, Err: err}) {
			return ctx.Err()
		}

		timer := time.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Channel) subscribe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("subscribe: http %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	var name string
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if len(data) > 0 || name != "" {
				if !c.dispatch(ctx, name, strings.Join(data, "\n")) {
					return ctx.Err()
				}
			}
			name, data = "", nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return errors.New("stream closed by server")
}

// dispatch reports false only when ctx was cancelled while delivering.
func (c *Channel) dispatch(ctx context.Context, name, data string) bool {
	switch name {
	case "connected":
		c.log.Info("stream_connected", slog.String("url", c.url))
		return c.emit(ctx, Event{Kind: Connected})
	case "update":
		var payload struct {
			Type *string `json:"type"`
		}
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			c.log.Warn("stream_payload_malformed", slog.String("err", err.Error()))
			return true
		}
		if payload.Type == nil {
			c.log.Warn("stream_payload_untyped")
			return true
		}
		if !refreshTypes[*payload.Type] {
			c.log.Debug("stream_payload_ignored", slog.String("type", *payload.Type))
			return true
		}
		return c.emit(ctx, Event{Kind: Changed, Type: *payload.Type})
	default:
		c.log.Debug("stream_event_ignored", slog.String("event", name))
		return true
	}
}

func (c *Channel) emit(ctx context.Context, ev Event) bool {
	select {
	case c.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
