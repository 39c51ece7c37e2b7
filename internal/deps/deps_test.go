package deps

import (
	"context"
	"errors"
	"testing"
)

type fakeCommander struct {
	present map[string]bool
}

func (f fakeCommander) Run(context.Context, string, ...string) ([]byte, error) { return nil, nil }
func (f fakeCommander) Start(string, ...string) error                         { return nil }
func (f fakeCommander) LookPath(name string) (string, error) {
	if f.present[name] {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New("not found")
}

func TestCheckReportsMissingOpener(t *testing.T) {
	missing := check(fakeCommander{present: map[string]bool{"xclip": true, "wl-copy": true}}, "linux")
	if len(missing) != 1 || missing[0].Command != "xdg-open" {
		t.Fatalf("expected xdg-open missing, got %+v", missing)
	}
	if !missing[0].Required {
		t.Fatalf("opener should be required")
	}
}

func TestCheckDarwinOnlyNeedsOpen(t *testing.T) {
	missing := check(fakeCommander{present: map[string]bool{"open": true}}, "darwin")
	if len(missing) != 0 {
		t.Fatalf("unexpected missing deps: %+v", missing)
	}
}
