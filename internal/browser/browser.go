// Package browser opens links and copies text for the dashboard's link actions.
package browser

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/joshribakoff/bearing-tui/internal/deps"
	"github.com/joshribakoff/bearing-tui/internal/shell"
)

type Opener struct {
	cmd  shell.Commander
	goos string
	// copy defaults to the system clipboard.
	copy func(string) error
}

func New(cmd shell.Commander) *Opener {
	if cmd == nil {
		cmd = &shell.ExecCommander{}
	}
	return &Opener{cmd: cmd, goos: runtime.GOOS, copy: clipboard.WriteAll}
}

// Open hands url to the platform opener without waiting for the browser.
func (o *Opener) Open(url string) error {
	dep := deps.Opener(o.goos)
	args := []string{url}
	if o.goos == "windows" {
		args = []string{"url.dll,FileProtocolHandler", url}
	}
	if err := o.cmd.Start(dep.Command, args...); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func (o *Opener) Copy(text string) error {
	if err := o.copy(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
