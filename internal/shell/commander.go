package shell

import (
	"context"
	"os/exec"
)

type Commander interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	// Start launches name without waiting for it to exit.
	Start(name string, args ...string) error
	LookPath(name string) (string, error)
}

type ExecCommander struct{}

func (e *ExecCommander) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

func (e *ExecCommander) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

func (e *ExecCommander) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
