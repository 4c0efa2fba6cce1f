package exec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	osexec "os/exec"
	"strings"

	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/hieunt/fleetwatch/internal/errors"
)

// LocalRunner executes commands through the local shell.
type LocalRunner struct{}

// NewLocalRunner returns a Runner that executes commands on this machine.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run executes cmd through the shell and returns trimmed stdout.
// The context deadline kills a hung command rather than stalling the pass.
func (r *LocalRunner) Run(ctx context.Context, _ config.Host, cmd string) (string, error) {
	// Use shell to interpret the command (handles pipes, redirects, etc.)
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	command := osexec.CommandContext(ctx, shell, "-c", cmd)

	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		if ctx.Err() != nil {
			return "", errors.WrapWithCode(ctx.Err(), errors.ErrExec,
				fmt.Sprintf("Command timed out: %s", cmd),
				"Raise command_timeout if the host is just slow")
		}
		if exitErr, ok := err.(*osexec.ExitError); ok {
			return "", errors.WrapWithCode(err, errors.ErrExec,
				fmt.Sprintf("Command exited with status %d: %s", exitErr.ExitCode(), cmd),
				strings.TrimSpace(stderr.String()))
		}
		return "", errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't run the command locally",
			"Make sure the command exists and is executable.")
	}

	return strings.TrimSpace(stdout.String()), nil
}
