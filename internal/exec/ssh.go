package exec

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/hieunt/fleetwatch/internal/errors"
	"github.com/hieunt/fleetwatch/pkg/sshutil"
)

// SSHRunner executes commands on remote hosts over SSH. Each Run dials a
// fresh connection; the monitor issues a handful of short commands per host
// per pass, so connection reuse isn't worth holding sockets across hosts.
type SSHRunner struct {
	ssh config.SSHConfig
}

// NewSSHRunner returns a Runner that executes commands over SSH using the
// given credentials.
func NewSSHRunner(ssh config.SSHConfig) *SSHRunner {
	if ssh.Timeout <= 0 {
		ssh.Timeout = 5 * time.Second
	}
	return &SSHRunner{ssh: ssh}
}

type sshResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int
	err      error
}

// Run executes cmd on the remote host and returns trimmed stdout.
// The context deadline covers dial plus execution; on expiry the connection
// is torn down so a hung remote command can't stall the pass.
func (r *SSHRunner) Run(ctx context.Context, host config.Host, cmd string) (string, error) {
	client, err := sshutil.Dial(host.Address, sshutil.Options{
		User:         r.ssh.User,
		IdentityFile: r.ssh.Key,
		Timeout:      r.ssh.Timeout,
	})
	if err != nil {
		return "", err
	}
	defer client.Close()

	done := make(chan sshResult, 1)
	go func() {
		stdout, stderr, exitCode, execErr := client.Exec(cmd)
		done <- sshResult{stdout: stdout, stderr: stderr, exitCode: exitCode, err: execErr}
	}()

	select {
	case <-ctx.Done():
		client.Close() // unblocks the session goroutine
		return "", errors.WrapWithCode(ctx.Err(), errors.ErrExec,
			fmt.Sprintf("Command timed out on %s: %s", host.Name, cmd),
			"Raise command_timeout if the host is just slow")
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		if res.exitCode != 0 {
			return "", errors.New(errors.ErrExec,
				fmt.Sprintf("Command exited with status %d on %s: %s", res.exitCode, host.Name, cmd),
				strings.TrimSpace(string(res.stderr)))
		}
		return strings.TrimSpace(string(res.stdout)), nil
	}
}
