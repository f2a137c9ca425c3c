package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
)

// tailSize bounds how much output is kept for error reports
const tailSize = 4096

// ExecRunner runs commands with os/exec, streaming their output
type ExecRunner struct {
	// Stdout and Stderr receive streamed output, os.Stdout/os.Stderr when nil
	Stdout io.Writer
	Stderr io.Writer

	// SudoCommand escalates privileges, "sudo" when empty
	SudoCommand string

	// IsRoot reports whether escalation can be skipped, os.Geteuid() == 0 when nil
	IsRoot func() bool
}

// NewExecRunner creates a runner bound to the terminal
func NewExecRunner(sudo string) *ExecRunner {
	return &ExecRunner{SudoCommand: sudo}
}

// LookPath resolves name on PATH
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes cmd and waits for it. A non-zero exit becomes an ErrCommand
// error carrying the exit code and the tail of the output.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	logger := logging.GetLogger("runner")

	name, args := r.resolve(cmd)
	logging.LogCommand(name, args)

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = cmd.Dir
	c.Stdin = os.Stdin
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	tail := &tailBuffer{max: tailSize}
	var captured bytes.Buffer
	if cmd.Probe {
		c.Stdin = nil
		c.Stdout = &captured
		c.Stderr = &captured
	} else {
		c.Stdout = io.MultiWriter(r.stdout(), tail)
		c.Stderr = io.MultiWriter(r.stderr(), tail)
	}

	start := time.Now()
	err := c.Run()
	out := Output{ExitCode: c.ProcessState.ExitCode()}
	if cmd.Probe {
		out.Text = captured.String()
	} else {
		out.Text = tail.String()
	}

	logger.Debug().
		Str("command", cmd.String()).
		Int("exit", out.ExitCode).
		Dur("duration", time.Since(start)).
		Msg("Command finished")

	if err != nil {
		if ctx.Err() != nil {
			return out, errors.Wrapf(ctx.Err(), errors.ErrCommand, "%s interrupted", cmd.Name)
		}
		return out, errors.Wrapf(err, errors.ErrCommand, "%s failed", cmd.String()).
			WithDetail("exit_code", out.ExitCode).
			WithDetail("output", out.Text)
	}
	return out, nil
}

func (r *ExecRunner) resolve(cmd Command) (string, []string) {
	if !cmd.Sudo || r.isRoot() {
		return cmd.Name, cmd.Args
	}
	sudo := r.SudoCommand
	if sudo == "" {
		sudo = "sudo"
	}
	args := make([]string, 0, len(cmd.Args)+len(cmd.Env)+2)
	// sudo resets the environment, pass the extra variables explicitly
	if len(cmd.Env) > 0 {
		args = append(args, "env")
		args = append(args, cmd.Env...)
	}
	args = append(args, cmd.Name)
	args = append(args, cmd.Args...)
	return sudo, args
}

func (r *ExecRunner) isRoot() bool {
	if r.IsRoot != nil {
		return r.IsRoot()
	}
	return os.Geteuid() == 0
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// tailBuffer keeps the last max bytes written to it
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
