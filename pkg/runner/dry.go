package runner

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/arthur-debert/dotinstall/pkg/logging"
)

// DryRunner records commands instead of running them. Probes are passed to
// Inner so "already installed" detection still works during a dry run.
type DryRunner struct {
	Inner Runner
	Out   io.Writer

	mu       sync.Mutex
	commands []Command
}

// NewDryRunner wraps inner; out receives a line per skipped command
func NewDryRunner(inner Runner, out io.Writer) *DryRunner {
	return &DryRunner{Inner: inner, Out: out}
}

// Run records cmd and prints it
func (r *DryRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	if cmd.Probe && r.Inner != nil {
		return r.Inner.Run(ctx, cmd)
	}

	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	logger := logging.GetLogger("runner")
	logger.Info().Str("command", cmd.String()).Msg("Dry run, not executing")
	if r.Out != nil {
		_, _ = fmt.Fprintf(r.Out, "  would run: %s\n", cmd.String())
	}
	return Output{}, nil
}

// LookPath delegates to Inner, or PATH when there is none
func (r *DryRunner) LookPath(name string) (string, error) {
	if r.Inner != nil {
		return r.Inner.LookPath(name)
	}
	return exec.LookPath(name)
}

// Commands returns everything recorded so far
func (r *DryRunner) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}
