package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/runner"
)

// Response is what FakeRunner answers for a matching command
type Response struct {
	Output   string
	ExitCode int

	// Do runs after matching, e.g. to create the files a real installer would
	Do func(cmd runner.Command) error
}

// FakeRunner records commands instead of executing them. Commands are
// matched against registered prefixes of their rendered form ("rpm -q tmux").
// Unmatched commands succeed, except probes which fail as "not installed".
type FakeRunner struct {
	mu        sync.Mutex
	commands  []runner.Command
	responses []fakeRule
	tools     map[string]bool
	allTools  bool
}

type fakeRule struct {
	prefix string
	resp   Response
}

// NewFakeRunner creates a runner where every tool is on PATH
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{tools: make(map[string]bool), allTools: true}
}

// On registers a response for commands starting with prefix. Later rules win.
func (f *FakeRunner) On(prefix string, resp Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeRule{prefix: prefix, resp: resp})
	return f
}

// Succeed makes commands starting with prefix exit 0
func (f *FakeRunner) Succeed(prefix string) *FakeRunner {
	return f.On(prefix, Response{})
}

// Fail makes commands starting with prefix exit 1
func (f *FakeRunner) Fail(prefix string) *FakeRunner {
	return f.On(prefix, Response{ExitCode: 1})
}

// OnlyTools restricts LookPath to the listed programs
func (f *FakeRunner) OnlyTools(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allTools = false
	f.tools = make(map[string]bool, len(names))
	for _, n := range names {
		f.tools[n] = true
	}
	return f
}

// Run records cmd and answers from the registered rules
func (f *FakeRunner) Run(ctx context.Context, cmd runner.Command) (runner.Output, error) {
	if err := ctx.Err(); err != nil {
		return runner.Output{ExitCode: -1}, err
	}

	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	rendered := render(cmd)
	resp, matched := Response{}, false
	for i := len(f.responses) - 1; i >= 0; i-- {
		if strings.HasPrefix(rendered, f.responses[i].prefix) {
			resp, matched = f.responses[i].resp, true
			break
		}
	}
	f.mu.Unlock()

	if !matched && cmd.Probe {
		resp.ExitCode = 1
	}
	if resp.Do != nil {
		if err := resp.Do(cmd); err != nil {
			return runner.Output{ExitCode: 1}, err
		}
	}

	out := runner.Output{Text: resp.Output, ExitCode: resp.ExitCode}
	if resp.ExitCode != 0 {
		return out, errors.Newf(errors.ErrCommand, "%s failed", rendered).
			WithDetail("exit_code", resp.ExitCode).
			WithDetail("output", resp.Output)
	}
	return out, nil
}

// LookPath resolves tools registered with OnlyTools
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.allTools || f.tools[name] {
		return "/usr/bin/" + name, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Commands returns every command run so far
func (f *FakeRunner) Commands() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]runner.Command, len(f.commands))
	copy(out, f.commands)
	return out
}

// Rendered returns the commands as strings, without the sudo prefix
func (f *FakeRunner) Rendered() []string {
	cmds := f.Commands()
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = render(c)
	}
	return out
}

// Mutating returns the rendered commands that are not probes
func (f *FakeRunner) Mutating() []string {
	var out []string
	for _, c := range f.Commands() {
		if !c.Probe {
			out = append(out, render(c))
		}
	}
	return out
}

// Reset forgets recorded commands but keeps the rules
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = nil
}

func render(cmd runner.Command) string {
	c := cmd
	c.Sudo = false
	return c.String()
}

var _ runner.Runner = (*FakeRunner)(nil)

// String is used in failure messages
func (f *FakeRunner) String() string {
	return fmt.Sprintf("FakeRunner%v", f.Rendered())
}
