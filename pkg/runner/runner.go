package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Command is one subprocess invocation
type Command struct {
	Name string
	Args []string

	// Env entries in KEY=value form, appended to the process environment
	Env []string

	// Dir is the working directory, the current one when empty
	Dir string

	// Sudo runs the command through the privilege escalation tool unless
	// already running as root
	Sudo bool

	// Probe marks read-only commands: output is captured instead of
	// streamed and the command runs even in dry-run mode
	Probe bool
}

// String renders the command the way a user would type it
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+2)
	if c.Sudo {
		parts = append(parts, "sudo")
	}
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

// Output is what a finished command left behind
type Output struct {
	// Text is the captured output for probes, the tail of it otherwise
	Text     string
	ExitCode int
}

// Runner executes commands
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
	LookPath(name string) (string, error)
}

// Shell builds a "sh -c" command
func Shell(script string) Command {
	return Command{Name: "sh", Args: []string{"-c", script}}
}

// Has reports whether name resolves on PATH
func Has(r Runner, name string) bool {
	_, err := r.LookPath(name)
	return err == nil
}

// EnvList renders a map as sorted KEY=value entries
func EnvList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n'\"$`\\|&;<>()*?[]{}~") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}
