package system

import (
	"context"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Manager is a handler driven by a package manager's command line
type Manager struct {
	method      types.Method
	description string

	// tool must be on PATH for the method to work
	tool string

	// query builds the probe run once per package name; exit 0 means installed
	query func(name string) runner.Command

	// installed inspects the probe output when the exit code is not enough
	installed func(out runner.Output) bool

	// install builds the command installing every name at once
	install func(names, extra []string) runner.Command

	// prepare runs before install, e.g. enabling a repository
	prepare func(ctx context.Context, env *handlers.Env, step plan.Step) error
}

// Method returns the manifest method
func (m *Manager) Method() types.Method {
	return m.method
}

// Description returns a human-readable description of what this handler does
func (m *Manager) Description() string {
	return m.description
}

// IsInstalled probes every listed package
func (m *Manager) IsInstalled(ctx context.Context, env *handlers.Env, step plan.Step) (bool, error) {
	if !runner.Has(env.Runner, m.tool) {
		return false, nil
	}
	for _, name := range names(step) {
		out, err := env.Runner.Run(ctx, m.query(name))
		if err != nil {
			return false, nil
		}
		if m.installed != nil && !m.installed(out) {
			return false, nil
		}
	}
	return true, nil
}

// Install prepares repositories and installs the packages
func (m *Manager) Install(ctx context.Context, env *handlers.Env, step plan.Step) (handlers.Result, error) {
	logger := logging.ForPackage("handlers.system", step.Key, string(m.method))

	if err := handlers.RequireTool(env, m.method, m.tool); err != nil {
		return handlers.Result{}, err
	}

	if m.prepare != nil {
		if err := m.prepare(ctx, env, step); err != nil {
			return handlers.Result{}, err
		}
	}

	pkgs := names(step)
	logger.Debug().Strs("names", pkgs).Msg("Installing")
	if _, err := env.Runner.Run(ctx, m.install(pkgs, step.Spec.Args)); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{}, nil
}

func names(step plan.Step) []string {
	fields := strings.Fields(step.Name)
	if len(fields) == 0 {
		return []string{step.Key}
	}
	return fields
}

func probe(name string, args ...string) runner.Command {
	return runner.Command{Name: name, Args: args, Probe: true}
}

func join(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var _ handlers.Handler = (*Manager)(nil)
