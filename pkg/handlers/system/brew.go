package system

import (
	"context"

	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// tap adds a Homebrew tap named in the repo field
func tap(ctx context.Context, env *handlers.Env, step plan.Step) error {
	if step.Spec.Repo == "" {
		return nil
	}
	_, err := env.Runner.Run(ctx, runner.Command{Name: "brew", Args: []string{"tap", step.Spec.Repo}})
	return err
}

// NewBrew creates the Homebrew formula handler
func NewBrew() *Manager {
	return &Manager{
		method:      types.MethodBrew,
		description: "Installs Homebrew formulae, tapping repositories when asked",
		tool:        "brew",
		query: func(name string) runner.Command {
			return probe("brew", "list", "--formula", name)
		},
		install: func(names, extra []string) runner.Command {
			return runner.Command{Name: "brew", Args: join([]string{"install"}, extra, names)}
		},
		prepare: tap,
	}
}

// NewCask creates the Homebrew cask handler
func NewCask() *Manager {
	return &Manager{
		method:      types.MethodCask,
		description: "Installs Homebrew casks (macOS applications)",
		tool:        "brew",
		query: func(name string) runner.Command {
			return probe("brew", "list", "--cask", name)
		},
		install: func(names, extra []string) runner.Command {
			return runner.Command{Name: "brew", Args: join([]string{"install", "--cask"}, extra, names)}
		},
		prepare: tap,
	}
}
