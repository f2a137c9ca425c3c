package system

import (
	"context"

	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// NewDnf creates the Fedora handler. A repo field enables that COPR project.
func NewDnf() *Manager {
	return &Manager{
		method:      types.MethodDnf,
		description: "Installs RPM packages with dnf, enabling COPR repositories when asked",
		tool:        "dnf",
		query: func(name string) runner.Command {
			return probe("rpm", "-q", "--whatprovides", name)
		},
		install: func(names, extra []string) runner.Command {
			return runner.Command{
				Name: "dnf",
				Args: join([]string{"install", "-y"}, extra, names),
				Sudo: true,
			}
		},
		prepare: func(ctx context.Context, env *handlers.Env, step plan.Step) error {
			if step.Spec.Repo == "" {
				return nil
			}
			_, err := env.Runner.Run(ctx, runner.Command{
				Name: "dnf",
				Args: []string{"copr", "enable", "-y", step.Spec.Repo},
				Sudo: true,
			})
			return err
		},
	}
}
