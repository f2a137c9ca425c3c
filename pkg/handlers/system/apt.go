package system

import (
	"context"
	"strings"
	"sync"

	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

var aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// aptIndex refreshes package lists once per run, and again after a PPA is added
type aptIndex struct {
	mu    sync.Mutex
	fresh bool
}

func (a *aptIndex) update(ctx context.Context, env *handlers.Env) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fresh {
		return nil
	}
	if _, err := env.Runner.Run(ctx, runner.Command{
		Name: "apt-get",
		Args: []string{"update"},
		Env:  aptEnv,
		Sudo: true,
	}); err != nil {
		return err
	}
	a.fresh = true
	return nil
}

func (a *aptIndex) invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fresh = false
}

// NewApt creates the Debian/Ubuntu handler. A repo field adds that PPA.
func NewApt() *Manager {
	index := &aptIndex{}
	return &Manager{
		method:      types.MethodApt,
		description: "Installs Debian packages with apt-get, adding PPAs when asked",
		tool:        "apt-get",
		query: func(name string) runner.Command {
			return probe("dpkg-query", "-W", "-f=${Status}", name)
		},
		// removed packages that kept their configuration are still listed
		installed: func(out runner.Output) bool {
			return strings.Contains(out.Text, "install ok installed")
		},
		install: func(names, extra []string) runner.Command {
			return runner.Command{
				Name: "apt-get",
				Args: join([]string{"install", "-y"}, extra, names),
				Env:  aptEnv,
				Sudo: true,
			}
		},
		prepare: func(ctx context.Context, env *handlers.Env, step plan.Step) error {
			if repo := step.Spec.Repo; repo != "" {
				if !strings.HasPrefix(repo, "ppa:") {
					repo = "ppa:" + repo
				}
				if _, err := env.Runner.Run(ctx, runner.Command{
					Name: "add-apt-repository",
					Args: []string{"-y", repo},
					Env:  aptEnv,
					Sudo: true,
				}); err != nil {
					return err
				}
				index.invalidate()
			}
			return index.update(ctx, env)
		},
	}
}
