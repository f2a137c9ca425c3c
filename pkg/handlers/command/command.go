package command

import (
	"context"

	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Handler runs "run" snippets with sh -c
type Handler struct{}

// New creates the handler
func New() *Handler {
	return &Handler{}
}

// Method returns the manifest method
func (h *Handler) Method() types.Method {
	return types.MethodCommand
}

// Description returns a human-readable description of what this handler does
func (h *Handler) Description() string {
	return "Runs an inline shell command"
}

// IsInstalled trusts the install record; a changed snippet runs again
func (h *Handler) IsInstalled(ctx context.Context, env *handlers.Env, step plan.Step) (bool, error) {
	return handlers.Recorded(env, step)
}

// DetectsByRecord is always true: a snippet leaves nothing to probe
func (h *Handler) DetectsByRecord(plan.Step) bool {
	return true
}

// Install runs the snippet
func (h *Handler) Install(ctx context.Context, env *handlers.Env, step plan.Step) (handlers.Result, error) {
	logger := logging.GetLogger("handlers.command")
	logger.Debug().
		Str("package", step.Key).
		Str("run", step.Spec.Run).
		Msg("Running install command")

	cmd := runner.Shell(step.Spec.Run)
	cmd.Env = runner.EnvList(step.Spec.Env)
	if _, err := env.Runner.Run(ctx, cmd); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{}, nil
}

var _ handlers.Handler = (*Handler)(nil)
