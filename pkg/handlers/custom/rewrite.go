package custom

import (
	"context"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/manifest"
	"github.com/arthur-debert/dotinstall/pkg/plan"
)

// Rewrite is a Func that hands the package to another method with a fixed
// spec. Fields the manifest sets (args, env, dest, version) are layered on
// top, so entries can still tweak a built-in.
type Rewrite struct {
	Summary string
	Spec    manifest.Override
}

// Description returns the summary
func (r Rewrite) Description() string {
	return r.Summary
}

// IsInstalled asks the target method's handler. Targets detected by record
// alone look up the custom step's record, which is the one saved on install.
func (r Rewrite) IsInstalled(ctx context.Context, env *handlers.Env, step plan.Step) (bool, error) {
	target, h, err := r.target(env, step)
	if err != nil {
		return false, err
	}
	if rd, ok := h.(handlers.RecordDetector); ok && rd.DetectsByRecord(target) {
		return handlers.Recorded(env, step)
	}
	return h.IsInstalled(ctx, env, target)
}

// Install delegates to the target method's handler
func (r Rewrite) Install(ctx context.Context, env *handlers.Env, step plan.Step) (handlers.Result, error) {
	target, h, err := r.target(env, step)
	if err != nil {
		return handlers.Result{}, err
	}
	return h.Install(ctx, env, target)
}

// Step returns the step the target handler receives
func (r Rewrite) Step(step plan.Step) plan.Step {
	spec := r.Spec
	own := step.Spec

	if len(own.Args) > 0 {
		spec.Args = own.Args
	}
	if own.Dest != "" {
		spec.Dest = own.Dest
	}
	if own.Version != "" {
		spec.Version = own.Version
	}
	if len(own.Env) > 0 {
		env := make(map[string]string, len(spec.Env)+len(own.Env))
		for k, v := range spec.Env {
			env[k] = v
		}
		for k, v := range own.Env {
			env[k] = v
		}
		spec.Env = env
	}

	out := step
	out.Method = spec.Method
	out.Spec = spec
	return out
}

func (r Rewrite) target(env *handlers.Env, step plan.Step) (plan.Step, handlers.Handler, error) {
	target := r.Step(step)
	if env.Handlers == nil {
		return target, nil, errors.Newf(errors.ErrInternal, "custom installer for %s needs the %s handler but no registry is set", step.Key, target.Method)
	}
	h, err := env.Handlers.Get(target.Method)
	if err != nil {
		return target, nil, err
	}
	return target, h, nil
}
