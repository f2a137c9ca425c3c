package core

import (
	"context"
	"time"

	"github.com/arthur-debert/dotinstall/pkg/datastore"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/manifest"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// InstallOptions controls an install run
type InstallOptions struct {
	Manifest *manifest.Manifest
	Plan     plan.Options

	// Env carries the runner, paths, download client, store and handler
	// registry. Install works on a copy.
	Env *handlers.Env

	DryRun bool
	Force  bool

	// OnPlan is called once the plan is resolved, before any step runs
	OnPlan func(p *plan.Plan)

	// OnStart is called before a runnable step is processed
	OnStart func(step plan.Step)

	// OnResult is called as soon as a step is done
	OnResult func(r Result)
}

// Install builds the plan and processes every step. Per-package failures
// are part of the summary, not the returned error.
func Install(ctx context.Context, opts InstallOptions) (*Summary, error) {
	logger := logging.GetLogger("core.install")
	done := logging.LogOperationStart(logger, "install")
	defer done()

	p, err := plan.Build(opts.Manifest, opts.Plan)
	if err != nil {
		return nil, err
	}

	env := *opts.Env
	env.DryRun = opts.DryRun
	env.Force = opts.Force
	if env.DryRun {
		if _, wrapped := env.Runner.(*runner.DryRunner); !wrapped {
			env.Runner = runner.NewDryRunner(env.Runner, env.Out)
		}
	}

	logger.Info().
		Str("platform", p.Platform.String()).
		Int("steps", len(p.Steps)).
		Bool("dryRun", env.DryRun).
		Bool("force", env.Force).
		Msg("Starting install")

	if opts.OnPlan != nil {
		opts.OnPlan(p)
	}

	summary := &Summary{Plan: p}
	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return summary, errors.Wrap(err, errors.ErrInstall, "install interrupted")
		}

		if !step.Skip && opts.OnStart != nil {
			opts.OnStart(step)
		}
		res := processStep(ctx, &env, step)
		summary.Results = append(summary.Results, res)
		if opts.OnResult != nil {
			opts.OnResult(res)
		}
	}

	logger.Info().
		Int("installed", summary.Count(types.OutcomeInstalled)).
		Int("present", summary.Count(types.OutcomePresent)).
		Int("skipped", summary.Count(types.OutcomeSkipped)).
		Int("failed", summary.Count(types.OutcomeFailed)).
		Msg("Install finished")
	return summary, nil
}

func processStep(ctx context.Context, env *handlers.Env, step plan.Step) Result {
	logger := logging.ForPackage("core.install", step.Key, string(step.Method))

	start := time.Now()
	res := Result{Step: step}
	finish := func(outcome types.Outcome, err error) Result {
		res.Outcome = outcome
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	if step.Skip {
		logger.Debug().Str("reason", step.SkipReason).Msg("Skipping")
		return finish(types.OutcomeSkipped, nil)
	}

	h, err := env.Handlers.Get(step.Method)
	if err != nil {
		return finish(types.OutcomeFailed, err)
	}

	if !env.Force {
		present, err := isInstalled(ctx, env, h, step)
		if err != nil {
			logger.Error().Err(err).Msg("Detection failed")
			return finish(types.OutcomeFailed, err)
		}
		if present {
			logger.Debug().Msg("Already installed")
			return finish(types.OutcomePresent, nil)
		}
	}

	logger.Info().Str("name", step.Name).Msg("Installing")
	installed, err := h.Install(ctx, env, step)
	if err != nil {
		logger.Error().Err(err).Msg("Install failed")
		return finish(types.OutcomeFailed, err)
	}
	res.Version = installed.Version

	if env.DryRun {
		return finish(types.OutcomePlanned, nil)
	}

	if env.Store != nil {
		rec := datastore.Record{
			Package:     step.Key,
			Name:        step.Name,
			Method:      step.Method,
			Version:     installed.Version,
			Platform:    step.Platform,
			Fingerprint: step.Fingerprint(),
			InstalledAt: time.Now().UTC(),
			Files:       installed.Files,
		}
		if err := env.Store.Save(rec); err != nil {
			logger.Warn().Err(err).Msg("Failed to save install record")
		}
	}
	return finish(types.OutcomeInstalled, nil)
}

// isInstalled is true when the check binary resolves or the handler detects
// the package
func isInstalled(ctx context.Context, env *handlers.Env, h handlers.Handler, step plan.Step) (bool, error) {
	if step.Check != "" && runner.Has(env.Runner, step.Check) {
		return true, nil
	}
	return h.IsInstalled(ctx, env, step)
}
