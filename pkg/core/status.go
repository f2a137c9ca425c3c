package core

import (
	"context"
	"time"

	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/manifest"
	"github.com/arthur-debert/dotinstall/pkg/plan"
)

// State is a package's status on this machine
type State string

const (
	StateInstalled State = "installed"
	StateMissing   State = "missing"
	StateSkipped   State = "skipped"

	// StateUnknown means detection itself failed
	StateUnknown State = "unknown"
)

// PackageStatus is one row of "dotinstall status"
type PackageStatus struct {
	Step  plan.Step
	State State

	// Version and InstalledAt come from the install record, when there is one
	Version     string
	InstalledAt time.Time

	// Outdated means the record was written for a different manifest entry
	Outdated bool

	Err error
}

// StatusOptions selects the packages to inspect
type StatusOptions struct {
	Manifest *manifest.Manifest
	Plan     plan.Options
	Env      *handlers.Env
}

// Status inspects every selected package without changing anything
func Status(ctx context.Context, opts StatusOptions) ([]PackageStatus, error) {
	logger := logging.GetLogger("core.status")

	p, err := plan.Build(opts.Manifest, opts.Plan)
	if err != nil {
		return nil, err
	}
	env := opts.Env

	out := make([]PackageStatus, 0, len(p.Steps))
	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		st := PackageStatus{Step: step}
		if env.Store != nil {
			rec, ok, err := env.Store.Get(step.Key)
			switch {
			case err != nil:
				logger.Warn().Err(err).Str("package", step.Key).Msg("Cannot read install record")
				st.Err = err
			case ok:
				st.Version = rec.Version
				st.InstalledAt = rec.InstalledAt
				st.Outdated = rec.Fingerprint != step.Fingerprint()
			}
		}

		switch {
		case step.Skip:
			st.State = StateSkipped
		default:
			st.State = StateMissing
			h, err := env.Handlers.Get(step.Method)
			if err != nil {
				st.State, st.Err = StateUnknown, err
				break
			}
			present, err := isInstalled(ctx, env, h, step)
			switch {
			case err != nil:
				st.State, st.Err = StateUnknown, err
			case present:
				st.State = StateInstalled
			}
		}

		logger.Debug().Str("package", step.Key).Str("state", string(st.State)).Msg("Checked")
		out = append(out, st)
	}
	return out, nil
}
