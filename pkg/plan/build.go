package plan

import (
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/manifest"
	"github.com/arthur-debert/dotinstall/pkg/platform"
	"github.com/arthur-debert/dotinstall/pkg/tags"
)

// Plan is the ordered list of steps for a run
type Plan struct {
	Platform platform.Platform
	Selector tags.Selector
	Steps    []Step

	// Filtered lists keys left out by the selector
	Filtered []string
}

// Options controls which packages take part
type Options struct {
	Platform platform.Platform
	Selector tags.Selector

	// Only restricts the run to these keys (positional CLI arguments)
	Only []string
}

// Build resolves the selected packages in installation order.
// Packages named in Only are selected regardless of tags unless excluded.
// Their "after" dependencies are pulled in the same way.
func Build(m *manifest.Manifest, opts Options) (*Plan, error) {
	logger := logging.GetLogger("plan")

	for _, key := range opts.Only {
		if _, ok := m.Get(key); !ok {
			return nil, errors.Newf(errors.ErrPackageNotFound, "package %q is not in the manifest", key).
				WithDetail("package", key)
		}
	}

	selected := make(map[string]bool)
	if len(opts.Only) > 0 {
		for _, key := range opts.Only {
			pkg, _ := m.Get(key)
			if !opts.Selector.Excluded(pkg.Key, pkg.Tags) {
				selected[key] = true
			}
		}
	} else {
		for _, pkg := range m.Packages() {
			if opts.Selector.Match(pkg.Key, pkg.Tags) {
				selected[pkg.Key] = true
			}
		}
	}

	dependency := make(map[string]bool)
	var pull func(key string)
	pull = func(key string) {
		pkg, _ := m.Get(key)
		for _, dep := range pkg.After {
			if selected[dep] || dependency[dep] {
				continue
			}
			d, ok := m.Get(dep)
			if !ok || opts.Selector.Excluded(d.Key, d.Tags) {
				continue
			}
			dependency[dep] = true
			pull(dep)
		}
	}
	for key := range selected {
		pull(key)
	}

	p := &Plan{Platform: opts.Platform, Selector: opts.Selector}
	for _, pkg := range m.Packages() {
		switch {
		case selected[pkg.Key]:
			p.Steps = append(p.Steps, Resolve(pkg, opts.Platform))
		case dependency[pkg.Key]:
			step := Resolve(pkg, opts.Platform)
			step.Dependency = true
			p.Steps = append(p.Steps, step)
		default:
			p.Filtered = append(p.Filtered, pkg.Key)
		}
	}

	logger.Debug().
		Str("platform", opts.Platform.ID).
		Str("selector", opts.Selector.String()).
		Int("steps", len(p.Steps)).
		Int("filtered", len(p.Filtered)).
		Msg("Plan built")

	return p, nil
}

// Runnable returns the steps that are not skipped
func (p *Plan) Runnable() []Step {
	var out []Step
	for _, s := range p.Steps {
		if !s.Skip {
			out = append(out, s)
		}
	}
	return out
}

// Step looks up a step by package key
func (p *Plan) Step(key string) (Step, bool) {
	for _, s := range p.Steps {
		if s.Key == key {
			return s, true
		}
	}
	return Step{}, false
}
