package manifest

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Validate re-checks an already parsed manifest and returns every problem
// as a single ErrManifestInvalid error
func (m *Manifest) Validate() error {
	if problems := m.validate(); len(problems) > 0 {
		return invalid(problems)
	}
	if _, err := order(m.packages); err != nil {
		return err
	}
	return nil
}

func (m *Manifest) validate() []string {
	var problems []string

	for _, p := range m.packages {
		if !p.Base.Skip || len(p.Platforms) == 0 {
			problems = append(problems, checkOverride(p.Key, p.Base)...)
		}

		ids := make([]string, 0, len(p.Platforms))
		for id := range p.Platforms {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			merged := p.Base.Merge(p.Platforms[id])
			if merged.Skip {
				continue
			}
			problems = append(problems, checkOverride(p.Key+"."+id, merged)...)
		}

		for _, dep := range p.After {
			if dep == p.Key {
				problems = append(problems, fmt.Sprintf("%s: package cannot come after itself", p.Key))
				continue
			}
			if _, ok := m.byKey[dep]; !ok {
				problems = append(problems, fmt.Sprintf("%s: after references unknown package %q", p.Key, dep))
			}
		}
	}

	return problems
}

// checkOverride enforces the fields each method cannot work without
func checkOverride(where string, o Override) []string {
	var problems []string
	missing := func(field string) {
		problems = append(problems, fmt.Sprintf("%s: method %s requires %q", where, o.EffectiveMethod(), field))
	}

	switch o.EffectiveMethod() {
	case types.MethodGitHub:
		if o.Repo == "" {
			missing("repo")
		}
		if o.Asset == "" {
			missing("asset")
		}
	case types.MethodGit:
		if o.Repo == "" {
			missing("repo")
		}
	case types.MethodScript:
		if o.URL == "" {
			missing("url")
		}
	case types.MethodCommand:
		if o.Run == "" {
			missing("run")
		}
	case types.MethodCustom:
		if o.Custom == "" {
			missing("custom")
		}
	}
	return problems
}
