package plan

import (
	"fmt"

	"github.com/arthur-debert/dotinstall/pkg/internal/hashutil"
	"github.com/arthur-debert/dotinstall/pkg/manifest"
	"github.com/arthur-debert/dotinstall/pkg/platform"
	"github.com/arthur-debert/dotinstall/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

// Step is a package resolved for one platform
type Step struct {
	Key         string
	Name        string
	Method      types.Method
	Description string
	Tags        []string
	Check       string

	// Spec holds the merged installation fields
	Spec manifest.Override

	// Platform is the manifest key that matched, empty when none did
	Platform string

	Skip       bool
	SkipReason string

	// Dependency is set when the step was only pulled in through "after"
	Dependency bool
}

// Resolve merges record-level fields with the matching platform sub-record
func Resolve(pkg *manifest.Package, p platform.Platform) Step {
	step := Step{
		Key:         pkg.Key,
		Description: pkg.Description,
		Tags:        pkg.Tags,
		Check:       pkg.Check,
	}

	over, key, matched := pkg.PlatformOverride(p.Candidates())
	spec := pkg.Base
	if matched {
		spec = pkg.Base.Merge(over)
		step.Platform = key
	}
	step.Spec = spec

	step.Name = spec.Name
	if step.Name == "" {
		step.Name = pkg.Name()
	}

	if spec.Skip {
		step.Skip = true
		if matched {
			step.SkipReason = fmt.Sprintf("disabled for %s", key)
		} else {
			step.SkipReason = fmt.Sprintf("no entry for %s", p.ID)
		}
		return step
	}

	step.Method = spec.EffectiveMethod()
	if step.Method == "" {
		m, ok := p.DefaultMethod()
		if !ok {
			step.Skip = true
			step.SkipReason = fmt.Sprintf("no installation method for %s", p.ID)
			return step
		}
		step.Method = m
	}
	step.Spec.Method = step.Method

	return step
}

// Fingerprint identifies what would be installed. A changed manifest entry
// yields a different fingerprint.
func (s Step) Fingerprint() string {
	data, err := toml.Marshal(struct {
		Name   string            `toml:"name"`
		Method types.Method      `toml:"method"`
		Spec   manifest.Override `toml:"spec"`
	}{s.Name, s.Method, s.Spec})
	if err != nil {
		return hashutil.Sum([]byte(s.Name + "\x00" + string(s.Method)))
	}
	return hashutil.Sum(data)
}

// Label renders the step for logs and tables, e.g. "fd (fd-find via apt)"
func (s Step) Label() string {
	if s.Skip {
		return s.Key
	}
	if s.Name == s.Key {
		return fmt.Sprintf("%s (%s)", s.Key, s.Method)
	}
	return fmt.Sprintf("%s (%s via %s)", s.Key, s.Name, s.Method)
}
