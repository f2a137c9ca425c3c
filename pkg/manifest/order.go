package manifest

import (
	"sort"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
)

// order sorts packages so every package comes after the ones it names in
// "after". Among ready packages the manifest position decides.
func order(pkgs []*Package) ([]*Package, error) {
	byKey := make(map[string]*Package, len(pkgs))
	for _, p := range pkgs {
		byKey[p.Key] = p
	}

	pending := make(map[string]int, len(pkgs))
	dependents := make(map[string][]*Package, len(pkgs))
	for _, p := range pkgs {
		for _, dep := range p.After {
			if _, ok := byKey[dep]; !ok || dep == p.Key {
				continue
			}
			pending[p.Key]++
			dependents[dep] = append(dependents[dep], p)
		}
	}

	var ready []*Package
	for _, p := range pkgs {
		if pending[p.Key] == 0 {
			ready = append(ready, p)
		}
	}

	out := make([]*Package, 0, len(pkgs))
	for len(ready) > 0 {
		sort.SliceStable(ready, func(i, j int) bool { return ready[i].index < ready[j].index })
		next := ready[0]
		ready = ready[1:]
		out = append(out, next)

		for _, d := range dependents[next.Key] {
			pending[d.Key]--
			if pending[d.Key] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(out) != len(pkgs) {
		var stuck []string
		for _, p := range pkgs {
			if pending[p.Key] > 0 {
				stuck = append(stuck, p.Key)
			}
		}
		return nil, errors.Newf(errors.ErrManifestCycle, "dependency cycle between packages: %s", strings.Join(stuck, ", ")).
			WithDetail("packages", stuck)
	}
	return out, nil
}

// Ordered returns packages in dependency order
func (m *Manifest) Ordered() []*Package {
	return m.Packages()
}
