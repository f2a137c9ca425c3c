// Package tags implements profile selection: which manifest entries take
// part in a run given --profile and --exclude tag lists.
package tags

import (
	"strings"
)

// All is the profile tag that selects every package
const All = "all"

// Split parses a comma and/or whitespace separated tag list.
// Tags are lower-cased and de-duplicated, order is preserved.
func Split(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	return Normalize(fields)
}

// Normalize lower-cases, trims and de-duplicates tags, also splitting
// entries that still contain commas
func Normalize(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, raw := range in {
		for _, t := range strings.Split(raw, ",") {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Selector decides which packages a profile includes
type Selector struct {
	Include []string
	Exclude []string
}

// NewSelector builds a Selector from raw tag lists
func NewSelector(include, exclude []string) Selector {
	return Selector{
		Include: Normalize(include),
		Exclude: Normalize(exclude),
	}
}

// IsEmpty reports whether the selector accepts everything
func (s Selector) IsEmpty() bool {
	return len(s.Include) == 0 && len(s.Exclude) == 0
}

// Excluded reports whether the package is removed by --exclude.
// A package key counts as one of its own tags.
func (s Selector) Excluded(key string, pkgTags []string) bool {
	return intersects(s.Exclude, key, pkgTags)
}

// Included reports whether the package is requested by --profile
func (s Selector) Included(key string, pkgTags []string) bool {
	if len(s.Include) == 0 {
		return true
	}
	for _, t := range s.Include {
		if t == All {
			return true
		}
	}
	return intersects(s.Include, key, pkgTags)
}

// Match reports whether a package takes part in the run. Exclusion wins over inclusion.
func (s Selector) Match(key string, pkgTags []string) bool {
	if s.Excluded(key, pkgTags) {
		return false
	}
	return s.Included(key, pkgTags)
}

// String renders the selector for logs and the profile file
func (s Selector) String() string {
	var parts []string
	if len(s.Include) > 0 {
		parts = append(parts, "profile="+strings.Join(s.Include, ","))
	}
	if len(s.Exclude) > 0 {
		parts = append(parts, "exclude="+strings.Join(s.Exclude, ","))
	}
	if len(parts) == 0 {
		return "all packages"
	}
	return strings.Join(parts, " ")
}

func intersects(selected []string, key string, pkgTags []string) bool {
	if len(selected) == 0 {
		return false
	}
	key = strings.ToLower(key)
	for _, want := range selected {
		if want == key {
			return true
		}
		for _, t := range pkgTags {
			if strings.EqualFold(want, t) {
				return true
			}
		}
	}
	return false
}
