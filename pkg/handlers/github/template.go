package github

import (
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/platform"
)

// Vars are the values an asset template can reference
type Vars struct {
	Tag    string
	Name   string
	OS     string
	Arch   string
	GOARCH string
}

// NewVars derives template values for a release tag on a platform
func NewVars(tag, name string, p platform.Platform) Vars {
	return Vars{
		Tag:    tag,
		Name:   name,
		OS:     p.OS,
		Arch:   p.ArchAlias(),
		GOARCH: p.Arch,
	}
}

// Version is the tag without its leading "v"
func (v Vars) Version() string {
	return strings.TrimPrefix(v.Tag, "v")
}

// Expand replaces {placeholders} in s
func (v Vars) Expand(s string) string {
	return strings.NewReplacer(
		"{version}", v.Version(),
		"{tag}", v.Tag,
		"{name}", v.Name,
		"{os}", v.OS,
		"{arch}", v.Arch,
		"{goarch}", v.GOARCH,
	).Replace(s)
}
