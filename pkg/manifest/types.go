package manifest

import (
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Override describes how a package is installed. Record-level fields apply
// to every platform; a platform sub-record overrides them.
type Override struct {
	Name     string            `mapstructure:"name" toml:"name,omitempty"`
	Method   types.Method      `mapstructure:"method" toml:"method,omitempty"`
	Skip     bool              `mapstructure:"skip" toml:"skip,omitempty"`
	Custom   string            `mapstructure:"custom" toml:"custom,omitempty"`
	Repo     string            `mapstructure:"repo" toml:"repo,omitempty"`
	Asset    string            `mapstructure:"asset" toml:"asset,omitempty"`
	Version  string            `mapstructure:"version" toml:"version,omitempty"`
	Bin      []string          `mapstructure:"bin" toml:"bin,omitempty"`
	Checksum string            `mapstructure:"checksum" toml:"checksum,omitempty"`
	Dest     string            `mapstructure:"dest" toml:"dest,omitempty"`
	URL      string            `mapstructure:"url" toml:"url,omitempty"`
	Args     []string          `mapstructure:"args" toml:"args,omitempty"`
	Env      map[string]string `mapstructure:"env" toml:"env,omitempty"`
	Run      string            `mapstructure:"run" toml:"run,omitempty"`
}

// overrideKeys are the record-level keys that decode into the base Override
var overrideKeys = map[string]bool{
	"method": true, "skip": true, "custom": true, "repo": true, "asset": true,
	"version": true, "bin": true, "checksum": true, "dest": true, "url": true,
	"args": true, "env": true, "run": true,
}

// recordKeys are the record-level keys describing the package itself
var recordKeys = map[string]bool{
	"default": true, "name": true, "description": true, "tags": true,
	"check": true, "after": true,
}

// Merge layers a platform sub-record over record-level fields.
// Switching away from a record-level method drops everything but the name,
// so a GitHub repo never leaks into a COPR or tap field. Without a
// record-level method the record fields are shared by every sub-record. Skip always comes from
// the sub-record: a record-level skip only affects platforms without one.
func (o Override) Merge(over Override) Override {
	method := over.Method
	if method == "" && over.Custom != "" {
		method = types.MethodCustom
	}

	base := o
	if o.Method != "" && method != "" && method != o.Method {
		base = Override{Name: o.Name}
	}
	out := base
	out.Skip = over.Skip

	if method != "" {
		out.Method = method
	}
	if over.Name != "" {
		out.Name = over.Name
	}
	if over.Custom != "" {
		out.Custom = over.Custom
	}
	if over.Repo != "" {
		out.Repo = over.Repo
	}
	if over.Asset != "" {
		out.Asset = over.Asset
	}
	if over.Version != "" {
		out.Version = over.Version
	}
	if len(over.Bin) > 0 {
		out.Bin = append([]string(nil), over.Bin...)
	}
	if over.Checksum != "" {
		out.Checksum = over.Checksum
	}
	if over.Dest != "" {
		out.Dest = over.Dest
	}
	if over.URL != "" {
		out.URL = over.URL
	}
	if len(over.Args) > 0 {
		out.Args = append([]string(nil), over.Args...)
	}
	if over.Run != "" {
		out.Run = over.Run
	}
	if len(over.Env) > 0 {
		env := make(map[string]string, len(base.Env)+len(over.Env))
		for k, v := range base.Env {
			env[k] = v
		}
		for k, v := range over.Env {
			env[k] = v
		}
		out.Env = env
	}
	return out
}

// EffectiveMethod returns the method, inferring custom when only a function is named
func (o Override) EffectiveMethod() types.Method {
	if o.Method == "" && o.Custom != "" {
		return types.MethodCustom
	}
	return o.Method
}

// Package is one manifest record
type Package struct {
	Key         string
	Default     string
	Description string
	Tags        []string
	Check       string
	After       []string

	// Base holds record-level installation fields
	Base Override

	// Platforms holds sub-records keyed by normalized platform id
	Platforms map[string]Override

	index int
}

// Name returns the default package name
func (p *Package) Name() string {
	if p.Default != "" {
		return p.Default
	}
	return p.Key
}

// PlatformOverride returns the first sub-record matching the candidates
func (p *Package) PlatformOverride(candidates []string) (Override, string, bool) {
	for _, c := range candidates {
		if o, ok := p.Platforms[c]; ok {
			return o, c, true
		}
	}
	return Override{}, "", false
}

// Index returns the position of the record in the manifest file
func (p *Package) Index() int {
	return p.index
}
