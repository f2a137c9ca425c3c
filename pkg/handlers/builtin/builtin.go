// Package builtin assembles the registry of every installation method.
package builtin

import (
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/handlers/command"
	"github.com/arthur-debert/dotinstall/pkg/handlers/custom"
	"github.com/arthur-debert/dotinstall/pkg/handlers/gitclone"
	"github.com/arthur-debert/dotinstall/pkg/handlers/github"
	"github.com/arthur-debert/dotinstall/pkg/handlers/script"
	"github.com/arthur-debert/dotinstall/pkg/handlers/system"
)

// Options tune the network-facing handlers
type Options struct {
	// GitHubURL replaces https://github.com for releases
	GitHubURL string

	// GitHost prefixes owner/name repositories for the git method
	GitHost string

	// Custom replaces the built-in custom installers
	Custom *custom.Handler
}

// NewRegistry registers a handler for every method
func NewRegistry(opts Options) *handlers.Registry {
	r := handlers.NewRegistry()
	r.Register(system.NewDnf())
	r.Register(system.NewApt())
	r.Register(system.NewPacman())
	r.Register(system.NewBrew())
	r.Register(system.NewCask())
	r.Register(github.New(opts.GitHubURL))
	r.Register(gitclone.New(opts.GitHost))
	r.Register(script.New())
	r.Register(command.New())

	if opts.Custom != nil {
		r.Register(opts.Custom)
	} else {
		r.Register(custom.New())
	}
	return r
}
