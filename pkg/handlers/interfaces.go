package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/arthur-debert/dotinstall/pkg/datastore"
	"github.com/arthur-debert/dotinstall/pkg/paths"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/platform"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Handler installs packages with one method
type Handler interface {
	// Method returns the manifest method this handler serves
	Method() types.Method

	// Description returns a human-readable description of what this handler does
	Description() string

	// IsInstalled reports whether the step's package is already present
	IsInstalled(ctx context.Context, env *Env, step plan.Step) (bool, error)

	// Install installs the step's package
	Install(ctx context.Context, env *Env, step plan.Step) (Result, error)
}

// Result describes a finished install
type Result struct {
	// Version is the installed version when the handler knows it
	Version string

	// Files lists paths the handler created
	Files []string
}

// Env is what handlers may touch
type Env struct {
	Runner   runner.Runner
	Paths    paths.Paths
	HTTP     *Client
	Platform platform.Platform
	Store    datastore.DataStore
	Handlers *Registry

	// DryRun asks handlers to describe instead of change. Commands are
	// already intercepted by the runner; handlers skip their own writes.
	DryRun bool

	// Force reinstalls or updates packages that are already present
	Force bool

	// Out receives progress lines for dry runs
	Out io.Writer
}

// Printf writes a progress line when Out is set
func (e *Env) Printf(format string, args ...interface{}) {
	if e.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(e.Out, format+"\n", args...)
}
