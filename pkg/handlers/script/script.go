package script

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Handler downloads and runs installer scripts
type Handler struct{}

// New creates the handler
func New() *Handler {
	return &Handler{}
}

// Method returns the manifest method
func (h *Handler) Method() types.Method {
	return types.MethodScript
}

// Description returns a human-readable description of what this handler does
func (h *Handler) Description() string {
	return "Downloads an installer script and runs it with sh"
}

// IsInstalled checks the path the installer creates when dest names one,
// the install record otherwise
func (h *Handler) IsInstalled(ctx context.Context, env *handlers.Env, step plan.Step) (bool, error) {
	if dest := step.Spec.Dest; dest != "" {
		_, err := os.Stat(env.Paths.Expand(dest))
		return err == nil, nil
	}
	return handlers.Recorded(env, step)
}

// DetectsByRecord reports whether step has no dest to look for
func (h *Handler) DetectsByRecord(step plan.Step) bool {
	return step.Spec.Dest == ""
}

// Install fetches the script and runs it with the step's args and env
func (h *Handler) Install(ctx context.Context, env *handlers.Env, step plan.Step) (handlers.Result, error) {
	spec := step.Spec
	logger := logging.GetLogger("handlers.script").With().
		Str("package", step.Key).
		Str("url", spec.URL).
		Logger()

	if err := handlers.RequireTool(env, types.MethodScript, "sh"); err != nil {
		return handlers.Result{}, err
	}

	local := filepath.Join(env.Paths.DownloadDir(), "scripts", step.Key+"-"+scriptName(spec.URL))
	if env.DryRun {
		env.Printf("  would download %s", spec.URL)
	} else {
		logger.Info().Msg("Downloading installer")
		if err := env.HTTP.Download(ctx, spec.URL, local); err != nil {
			return handlers.Result{}, err
		}
		defer func() {
			_ = os.Remove(local)
		}()
	}

	cmd := runner.Command{
		Name: "sh",
		Args: append([]string{local}, spec.Args...),
		Env:  runner.EnvList(spec.Env),
	}
	if _, err := env.Runner.Run(ctx, cmd); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{}, nil
}

// scriptName derives a file name from the URL path ("install.sh"), falling
// back to the host for bare domains like sh.rustup.rs
func scriptName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "install.sh"
	}
	if base := path.Base(u.Path); base != "/" && base != "." && base != "" {
		return base
	}
	if u.Host != "" {
		return u.Host
	}
	return "install.sh"
}

var _ handlers.Handler = (*Handler)(nil)
