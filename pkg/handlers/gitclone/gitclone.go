package gitclone

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Handler clones repositories
type Handler struct {
	// Host prefixes "owner/name" repositories
	Host string
}

// New creates the handler; an empty host means https://github.com
func New(host string) *Handler {
	if host == "" {
		host = "https://github.com"
	}
	return &Handler{Host: strings.TrimRight(host, "/")}
}

// Method returns the manifest method
func (h *Handler) Method() types.Method {
	return types.MethodGit
}

// Description returns a human-readable description of what this handler does
func (h *Handler) Description() string {
	return "Clones a git repository into a directory"
}

// IsInstalled checks dest holds a checkout
func (h *Handler) IsInstalled(ctx context.Context, env *handlers.Env, step plan.Step) (bool, error) {
	info, err := os.Stat(filepath.Join(Dest(env, step), ".git"))
	if err != nil {
		return false, nil
	}
	return info.IsDir(), nil
}

// Install clones the repository, or fast-forwards an existing checkout
func (h *Handler) Install(ctx context.Context, env *handlers.Env, step plan.Step) (handlers.Result, error) {
	dest := Dest(env, step)
	logger := logging.GetLogger("handlers.git").With().
		Str("package", step.Key).
		Str("dest", dest).
		Logger()

	if err := handlers.RequireTool(env, types.MethodGit, "git"); err != nil {
		return handlers.Result{}, err
	}

	cloned, _ := h.IsInstalled(ctx, env, step)
	if cloned {
		logger.Info().Msg("Updating existing checkout")
		if _, err := env.Runner.Run(ctx, git(dest, "pull", "--ff-only")); err != nil {
			return handlers.Result{}, err
		}
		return handlers.Result{Version: revision(ctx, env, dest)}, nil
	}

	if _, err := os.Stat(dest); err == nil {
		return handlers.Result{}, errors.Newf(errors.ErrInstall, "%s exists and is not a git checkout", dest).
			WithDetail("dest", dest)
	}
	if !env.DryRun {
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return handlers.Result{}, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dest))
		}
	}

	args := []string{"clone", "--depth", "1"}
	if v := step.Spec.Version; v != "" {
		args = append(args, "--branch", v)
	}
	args = append(args, h.URL(step.Spec.Repo), dest)

	logger.Info().Str("repo", step.Spec.Repo).Msg("Cloning")
	if _, err := env.Runner.Run(ctx, runner.Command{Name: "git", Args: args}); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{Version: revision(ctx, env, dest), Files: []string{dest}}, nil
}

// URL turns "owner/name" into a clone URL; anything with a scheme or
// scp-style host is used as-is
func (h *Handler) URL(repo string) string {
	if strings.Contains(repo, "://") || strings.Contains(repo, "@") || strings.HasPrefix(repo, "/") {
		return repo
	}
	return h.Host + "/" + strings.TrimSuffix(repo, ".git") + ".git"
}

// Dest is where the checkout lives: the step's dest, or the opt directory
// named after the package
func Dest(env *handlers.Env, step plan.Step) string {
	if step.Spec.Dest != "" {
		return env.Paths.Expand(step.Spec.Dest)
	}
	return filepath.Join(env.Paths.OptDir(), step.Key)
}

func git(dir string, args ...string) runner.Command {
	return runner.Command{Name: "git", Args: append([]string{"-C", dir}, args...)}
}

func revision(ctx context.Context, env *handlers.Env, dest string) string {
	cmd := git(dest, "rev-parse", "--short", "HEAD")
	cmd.Probe = true
	out, err := env.Runner.Run(ctx, cmd)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out.Text)
}

var _ handlers.Handler = (*Handler)(nil)
