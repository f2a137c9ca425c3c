package github

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/internal/hashutil"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// DefaultBaseURL is where repositories and their releases live
const DefaultBaseURL = "https://github.com"

// Latest asks for the newest release
const Latest = "latest"

// Handler installs GitHub release assets
type Handler struct {
	// BaseURL replaces https://github.com, for mirrors and tests
	BaseURL string
}

// New creates the handler; an empty baseURL means github.com
func New(baseURL string) *Handler {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Handler{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Method returns the manifest method
func (h *Handler) Method() types.Method {
	return types.MethodGitHub
}

// Description returns a human-readable description of what this handler does
func (h *Handler) Description() string {
	return "Downloads release binaries from GitHub and installs them into the bin directory"
}

// IsInstalled checks the binaries (and dest tree) exist. A pinned version
// also has to match the recorded one.
func (h *Handler) IsInstalled(ctx context.Context, env *handlers.Env, step plan.Step) (bool, error) {
	if dest := step.Spec.Dest; dest != "" {
		if _, err := os.Stat(env.Paths.Expand(dest)); err != nil {
			return false, nil
		}
	}
	for _, b := range binaries(step) {
		if _, err := os.Stat(filepath.Join(env.Paths.BinDir(), b.name)); err != nil {
			return false, nil
		}
	}

	if pinned(step) && env.Store != nil {
		rec, ok, err := env.Store.Get(step.Key)
		if err != nil {
			return false, err
		}
		if ok && rec.Version != step.Spec.Version {
			return false, nil
		}
	}
	return true, nil
}

// Install resolves the release, downloads and verifies the asset, unpacks
// it and places the binaries
func (h *Handler) Install(ctx context.Context, env *handlers.Env, step plan.Step) (handlers.Result, error) {
	spec := step.Spec
	logger := logging.GetLogger("handlers.github").With().
		Str("package", step.Key).
		Str("repo", spec.Repo).
		Logger()

	if env.DryRun {
		env.Printf("  would download %s from %s/%s releases (%s)", spec.Asset, h.BaseURL, spec.Repo, versionLabel(spec.Version))
		return handlers.Result{Version: spec.Version}, nil
	}

	tag := spec.Version
	if tag == "" || tag == Latest {
		latest, err := LatestTag(ctx, env.HTTP, h.BaseURL, spec.Repo)
		if err != nil {
			return handlers.Result{}, err
		}
		tag = latest
	}
	vars := NewVars(tag, step.Name, env.Platform)

	asset := vars.Expand(spec.Asset)
	url := asset
	if !strings.Contains(asset, "://") {
		url = fmt.Sprintf("%s/%s/releases/download/%s/%s", h.BaseURL, spec.Repo, tag, asset)
	}
	logger.Info().Str("tag", tag).Str("url", url).Msg("Downloading release asset")

	downloads := filepath.Join(env.Paths.DownloadDir(), strings.ReplaceAll(spec.Repo, "/", "_"), tag)
	archive := filepath.Join(downloads, filepath.Base(asset))
	if err := env.HTTP.Download(ctx, url, archive); err != nil {
		return handlers.Result{}, err
	}

	if spec.Checksum != "" {
		if err := hashutil.Verify(archive, vars.Expand(spec.Checksum)); err != nil {
			_ = os.Remove(archive)
			return handlers.Result{}, errors.Wrapf(err, errors.ErrChecksum, "%s failed verification", filepath.Base(asset))
		}
	}

	staging, err := os.MkdirTemp(downloads, "staging-")
	if err != nil {
		return handlers.Result{}, errors.Wrapf(err, errors.ErrDirCreate, "failed to create staging directory")
	}
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	if err := Extract(archive, staging); err != nil {
		return handlers.Result{}, err
	}
	root := stripSingleDir(staging)

	// single-file assets are the binary itself, whatever the bin entry says
	kind := KindOf(asset)
	single := ""
	switch kind {
	case KindRaw:
		single = filepath.Base(asset)
	case KindGzip:
		single = strings.TrimSuffix(filepath.Base(asset), filepath.Ext(asset))
	}

	p, err := h.plan(env, step, root, single)
	if err != nil {
		return handlers.Result{}, err
	}
	if err := p.apply(ctx, step.Key); err != nil {
		return handlers.Result{}, err
	}

	return handlers.Result{Version: tag, Files: p.targets()}, nil
}

// plan decides where every file goes
func (h *Handler) plan(env *handlers.Env, step plan.Step, root, single string) (*placement, error) {
	p := &placement{}
	binDir := env.Paths.BinDir()

	if dest := step.Spec.Dest; dest != "" {
		destDir := env.Paths.Expand(dest)
		bins := binaries(step)
		for _, b := range bins {
			if b.path == "" {
				continue
			}
			if _, err := os.Stat(filepath.Join(root, b.path)); err != nil {
				return nil, errors.Newf(errors.ErrExtract, "release has no %s", b.path).WithDetail("bin", b.path)
			}
		}

		// the new tree is written beside the old one and swapped in last
		if err := p.addTree(root, destDir); err != nil {
			return nil, errors.Wrapf(err, errors.ErrExtract, "failed to read unpacked release")
		}
		for _, b := range bins {
			if b.path != "" {
				p.addLink(filepath.Join(destDir, b.path), filepath.Join(binDir, b.name))
			}
		}
		return p, nil
	}

	for _, b := range binaries(step) {
		var source string
		if single != "" {
			source = filepath.Join(root, single)
		} else {
			found, err := find(root, b.path)
			if err != nil {
				return nil, err
			}
			source = found
		}
		p.addFile(source, filepath.Join(binDir, b.name), 0755)
	}
	return p, nil
}

// binary is one "bin" entry: the path inside the release and the installed name
type binary struct {
	path string
	name string
}

func binaries(step plan.Step) []binary {
	entries := step.Spec.Bin
	if len(entries) == 0 {
		if step.Spec.Dest != "" {
			return nil
		}
		entries = []string{step.Name}
	}

	out := make([]binary, 0, len(entries))
	for _, e := range entries {
		src, name, renamed := strings.Cut(e, ":")
		if !renamed {
			name = filepath.Base(src)
		}
		out = append(out, binary{path: filepath.FromSlash(src), name: name})
	}
	return out
}

// find locates a binary by relative path, then by base name anywhere in root
func find(root, rel string) (string, error) {
	direct := filepath.Join(root, rel)
	if info, err := os.Stat(direct); err == nil && !info.IsDir() {
		return direct, nil
	}

	base := filepath.Base(rel)
	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != "" {
			return nil
		}
		if !d.IsDir() && d.Name() == base {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if found == "" {
		return "", errors.Newf(errors.ErrExtract, "release has no binary named %s", base).WithDetail("bin", rel)
	}
	return found, nil
}

// stripSingleDir descends into the archive's only top-level directory
func stripSingleDir(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return dir
	}
	return filepath.Join(dir, entries[0].Name())
}

func pinned(step plan.Step) bool {
	return step.Spec.Version != "" && step.Spec.Version != Latest
}

func versionLabel(v string) string {
	if v == "" {
		return Latest
	}
	return v
}

var _ handlers.Handler = (*Handler)(nil)
