package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotinstall/pkg/config"
	"github.com/arthur-debert/dotinstall/pkg/datastore"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/handlers/builtin"
	"github.com/arthur-debert/dotinstall/pkg/handlers/custom"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/manifest"
	"github.com/arthur-debert/dotinstall/pkg/paths"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/platform"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/style"
	"github.com/arthur-debert/dotinstall/pkg/tags"
	"github.com/spf13/cobra"
)

// Deps are the outside world a run talks to. Nil fields get the real thing.
type Deps struct {
	Runner runner.Runner
	HTTP   *handlers.Client
	Store  datastore.DataStore
	Custom *custom.Handler

	// Detect replaces platform detection
	Detect func() (platform.Platform, error)

	Stdout io.Writer
	Stderr io.Writer
}

// options are the values bound to command-line flags
type options struct {
	verbosity   int
	configFile  string
	manifest    string
	platform    string
	profile     string
	exclude     string
	color       string
	dryRun      bool
	force       bool
	saveProfile bool
}

type app struct {
	deps Deps
	opts options

	// failed is set when a run finished but some package failed
	failed bool
}

// session is what a command works with once configuration is resolved
type session struct {
	cfg      *config.Config
	paths    paths.Paths
	platform platform.Platform
	manifest *manifest.Manifest
	env      *handlers.Env
}

func (s *session) planOptions(only []string) plan.Options {
	return plan.Options{
		Platform: s.platform,
		Selector: tags.NewSelector(s.cfg.Profile, s.cfg.Exclude),
		Only:     only,
	}
}

func (a *app) logOutput() io.Writer {
	if a.deps.Stderr != nil {
		return a.deps.Stderr
	}
	return os.Stderr
}

// flagValues returns the flags given on the command line, keyed like the
// configuration. Flags left at their default do not override anything.
func (a *app) flagValues(cmd *cobra.Command) map[string]interface{} {
	values := map[string]interface{}{}
	set := func(name, key string, v interface{}) {
		if cmd.Flags().Changed(name) {
			values[key] = v
		}
	}
	set("manifest", "manifest", a.opts.manifest)
	set("platform", "platform", a.opts.platform)
	set("profile", "profile", a.opts.profile)
	set("exclude", "exclude", a.opts.exclude)
	set("color", "output.color", a.opts.color)
	set("verbose", "verbosity", a.opts.verbosity)
	set("dry-run", "dry_run", a.opts.dryRun)
	set("force", "force", a.opts.force)
	return values
}

// setup resolves configuration, platform and manifest and wires the
// install environment
func (a *app) setup(cmd *cobra.Command) (*session, error) {
	logger := logging.GetLogger("cli")

	base, err := paths.New("")
	if err != nil {
		return nil, err
	}
	if base.UsedFallback() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, base.DotfilesRoot())
	}

	configFile := base.ConfigFile()
	if a.opts.configFile != "" {
		configFile = paths.ExpandHome(a.opts.configFile)
	} else if _, err := os.Stat(configFile); err != nil {
		if alt := filepath.Join(base.ConfigDir(), "config.yaml"); fileExists(alt) {
			configFile = alt
		}
	}
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile:  configFile,
		ProfileFile: base.ProfileFile(),
		Flags:       a.flagValues(cmd),
	})
	if err != nil {
		return nil, err
	}
	if cfg.Verbosity != a.opts.verbosity {
		logging.SetupLoggerWithOutput(cfg.Verbosity, a.logOutput())
	}

	out, _ := cmd.OutOrStdout().(*os.File)
	style.Setup(cfg.Output.Color, out)

	p, err := paths.NewWithOptions(base.DotfilesRoot(), paths.Options{
		BinDir:      cfg.Paths.BinDir,
		OptDir:      cfg.Paths.OptDir,
		ProfileFile: cfg.Paths.ProfileFile,
	})
	if err != nil {
		return nil, err
	}

	plat, err := a.resolvePlatform(cfg.Platform)
	if err != nil {
		return nil, err
	}

	manifestPath := p.ManifestPath()
	if cfg.Manifest != "" {
		manifestPath, err = filepath.Abs(paths.ExpandHome(cfg.Manifest))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrManifestLoad, "invalid manifest path")
		}
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("manifest", manifestPath).
		Str("platform", plat.String()).
		Str("dotfilesRoot", p.DotfilesRoot()).
		Msg("Session ready")

	return &session{
		cfg:      cfg,
		paths:    p,
		platform: plat,
		manifest: m,
		env:      a.env(cmd, cfg, p, plat),
	}, nil
}

func (a *app) resolvePlatform(name string) (platform.Platform, error) {
	if name != "" {
		return platform.Parse(name)
	}
	if a.deps.Detect != nil {
		return a.deps.Detect()
	}
	return platform.Detect()
}

func (a *app) env(cmd *cobra.Command, cfg *config.Config, p paths.Paths, plat platform.Platform) *handlers.Env {
	run := a.deps.Runner
	if run == nil {
		r := runner.NewExecRunner(cfg.Sudo.Command)
		r.Stdout = cmd.OutOrStdout()
		r.Stderr = cmd.ErrOrStderr()
		run = r
	}
	client := a.deps.HTTP
	if client == nil {
		client = handlers.NewClient(cfg.Download.Timeout)
	}
	store := a.deps.Store
	if store == nil {
		store = datastore.New(p.InstalledDir())
	}

	return &handlers.Env{
		Runner:   run,
		Paths:    p,
		HTTP:     client,
		Platform: plat,
		Store:    store,
		Handlers: a.registry(cfg),
		Out:      cmd.OutOrStdout(),
	}
}

func (a *app) registry(cfg *config.Config) *handlers.Registry {
	opts := builtin.Options{Custom: a.deps.Custom}
	if cfg != nil {
		opts.GitHubURL = cfg.Download.GitHubURL
		opts.GitHost = cfg.Git.Host
	}
	return builtin.NewRegistry(opts)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
