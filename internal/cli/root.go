package cli

import (
	"context"
	"embed"
	"fmt"
	"os"

	"github.com/arthur-debert/dotinstall/internal/version"
	"github.com/arthur-debert/dotinstall/pkg/cobrax/topics"
	"github.com/arthur-debert/dotinstall/pkg/config"
	"github.com/arthur-debert/dotinstall/pkg/core"
	"github.com/arthur-debert/dotinstall/pkg/display"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed help/*.md
var helpFS embed.FS

// Run executes the command line and returns the process exit status:
// 0 when every selected package is installed or skipped, 1 otherwise
func Run(ctx context.Context, args []string, deps Deps) int {
	a := &app{deps: deps}
	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	if deps.Stdout != nil {
		rootCmd.SetOut(deps.Stdout)
	}
	if deps.Stderr != nil {
		rootCmd.SetErr(deps.Stderr)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Debug().Err(err).Msg("Command failed")
		display.New(rootCmd.ErrOrStderr()).Error(err)
		return 1
	}
	if a.failed {
		return 1
	}
	return 0
}

// NewRootCmd creates the command tree without running it, for completion
// and man page generation
func NewRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dotinstall [packages...]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerWithOutput(a.opts.verbosity, a.logOutput())
			log.Debug().Str("command", cmd.Name()).Strs("args", args).Msg("Command started")
		},
		RunE:          a.runInstall,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&a.opts.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&a.opts.configFile, "config", "", MsgFlagConfig)
	pf.StringVarP(&a.opts.manifest, "manifest", "m", "", MsgFlagManifest)
	pf.StringVar(&a.opts.platform, "platform", "", MsgFlagPlatform)
	pf.StringVarP(&a.opts.profile, "profile", "p", "", MsgFlagProfile)
	pf.StringVarP(&a.opts.exclude, "exclude", "x", "", MsgFlagExclude)
	pf.StringVar(&a.opts.color, "color", config.ColorAuto, MsgFlagColor)

	f := rootCmd.Flags()
	f.BoolVarP(&a.opts.dryRun, "dry-run", "n", false, MsgFlagDryRun)
	f.BoolVarP(&a.opts.force, "force", "f", false, MsgFlagForce)
	f.BoolVar(&a.opts.saveProfile, "save-profile", false, MsgFlagSaveProfile)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(a.newListCmd())
	rootCmd.AddCommand(a.newStatusCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(a.newMethodsCmd())

	initTemplateFormatting(rootCmd)

	renderer := topics.NewPlainMarkdownRenderer()
	if isTerminal() && os.Getenv("NO_COLOR") == "" {
		renderer = topics.NewMarkdownRenderer()
	}
	if err := topics.InitializeWithOptions(rootCmd, helpFS, "help", topics.Options{
		Extensions: []string{".md"},
		Renderer:   renderer,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: help topics unavailable: %v\n", err)
	}

	return rootCmd
}

// runInstall installs the selected packages, reporting each as it finishes
func (a *app) runInstall(cmd *cobra.Command, args []string) error {
	s, err := a.setup(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	r := display.New(out)

	if a.opts.saveProfile && !s.cfg.DryRun {
		if err := config.SaveProfile(s.cfg.Paths.ProfileFile, s.cfg.Profile, s.cfg.Exclude); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, MsgProfileSaved, s.cfg.Paths.ProfileFile)
	}

	summary, err := core.Install(cmd.Context(), core.InstallOptions{
		Manifest: s.manifest,
		Plan:     s.planOptions(args),
		Env:      s.env,
		DryRun:   s.cfg.DryRun,
		Force:    s.cfg.Force,
		OnPlan: func(p *plan.Plan) {
			r.Header(p, s.cfg.DryRun)
		},
		OnStart:  r.Start,
		OnResult: r.Result,
	})
	if summary != nil {
		r.Summary(summary)
	}
	if err != nil {
		return err
	}

	if !summary.OK() {
		a.failed = true
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), MsgLogHint, logging.LogFilePath())
	}
	return nil
}
