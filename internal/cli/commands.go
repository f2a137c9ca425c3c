package cli

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/dotinstall/internal/version"
	"github.com/arthur-debert/dotinstall/pkg/config"
	"github.com/arthur-debert/dotinstall/pkg/core"
	"github.com/arthur-debert/dotinstall/pkg/display"
	"github.com/arthur-debert/dotinstall/pkg/handlers/custom"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `To load completions:

Bash:
  $ source <(dotinstall completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ dotinstall completion zsh > "${fpath[1]}/_dotinstall"

Fish:
  $ dotinstall completion fish > ~/.config/fish/completions/dotinstall.fish

PowerShell:
  PS> dotinstall completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [packages...]",
		Short:   MsgListShort,
		Long:    MsgListLong,
		Example: MsgListExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.setup(cmd)
			if err != nil {
				return err
			}
			p, err := plan.Build(s.manifest, s.planOptions(args))
			if err != nil {
				return err
			}
			log.Info().Int("steps", len(p.Steps)).Int("filtered", len(p.Filtered)).Msg("Listing plan")

			return display.New(cmd.OutOrStdout()).Plan(p)
		},
	}
}

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status [packages...]",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.setup(cmd)
			if err != nil {
				return err
			}
			statuses, err := core.Status(cmd.Context(), core.StatusOptions{
				Manifest: s.manifest,
				Plan:     s.planOptions(args),
				Env:      s.env,
			})
			if err != nil {
				return err
			}
			return display.New(cmd.OutOrStdout()).Status(statuses)
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), config.GenerateConfigContent())
		},
	}
}

func (a *app) newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: MsgMethodsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.registry(nil)
			descriptions := map[types.Method]string{}
			var customNames []string
			for _, m := range reg.Methods() {
				h, err := reg.Get(m)
				if err != nil {
					return err
				}
				descriptions[m] = h.Description()
				if c, ok := h.(*custom.Handler); ok {
					customNames = c.Names()
				}
			}

			out := cmd.OutOrStdout()
			if err := display.New(out).Methods(descriptions); err != nil {
				return err
			}
			if len(customNames) > 0 {
				_, _ = fmt.Fprintf(out, "Custom installers: %s\n", strings.Join(customNames, ", "))
			}
			return nil
		},
	}
}
