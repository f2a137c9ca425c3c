package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Install the packages your dotfiles need"
	MsgVersionShort = "Print version information"
	MsgVersionLong  = "Print detailed version information including commit hash and build date"
	MsgListShort    = "Show what would be installed on this platform"
	MsgStatusShort  = "Show which packages are installed"
	MsgConfigShort  = "Print the default configuration"
	MsgMethodsShort = "List installation methods"

	// Status messages
	MsgProfileSaved = "Saved profile to %s\n"
	MsgLogHint      = "Full command output is in %s\n"

	// Version output
	MsgVersionFormat = "dotinstall version %s\n"
	MsgCommitFormat  = "  commit: %s\n"
	MsgBuiltFormat   = "  built:  %s\n"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun      = "Show what would be installed without changing anything"
	MsgFlagForce       = "Reinstall packages that are already present"
	MsgFlagProfile     = "Tags to install, comma or space separated"
	MsgFlagExclude     = "Tags or packages to leave out"
	MsgFlagManifest    = "Manifest file (default: packages.yaml in the dotfiles root)"
	MsgFlagPlatform    = "Install for this platform instead of the detected one"
	MsgFlagSaveProfile = "Write --profile and --exclude to the profile file"
	MsgFlagConfig      = "Config file (default: $XDG_CONFIG_HOME/dotinstall/config.toml)"
	MsgFlagColor       = "Colour output: auto, always or never"

	// Warnings
	MsgFallbackWarning = "Warning: not in a git repository and DOTFILES_ROOT not set, using %s\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/list-long.txt
	msgListLongRaw string
	MsgListLong    = strings.TrimSpace(msgListLongRaw)

	//go:embed msgs/list-example.txt
	msgListExampleRaw string
	MsgListExample    = strings.TrimRight(msgListExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)
)
