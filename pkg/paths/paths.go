package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
)

// Environment variable names
const (
	// EnvDotfilesRoot is the primary environment variable for dotfiles location
	EnvDotfilesRoot = "DOTFILES_ROOT"

	// EnvConfigDir overrides the XDG config directory for dotinstall
	EnvConfigDir = "DOTINSTALL_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for dotinstall
	EnvCacheDir = "DOTINSTALL_CACHE_DIR"

	// EnvStateDir overrides the XDG state directory for dotinstall
	EnvStateDir = "DOTINSTALL_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names inside the dotinstall directories
const (
	// AppDirName is the directory name used under every XDG base
	AppDirName = "dotinstall"

	// ConfigFileName is the user configuration file
	ConfigFileName = "config.toml"

	// DownloadsDir is the cache subdirectory for assets and scripts
	DownloadsDir = "downloads"

	// InstalledDir is the state subdirectory holding install records
	InstalledDir = "installed"

	// LogFileName is the name of the log file
	LogFileName = "dotinstall.log"

	// DefaultProfileFile is the profile file, relative to the home directory
	DefaultProfileFile = ".install-profile"
)

// ManifestNames are searched in the dotfiles root, in order
var ManifestNames = []string{
	"packages.yaml",
	"packages.yml",
	"packages.toml",
	filepath.Join("install", "packages.yaml"),
	filepath.Join("install", "packages.toml"),
}

// Paths provides centralized path management for dotinstall
type Paths interface {
	DotfilesRoot() string
	UsedFallback() bool
	ManifestPath() string
	ConfigDir() string
	ConfigFile() string
	CacheDir() string
	DownloadDir() string
	StateDir() string
	InstalledDir() string
	LogFilePath() string
	BinDir() string
	OptDir() string
	ProfileFile() string
	HomeDir() string
	Expand(path string) string
}

// Options overrides locations that come from configuration
type Options struct {
	BinDir      string
	OptDir      string
	ProfileFile string
}

type paths struct {
	dotfilesRoot string
	usedFallback bool

	home      string
	xdgConfig string
	xdgCache  string
	xdgState  string

	binDir      string
	optDir      string
	profileFile string
}

// New creates a Paths instance. If dotfilesRoot is empty it is taken from
// DOTFILES_ROOT, the enclosing git repository or the working directory.
func New(dotfilesRoot string) (Paths, error) {
	return NewWithOptions(dotfilesRoot, Options{})
}

// NewWithOptions is New with configured bin, opt and profile locations
func NewWithOptions(dotfilesRoot string, opts Options) (Paths, error) {
	home, err := GetHomeDirectory()
	if err != nil {
		return nil, err
	}
	p := &paths{home: home}

	if dotfilesRoot == "" {
		root, usedFallback, err := findDotfilesRoot()
		if err != nil {
			return nil, err
		}
		p.dotfilesRoot = root
		p.usedFallback = usedFallback
	} else {
		p.dotfilesRoot = ExpandHome(dotfilesRoot)
	}

	absRoot, err := filepath.Abs(p.dotfilesRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for dotfiles root")
	}
	p.dotfilesRoot = absRoot

	p.setupXDGDirs()

	p.binDir = p.orDefault(opts.BinDir, xdg.BinHome)
	p.optDir = p.orDefault(opts.OptDir, filepath.Join(home, ".local", "opt"))
	p.profileFile = p.orDefault(opts.ProfileFile, filepath.Join(home, DefaultProfileFile))

	return p, nil
}

func (p *paths) setupXDGDirs() {
	p.xdgConfig = p.fromEnv(EnvConfigDir, filepath.Join(xdg.ConfigHome, AppDirName))
	p.xdgCache = p.fromEnv(EnvCacheDir, filepath.Join(xdg.CacheHome, AppDirName))

	// xdg resolves StateHome once at start-up; honour a later XDG_STATE_HOME
	stateHome := xdg.StateHome
	if env := os.Getenv("XDG_STATE_HOME"); env != "" {
		stateHome = env
	}
	p.xdgState = p.fromEnv(EnvStateDir, filepath.Join(stateHome, AppDirName))
}

func (p *paths) fromEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return p.Expand(v)
	}
	return fallback
}

func (p *paths) orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return p.Expand(v)
}

// findDotfilesRoot determines the dotfiles root using the following priority:
// 1. DOTFILES_ROOT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
func findDotfilesRoot() (string, bool, error) {
	logger := logging.GetLogger("paths")

	if root := os.Getenv(EnvDotfilesRoot); root != "" {
		return expandHome(root), false, nil
	}

	gitRoot, err := findGitRoot()
	if err == nil && gitRoot != "" {
		logger.Debug().Str("root", gitRoot).Msg("Using git root as dotfiles root")
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}
	logger.Debug().Str("root", cwd).Msg("Falling back to working directory")

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// ExpandHome expands ~ and environment variables in a path
func ExpandHome(path string) string {
	return expandHome(os.ExpandEnv(path))
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// DotfilesRoot returns the root directory for dotfiles
func (p *paths) DotfilesRoot() string {
	return p.dotfilesRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// ManifestPath returns the first existing manifest in the dotfiles root,
// or the default packages.yaml location when none exists
func (p *paths) ManifestPath() string {
	for _, name := range ManifestNames {
		candidate := filepath.Join(p.dotfilesRoot, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(p.dotfilesRoot, ManifestNames[0])
}

// ConfigDir returns the XDG config directory for dotinstall
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// ConfigFile returns the user configuration file
func (p *paths) ConfigFile() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// CacheDir returns the XDG cache directory for dotinstall
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// DownloadDir returns where release assets and installer scripts are kept
func (p *paths) DownloadDir() string {
	return filepath.Join(p.xdgCache, DownloadsDir)
}

// StateDir returns the XDG state directory for dotinstall
func (p *paths) StateDir() string {
	return p.xdgState
}

// InstalledDir returns the directory holding install records
func (p *paths) InstalledDir() string {
	return filepath.Join(p.xdgState, InstalledDir)
}

// LogFilePath returns the path to the dotinstall log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// BinDir returns where release binaries are installed
func (p *paths) BinDir() string {
	return p.binDir
}

// OptDir returns where whole release trees are unpacked
func (p *paths) OptDir() string {
	return p.optDir
}

// ProfileFile returns the sourced profile file
func (p *paths) ProfileFile() string {
	return p.profileFile
}

// HomeDir returns the user's home directory
func (p *paths) HomeDir() string {
	return p.home
}

// Expand resolves ~, environment variables and relative paths. Relative
// paths are taken from the home directory.
func (p *paths) Expand(path string) string {
	if path == "" {
		return path
	}
	expanded := ExpandHome(path)
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(p.home, expanded)
	}
	return filepath.Clean(expanded)
}
