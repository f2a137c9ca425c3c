package config

import (
	"time"
)

// Config is the resolved configuration for one run
type Config struct {
	// Manifest overrides manifest discovery in the dotfiles root
	Manifest string `koanf:"manifest"`

	// Platform overrides detection ("fedora", "macos", ...)
	Platform string `koanf:"platform"`

	Profile []string `koanf:"profile"`
	Exclude []string `koanf:"exclude"`

	DryRun    bool `koanf:"dry_run"`
	Force     bool `koanf:"force"`
	Verbosity int  `koanf:"verbosity"`

	Paths    PathsConfig    `koanf:"paths"`
	Sudo     SudoConfig     `koanf:"sudo"`
	Download DownloadConfig `koanf:"download"`
	Git      GitConfig      `koanf:"git"`
	Output   OutputConfig   `koanf:"output"`
}

// PathsConfig holds install locations. "~" and environment variables are
// expanded by the paths package.
type PathsConfig struct {
	BinDir      string `koanf:"bin_dir"`
	OptDir      string `koanf:"opt_dir"`
	ProfileFile string `koanf:"profile_file"`
}

// SudoConfig controls privilege escalation
type SudoConfig struct {
	Command string `koanf:"command"`
}

// DownloadConfig tunes release and script downloads
type DownloadConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	GitHubURL string        `koanf:"github_url"`
}

// GitConfig tunes the git method
type GitConfig struct {
	Host string `koanf:"host"`
}

// OutputConfig controls terminal output
type OutputConfig struct {
	Color string `koanf:"color"`
}

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)
