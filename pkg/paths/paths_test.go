package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvConfigDir, filepath.Join(home, "cfg"))
	t.Setenv(EnvCacheDir, filepath.Join(home, "cache"))
	t.Setenv(EnvStateDir, filepath.Join(home, "state"))
	return home
}

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		dotfilesRoot string
		env          map[string]string
		want         func(home string) string
		fallback     bool
	}{
		{
			name:         "explicit root",
			dotfilesRoot: "/tmp/dotfiles",
			want:         func(string) string { return "/tmp/dotfiles" },
		},
		{
			name:         "tilde root",
			dotfilesRoot: "~/my-dotfiles",
			want:         func(home string) string { return filepath.Join(home, "my-dotfiles") },
		},
		{
			name: "from DOTFILES_ROOT",
			env:  map[string]string{EnvDotfilesRoot: "/env/dotfiles"},
			want: func(string) string { return "/env/dotfiles" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := setupHome(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			p, err := New(tt.dotfilesRoot)
			require.NoError(t, err)
			assert.Equal(t, tt.want(home), p.DotfilesRoot())
			assert.Equal(t, tt.fallback, p.UsedFallback())
		})
	}
}

func TestNewDetectsRoot(t *testing.T) {
	setupHome(t)
	t.Setenv(EnvDotfilesRoot, "")

	p, err := New("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p.DotfilesRoot()))
}

func TestDirectories(t *testing.T) {
	home := setupHome(t)

	p, err := New("/dots")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "cfg"), p.ConfigDir())
	assert.Equal(t, filepath.Join(home, "cfg", ConfigFileName), p.ConfigFile())
	assert.Equal(t, filepath.Join(home, "cache", DownloadsDir), p.DownloadDir())
	assert.Equal(t, filepath.Join(home, "state", InstalledDir), p.InstalledDir())
	assert.Equal(t, filepath.Join(home, "state", LogFileName), p.LogFilePath())
	assert.Equal(t, filepath.Join(home, ".local", "opt"), p.OptDir())
	assert.Equal(t, filepath.Join(home, DefaultProfileFile), p.ProfileFile())
	assert.Equal(t, home, p.HomeDir())
	assert.NotEmpty(t, p.BinDir())
}

func TestOptions(t *testing.T) {
	home := setupHome(t)

	p, err := NewWithOptions("/dots", Options{
		BinDir:      "~/bin",
		OptDir:      "apps",
		ProfileFile: "/etc/dotinstall-profile",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "bin"), p.BinDir())
	assert.Equal(t, filepath.Join(home, "apps"), p.OptDir())
	assert.Equal(t, "/etc/dotinstall-profile", p.ProfileFile())
}

func TestManifestPath(t *testing.T) {
	setupHome(t)
	root := t.TempDir()

	p, err := New(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "packages.yaml"), p.ManifestPath())

	require.NoError(t, os.MkdirAll(filepath.Join(root, "install"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "install", "packages.toml"), nil, 0644))
	assert.Equal(t, filepath.Join(root, "install", "packages.toml"), p.ManifestPath())

	require.NoError(t, os.WriteFile(filepath.Join(root, "packages.yml"), nil, 0644))
	assert.Equal(t, filepath.Join(root, "packages.yml"), p.ManifestPath())
}

func TestExpand(t *testing.T) {
	home := setupHome(t)
	t.Setenv("TOOLS", "/opt/tools")

	p, err := New("/dots")
	require.NoError(t, err)

	assert.Equal(t, "", p.Expand(""))
	assert.Equal(t, home, p.Expand("~"))
	assert.Equal(t, filepath.Join(home, ".tmux/plugins/tpm"), p.Expand("~/.tmux/plugins/tpm"))
	assert.Equal(t, "/opt/tools/nvim", p.Expand("$TOOLS/nvim"))
	assert.Equal(t, filepath.Join(home, ".oh-my-zsh"), p.Expand(".oh-my-zsh"))
	assert.Equal(t, "~bob/x", ExpandHome("~bob/x"))
}
