package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears variables that would leak into Load from the host
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{EnvInstallProfile, EnvInstallExclude} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	return home
}

func write(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(LoadOptions{ConfigFile: filepath.Join(home, "missing.toml")})
	require.NoError(t, err)

	assert.Empty(t, cfg.Profile)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, "~/.local/bin", cfg.Paths.BinDir)
	assert.Equal(t, filepath.Join(home, ".install-profile"), cfg.Paths.ProfileFile)
	assert.Equal(t, "sudo", cfg.Sudo.Command)
	assert.Equal(t, 10*time.Minute, cfg.Download.Timeout)
	assert.Equal(t, "https://github.com", cfg.Download.GitHubURL)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
	assert.False(t, cfg.DryRun)
}

func TestLoadPrecedence(t *testing.T) {
	home := isolate(t)

	configFile := write(t, filepath.Join(home, ".config", "dotinstall", "config.toml"), `
profile = ["desktop"]
platform = "ubuntu"

[paths]
bin_dir = "~/bin"

[sudo]
command = "doas"
`)

	t.Run("config file over defaults", func(t *testing.T) {
		cfg, err := Load(LoadOptions{ConfigFile: configFile})
		require.NoError(t, err)
		assert.Equal(t, []string{"desktop"}, cfg.Profile)
		assert.Equal(t, "ubuntu", cfg.Platform)
		assert.Equal(t, "~/bin", cfg.Paths.BinDir)
		assert.Equal(t, "doas", cfg.Sudo.Command)
	})

	t.Run("profile variables over config file", func(t *testing.T) {
		t.Setenv(EnvInstallProfile, "base dev")
		t.Setenv(EnvInstallExclude, "GUI,fonts")
		cfg, err := Load(LoadOptions{ConfigFile: configFile})
		require.NoError(t, err)
		assert.Equal(t, []string{"base", "dev"}, cfg.Profile)
		assert.Equal(t, []string{"gui", "fonts"}, cfg.Exclude)
	})

	t.Run("DOTINSTALL variables over profile variables", func(t *testing.T) {
		t.Setenv(EnvInstallProfile, "base")
		t.Setenv("DOTINSTALL_PROFILE", "server")
		t.Setenv("DOTINSTALL_PATHS__BIN_DIR", "/opt/bin")
		t.Setenv("DOTINSTALL_DOWNLOAD__TIMEOUT", "30s")
		cfg, err := Load(LoadOptions{ConfigFile: configFile})
		require.NoError(t, err)
		assert.Equal(t, []string{"server"}, cfg.Profile)
		assert.Equal(t, "/opt/bin", cfg.Paths.BinDir)
		assert.Equal(t, 30*time.Second, cfg.Download.Timeout)
	})

	t.Run("flags over everything", func(t *testing.T) {
		t.Setenv("DOTINSTALL_PROFILE", "server")
		cfg, err := Load(LoadOptions{
			ConfigFile: configFile,
			Flags: map[string]interface{}{
				"profile":  "laptop,dev",
				"dry_run":  true,
				"platform": "fedora",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"laptop", "dev"}, cfg.Profile)
		assert.True(t, cfg.DryRun)
		assert.Equal(t, "fedora", cfg.Platform)
	})
}

func TestLoadYAMLConfig(t *testing.T) {
	home := isolate(t)

	configFile := write(t, filepath.Join(home, ".config", "dotinstall", "config.yaml"), `
profile: [laptop, dev]
paths:
  opt_dir: ~/opt
download:
  timeout: 30s
`)

	cfg, err := Load(LoadOptions{ConfigFile: configFile})
	require.NoError(t, err)
	assert.Equal(t, []string{"laptop", "dev"}, cfg.Profile)
	assert.Equal(t, "~/opt", cfg.Paths.OptDir)
	assert.Equal(t, 30*time.Second, cfg.Download.Timeout)
	assert.Equal(t, "~/.local/bin", cfg.Paths.BinDir)
}

func TestLoadSourcesProfileFile(t *testing.T) {
	home := isolate(t)
	t.Setenv("EDITOR_FROM_PROFILE", "")
	require.NoError(t, os.Unsetenv("EDITOR_FROM_PROFILE"))

	profile := write(t, filepath.Join(home, ".install-profile"), `
# machine selection
export INSTALL_PROFILE="base,desktop"
INSTALL_EXCLUDE=games
EDITOR_FROM_PROFILE=nvim
`)
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvInstallProfile)
		_ = os.Unsetenv(EnvInstallExclude)
		_ = os.Unsetenv("EDITOR_FROM_PROFILE")
	})

	cfg, err := Load(LoadOptions{ProfileFile: profile})
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "desktop"}, cfg.Profile)
	assert.Equal(t, []string{"games"}, cfg.Exclude)
	assert.Equal(t, "nvim", os.Getenv("EDITOR_FROM_PROFILE"))
}

func TestLoadEnvironmentBeatsProfileFile(t *testing.T) {
	home := isolate(t)
	profile := write(t, filepath.Join(home, "profile"), "INSTALL_PROFILE=base\n")
	t.Setenv(EnvInstallProfile, "work")

	cfg, err := Load(LoadOptions{Flags: map[string]interface{}{"paths.profile_file": profile}})
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, cfg.Profile)
	assert.Equal(t, profile, cfg.Paths.ProfileFile)
}

func TestLoadErrors(t *testing.T) {
	home := isolate(t)

	broken := write(t, filepath.Join(home, "broken.toml"), "profile = [\n")
	_, err := Load(LoadOptions{ConfigFile: broken})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))

	_, err = Load(LoadOptions{Flags: map[string]interface{}{"output.color": "sometimes"}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()
	assert.Contains(t, content, "[paths]")
	assert.Contains(t, content, `# bin_dir = "~/.local/bin"`)
	assert.Contains(t, content, "# Where release binaries go")
	assert.NotContains(t, content, "\nmanifest =")
}
