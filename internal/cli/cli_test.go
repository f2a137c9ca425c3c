package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/dotinstall/pkg/config"
	"github.com/arthur-debert/dotinstall/pkg/platform"
	"github.com/arthur-debert/dotinstall/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
zsh:
  tags: [base]
ripgrep:
  tags: [dev]
broken:
  tags: [dev]
  method: command
  run: exit 1
mas:
  skip: true
`

type harness struct {
	te     *testutil.TestEnvironment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, manifest string) *harness {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	// Cleanup for variables the profile file may export
	for _, name := range []string{config.EnvInstallProfile, config.EnvInstallExclude} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	te := testutil.NewTestEnvironment(t, "fedora")
	t.Setenv("XDG_STATE_HOME", filepath.Join(te.HomeDir, ".local", "state"))
	te.Runner.OnlyTools("dnf", "rpm", "sh")
	te.Runner.Fail("sh -c 'exit 1'")
	if manifest != "" {
		te.WriteManifest(manifest)
	}
	return &harness{te: te, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	h.te.Runner.Reset()
	return Run(context.Background(), args, Deps{
		Runner: h.te.Runner,
		Store:  h.te.DataStore,
		Detect: func() (platform.Platform, error) { return h.te.Platform, nil },
		Stdout: h.stdout,
		Stderr: h.stderr,
	})
}

func TestInstallReportsFailuresAndExitsNonZero(t *testing.T) {
	h := newHarness(t, testManifest)

	code := h.run()
	assert.Equal(t, 1, code)

	out := h.stdout.String()
	assert.Contains(t, out, "Installing for fedora")
	assert.Contains(t, out, "zsh installed")
	assert.Contains(t, out, "ripgrep installed")
	assert.Contains(t, out, "broken failed")
	assert.Contains(t, out, "mas skipped")
	assert.Contains(t, out, "1 package(s) failed")
	assert.Contains(t, h.stderr.String(), "dotinstall.log")

	assert.Contains(t, h.te.Runner.Mutating(), "dnf install -y zsh")
	assert.Contains(t, h.te.Runner.Mutating(), "dnf install -y ripgrep")
}

func TestInstallSucceedsWithProfile(t *testing.T) {
	h := newHarness(t, testManifest)

	code := h.run("--profile", "base")
	assert.Equal(t, 0, code, h.stderr.String())
	assert.Contains(t, h.stdout.String(), "zsh installed")
	assert.NotContains(t, h.stdout.String(), "ripgrep")
	assert.NotContains(t, h.stdout.String(), "broken")
}

func TestInstallNamedPackages(t *testing.T) {
	h := newHarness(t, testManifest)

	code := h.run("--profile", "base", "ripgrep")
	assert.Equal(t, 0, code)
	assert.Contains(t, h.stdout.String(), "ripgrep installed")
	assert.NotContains(t, h.stdout.String(), "zsh installed")
}

func TestDryRunChangesNothing(t *testing.T) {
	h := newHarness(t, testManifest)

	code := h.run("--dry-run", "--exclude", "broken")
	assert.Equal(t, 0, code, h.stdout.String())
	assert.Contains(t, h.stdout.String(), "[dry run]")
	assert.Contains(t, h.stdout.String(), "would run:")
	assert.Contains(t, h.stdout.String(), "zsh planned")
	assert.Empty(t, h.te.Runner.Mutating())

	recs, err := h.te.DataStore.List()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestProfileFileIsSourced(t *testing.T) {
	h := newHarness(t, testManifest)
	testutil.CreateFile(t, h.te.HomeDir, ".install-profile", "export INSTALL_PROFILE=dev\nexport INSTALL_EXCLUDE=broken\n")

	code := h.run("list")
	assert.Equal(t, 0, code, h.stderr.String())
	rows := tableRows(h.stdout.String())
	assert.Contains(t, rows, "ripgrep")
	assert.NotContains(t, rows, "zsh")
	assert.NotContains(t, rows, "broken")
	assert.Contains(t, h.stdout.String(), "not in profile")
}

// tableRows drops the trailing "not in profile" note from list output
func tableRows(out string) string {
	var keep []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "not in profile") {
			keep = append(keep, line)
		}
	}
	return strings.Join(keep, "\n")
}

func TestSaveProfile(t *testing.T) {
	h := newHarness(t, testManifest)

	code := h.run("--profile", "base", "--exclude", "gui", "--save-profile")
	assert.Equal(t, 0, code, h.stderr.String())

	path := filepath.Join(h.te.HomeDir, ".install-profile")
	assert.Contains(t, h.stdout.String(), "Saved profile to "+path)

	vars, err := config.ReadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "base", vars[config.EnvInstallProfile])
	assert.Equal(t, "gui", vars[config.EnvInstallExclude])
}

func TestSaveProfileSkippedInDryRun(t *testing.T) {
	h := newHarness(t, testManifest)

	code := h.run("--profile", "base", "--save-profile", "--dry-run")
	assert.Equal(t, 0, code)
	assert.False(t, testutil.FileExists(filepath.Join(h.te.HomeDir, ".install-profile")))
}

func TestListShowsPlan(t *testing.T) {
	h := newHarness(t, testManifest)

	code := h.run("list", "--profile", "dev", "--platform", "macos")
	assert.Equal(t, 0, code, h.stderr.String())

	out := h.stdout.String()
	assert.Contains(t, out, "ripgrep")
	assert.Contains(t, out, "brew")
	assert.Contains(t, out, "not in profile")
	assert.Empty(t, h.te.Runner.Commands())
}

func TestStatus(t *testing.T) {
	h := newHarness(t, testManifest)
	h.te.Runner.Succeed("rpm -q --whatprovides zsh")

	code := h.run("status", "zsh", "ripgrep")
	assert.Equal(t, 0, code, h.stderr.String())

	var zshLine, rgLine string
	for _, line := range strings.Split(h.stdout.String(), "\n") {
		switch {
		case strings.Contains(line, "zsh"):
			zshLine = line
		case strings.Contains(line, "ripgrep"):
			rgLine = line
		}
	}
	assert.Contains(t, zshLine, "installed")
	assert.Contains(t, rgLine, "missing")
	assert.Empty(t, h.te.Runner.Mutating())
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		args     []string
		want     string
	}{
		{
			name:     "unknown package",
			manifest: testManifest,
			args:     []string{"nope"},
			want:     "nope",
		},
		{
			name:     "invalid manifest",
			manifest: "tool:\n  method: github\n",
			want:     "repo",
		},
		{
			name: "missing manifest",
			want: "packages.yaml",
		},
		{
			name:     "unknown platform",
			manifest: testManifest,
			args:     []string{"--platform", "linux"},
			want:     "not a distribution",
		},
		{
			name:     "bad colour mode",
			manifest: testManifest,
			args:     []string{"--color", "sometimes"},
			want:     "output.color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.manifest)
			code := h.run(tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, h.stderr.String(), "Error:")
			assert.Contains(t, h.stderr.String(), tt.want)
			assert.Empty(t, h.te.Runner.Mutating())
		})
	}
}

func TestInfoCommands(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{args: []string{"version"}, want: []string{"dotinstall version"}},
		{args: []string{"config"}, want: []string{"# bin_dir", "[paths]"}},
		{args: []string{"methods"}, want: []string{"github", "pacman", "Custom installers: oh-my-zsh, rustup, tpm"}},
		{args: []string{"help", "manifest"}, want: []string{"Platform sub-records"}},
		{args: []string{"help", "topics"}, want: []string{"profiles"}},
		{args: []string{"completion", "bash"}, want: []string{"dotinstall"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			h := newHarness(t, "")
			code := h.run(tt.args...)
			assert.Equal(t, 0, code, h.stderr.String())
			for _, want := range tt.want {
				assert.Contains(t, h.stdout.String(), want)
			}
		})
	}
}
