package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotinstall/pkg/paths"
	"github.com/arthur-debert/dotinstall/pkg/platform"
)

// TestEnvironment is an isolated home with its own dotfiles root and XDG tree
type TestEnvironment struct {
	DotfilesRoot string
	HomeDir      string

	Paths     paths.Paths
	Runner    *FakeRunner
	DataStore *MemoryDataStore
	Platform  platform.Platform
	Out       *bytes.Buffer

	t *testing.T
}

// NewTestEnvironment creates the environment for platform id (e.g. "fedora")
func NewTestEnvironment(t *testing.T, platformID string) *TestEnvironment {
	t.Helper()

	tempDir := t.TempDir()
	env := &TestEnvironment{
		DotfilesRoot: filepath.Join(tempDir, "dotfiles"),
		HomeDir:      filepath.Join(tempDir, "home"),
		Runner:       NewFakeRunner(),
		DataStore:    NewMemoryDataStore(),
		Out:          &bytes.Buffer{},
		t:            t,
	}

	t.Setenv(paths.EnvHome, env.HomeDir)
	t.Setenv(paths.EnvDotfilesRoot, env.DotfilesRoot)
	t.Setenv(paths.EnvConfigDir, filepath.Join(env.HomeDir, ".config", "dotinstall"))
	t.Setenv(paths.EnvCacheDir, filepath.Join(env.HomeDir, ".cache", "dotinstall"))
	t.Setenv(paths.EnvStateDir, filepath.Join(env.HomeDir, ".local", "state", "dotinstall"))

	CreateDir(t, env.DotfilesRoot)
	CreateDir(t, env.HomeDir)

	p, err := paths.NewWithOptions(env.DotfilesRoot, paths.Options{
		BinDir: filepath.Join(env.HomeDir, ".local", "bin"),
	})
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	plat, err := platform.Parse(platformID)
	if err != nil {
		t.Fatalf("Failed to parse platform %q: %v", platformID, err)
	}
	env.Platform = plat

	return env
}

// WriteManifest writes packages.yaml into the dotfiles root
func (env *TestEnvironment) WriteManifest(content string) string {
	env.t.Helper()
	return CreateFile(env.t, env.DotfilesRoot, "packages.yaml", content)
}

// CreateDir creates a directory and its parents
func CreateDir(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}
