package script_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotinstall/pkg/datastore"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/handlers/script"
	"github.com/arthur-debert/dotinstall/pkg/manifest"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/testutil"
	"github.com/arthur-debert/dotinstall/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const installer = "#!/bin/sh\necho installing\n"

func setup(t *testing.T) (*handlers.Env, *testutil.TestEnvironment, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tools/install.sh" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(installer))
	}))
	t.Cleanup(srv.Close)

	te := testutil.NewTestEnvironment(t, "ubuntu")
	env := &handlers.Env{
		Runner:   te.Runner,
		Paths:    te.Paths,
		HTTP:     handlers.NewClientWithHTTP(srv.Client()),
		Platform: te.Platform,
		Store:    te.DataStore,
		Out:      te.Out,
	}
	return env, te, srv.URL
}

func scriptStep(spec manifest.Override) plan.Step {
	spec.Method = types.MethodScript
	return plan.Step{Key: "ohmyzsh", Name: "ohmyzsh", Method: types.MethodScript, Spec: spec}
}

func TestRunsDownloadedScript(t *testing.T) {
	env, te, base := setup(t)

	var seen string
	te.Runner.On("sh", testutil.Response{Do: func(cmd runner.Command) error {
		data, err := os.ReadFile(cmd.Args[0])
		seen = string(data)
		return err
	}})

	step := scriptStep(manifest.Override{
		URL:  base + "/tools/install.sh",
		Args: []string{"--unattended"},
		Env:  map[string]string{"RUNZSH": "no", "CHSH": "no"},
	})
	_, err := script.New().Install(context.Background(), env, step)
	require.NoError(t, err)
	assert.Equal(t, installer, seen)

	cmds := te.Runner.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "sh", cmds[0].Name)
	assert.Equal(t, "--unattended", cmds[0].Args[1])
	assert.Equal(t, []string{"CHSH=no", "RUNZSH=no"}, cmds[0].Env)
	assert.Equal(t, filepath.Join(env.Paths.DownloadDir(), "scripts", "ohmyzsh-install.sh"), cmds[0].Args[0])

	// the downloaded script does not linger
	assert.False(t, testutil.FileExists(cmds[0].Args[0]))
}

func TestScriptFailures(t *testing.T) {
	env, te, base := setup(t)

	_, err := script.New().Install(context.Background(), env, scriptStep(manifest.Override{URL: base + "/missing.sh"}))
	assert.True(t, errors.IsErrorCode(err, errors.ErrDownload))
	assert.Empty(t, te.Runner.Commands())

	te.Runner.Fail("sh")
	_, err = script.New().Install(context.Background(), env, scriptStep(manifest.Override{URL: base + "/tools/install.sh"}))
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommand))
}

func TestScriptDryRunSkipsDownload(t *testing.T) {
	env, te, _ := setup(t)
	env.DryRun = true

	_, err := script.New().Install(context.Background(), env, scriptStep(manifest.Override{URL: "https://sh.rustup.rs", Args: []string{"-y"}}))
	require.NoError(t, err)
	assert.Contains(t, te.Out.String(), "would download https://sh.rustup.rs")

	cmds := te.Runner.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, filepath.Join(env.Paths.DownloadDir(), "scripts", "ohmyzsh-sh.rustup.rs"), cmds[0].Args[0])
}

func TestScriptIsInstalled(t *testing.T) {
	env, te, base := setup(t)
	h := script.New()

	withDest := scriptStep(manifest.Override{URL: base + "/tools/install.sh", Dest: ".oh-my-zsh"})
	ok, err := h.IsInstalled(context.Background(), env, withDest)
	require.NoError(t, err)
	assert.False(t, ok)

	testutil.CreateDir(t, filepath.Join(te.HomeDir, ".oh-my-zsh"))
	ok, err = h.IsInstalled(context.Background(), env, withDest)
	require.NoError(t, err)
	assert.True(t, ok)

	recordOnly := scriptStep(manifest.Override{URL: base + "/tools/install.sh"})
	ok, err = h.IsInstalled(context.Background(), env, recordOnly)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, env.Store.Save(datastore.Record{Package: "ohmyzsh", Fingerprint: recordOnly.Fingerprint()}))
	ok, err = h.IsInstalled(context.Background(), env, recordOnly)
	require.NoError(t, err)
	assert.True(t, ok)

	changed := scriptStep(manifest.Override{URL: base + "/tools/install.sh", Args: []string{"--keep-zshrc"}})
	ok, err = h.IsInstalled(context.Background(), env, changed)
	require.NoError(t, err)
	assert.False(t, ok)
}
