package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() (*ExecRunner, *bytes.Buffer) {
	var out bytes.Buffer
	return &ExecRunner{Stdout: &out, Stderr: &out, IsRoot: func() bool { return true }}, &out
}

func TestCommandString(t *testing.T) {
	cmd := Command{Name: "apt-get", Args: []string{"install", "-y", "fd-find"}, Sudo: true}
	assert.Equal(t, "sudo apt-get install -y fd-find", cmd.String())

	assert.Equal(t, `sh -c 'echo "hi" && exit 0'`, Shell(`echo "hi" && exit 0`).String())
	assert.Equal(t, "echo ''", Command{Name: "echo", Args: []string{""}}.String())
}

func TestEnvList(t *testing.T) {
	assert.Nil(t, EnvList(nil))
	assert.Equal(t, []string{"A=1", "B=2"}, EnvList(map[string]string{"B": "2", "A": "1"}))
}

func TestExecRunnerStreamsOutput(t *testing.T) {
	r, out := newTestRunner()

	res, err := r.Run(context.Background(), Shell("echo hello; echo oops >&2"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, out.String(), "hello")
	assert.Contains(t, out.String(), "oops")
	assert.Contains(t, res.Text, "hello")
}

func TestExecRunnerProbeCaptures(t *testing.T) {
	r, out := newTestRunner()

	cmd := Shell("echo captured")
	cmd.Probe = true
	res, err := r.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "captured\n", res.Text)
	assert.Empty(t, out.String())
}

func TestExecRunnerFailure(t *testing.T) {
	r, _ := newTestRunner()

	res, err := r.Run(context.Background(), Shell("echo broken; exit 3"))
	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommand))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, 3, details["exit_code"])
	assert.Contains(t, details["output"], "broken")
}

func TestExecRunnerEnvAndDir(t *testing.T) {
	r, _ := newTestRunner()
	dir := t.TempDir()

	cmd := Shell(`printf "%s" "$GREETING" > out.txt`)
	cmd.Env = []string{"GREETING=hola"}
	cmd.Dir = dir
	_, err := r.Run(context.Background(), cmd)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hola", string(data))
}

func TestExecRunnerCancelled(t *testing.T) {
	r, _ := newTestRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, Shell("sleep 5"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interrupted")
}

func TestExecRunnerSudo(t *testing.T) {
	r := &ExecRunner{SudoCommand: "doas", IsRoot: func() bool { return false }}

	name, args := r.resolve(Command{Name: "pacman", Args: []string{"-S", "fd"}, Sudo: true})
	assert.Equal(t, "doas", name)
	assert.Equal(t, []string{"pacman", "-S", "fd"}, args)

	name, args = r.resolve(Command{Name: "apt-get", Args: []string{"install"}, Env: []string{"DEBIAN_FRONTEND=noninteractive"}, Sudo: true})
	assert.Equal(t, "doas", name)
	assert.Equal(t, []string{"env", "DEBIAN_FRONTEND=noninteractive", "apt-get", "install"}, args)

	r.IsRoot = func() bool { return true }
	name, args = r.resolve(Command{Name: "dnf", Args: []string{"install"}, Sudo: true})
	assert.Equal(t, "dnf", name)
	assert.Equal(t, []string{"install"}, args)
}

func TestTailBuffer(t *testing.T) {
	tb := &tailBuffer{max: 5}
	_, _ = tb.Write([]byte("abc"))
	_, _ = tb.Write([]byte("defg"))
	assert.Equal(t, "cdefg", tb.String())
}

func TestDryRunner(t *testing.T) {
	inner, _ := newTestRunner()
	var out bytes.Buffer
	r := NewDryRunner(inner, &out)

	_, err := r.Run(context.Background(), Command{Name: "dnf", Args: []string{"install", "-y", "tmux"}, Sudo: true})
	require.NoError(t, err)

	probe := Shell("echo probed")
	probe.Probe = true
	res, err := r.Run(context.Background(), probe)
	require.NoError(t, err)
	assert.Equal(t, "probed\n", res.Text)

	cmds := r.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "dnf", cmds[0].Name)
	assert.True(t, strings.Contains(out.String(), "would run: sudo dnf install -y tmux"))

	assert.True(t, Has(r, "sh"))
	assert.False(t, Has(r, "definitely-not-a-real-binary-xyz"))
}
