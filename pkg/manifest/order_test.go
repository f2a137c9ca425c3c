package manifest

import (
	"testing"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderKeepsManifestOrder(t *testing.T) {
	m, err := Parse([]byte(`
tpm:
  method: git
  repo: https://github.com/tmux-plugins/tpm
  after: [tmux, git]
zsh:
tmux:
git:
oh-my-zsh:
  custom: oh-my-zsh
  after: zsh
`), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"zsh", "tmux", "git", "tpm", "oh-my-zsh"}, m.Keys())

	ordered := m.Ordered()
	assert.Equal(t, "zsh", ordered[0].Key)
	assert.Equal(t, 0, m.byKey["tpm"].Index())
}

func TestOrderCycle(t *testing.T) {
	_, err := Parse([]byte(`
a:
  after: c
b:
  after: a
c:
  after: b
d:
`), FormatYAML)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestCycle))
	assert.Equal(t, []string{"a", "b", "c"}, errors.GetErrorDetails(err)["packages"])
}

func TestValidateParsedManifest(t *testing.T) {
	m, err := Parse([]byte("zsh:\n"), FormatYAML)
	require.NoError(t, err)
	assert.NoError(t, m.Validate())

	m.byKey["zsh"].After = []string{"missing"}
	err = m.Validate()
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid))
}
