package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const neovimFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="en-US">
  <id>tag:github.com,2008:https://github.com/neovim/neovim/releases</id>
  <title>Release notes from neovim</title>
  <entry>
    <id>tag:github.com,2008:Repository/292278/nightly</id>
    <link rel="alternate" type="text/html" href="https://github.com/neovim/neovim/releases/tag/nightly"/>
    <title>Nvim development (prerelease) build</title>
  </entry>
  <entry>
    <id>tag:github.com,2008:Repository/292278/stable</id>
    <link rel="alternate" type="text/html" href="https://github.com/neovim/neovim/releases/tag/stable"/>
  </entry>
  <entry>
    <id>tag:github.com,2008:Repository/292278/v0.11.2</id>
    <link rel="alternate" type="text/html" href="https://github.com/neovim/neovim/releases/tag/v0.11.2"/>
  </entry>
  <entry>
    <id>tag:github.com,2008:Repository/292278/v0.11.1</id>
  </entry>
</feed>`

func TestParseFeed(t *testing.T) {
	tags, err := ParseFeed([]byte(neovimFeed))
	require.NoError(t, err)
	assert.Equal(t, []string{"nightly", "stable", "v0.11.2", "v0.11.1"}, tags)

	_, err = ParseFeed([]byte("<html></html>"))
	assert.Error(t, err)

	_, err = ParseFeed([]byte("not xml <"))
	assert.Error(t, err)
}

func TestLatestTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/neovim/neovim/releases.atom":
			_, _ = w.Write([]byte(neovimFeed))
		case "/empty/repo/releases.atom":
			_, _ = w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := handlers.NewClientWithHTTP(srv.Client())
	ctx := context.Background()

	tag, err := LatestTag(ctx, client, srv.URL, "neovim/neovim")
	require.NoError(t, err)
	assert.Equal(t, "v0.11.2", tag)

	_, err = LatestTag(ctx, client, srv.URL, "empty/repo")
	assert.True(t, errors.IsErrorCode(err, errors.ErrDownload))

	_, err = LatestTag(ctx, client, srv.URL, "missing/repo")
	assert.True(t, errors.IsErrorCode(err, errors.ErrDownload))
}

func TestVarsExpand(t *testing.T) {
	p := platform.Platform{OS: "linux", ID: "fedora", Arch: "arm64"}
	v := NewVars("v0.44.1", "lazygit", p)

	assert.Equal(t, "0.44.1", v.Version())
	assert.Equal(t,
		"lazygit_0.44.1_linux_aarch64-arm64-v0.44.1.tar.gz",
		v.Expand("{name}_{version}_{os}_{arch}-{goarch}-{tag}.tar.gz"))

	mac := NewVars("1.2", "fzf", platform.Platform{OS: "darwin", ID: "macos", Arch: "amd64"})
	assert.Equal(t, "fzf-1.2-darwin_x86_64.zip", mac.Expand("{name}-{version}-{os}_{arch}.zip"))
}
