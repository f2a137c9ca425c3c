// Package github installs binaries from GitHub releases.
//
// The release is a pinned tag or the newest one listed in the repository's
// releases.atom feed. The asset name is a template expanded with {version},
// {tag}, {os}, {arch}, {goarch} and {name}. Archives (.tar.gz, .tar.xz,
// .zip, .gz) are unpacked into a staging directory; the listed binaries are
// then copied into the bin directory, or the whole tree is copied into dest
// and the binaries linked from the bin directory.
//
// A bin entry may rename its target with "path:name", e.g.
// "nvim.appimage:nvim".
package github
