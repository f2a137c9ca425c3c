// Package manifest reads the declarative package manifest.
//
// The manifest is a flat mapping keyed by package name. Each record carries
// the default package name, profile tags and optional per-platform
// sub-records that rename the package, switch its installation method or
// skip it:
//
//	neovim:
//	  tags: [core, editor]
//	  check: nvim
//	  method: github
//	  repo: neovim/neovim
//	  asset: nvim-linux-{arch}.tar.gz
//	  dest: ~/.local/opt/nvim
//	  bin: [bin/nvim]
//	  macos: brew
//	  arch: { method: pacman }
//
//	fd:
//	  tags: [core]
//	  ubuntu: fd-find
//	  debian: fd-find
//
// YAML and TOML manifests are supported; the format is picked from the file
// extension. YAML manifests keep their record order, TOML manifests are
// ordered by key. Records may name packages they must come "after".
package manifest
