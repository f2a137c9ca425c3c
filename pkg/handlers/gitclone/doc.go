// Package gitclone installs packages that are git repositories, such as
// the tmux plugin manager, by shallow-cloning them into a directory.
package gitclone
