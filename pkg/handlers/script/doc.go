// Package script installs packages with a remote installer script, the
// "curl | sh" style used by Oh My Zsh and rustup, without piping: the
// script is downloaded first and then run with sh.
package script
