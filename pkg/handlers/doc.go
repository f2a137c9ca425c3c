// Package handlers defines how packages get installed.
//
// A Handler knows one installation method: a system package manager (dnf,
// apt, pacman, brew), a GitHub release download, a git checkout, a remote
// installer script, an inline command or a named custom function. Handlers
// live in subpackages and are collected in a Registry keyed by method; the
// builtin subpackage wires the default set.
//
// Handlers never print directly. Subprocesses go through Env.Runner so dry
// runs and tests can observe them, and downloads go through Env.HTTP.
package handlers
