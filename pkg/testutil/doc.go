// Package testutil provides utilities for testing dotinstall components.
//
// Key components:
//   - TestEnvironment: an isolated home, dotfiles root and XDG tree in a temp dir
//   - FakeRunner: a runner.Runner that records commands and answers probes
//   - MemoryDataStore: install records kept in a map
//
// Tests never touch the real home directory and never run package managers.
package testutil
