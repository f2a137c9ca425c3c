// Package config resolves dotinstall's settings from, in increasing
// precedence: the embedded defaults, the user's config.toml, the profile
// file, DOTINSTALL_* environment variables and command-line flags.
//
// The profile file (~/.install-profile) is a shell-style KEY=value file.
// Its variables are exported into the process environment, so
// INSTALL_PROFILE and INSTALL_EXCLUDE set there select the machine's tags
// unless the environment already has them.
package config
