// Package datastore keeps dotinstall's record of what it installed.
//
// Each successful install writes a small TOML file named after the package
// key under the state directory. Records carry the fingerprint of the
// resolved step so a changed manifest entry is noticed on the next run, and
// the install time shown by the status command.
package datastore
