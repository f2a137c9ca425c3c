// Package core runs a plan: for each step it picks the handler for the
// step's method, skips what is already present and installs the rest.
//
// # Best effort
//
// Packages are processed one at a time in manifest order (with "after"
// dependencies first). A failing package is reported and the run moves on
// to the next one; only errors that make the whole plan meaningless
// (an invalid manifest, an unknown package name, cancellation) stop it.
//
// # Detection
//
// A package counts as present when its "check" binary is on PATH or its
// handler says so. --force skips detection and installs every runnable
// step again.
//
// # Records
//
// Every successful install writes a record to the datastore with the
// step's fingerprint. Methods that leave nothing to probe (scripts,
// inline commands) compare that fingerprint to decide whether to run
// again, and "status" shows when each package was installed.
package core
