// Package types defines the small set of values shared across dotinstall:
// the installation methods a manifest can name and the outcome of
// installing a single package.
package types
