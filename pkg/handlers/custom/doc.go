// Package custom holds named installers written in Go. A manifest entry
// selects one with `custom: <name>`; most built-ins rewrite the package
// into a step another method performs, pinning down the URLs, flags and
// marker paths the upstream installers expect.
package custom
