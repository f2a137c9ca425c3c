// Package system installs packages with the operating system's package
// managers: dnf, apt, pacman, Homebrew formulae and casks.
//
// The "repo" field of a step means something manager specific: a COPR
// project for dnf, a PPA for apt and a tap for Homebrew. A step's name may
// list several packages separated by spaces.
package system
