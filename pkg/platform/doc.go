// Package platform detects the machine dotinstall runs on: the operating
// system, the distribution (from /etc/os-release) and the CPU architecture.
//
// A Platform answers two questions for the rest of the installer: which
// manifest sub-records apply to it (Candidates) and which package manager
// it uses when a manifest entry names no method (DefaultMethod).
package platform
