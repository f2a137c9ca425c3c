package types

import (
	"fmt"
	"strings"
)

// Method identifies how a package gets installed on a platform
type Method string

const (
	// MethodDnf installs through dnf (Fedora, RHEL family)
	MethodDnf Method = "dnf"

	// MethodApt installs through apt-get (Debian, Ubuntu)
	MethodApt Method = "apt"

	// MethodPacman installs through pacman (Arch)
	MethodPacman Method = "pacman"

	// MethodBrew installs a Homebrew formula
	MethodBrew Method = "brew"

	// MethodCask installs a Homebrew cask
	MethodCask Method = "cask"

	// MethodGitHub downloads binaries from a GitHub release
	MethodGitHub Method = "github"

	// MethodGit clones a git repository (TPM-style installers)
	MethodGit Method = "git"

	// MethodScript downloads and runs a remote installer script
	MethodScript Method = "script"

	// MethodCommand runs an inline shell snippet
	MethodCommand Method = "command"

	// MethodCustom delegates to a named custom function
	MethodCustom Method = "custom"
)

var allMethods = []Method{
	MethodDnf, MethodApt, MethodPacman, MethodBrew, MethodCask,
	MethodGitHub, MethodGit, MethodScript, MethodCommand, MethodCustom,
}

// AllMethods returns every known method in a stable order
func AllMethods() []Method {
	out := make([]Method, len(allMethods))
	copy(out, allMethods)
	return out
}

// ParseMethod converts a manifest value into a Method
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return "", nil
	}
	// "github-release" reads naturally in manifests
	if m == "github-release" || m == "release" {
		return MethodGitHub, nil
	}
	if m == "homebrew" {
		return MethodBrew, nil
	}
	for _, known := range allMethods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown installation method %q", s)
}

// IsKnown reports whether s names a method
func IsKnown(s string) bool {
	m, err := ParseMethod(s)
	return err == nil && m != ""
}

// IsSystem reports whether the method is an OS package manager
func (m Method) IsSystem() bool {
	switch m {
	case MethodDnf, MethodApt, MethodPacman, MethodBrew, MethodCask:
		return true
	}
	return false
}

func (m Method) String() string {
	return string(m)
}
