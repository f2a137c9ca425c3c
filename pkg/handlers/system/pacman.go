package system

import (
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// NewPacman creates the Arch handler
func NewPacman() *Manager {
	return &Manager{
		method:      types.MethodPacman,
		description: "Installs Arch packages with pacman",
		tool:        "pacman",
		query: func(name string) runner.Command {
			return probe("pacman", "-Qi", name)
		},
		install: func(names, extra []string) runner.Command {
			return runner.Command{
				Name: "pacman",
				Args: join([]string{"-S", "--needed", "--noconfirm"}, extra, names),
				Sudo: true,
			}
		},
	}
}
