package custom

import (
	"github.com/arthur-debert/dotinstall/pkg/manifest"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

const (
	// OhMyZsh installs Oh My Zsh without switching shells or touching .zshrc
	OhMyZsh = "oh-my-zsh"

	// TPM clones the tmux plugin manager where tmux.conf expects it
	TPM = "tpm"

	// Rustup installs the Rust toolchain manager
	Rustup = "rustup"
)

func builtins() map[string]Func {
	return map[string]Func{
		OhMyZsh: Rewrite{
			Summary: "Oh My Zsh, unattended and keeping the existing .zshrc",
			Spec: manifest.Override{
				Method: types.MethodScript,
				URL:    "https://raw.githubusercontent.com/ohmyzsh/ohmyzsh/master/tools/install.sh",
				Args:   []string{"--unattended", "--keep-zshrc"},
				Env:    map[string]string{"RUNZSH": "no", "CHSH": "no", "KEEP_ZSHRC": "yes"},
				Dest:   "~/.oh-my-zsh",
			},
		},
		TPM: Rewrite{
			Summary: "tmux plugin manager, cloned into ~/.tmux/plugins/tpm",
			Spec: manifest.Override{
				Method: types.MethodGit,
				Repo:   "tmux-plugins/tpm",
				Dest:   "~/.tmux/plugins/tpm",
			},
		},
		Rustup: Rewrite{
			Summary: "rustup with the default toolchain, leaving PATH setup to the dotfiles",
			Spec: manifest.Override{
				Method: types.MethodScript,
				URL:    "https://sh.rustup.rs",
				Args:   []string{"-y", "--no-modify-path"},
				Dest:   "~/.cargo/bin/rustup",
			},
		},
	}
}
