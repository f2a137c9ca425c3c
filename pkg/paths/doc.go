// Package paths provides centralized path handling for dotinstall.
//
// It follows the XDG Base Directory specification and knows where the
// manifest, downloaded assets, install records, installed binaries and the
// profile file live.
//
// # Environment Variables
//
//   - DOTFILES_ROOT: location of the dotfiles repository (default: git root, then cwd)
//   - DOTINSTALL_CONFIG_DIR: override $XDG_CONFIG_HOME/dotinstall
//   - DOTINSTALL_CACHE_DIR: override $XDG_CACHE_HOME/dotinstall
//   - DOTINSTALL_STATE_DIR: override $XDG_STATE_HOME/dotinstall
//
// # Layout
//
//   - Config: $XDG_CONFIG_HOME/dotinstall/config.toml
//   - Cache: $XDG_CACHE_HOME/dotinstall/downloads (release assets, installer scripts)
//   - State: $XDG_STATE_HOME/dotinstall/installed (install records), dotinstall.log
//   - Binaries: ~/.local/bin, trees: ~/.local/opt
//   - Profile: ~/.install-profile
//
// # Usage
//
//	p, err := paths.New("") // auto-detect the dotfiles root
//	if err != nil {
//	    return err
//	}
//	manifest := p.ManifestPath() // /home/user/dotfiles/packages.yaml
//	bin := p.BinDir()            // /home/user/.local/bin
package paths
