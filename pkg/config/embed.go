package config

import (
	_ "embed"

	"github.com/knadh/koanf/parsers/toml"
)

//go:embed embedded/defaults.toml
var defaultsTOML []byte

// DefaultsContent returns the embedded defaults file
func DefaultsContent() string {
	return string(defaultsTOML)
}

// defaultsProvider feeds the embedded defaults to koanf
type defaultsProvider struct{}

func (defaultsProvider) ReadBytes() ([]byte, error) { return defaultsTOML, nil }

func (defaultsProvider) Read() (map[string]interface{}, error) {
	return toml.Parser().Unmarshal(defaultsTOML)
}
