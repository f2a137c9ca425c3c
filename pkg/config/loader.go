package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/paths"
	"github.com/arthur-debert/dotinstall/pkg/tags"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables read as configuration.
// DOTINSTALL_PATHS__BIN_DIR sets paths.bin_dir.
const EnvPrefix = "DOTINSTALL_"

// Profile variables as written by the shell installer this replaces
const (
	EnvInstallProfile = "INSTALL_PROFILE"
	EnvInstallExclude = "INSTALL_EXCLUDE"
)

// LoadOptions locates the configuration sources
type LoadOptions struct {
	// ConfigFile is the user config.toml (or .yaml); a missing file is fine
	ConfigFile string

	// ProfileFile is used when neither flags nor config.toml name one
	ProfileFile string

	// Flags holds explicitly set command-line flags keyed like the config
	// ("profile", "paths.bin_dir")
	Flags map[string]interface{}
}

// Load resolves the configuration
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(defaultsProvider{}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err == nil {
			if err := k.Load(file.Provider(opts.ConfigFile), parserFor(opts.ConfigFile)); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load %s", opts.ConfigFile).
					WithDetail("path", opts.ConfigFile)
			}
			logger.Debug().Str("path", opts.ConfigFile).Msg("Loaded user config")
		}
	}

	// 3. Profile file, exported into the environment
	profileFile := profilePath(k, opts)
	if err := SourceProfile(profileFile); err != nil {
		return nil, err
	}

	// 4. Environment
	legacy := map[string]interface{}{}
	if v, ok := os.LookupEnv(EnvInstallProfile); ok {
		legacy["profile"] = v
	}
	if v, ok := os.LookupEnv(EnvInstallExclude); ok {
		legacy["exclude"] = v
	}
	if err := k.Load(confmap.Provider(legacy, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load profile variables")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 5. Flags
	if len(opts.Flags) > 0 {
		if err := k.Load(confmap.Provider(opts.Flags, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load flags")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	cfg.Paths.ProfileFile = profileFile

	if err := postProcessConfig(&cfg); err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("profile", cfg.Profile).
		Strs("exclude", cfg.Exclude).
		Str("platform", cfg.Platform).
		Msg("Configuration resolved")
	return &cfg, nil
}

// parserFor picks the parser from the file extension, TOML unless it is YAML
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	}
	return toml.Parser()
}

// profilePath picks the profile file: a flag, then config.toml (when it
// differs from the default), then the caller's default
func profilePath(k *koanf.Koanf, opts LoadOptions) string {
	if v, ok := opts.Flags["paths.profile_file"].(string); ok && v != "" {
		return paths.ExpandHome(v)
	}
	if v := os.Getenv(EnvPrefix + "PATHS__PROFILE_FILE"); v != "" {
		return paths.ExpandHome(v)
	}
	if opts.ProfileFile != "" && k.String("paths.profile_file") == "~/"+paths.DefaultProfileFile {
		return opts.ProfileFile
	}
	return paths.ExpandHome(k.String("paths.profile_file"))
}

// envKey maps DOTINSTALL_PATHS__BIN_DIR to paths.bin_dir
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func postProcessConfig(cfg *Config) error {
	cfg.Profile = tags.Normalize(splitFields(cfg.Profile))
	cfg.Exclude = tags.Normalize(splitFields(cfg.Exclude))

	switch cfg.Output.Color {
	case "":
		cfg.Output.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Newf(errors.ErrConfigValid, "output.color must be auto, always or never, got %q", cfg.Output.Color).
			WithDetail("color", cfg.Output.Color)
	}

	if cfg.Download.Timeout < 0 {
		return errors.New(errors.ErrConfigValid, "download.timeout cannot be negative")
	}
	return nil
}

// splitFields also splits on whitespace: INSTALL_PROFILE="base dev" is
// common in profile files
func splitFields(in []string) []string {
	var out []string
	for _, v := range in {
		out = append(out, strings.Fields(v)...)
	}
	return out
}
