package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/joho/godotenv"
)

// SourceProfile exports the profile file's variables into the process
// environment. Variables already set are kept, and a missing file is
// not an error.
func SourceProfile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to read profile file %s", path).
			WithDetail("path", path)
	}
	logger := logging.GetLogger("config")
	logger.Debug().Str("path", path).Msg("Sourced profile file")
	return nil
}

// ReadProfile returns the profile file's variables without exporting them
func ReadProfile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to read profile file %s", path).
			WithDetail("path", path)
	}
	return vars, nil
}

// SaveProfile records the tag selection in the profile file, keeping any
// other variables it holds. An empty exclude list removes INSTALL_EXCLUDE.
func SaveProfile(path string, profile, exclude []string) error {
	vars, err := ReadProfile(path)
	if err != nil {
		return err
	}

	vars[EnvInstallProfile] = strings.Join(profile, ",")
	if len(exclude) > 0 {
		vars[EnvInstallExclude] = strings.Join(exclude, ",")
	} else {
		delete(vars, EnvInstallExclude)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
	}
	if err := godotenv.Write(vars, path); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write profile file %s", path).
			WithDetail("path", path)
	}
	logger := logging.GetLogger("config")
	logger.Info().Str("path", path).Strs("profile", profile).Msg("Saved profile")
	return nil
}
