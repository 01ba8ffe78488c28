package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Initialize writes the default configuration into dir if one doesn't already
// exist, then loads it.
func Initialize(fsys afero.Fs, dir string, logger *zap.Logger) (*Configuration, error) {
	if err := fsys.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch exists, err := afero.Exists(fsys, configPath); {
	case err != nil:
		return nil, err
	case exists:
		logger.Info("configuration already exists, skipping", zap.String("path", configPath))
	default:
		logger.Info("writing default configuration", zap.String("path", configPath))
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	}

	return Load(fsys, dir)
}

// LoadOrDefault loads the configuration in dir, falling back to the defaults
// if the directory has none. Environment overrides are applied either way.
func LoadOrDefault(fsys afero.Fs, dir string) (*Configuration, error) {
	cfg, err := Load(fsys, dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	case err != nil:
		return nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}
