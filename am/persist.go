package am

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/xraydb/errors"
)

// DefaultConfig returns the configuration produced by SetDefaults alone
func DefaultConfig() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	return LoadWithViper(v)
}

// WriteDefault writes a default xraydb.toml to configPath.
// An existing file is only replaced when overwrite is set.
func WriteDefault(configPath string, overwrite bool) error {
	if _, err := os.Stat(configPath); err == nil && !overwrite {
		return errors.WithHint(
			errors.Wrapf(errors.ErrAlreadyExists, "config file %s", configPath),
			"use --force to replace it",
		)
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}
