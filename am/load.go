package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/xraydb/errors"
)

// ConfigFileName is the file name searched for in system, user and project locations
const ConfigFileName = "xraydb.toml"

var globalConfig *Config
var viperInstance *viper.Viper

// ConfigSources records which file last set each key during loading.
// Keys absent from the map came from defaults (or the environment).
var ConfigSources = map[string]SourceInfo{}

// Load reads the xraydb configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix("XRAYDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	BindEnvVars(v)
	SetDefaults(v)

	// system -> user -> project -> env vars
	mergeConfigFiles(v, candidateConfigPaths())

	viperInstance = v
	return v
}

// candidateConfigPaths lists config files in precedence order (lowest first)
func candidateConfigPaths() []candidate {
	paths := []candidate{
		{Path: filepath.Join("/etc/xraydb", ConfigFileName), Source: SourceSystem},
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, candidate{
			Path:   filepath.Join(homeDir, ".xraydb", ConfigFileName),
			Source: SourceUser,
		})
	}
	if projectConfig := findProjectConfig(); projectConfig != "" {
		paths = append(paths, candidate{Path: projectConfig, Source: SourceProject})
	}
	return paths
}

type candidate struct {
	Path   string
	Source ConfigSource
}

// findProjectConfig searches for xraydb.toml by walking up the directory tree
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// mergeConfigFiles merges existing config files into v, later files winning,
// and records the file each key came from in ConfigSources.
func mergeConfigFiles(v *viper.Viper, paths []candidate) {
	for _, c := range paths {
		if _, err := os.Stat(c.Path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(c.Path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}

		// MergeConfigMap keeps file values below environment overrides
		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range tempViper.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: c.Source, Path: c.Path}
		}
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}
