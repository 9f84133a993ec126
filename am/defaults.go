package am

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("sources.dir", ".")
	v.SetDefault("sources.elam", DefaultElamFile)
	v.SetDefault("sources.waasmaier", DefaultWaasmaierFile)
	v.SetDefault("sources.keski_rahkonen", DefaultKeskiRahkonen)
	v.SetDefault("sources.chantler_dir", DefaultChantlerDir)
	v.SetDefault("sources.chantler_elements", DefaultChantlerElements)

	v.SetDefault("build.force", false)
	v.SetDefault("build.silent", false)
	v.SetDefault("build.workers", DefaultWorkers)
}

// BindEnvVars explicitly binds the most commonly overridden keys
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "XRAYDB_DATABASE_PATH")
	v.BindEnv("sources.dir", "XRAYDB_SOURCES_DIR")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// SourcePath resolves a configured source file name against sources.dir.
// Absolute names are returned unchanged.
func (c *Config) SourcePath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	dir := c.Sources.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name)
}

// ElamPath returns the resolved Elam source path
func (c *Config) ElamPath() string {
	name := c.Sources.Elam
	if name == "" {
		name = DefaultElamFile
	}
	return c.SourcePath(name)
}

// WaasmaierPath returns the resolved Waasmaier-Kirfel source path
func (c *Config) WaasmaierPath() string {
	name := c.Sources.Waasmaier
	if name == "" {
		name = DefaultWaasmaierFile
	}
	return c.SourcePath(name)
}

// KeskiRahkonenPath returns the resolved Keski-Rahkonen/Krause source path
func (c *Config) KeskiRahkonenPath() string {
	name := c.Sources.KeskiRahkonen
	if name == "" {
		name = DefaultKeskiRahkonen
	}
	return c.SourcePath(name)
}

// ChantlerPath returns the resolved Chantler directory
func (c *Config) ChantlerPath() string {
	name := c.Sources.ChantlerDir
	if name == "" {
		name = DefaultChantlerDir
	}
	return c.SourcePath(name)
}

// GetChantlerElements returns the number of Chantler element files (default: 92)
func (c *Config) GetChantlerElements() int {
	if c.Sources.ChantlerElements == 0 {
		return DefaultChantlerElements
	}
	return c.Sources.ChantlerElements
}

// GetWorkers returns the Chantler reader fan-out (default: 4)
func (c *Config) GetWorkers() int {
	if c.Build.Workers == 0 {
		return DefaultWorkers
	}
	return c.Build.Workers
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Sources: %s, Force: %t, Silent: %t}",
		c.GetDatabasePath(), c.Sources.Dir, c.Build.Force, c.Build.Silent)
}
