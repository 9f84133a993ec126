package am

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/xraydb/xraydb.toml
	SourceUser        ConfigSource = "user"        // ~/.xraydb/xraydb.toml
	SourceProject     ConfigSource = "project"     // nearest ./xraydb.toml
	SourceEnvironment ConfigSource = "environment" // XRAYDB_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// GetConfigIntrospection returns every effective setting with the source it came from
func GetConfigIntrospection() []SettingInfo {
	v := GetViper()

	keys := v.AllKeys()
	sort.Strings(keys)

	settings := make([]SettingInfo, 0, len(keys))
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := ConfigSources[key]; ok {
			info = si
		}

		envKey := "XRAYDB_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if envValue := os.Getenv(envKey); envValue != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		settings = append(settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}

	return settings
}
