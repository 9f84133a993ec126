package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/xraydb/errors"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without user/system config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "xraydb.sqlite", cfg.Database.Path)
	assert.Equal(t, ".", cfg.Sources.Dir)
	assert.Equal(t, "elam.dat", cfg.Sources.Elam)
	assert.Equal(t, 92, cfg.Sources.ChantlerElements)
	assert.False(t, cfg.Build.Force)
	assert.False(t, cfg.Build.Silent)
	assert.Equal(t, DefaultWorkers, cfg.Build.Workers)
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	content := `
[database]
path = "out/test.sqlite"

[sources]
dir = "/data/xray"
chantler_elements = 10

[build]
force = true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "out/test.sqlite", cfg.Database.Path)
	assert.Equal(t, "/data/xray", cfg.Sources.Dir)
	assert.Equal(t, 10, cfg.GetChantlerElements())
	assert.True(t, cfg.Build.Force)
	// untouched keys keep their defaults
	assert.Equal(t, "waasmaeir_kirfel.dat", cfg.Sources.Waasmaier)
	assert.Equal(t, filepath.Join("/data/xray", "elam.dat"), cfg.ElamPath())
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestSourcePath(t *testing.T) {
	cfg := &Config{Sources: SourcesConfig{Dir: "/srv/tables"}}

	assert.Equal(t, filepath.Join("/srv/tables", "elam.dat"), cfg.ElamPath())
	assert.Equal(t, filepath.Join("/srv/tables", "chantler"), cfg.ChantlerPath())
	assert.Equal(t, "/abs/krause.dat", cfg.SourcePath("/abs/krause.dat"))

	empty := &Config{}
	assert.Equal(t, "elam.dat", empty.ElamPath())
	assert.Equal(t, DefaultDatabasePath, empty.GetDatabasePath())
}

func TestValidate_ZeroValues(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "zero values are valid (defaults)",
			config:  Config{},
			wantErr: false,
		},
		{
			name:    "blank database path is invalid",
			config:  Config{Database: DatabaseConfig{Path: "   "}},
			wantErr: true,
		},
		{
			name:    "negative chantler elements is invalid",
			config:  Config{Sources: SourcesConfig{ChantlerElements: -1}},
			wantErr: true,
		},
		{
			name:    "more than 92 chantler elements is invalid",
			config:  Config{Sources: SourcesConfig{ChantlerElements: 93}},
			wantErr: true,
		},
		{
			name:    "negative workers is invalid",
			config:  Config{Build: BuildConfig{Workers: -2}},
			wantErr: true,
		},
		{
			name:    "explicit workers is valid",
			config:  Config{Build: BuildConfig{Workers: 8}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", ConfigFileName)

	require.NoError(t, WriteDefault(configPath, false))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultChantlerElements, cfg.Sources.ChantlerElements)

	t.Run("refuses to overwrite", func(t *testing.T) {
		err := WriteDefault(configPath, false)
		require.Error(t, err)
		assert.True(t, errors.IsAlreadyExists(err))
		assert.NotEmpty(t, errors.GetAllHints(err))
	})

	t.Run("overwrites when asked", func(t *testing.T) {
		assert.NoError(t, WriteDefault(configPath, true))
	})
}

func TestMergeConfigFiles_TracksSources(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	tmpDir := t.TempDir()
	userPath := filepath.Join(tmpDir, "user.toml")
	projectPath := filepath.Join(tmpDir, "project.toml")
	require.NoError(t, os.WriteFile(userPath, []byte("[database]\npath = \"user.sqlite\"\n[build]\nsilent = true\n"), 0644))
	require.NoError(t, os.WriteFile(projectPath, []byte("[database]\npath = \"project.sqlite\"\n"), 0644))

	v := viper.New()
	SetDefaults(v)
	mergeConfigFiles(v, []candidate{
		{Path: filepath.Join(tmpDir, "missing.toml"), Source: SourceSystem},
		{Path: userPath, Source: SourceUser},
		{Path: projectPath, Source: SourceProject},
	})

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "project.sqlite", cfg.Database.Path)
	assert.True(t, cfg.Build.Silent)

	assert.Equal(t, SourceProject, ConfigSources["database.path"].Source)
	assert.Equal(t, SourceUser, ConfigSources["build.silent"].Source)
	_, tracked := ConfigSources["sources.elam"]
	assert.False(t, tracked)
}
