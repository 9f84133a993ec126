package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/xraydb/am"
	ixbuild "github.com/teranos/xraydb/ixgest/build"
)

const elamFixture = `/ Elam, Ravel, Sieber
Element Fe 26 55.85 7.87
Edge K 7112.0 0.350 8.5
  Lines
    K-L3 Ka1 6404.0 1.00
`

// isolate runs the test from an empty directory with a fresh config cache.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	am.Reset()
	t.Cleanup(am.Reset)
	return dir
}

func TestBuildCommand_JSON(t *testing.T) {
	dir := isolate(t)
	sources := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(sources, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sources, am.DefaultElamFile), []byte(elamFixture), 0644))
	dest := filepath.Join(dir, "out.sqlite")

	var out bytes.Buffer
	BuildCmd.SetOut(&out)
	BuildCmd.SetArgs([]string{"--db", dest, "--sources", sources, "--silent", "--json"})
	require.NoError(t, BuildCmd.Execute())

	var result ixbuild.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, dest, result.Destination)
	require.Len(t, result.Sources, 5)
	assert.Equal(t, 1, result.Sources[0].Tables["xray_transitions"])
	assert.True(t, result.Sources[1].Skipped)
	assert.FileExists(t, dest)

	// the cached configuration is not modified by --sources
	cfg, err := am.Load()
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Sources.Dir)
}

func TestAmShow(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	AmCmd.SetOut(&out)
	AmCmd.SetArgs([]string{"show", "--format", "json"})
	require.NoError(t, AmCmd.Execute())

	var cfg am.Config
	require.NoError(t, json.Unmarshal(out.Bytes(), &cfg))
	assert.Equal(t, am.DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, am.DefaultChantlerElements, cfg.Sources.ChantlerElements)
}

func TestAmInit(t *testing.T) {
	dir := isolate(t)

	var out bytes.Buffer
	AmCmd.SetOut(&out)
	AmCmd.SetArgs([]string{"init"})
	require.NoError(t, AmCmd.Execute())
	assert.FileExists(t, filepath.Join(dir, am.ConfigFileName))

	AmCmd.SetArgs([]string{"init"})
	assert.Error(t, AmCmd.Execute())
}
