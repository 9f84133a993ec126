package build

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/xraydb/am"
	"github.com/teranos/xraydb/db"
	"github.com/teranos/xraydb/errors"
	xraytest "github.com/teranos/xraydb/internal/testing"
)

const elamFixture = `/ Elam, Ravel, Sieber X-ray data
/ test fixture
Element Fe 26 55.85 7.87
Edge K 7112.0 0.350 8.5
  Lines
    K-L3 Ka1 6404.0 1.00
    K-L2 Ka2 6391.0 0.51
Edge L1 846.1 0.001 1.16
  CK L2 0.30 L3 0.57
  CKtotal L2 0.31 L3 0.58
Photo
    6.9 10.1 -0.2
    7.0 9.8 -0.3
Scatter
    6.9 1.1 0.1 -1.2 0.01
End
`

const waasmaierFixture = `#F waasmaeir_kirfel.dat
#D Elastic Photon-Atom Scattering
#
#S  1  H
#N 11
#L a1 a2 a3 a4 a5 c b1 b2 b3 b4 b5
  0.413048  0.294953  0.187491  0.080701  0.023736  0.000049  15.569946  32.398468  5.711404  61.889874  1.334118
`

const krauseFixture = `# Z elem edge width
1 H K 0.0
26 Fe K 1.19
`

const chantlerFixture = `#H: Z = 1 density 8.375E-05 g/cm3
#sigma_mu conversion 1.6737
#mue_f2 conversion 4.1e-2
#Relativistic correction estimate f_rel(H82,3/5CL) = -0.00, -0.00 e/atom
#Nuclear Thomson correction f_NT = -0.00054 e/atom
1.0 1.0 0.01 10 0.5 10.5
`

// fixtureDir writes a complete set of sources for one Chantler element.
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		am.DefaultElamFile:      elamFixture,
		am.DefaultWaasmaierFile: waasmaierFixture,
		am.DefaultKeskiRahkonen: krauseFixture,
		filepath.Join(am.DefaultChantlerDir, "01.dat"):      chantlerFixture,
		filepath.Join(am.DefaultChantlerDir, "01_fine.dat"): chantlerFixture,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), am.DefaultDirPermissions))
		require.NoError(t, os.WriteFile(path, []byte(content), am.DefaultFilePermissions))
	}
	return dir
}

func testConfig(dir string) *am.Config {
	return &am.Config{
		Database: am.DatabaseConfig{Path: filepath.Join(dir, "out.sqlite")},
		Sources:  am.SourcesConfig{Dir: dir, ChantlerElements: 1},
		Build:    am.BuildConfig{Workers: 2},
	}
}

func openBuilt(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestProcess(t *testing.T) {
	dir := fixtureDir(t)
	cfg := testConfig(dir)

	result, err := NewProcessor(cfg, Options{}, zaptest.NewLogger(t).Sugar()).Process(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, result.Skipped)
	require.Len(t, result.Sources, 5)
	assert.Equal(t, map[string]int{
		"elements":         1,
		"xray_levels":      2,
		"xray_transitions": 2,
		"Coster_Kronig":    2,
		"photoabsorption":  1,
		"scattering":       1,
	}, result.Sources[0].Tables)
	assert.Equal(t, 9+1+2+1+1, result.TotalRows)

	database := openBuilt(t, cfg.Database.Path)
	assert.Equal(t, 2, xraytest.CountRows(t, database, "Coster_Kronig"))
	assert.Equal(t, 1, xraytest.CountRows(t, database, "Waasmaier"))
	assert.Equal(t, 2, xraytest.CountRows(t, database, "KeskiRahkonen_Krause"))
	assert.Equal(t, 1, xraytest.CountRows(t, database, "Chantler"))
	assert.Equal(t, 1, xraytest.CountRows(t, database, "Chantler_orig"))

	var initial, final string
	var total float64
	require.NoError(t, database.QueryRow(
		`SELECT initial_level, final_level, total_transition_probability FROM Coster_Kronig WHERE id = 2`,
	).Scan(&initial, &final, &total))
	assert.Equal(t, "L1", initial)
	assert.Equal(t, "L3", final)
	assert.Equal(t, 0.58, total)

	var scale string
	require.NoError(t, database.QueryRow(`SELECT scale FROM Waasmaier WHERE id = 1`).Scan(&scale))
	assert.Equal(t, "[0.413048,0.294953,0.187491,0.080701,0.023736]", scale)
}

func TestProcess_ExistingDestination(t *testing.T) {
	dir := fixtureDir(t)
	cfg := testConfig(dir)
	require.NoError(t, os.WriteFile(cfg.Database.Path, []byte("not a database"), 0644))

	t.Run("refuses without force", func(t *testing.T) {
		_, err := NewProcessor(cfg, Options{}, nil).Process(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsAlreadyExists(err))
		assert.Contains(t, errors.GetAllHints(err), hintForce)
	})

	t.Run("silent skips", func(t *testing.T) {
		result, err := NewProcessor(cfg, Options{Silent: true}, nil).Process(context.Background())
		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.False(t, result.Success)

		data, err := os.ReadFile(cfg.Database.Path)
		require.NoError(t, err)
		assert.Equal(t, "not a database", string(data))
	})

	t.Run("force overwrites", func(t *testing.T) {
		result, err := NewProcessor(cfg, Options{Force: true}, nil).Process(context.Background())
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 1, xraytest.CountRows(t, openBuilt(t, cfg.Database.Path), "elements"))
	})
}

func TestProcess_MissingElam(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	_, err := NewProcessor(cfg, Options{}, nil).Process(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceMissing(err))

	result, err := NewProcessor(cfg, Options{Silent: true}, nil).Process(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.NoFileExists(t, cfg.Database.Path)
}

func TestProcess_MissingAuxiliarySource(t *testing.T) {
	dir := fixtureDir(t)
	cfg := testConfig(dir)
	require.NoError(t, os.Remove(filepath.Join(dir, am.DefaultKeskiRahkonen)))

	t.Run("fails without silent", func(t *testing.T) {
		_, err := NewProcessor(cfg, Options{}, nil).Process(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsSourceMissing(err))
		assert.NoFileExists(t, cfg.Database.Path)
	})

	t.Run("silent skips the source", func(t *testing.T) {
		result, err := NewProcessor(cfg, Options{Silent: true}, nil).Process(context.Background())
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.Sources[2].Skipped)

		database := openBuilt(t, cfg.Database.Path)
		assert.Equal(t, 0, xraytest.CountRows(t, database, "KeskiRahkonen_Krause"))
		assert.Equal(t, 1, xraytest.CountRows(t, database, "Waasmaier"))
	})
}

func TestProcess_ParseErrorLeavesNoDestination(t *testing.T) {
	dir := fixtureDir(t)
	cfg := testConfig(dir)
	bad := "/ Elam, Ravel, Sieber\nEdge K 7112.0 0.350 8.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, am.DefaultElamFile), []byte(bad), 0644))

	_, err := NewProcessor(cfg, Options{}, nil).Process(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnexpectedContext))
	assert.NoFileExists(t, cfg.Database.Path)
}

func TestProcess_DryRun(t *testing.T) {
	dir := fixtureDir(t)
	cfg := testConfig(dir)

	result, err := NewProcessor(cfg, Options{DryRun: true}, nil).Process(context.Background())
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Sources[1].Tables["Waasmaier"])
	assert.NoFileExists(t, cfg.Database.Path)
}

func TestNewProcessor_Options(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Build.Silent = true

	p := NewProcessor(cfg, Options{Destination: "other.sqlite", Force: true}, nil)
	assert.Equal(t, "other.sqlite", p.dest)
	assert.True(t, p.force)
	assert.True(t, p.silent)
}

func TestProcess_ForceKeepsDestinationOnParseError(t *testing.T) {
	dir := fixtureDir(t)
	cfg := testConfig(dir)
	require.NoError(t, os.WriteFile(cfg.Database.Path, []byte("previous build"), 0644))
	bad := "/ Elam, Ravel, Sieber\nElement Fe 26 55.85 7.87\nScatter\n    1 2 3 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, am.DefaultElamFile), []byte(bad), 0644))

	_, err := NewProcessor(cfg, Options{Force: true}, nil).Process(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFieldCount))

	data, err := os.ReadFile(cfg.Database.Path)
	require.NoError(t, err)
	assert.Equal(t, "previous build", string(data))
}

func TestProcess_ForceKeepsDestinationOnDuplicateElement(t *testing.T) {
	dir := fixtureDir(t)
	cfg := testConfig(dir)
	require.NoError(t, os.WriteFile(cfg.Database.Path, []byte("previous build"), 0644))
	dup := elamFixture + "Element Fe 26 55.85 7.87\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, am.DefaultElamFile), []byte(dup), 0644))

	_, err := NewProcessor(cfg, Options{Force: true}, nil).Process(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDuplicate))

	data, err := os.ReadFile(cfg.Database.Path)
	require.NoError(t, err)
	assert.Equal(t, "previous build", string(data))
}

func TestProcess_OpenFailureRemovesDestination(t *testing.T) {
	dir := fixtureDir(t)
	cfg := testConfig(dir)

	p := NewProcessor(cfg, Options{}, zaptest.NewLogger(t).Sugar())
	p.open = func(path string, _ *zap.SugaredLogger) (*sql.DB, error) {
		// file created, then a pragma fails
		require.NoError(t, os.WriteFile(path, nil, 0644))
		return nil, errors.New("failed to set journal mode")
	}

	_, err := p.Process(context.Background())
	require.Error(t, err)
	assert.NoFileExists(t, cfg.Database.Path)
}
