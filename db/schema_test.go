package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var destinationTables = []string{
	"elements",
	"xray_levels",
	"xray_transitions",
	"Coster_Kronig",
	"photoabsorption",
	"scattering",
	"Waasmaier",
	"KeskiRahkonen_Krause",
	"Chantler",
	"Chantler_orig",
}

func TestSchemaFiles(t *testing.T) {
	names, err := SchemaFiles()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_elam.sql", names[0])
	assert.IsIncreasing(t, names)
}

func TestOpenWithSchema(t *testing.T) {
	t.Run("declares every destination table", func(t *testing.T) {
		db, err := OpenWithSchema(filepath.Join(t.TempDir(), "test.db"), zaptest.NewLogger(t).Sugar())
		require.NoError(t, err)
		defer db.Close()

		for _, table := range destinationTables {
			var count int
			err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, 1, count, "table %s should exist", table)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		db, err := OpenWithSchema(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, ApplySchema(context.Background(), db, nil))
		require.NoError(t, ApplySchema(context.Background(), db, nil))
	})

	t.Run("columns match the published layout", func(t *testing.T) {
		db, err := OpenWithSchema(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		rows, err := db.Query("SELECT name FROM pragma_table_info('scattering') ORDER BY cid")
		require.NoError(t, err)
		defer rows.Close()

		var columns []string
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			columns = append(columns, name)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []string{
			"id", "element", "log_energy",
			"log_coherent_scatter", "log_coherent_scatter_spline",
			"log_incoherent_scatter", "log_incoherent_scatter_spline",
		}, columns)
	})
}
