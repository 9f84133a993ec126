package db

import (
	"context"
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/xraydb/errors"
)

//go:embed sqlite/schema/*.sql
var schemaFiles embed.FS

const schemaDir = "sqlite/schema"

// SchemaFiles returns the embedded schema file names in application order.
func SchemaFiles() ([]string, error) {
	entries, err := schemaFiles.ReadDir(schemaDir)
	if err != nil {
		return nil, errors.Wrap(err, "read schema dir")
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ApplySchema executes every embedded schema file in one transaction.
// All statements are CREATE ... IF NOT EXISTS, so repeated calls are no-ops.
// If logger is provided, logs progress; otherwise operates silently.
func ApplySchema(ctx context.Context, db *sql.DB, logger *zap.SugaredLogger) error {
	names, err := SchemaFiles()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin schema tx")
	}

	for _, name := range names {
		sqlBytes, err := schemaFiles.ReadFile(path.Join(schemaDir, name))
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "read %s", name)
		}

		if logger != nil {
			logger.Debugw("Applying schema file", "file", name)
		}

		if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "execute %s", name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit schema")
	}

	if logger != nil {
		logger.Infow("Schema ready", "files", len(names))
	}
	return nil
}
