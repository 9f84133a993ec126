package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/xraydb/errors"
)

// SQLiteBusyTimeoutMS is the busy timeout applied to every connection
const SQLiteBusyTimeoutMS = 5000

// Open opens a SQLite database at the specified path.
// If logger is provided, logs database operations; otherwise operates silently.
func Open(path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	if logger != nil {
		logger.Debugw("Opening database", "path", path)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// Single-file output: rollback journal, no WAL sidecar files
	if _, err := db.Exec("PRAGMA journal_mode = DELETE"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to set journal mode")
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to enable foreign keys")
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", SQLiteBusyTimeoutMS)); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to set busy timeout")
	}

	if logger != nil {
		logger.Infow("Database opened successfully",
			"path", path,
			"journal_mode", "delete",
			"foreign_keys", true,
		)
	}

	return db, nil
}

// OpenWithSchema opens the database and declares every destination table.
func OpenWithSchema(path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	db, err := Open(path, logger)
	if err != nil {
		return nil, err
	}
	if err := ApplySchema(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to apply schema")
	}
	return db, nil
}
