package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/xraydb/db"
	"github.com/teranos/xraydb/errors"
	"github.com/teranos/xraydb/logger"
)

// ErrSessionClosed is returned when a committed or rolled-back session is used again.
var ErrSessionClosed = errors.New("session already closed")

// SQLStore owns the destination database handle.
type SQLStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewSQLStore creates a store over an open database. A nil logger is silent.
func NewSQLStore(database *sql.DB, log *zap.SugaredLogger) *SQLStore {
	return &SQLStore{db: database, logger: logger.OrNop(log)}
}

// CreateSchema declares every destination table. Safe to call repeatedly.
func (s *SQLStore) CreateSchema(ctx context.Context) error {
	return db.ApplySchema(ctx, s.db, s.logger)
}

// Begin opens a session. The caller must Commit or Rollback it.
func (s *SQLStore) Begin(ctx context.Context) (*Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin session")
	}
	return &Session{
		tx:     tx,
		stmts:  make(map[string]*sql.Stmt),
		counts: make(map[string]int),
		logger: s.logger,
	}, nil
}

// Session appends records inside one transaction.
type Session struct {
	tx     *sql.Tx
	stmts  map[string]*sql.Stmt
	counts map[string]int
	order  []string
	closed bool
	logger *zap.SugaredLogger
}

var _ Sink = (*Session)(nil)

// Append inserts r. Insert statements are prepared once per table.
func (s *Session) Append(ctx context.Context, r Record) error {
	if s.closed {
		return ErrSessionClosed
	}

	table := r.Table()
	stmt, ok := s.stmts[table]
	if !ok {
		var err error
		stmt, err = s.tx.PrepareContext(ctx, insertQuery(table, r.Columns()))
		if err != nil {
			return errors.Wrapf(err, "prepare insert into %s", table)
		}
		s.stmts[table] = stmt
		s.order = append(s.order, table)
	}

	if _, err := stmt.ExecContext(ctx, r.Values()...); err != nil {
		return errors.Wrapf(err, "insert into %s", table)
	}
	s.counts[table]++
	return nil
}

// Commit flushes every appended row.
func (s *Session) Commit() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closeStatements()
	s.closed = true

	if err := s.tx.Commit(); err != nil {
		return errors.Wrap(err, "commit session")
	}

	for _, table := range s.order {
		s.logger.Debugw("Committed rows",
			logger.FieldTable, table,
			logger.FieldRows, s.counts[table],
		)
	}
	return nil
}

// Rollback discards every appended row. Rolling back a closed session is a no-op.
func (s *Session) Rollback() error {
	if s.closed {
		return nil
	}
	s.closeStatements()
	s.closed = true

	if err := s.tx.Rollback(); err != nil {
		return errors.Wrap(err, "rollback session")
	}
	return nil
}

// Counts returns the number of rows appended per table.
func (s *Session) Counts() map[string]int {
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

func (s *Session) closeStatements() {
	for _, stmt := range s.stmts {
		stmt.Close()
	}
}

// insertQuery quotes identifiers; some column names (offset) are SQL keywords.
func insertQuery(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = `"` + c + `"`
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	return fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`, table, strings.Join(quoted, ", "), placeholders)
}
