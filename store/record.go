// Package store is the relational sink for parsed reference records.
//
// A Store declares the destination tables and opens Sessions. A Session is a
// single SQL transaction: records are appended in emission order and become
// visible only after Commit. Nothing is read back from the destination.
package store

import "context"

// Record is one destination row.
// Columns and Values are parallel; Values may contain FloatArray for
// array-valued columns.
type Record interface {
	Table() string
	Columns() []string
	Values() []any
}

// Sink receives records in emission order and persists them on Commit.
type Sink interface {
	Append(ctx context.Context, r Record) error
	Commit() error
}

// AppendAll appends records to sink in order, stopping at the first error.
func AppendAll(ctx context.Context, sink Sink, records ...Record) error {
	for _, r := range records {
		if err := sink.Append(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
