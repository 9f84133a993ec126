package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across xraydb.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Sources and destinations
	FieldSource      = "source"
	FieldPath        = "path"
	FieldDestination = "destination"
	FieldTable       = "table"

	// Input position
	FieldLine = "line"

	// Domain
	FieldElement = "element"
	FieldEdge    = "edge"

	// Counts and sizes
	FieldCount      = "count"
	FieldRows       = "rows"
	FieldTotalCount = "total_count"
	FieldWorkers    = "workers"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	parser := elam.NewParser(logger.ComponentLogger("ixgest.elam"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

// OrNop returns l, or a no-op logger when l is nil.
// Components accept a nil logger to mean "operate silently".
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
