package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
const (
	// Components
	FieldComponent = "component"
	FieldSymbol    = "symbol"

	// Tables
	FieldTable   = "table"
	FieldSource  = "source"
	FieldFormat  = "format"
	FieldRecords = "records"
	FieldLine    = "line"

	// Lookups
	FieldAtomicNumber = "atomic_number"
	FieldInitial      = "initial"
	FieldIntermediate = "intermediate"
	FieldFinal        = "final"
	FieldEnergyEV     = "energy_ev"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Files and paths
	FieldPath  = "path"
	FieldCount = "count"
)

// ComponentLogger returns a named child of the global logger.
//
// Example:
//
//	store := relax.NewDefault(relax.WithLogger(logger.ComponentLogger("relax")))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	tableLog := logger.ChildLogger(base, logger.FieldTable, "pdrelax.p11")
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
