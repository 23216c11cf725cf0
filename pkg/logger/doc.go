// Package logger builds the process-wide slog.Logger.
//
// Production gets JSON output at info level for log aggregation; development
// gets text output at debug level. Components receive the logger through
// options at construction time and default to a discard logger, so library
// code never writes to a logger it was not given.
package logger
