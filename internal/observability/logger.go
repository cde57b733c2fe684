// Package observability provides logging, metrics, and tracing for the
// exprfmt command.
//
// Features:
//   - Structured logging via slog
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds the input source to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "exprs.txt")
//	enriched.Info("reading") // includes source
func EnrichLogger(logger *slog.Logger, source string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("source", source))
}

// LogSourceStart logs the start of reading an input source.
func LogSourceStart(logger *slog.Logger, source string) {
	if logger == nil {
		return
	}
	logger.Info("reading expressions",
		slog.String("source", source),
	)
}

// LogSourceComplete logs the end of an input source.
func LogSourceComplete(logger *slog.Logger, source string, durationMs float64, inputs, failures int) {
	if logger == nil {
		return
	}
	logger.Info("finished expressions",
		slog.String("source", source),
		slog.Float64("duration_ms", durationMs),
		slog.Int("inputs", inputs),
		slog.Int("failures", failures),
	)
}

// LogReformatted logs one reformatted expression.
func LogReformatted(logger *slog.Logger, line int, changed bool, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("reformatted",
		slog.Int("line", line),
		slog.Bool("changed", changed),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogFailure logs an expression that could not be reformatted.
func LogFailure(logger *slog.Logger, line int, err error) {
	if logger == nil {
		return
	}
	logger.Warn("invalid expression",
		slog.Int("line", line),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// The returned function reports the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
