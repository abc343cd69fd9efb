// Package logger provides structured logging for respkv.
//
// Two backends sit behind the Logger interface:
//
//   - slog (default): log/slog JSON or text handler
//   - zap: go.uber.org/zap SugaredLogger with ISO8601 timestamps
//
// Both share one dynamic level (SetLevel) so a config reload can change
// verbosity without rebuilding the logger. Output goes to stderr or, when a
// file path is configured, to a lumberjack rotating file. Long string values
// are abbreviated before they are written.
package logger
