// Package logger provides structured logging for specvault.
//
// It wraps the standard library log/slog to provide structured JSON
// logging with automatic truncation of oversized attribute values, so
// manifest and slot file contents never flood the log stream.
//
// Features:
//   - JSON structured logging (default), text for terminals
//   - Truncation of large string attributes
//   - Context-aware logger propagation
//   - Dynamic log level adjustment
package logger
