// Package logging builds the slog loggers used across songexport.
//
// Two formats are supported: "console" writes logfmt-style lines for humans,
// "json" writes one JSON object per record. Debug level also records the
// source location.
package logging
