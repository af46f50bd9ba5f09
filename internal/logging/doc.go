// Package logging assembles structured slog loggers and formatting helpers used
// across checkinq.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so sync passes can tag log lines
// with team IDs and pass IDs. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
