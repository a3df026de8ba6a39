package wgrender

import (
	"log/slog"

	"github.com/gogpu/wgrender/internal/logging"
)

// SetLogger configures the logger for wgrender and all its sub-packages.
// By default, wgrender produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by wgrender:
//   - [slog.LevelDebug]: per-frame diagnostics (surface configuration, pipeline creation, frame failures)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, renderer closed)
//   - [slog.LevelWarn]: non-fatal issues (deferred resize failed)
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	wgrender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger used by wgrender.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
