package gpumark

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gpumark/framebuffer"
	"github.com/gogpu/gpumark/gfx"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for gpumark and its sub-packages
// (gfx, its backends, and framebuffer). By default nothing is logged.
// Pass nil to restore silent logging.
//
// SetLogger is safe for concurrent use.
//
// Log levels used by gpumark:
//   - [slog.LevelDebug]: configuration diagnostics (resizes, drawable sizes)
//   - [slog.LevelInfo]: lifecycle events (context created, run started/ended)
//   - [slog.LevelWarn]: recoverable failures (incomplete framebuffer,
//     release errors)
//
// Per-frame paths never log.
//
// Example:
//
//	gpumark.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gfx.SetLogger(l)
	framebuffer.SetLogger(l)
}

// Logger returns the current logger used by gpumark.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
