package render

import (
	"context"
	"log/slog"
	"sync/atomic"

	"screenpaint/pkg/images"
	"screenpaint/pkg/text"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used for render diagnostics and passes it
// on to the image and font packages the renderer drives. Pass nil to restore
// the silent default everywhere.
func SetLogger(l *slog.Logger) {
	images.SetLogger(l)
	text.SetLogger(l)
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
