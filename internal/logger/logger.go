// Package logger provides a thin wrapper around zerolog.Logger with the
// constructors and context helpers used throughout the shopsync SDK.
//
// The Logger type embeds zerolog.Logger so the full zerolog API is available
// directly on *Logger. SDK code passes *Logger by pointer and obtains
// request-scoped loggers via FromContext.
package logger

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger. Embedding exposes the full
// zerolog API while leaving room for SDK-specific helpers.
type Logger struct {
	zerolog.Logger
}

// New constructs a *Logger for the given component label (e.g. "sdk",
// "sync-worker"). Entries are written to w as JSON with a "component" field,
// a timestamp, and a "func" caller field holding the fully-qualified function
// name.
func New(component string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	l := zerolog.New(w).With().
		Str("component", component).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// Nop returns a *Logger that discards all output. Intended for tests and for
// embedding applications that bring their own logging.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithContext stores the logger in ctx for later retrieval via FromContext.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext extracts the zerolog.Logger stored in ctx and returns it as a
// *Logger. If no logger has been attached, zerolog falls back to its global
// logger, so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
