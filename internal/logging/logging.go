// Package logging builds the JSON-lines logger shared by the HTTP layer, the
// upload pipeline and startup tasks. Every entry carries "ts" (RFC3339Nano in the
// configured location), "level" and "msg".
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// New returns a JSON logger writing to w. Timestamps are rendered in loc.
func New(w io.Writer, loc *time.Location, level slog.Level) *slog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			case slog.LevelKey:
				return slog.String("level", strings.ToLower(a.Value.String()))
			}
			return a
		},
	})
	return slog.New(h)
}

// Default writes info-level entries to stdout.
func Default(loc *time.Location) *slog.Logger {
	return New(os.Stdout, loc, slog.LevelInfo)
}

// Nop discards everything. Handy for tests and optional collaborators.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
