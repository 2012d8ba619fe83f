package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

// fanoutHandler sends each record to every handler that accepts its level.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// setupLogger builds a text console handler and, when a directory is
// configured, a JSON handler writing to the weekly rotating file.
func setupLogger(opts Options) (*slog.Logger, io.Closer) {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(opts.Env, opts.Level, opts.Verbose),
	})

	if opts.Dir == "" {
		return slog.New(console), nopCloser{}
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		l := slog.New(console)
		l.Error("Failed to create logs directory, logging to console only", "dir", opts.Dir, "error", err)
		return l, nopCloser{}
	}

	rf := newRotatingFile(opts.Dir, opts.RetentionWeeks, opts.MaxFileSize)
	fileLevel := slog.LevelInfo
	if opts.Level != "" {
		fileLevel = parseLogLevel(opts.Level)
	}
	file := slog.NewJSONHandler(rf, &slog.HandlerOptions{Level: fileLevel})

	return slog.New(fanoutHandler{console, file}), rf
}
