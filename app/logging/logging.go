package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

var (
	mu   sync.Mutex
	base *slog.Logger
)

// Init configures the process logger once. Later calls return the existing one.
func Init(app, filePath string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if base != nil {
		return base
	}

	var w io.Writer = os.Stdout
	if filePath != "" {
		_ = os.MkdirAll(filepath.Dir(filePath), 0o755)
		rot := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		w = io.MultiWriter(os.Stdout, rot)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	base = slog.New(h).With("app", app)
	slog.SetDefault(base)
	return base
}

// Base returns the process logger, falling back to slog's default when Init
// has not run (tests).
func Base() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		return slog.Default()
	}
	return base
}

func New(component string) *slog.Logger {
	return Base().With("component", component)
}

// Discard is a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func WithCtx(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromCtx(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Base()
}
