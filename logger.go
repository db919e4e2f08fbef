package faiss

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/go-faiss/native"
)

// Logger is the structured logger shared by indexes, results and
// selectors. Every index logs under an "engine" attribute.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps handler. A nil handler logs text at Info to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger logs JSON records at or above level to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger logs key=value records at or above level to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger drops everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// WithEngine tags records with the engine name.
func (l *Logger) WithEngine(name string) *Logger {
	return &Logger{Logger: l.Logger.With("engine", name)}
}

// WithDimension tags records with the vector dimension.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{Logger: l.Logger.With("dimension", dim)}
}

// LogTrain logs a train operation.
func (l *Logger) LogTrain(ctx context.Context, n int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "train failed",
			"vectors", n,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "train completed",
			"vectors", n,
		)
	}
}

// LogAdd logs an add or add_with_ids operation.
func (l *Logger) LogAdd(ctx context.Context, n int, withIDs bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add failed",
			"vectors", n,
			"with_ids", withIDs,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "add completed",
			"vectors", n,
			"with_ids", withIDs,
		)
	}
}

// LogSearch logs a search or assign operation.
func (l *Logger) LogSearch(ctx context.Context, nq, k int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"queries", nq,
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"queries", nq,
			"k", k,
		)
	}
}

// LogRangeSearch logs a range search operation.
func (l *Logger) LogRangeSearch(ctx context.Context, nq, found int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "range search failed",
			"queries", nq,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "range search completed",
			"queries", nq,
			"results", found,
		)
	}
}

// LogReset logs a reset operation.
func (l *Logger) LogReset(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reset failed", "error", err)
	} else {
		l.DebugContext(ctx, "reset completed")
	}
}

// LogRemoveIDs logs a remove_ids operation.
func (l *Logger) LogRemoveIDs(ctx context.Context, removed uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "remove ids failed", "error", err)
	} else {
		l.DebugContext(ctx, "remove ids completed", "removed", removed)
	}
}

// LogRelease logs the release of a native resource.
func (l *Logger) LogRelease(ctx context.Context, kind native.Kind, h native.Handle) {
	l.DebugContext(ctx, "native resource released",
		"kind", kind.String(),
		"handle", uintptr(h),
	)
}

// LogWrap logs the construction of an id map around an index.
func (l *Logger) LogWrap(ctx context.Context, inner native.Handle, err error) {
	if err != nil {
		l.ErrorContext(ctx, "id map wrap failed",
			"inner", uintptr(inner),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "id map wrapped index",
			"inner", uintptr(inner),
		)
	}
}

// LogUnwrap logs the recovery of an index from an id map.
func (l *Logger) LogUnwrap(ctx context.Context, inner native.Handle, ntotal uint64) {
	l.DebugContext(ctx, "id map unwrapped index",
		"inner", uintptr(inner),
		"ntotal", ntotal,
	)
}
