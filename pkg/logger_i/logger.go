package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	inner *slog.Logger
}

// Init sets the default slog handler on stdout. When logFile is set, output is also written to a rotated file.
func Init(logFile string) {
	InitTo(os.Stdout, logFile)
}

// InitTo is Init with a chosen console writer. Stdio tools log to stderr so stdout stays clean.
func InitTo(out io.Writer, logFile string) {
	options := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}

	if logFile != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	var handler slog.Handler
	if config.IS_PROD {
		options.Level = config.LOG_LEVEL_PROD
		handler = slog.NewJSONHandler(out, options)

	} else {
		handler = slog.NewTextHandler(out, options)

	}
	newLogger := slog.New(handler)
	slog.SetDefault(newLogger)
}

func NewLogger(section string) *Logger {
	return &Logger{
		inner: slog.Default().With("component", section),
	}
}

func (l *Logger) Info(msg string, args ...any) {
	l.inner.Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.logWithSource(slog.LevelError, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.logWithSource(slog.LevelWarn, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.logWithSource(slog.LevelDebug, msg, args...)
}

func (l *Logger) logWithSource(level slog.Level, msg string, args ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	var pcs [1]uintptr
	// Skip 3 levels: runtime.Callers, logWithSource, and Err/Dbg wrapper
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.inner.Handler().Handle(context.Background(), r)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		inner: l.inner.With(args...),
	}
}

// Slog exposes the underlying logger for libraries that take an *slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.inner
}

// WithTrace tags the logger with the trace id carried by ctx, if any.
func (l *Logger) WithTrace(ctx context.Context) *Logger {
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && trace != "" {
		return l.With("traceId", trace)
	}
	return l
}
