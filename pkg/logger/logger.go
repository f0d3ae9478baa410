package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LevelDebug string = "DEBUG"
	LevelInfo  string = "INFO"
	LevelWarn  string = "WARN"
	LevelError string = "ERROR"
)

type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, err error, args ...any)
	GetSlogLogger() *slog.Logger
}

type logger struct {
	slog *slog.Logger
}

type options struct {
	out  io.Writer
	file *lumberjack.Logger
}

// Option customizes where the logger writes.
type Option func(*options)

// WithWriter replaces stdout as the primary output.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithFile additionally writes every record to a size-rotated file.
// Empty path disables the file sink.
func WithFile(path string, maxSizeMB, maxBackups int) Option {
	return func(o *options) {
		if path == "" {
			return
		}
		o.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
		}
	}
}

// InitLogger builds a JSON logger tagged with the service name and host.
// Unknown levels log everything.
func InitLogger(serviceName, logLevel string, opts ...Option) Logger {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	out := o.out
	if o.file != nil {
		out = io.MultiWriter(o.out, o.file)
	}

	level := slog.LevelDebug
	if ValidateLogLevel(logLevel) {
		_ = level.UnmarshalText([]byte(logLevel))
	}

	jh := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level, ReplaceAttr: renameAttr})
	base := slog.New(&contextHandler{handler: jh}).With(
		slog.String("service", serviceName),
		slog.String("hostname", hostname),
	)
	return &logger{slog: base}
}

// renameAttr writes "message" instead of "msg" and an RFC 3339 "timestamp" instead of "time".
func renameAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.MessageKey:
		a.Key = "message"
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			return slog.String("timestamp", t.Format(time.RFC3339))
		}
	}
	return a
}

// contextHandler adds the wrap.LogCtx fields carried by ctx to every record.
type contextHandler struct {
	handler slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.handler.Enabled(ctx, lvl)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if c, ok := ctx.Value(wrap.LogCtxKey).(wrap.LogCtx); ok {
		for _, f := range [...]struct{ key, val string }{
			{"action", c.Action},
			{"user_id", c.UserID},
			{"request_id", c.RequestID},
			{"session_id", c.SessionID},
		} {
			if f.val != "" {
				r.AddAttrs(slog.String(f.key, f.val))
			}
		}
	}
	return h.handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{handler: h.handler.WithGroup(name)}
}

func (l *logger) Debug(ctx context.Context, msg string, args ...any) {
	l.slog.DebugContext(ctx, msg, args...)
}

func (l *logger) Info(ctx context.Context, msg string, args ...any) {
	l.slog.InfoContext(ctx, msg, args...)
}

func (l *logger) Warn(ctx context.Context, msg string, args ...any) {
	l.slog.WarnContext(ctx, msg, args...)
}

func (l *logger) Error(ctx context.Context, msg string, err error, args ...any) {
	errMsg := "<nil>"
	if err != nil {
		errMsg = err.Error()
	}
	l.slog.ErrorContext(ctx, msg, append([]any{slog.Group("error", slog.String("msg", errMsg))}, args...)...)
}

func (l *logger) GetSlogLogger() *slog.Logger {
	return l.slog
}

// ValidateLogLevel reports whether lvl is one of DEBUG, INFO, WARN or ERROR.
func ValidateLogLevel(lvl string) bool {
	switch lvl {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	return InitLogger("nop", LevelError, WithWriter(io.Discard))
}
