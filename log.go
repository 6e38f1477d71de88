package ui

import (
	"context"
	"log/slog"
	"os"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	DebugCtx(ctx context.Context, msg string, args ...any)
	InfoCtx(ctx context.Context, msg string, args ...any)
	WarnCtx(ctx context.Context, msg string, args ...any)
	ErrorCtx(ctx context.Context, msg string, args ...any)
}

type DefaultLogger struct {
	logger *slog.Logger
}

func NewDefaultLogger(level slog.Level) *DefaultLogger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	return &DefaultLogger{logger: logger}
}

// NewLoggerFrom wraps an existing slog handler chain.
func NewLoggerFrom(l *slog.Logger) *DefaultLogger {
	return &DefaultLogger{logger: l}
}

const prefix = "[uistate] "

func (d *DefaultLogger) Debug(msg string, args ...any) {
	d.logger.Debug(prefix+msg, args...)
}

func (d *DefaultLogger) Info(msg string, args ...any) {
	d.logger.Info(prefix+msg, args...)
}

func (d *DefaultLogger) Warn(msg string, args ...any) {
	d.logger.Warn(prefix+msg, args...)
}

func (d *DefaultLogger) Error(msg string, args ...any) {
	d.logger.Error(prefix+msg, args...)
}

type ctxArgsKey struct{}

func getDefaultArgs(ctx context.Context) []any {
	ctxargs, _ := ctx.Value(ctxArgsKey{}).([]any)
	return ctxargs
}

// WithDefaultArgs returns a context carrying attributes appended to every
// log record emitted through the *Ctx methods.
func WithDefaultArgs(ctx context.Context, args ...any) context.Context {
	dargs := append([]any(nil), getDefaultArgs(ctx)...)
	dargs = append(dargs, args...)
	return context.WithValue(ctx, ctxArgsKey{}, dargs)
}

func (d *DefaultLogger) DebugCtx(ctx context.Context, msg string, args ...any) {
	args = append(args, getDefaultArgs(ctx)...)
	d.logger.Debug(prefix+msg, args...)
}

func (d *DefaultLogger) InfoCtx(ctx context.Context, msg string, args ...any) {
	args = append(args, getDefaultArgs(ctx)...)
	d.logger.Info(prefix+msg, args...)
}

func (d *DefaultLogger) WarnCtx(ctx context.Context, msg string, args ...any) {
	args = append(args, getDefaultArgs(ctx)...)
	d.logger.Warn(prefix+msg, args...)
}

func (d *DefaultLogger) ErrorCtx(ctx context.Context, msg string, args ...any) {
	args = append(args, getDefaultArgs(ctx)...)
	d.logger.Error(prefix+msg, args...)
}

// Log is the package logger. It is silent below warning level by default.
var Log Logger = NewDefaultLogger(slog.LevelWarn)

func SetLogger(l Logger) {
	if l == nil {
		l = NewDefaultLogger(slog.LevelWarn)
	}
	Log = l
}

// DEBUG is a shorthand for Log.Debug.
func DEBUG(msg string, args ...any) {
	Log.Debug(msg, args...)
}
