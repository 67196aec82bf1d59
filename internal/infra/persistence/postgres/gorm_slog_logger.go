package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormSlogLogger routes gorm output through slog. Records go to the
// request-scoped logger when the query context carries one, so SQL errors
// share the request_id of the auth call that caused them.
type gormSlogLogger struct {
	base  *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

func newGormSlogLogger(base *slog.Logger, cfg *config.Config) logger.Interface {
	level := logger.Warn
	if cfg != nil && cfg.Env.Debug {
		level = logger.Info
	}

	return &gormSlogLogger{base: base, level: level, slow: slowQueryThreshold}
}

// ParamsFilter drops bound values from logged SQL. Queries here carry
// password hashes and single-use tokens.
func (l *gormSlogLogger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Error, slog.LevelError, msg, args)
}

func (l *gormSlogLogger) message(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg string, args []any) {
	if l.level < threshold {
		return
	}

	l.log(ctx).LogAttrs(ctx, level, "gorm", slog.String("message", fmt.Sprintf(msg, args...)))
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	// Not-found is an expected outcome of lookups like FindByEmail.
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)

	var (
		level slog.Level
		msg   string
	)
	switch {
	case failed && l.level >= logger.Error:
		level, msg = slog.LevelError, "Credential store query failed"
	case elapsed > l.slow && l.level >= logger.Warn:
		level, msg = slog.LevelWarn, "Credential store slow query"
	case l.level >= logger.Info:
		level, msg = slog.LevelDebug, "Credential store query"
	default:
		return
	}

	sql, rows := sqlAndRowsFn()
	attrs := []slog.Attr{
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}
	if failed {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.log(ctx).LogAttrs(ctx, level, msg, attrs...)
}

func (l *gormSlogLogger) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, l.base)
}
