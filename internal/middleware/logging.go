package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// loggerKey is the key used to store the logger in a context.
// Using a custom type prevents collisions.
type contextKey string

const loggerKey = contextKey("logger")

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLoggerFromCtx retrieves the operation-scoped logger from ctx.
// It returns nil if none was stored.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok {
		return nil
	}
	return logger
}

// StartOperation enriches baseLogger with an operation id and name, stores it
// in ctx and returns a func that logs completion with the elapsed time.
func StartOperation(ctx context.Context, baseLogger *slog.Logger, operation string) (context.Context, func(err error)) {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}
	start := time.Now()
	opLogger := baseLogger.With(
		slog.String("operation_id", uuid.NewString()),
		slog.String("operation", operation),
	)
	ctx = WithLogger(ctx, opLogger)

	return ctx, func(err error) {
		latency := time.Since(start)
		if err != nil {
			opLogger.Error("Operation failed",
				slog.String("error", err.Error()),
				slog.Duration("latency", latency),
			)
			return
		}
		opLogger.Info("Operation completed", slog.Duration("latency", latency))
	}
}
