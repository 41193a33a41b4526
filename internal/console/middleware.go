package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

type handlerFunc func(ctx context.Context) error

var errCommandPanicked = errors.New("command aborted by an internal error")

// recovery converts a panic inside a command into an error so the menu loop
// keeps running, and logs it with its stack trace
func recovery(logger *slog.Logger, next handlerFunc) handlerFunc {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered",
					"error", r,
					"stack", string(debug.Stack()),
				)
				err = fmt.Errorf("%w: %v", errCommandPanicked, r)
			}
		}()
		return next(ctx)
	}
}

// logging records how each command ended and how long it took
func logging(logger *slog.Logger, next handlerFunc) handlerFunc {
	return func(ctx context.Context) error {
		start := time.Now()
		err := next(ctx)

		attrs := []any{"latency", time.Since(start)}
		if err != nil {
			attrs = append(attrs, "error", err)
			logger.Info("Command rejected", attrs...)
			return err
		}
		logger.Info("Command completed", attrs...)
		return nil
	}
}
