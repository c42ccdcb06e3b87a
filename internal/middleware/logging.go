package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// handled by the server, streaming calls included. It logs the procedure
// name, user ID, duration, and any error codes/messages.
func LoggingInterceptor(logger *slog.Logger) connect.Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingInterceptor{logger: logger}
}

type loggingInterceptor struct {
	logger *slog.Logger
}

func (i *loggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		start := time.Now()
		resp, err := next(ctx, req)
		i.log(ctx, req.Spec().Procedure, "RPC", start, err)
		return resp, err
	}
}

func (i *loggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *loggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		i.logger.Info("Stream opened", "procedure", conn.Spec().Procedure, "user_id", GetUserID(ctx))
		err := next(ctx, conn)
		i.log(ctx, conn.Spec().Procedure, "Stream", start, err)
		return err
	}
}

func (i *loggingInterceptor) log(ctx context.Context, procedure, kind string, start time.Time, err error) {
	userID := GetUserID(ctx) // empty if pre-auth
	duration := time.Since(start).Milliseconds()

	if err == nil {
		i.logger.Info(kind+" ok",
			"procedure", procedure,
			"user_id", userID,
			"duration_ms", duration,
		)
		return
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		i.logger.Warn(kind+" error",
			"procedure", procedure,
			"code", connectErr.Code(),
			"error", connectErr.Message(),
			"user_id", userID,
			"duration_ms", duration,
		)
		return
	}
	i.logger.Error(kind+" error",
		"procedure", procedure,
		"error", err,
		"user_id", userID,
		"duration_ms", duration,
	)
}
