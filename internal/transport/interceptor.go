package transport

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor binds the acting staff member to the request
// context and logs every call with its outcome.
func UnaryServerInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		staffID := auth.GetStaffID(ctx)
		if staffID != "" {
			ctx = auth.WithStaffID(ctx, staffID)
		}

		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("staff_id", staffID),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			err = Error(err)
			fields = append(fields, zap.String("code", status.Code(err).String()), zap.Error(err))
			log.Warn("grpc call failed", fields...)
			return nil, err
		}
		log.Debug("grpc call", fields...)
		return resp, nil
	}
}
