package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
)

// NewGRPCServer registers health, reflection and the Reconciler. Health
// starts as NOT_SERVING; call SetServing once the database answers.
func NewGRPCServer(svc ReconcilerServer, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	gs := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(logger)))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ReconcilerServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	// Reflection for grpcurl
	reflection.Register(gs)

	RegisterReconcilerServer(gs, svc)
	return gs, hs
}

// SetServing flips every health entry to SERVING.
func SetServing(hs *health.Server) {
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ReconcilerServiceName, healthpb.HealthCheckResponse_SERVING)
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx = common.WithRequestID(ctx, uuid.NewString())
		resp, err := handler(ctx, req)
		log := common.LoggerFrom(ctx, logger)
		if err != nil {
			log.Warn("rpc.failed", "method", info.FullMethod, "code", status.Code(err).String(), "error", err)
			return nil, err
		}
		log.Debug("rpc.ok", "method", info.FullMethod, "elapsed_ms", time.Since(start).Milliseconds())
		return resp, nil
	}
}
