package rpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"snake-server/logger"
)

// Server hosts the gRPC health and spectator services.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

// NewServer registers both services. Health reports SERVING until Shutdown.
func NewServer(arenas Arenas, opts ...grpc.ServerOption) *Server {
	gs := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	gs.RegisterService(&spectatorServiceDesc, &spectatorService{arenas: arenas})

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(SpectatorServiceName, healthpb.HealthCheckResponse_SERVING)
	return &Server{grpc: gs, health: hs}
}

// Serve blocks accepting connections on lis.
func (s *Server) Serve(lis net.Listener) error {
	logger.Log.WithField("addr", lis.Addr().String()).Info("gRPC server listening")
	return s.grpc.Serve(lis)
}

// Shutdown flips health to NOT_SERVING and drains open streams, forcing them
// closed once ctx expires.
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		logger.Log.Warn("gRPC graceful stop timed out, forcing")
		s.grpc.Stop()
	}
}
