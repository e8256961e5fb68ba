package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/config"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health check name of the billing service.
const ServiceName = "listing.v1.BillingService"

// Server exposes the standard gRPC health service.
type Server struct {
	config *config.Config
	logger *zap.Logger
	server *grpc.Server
	health *health.Server
}

func NewServer(cfg *config.Config, log *zap.Logger) *Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(logger.NewGrpcUnaryServerInterceptor(log)),
		grpc.ChainStreamInterceptor(logger.NewGrpcStreamServerInterceptor(log)),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	return &Server{
		config: cfg,
		logger: log,
		server: server,
		health: healthServer,
	}
}

// SetServing flips the reported health of the service.
func (s *Server) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *Server) Start() error {
	addr := s.config.Server.GRPC.Addr()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.logger.Info("Starting gRPC server", zap.String("address", addr))
	return s.Serve(listener)
}

// Serve accepts connections on listener until the server stops.
func (s *Server) Serve(listener net.Listener) error {
	return s.server.Serve(listener)
}

// Shutdown reports NOT_SERVING, then drains in-flight calls until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}
