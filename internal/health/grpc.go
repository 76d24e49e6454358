package health

import (
	"context"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// PipelineService is the gRPC health service name of the odds pipeline
const PipelineService = "betkick.pipeline"

// GRPCHealth exposes the standard grpc.health.v1 service. The pipeline reports
// NOT_SERVING while the maintenance window is open.
type GRPCHealth struct {
	port   string
	health *grpchealth.Server
	server *grpc.Server
	logger *logrus.Logger
}

// NewGRPCHealth creates a gRPC health server listening on port once started
func NewGRPCHealth(port string, logger *logrus.Logger) *GRPCHealth {
	h := &GRPCHealth{
		port:   port,
		health: grpchealth.NewServer(),
		logger: logger,
	}
	h.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.health.SetServingStatus(PipelineService, healthpb.HealthCheckResponse_SERVING)
	return h
}

// SetMaintenance flips the pipeline status for the maintenance window
func (h *GRPCHealth) SetMaintenance(active bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if active {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus(PipelineService, status)
}

// Check answers a health request without going through the network
func (h *GRPCHealth) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := h.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.Status, nil
}

// Start listens and serves in the background until ctx is cancelled
func (h *GRPCHealth) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", ":"+h.port)
	if err != nil {
		return fmt.Errorf("failed to listen on grpc health port %s: %w", h.port, err)
	}

	h.server = grpc.NewServer()
	healthpb.RegisterHealthServer(h.server, h.health)

	go func() {
		if h.logger != nil {
			h.logger.WithField("port", h.port).Info("gRPC health server starting")
		}
		if err := h.server.Serve(lis); err != nil && h.logger != nil {
			h.logger.WithError(err).Error("gRPC health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		h.Shutdown()
	}()

	return nil
}

// Shutdown marks every service NOT_SERVING and stops the server gracefully
func (h *GRPCHealth) Shutdown() {
	h.health.Shutdown()
	if h.server != nil {
		h.server.GracefulStop()
	}
}
