package grpc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shhac/probe/internal/domain"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

// HealthChecker runs grpc.health.v1.Health/Check against a target and reports
// the result in the same shape as the HTTP health check.
type HealthChecker struct {
	manager *ConnectionManager
	target  Target
	service string
	logger  *slog.Logger
}

// NewHealthChecker creates a checker for service on target. An empty service
// asks for the server's overall health.
func NewHealthChecker(manager *ConnectionManager, target Target, service string, logger *slog.Logger) *HealthChecker {
	return &HealthChecker{
		manager: manager,
		target:  target,
		service: service,
		logger:  logger,
	}
}

// Health performs one Check RPC. RPC errors are returned as errors: the
// server never produced a health response. SERVING is the only status
// reported as OK.
func (h *HealthChecker) Health(ctx context.Context) (*domain.Response, error) {
	conn := h.manager.Conn()
	if conn == nil || h.manager.State() != StateConnected {
		var err error
		conn, err = h.manager.Connect(h.target)
		if err != nil {
			return nil, fmt.Errorf("connect to %s: %w", h.target.Address, err)
		}
	}

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{
		Service: h.service,
	})
	if err != nil {
		h.logger.Debug("gRPC health check failed",
			slog.String("address", h.target.Address),
			slog.String("service", h.service),
			slog.Any("error", err),
		)
		return nil, err
	}

	body, err := protojson.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal health response: %w", err)
	}

	status := resp.GetStatus()
	h.logger.Debug("gRPC health check completed",
		slog.String("address", h.target.Address),
		slog.String("status", status.String()),
	)

	return &domain.Response{
		Status: status.String(),
		OK:     status == grpc_health_v1.HealthCheckResponse_SERVING,
		Body:   body,
	}, nil
}
