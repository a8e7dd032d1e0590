// Package health keeps the gRPC health service in sync with storage reachability.
package health

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// ServiceName is the gRPC health service name reported for the task API.
const ServiceName = "tasktracker.v1.Tasks"

const (
	defaultInterval = 15 * time.Second
	pingTimeout     = 2 * time.Second
)

// Checker pings storage and publishes the result through a gRPC health server.
type Checker struct {
	pinger   model.Pinger
	server   *health.Server
	interval time.Duration
	logger   *logger.Logger
}

// NewChecker creates a Checker. Both services start as NOT_SERVING until the first check.
func NewChecker(pinger model.Pinger, interval time.Duration, logger *logger.Logger) *Checker {
	if interval <= 0 {
		interval = defaultInterval
	}

	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Checker{pinger: pinger, server: srv, interval: interval, logger: logger}
}

// Server returns the health service to register on a gRPC server.
func (c *Checker) Server() healthpb.HealthServer {
	return c.server
}

// Check pings storage once and updates the serving status. It reports whether storage answered.
func (c *Checker) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	err := c.pinger.Ping(pingCtx)
	if err != nil {
		c.logger.Warn("Health checker: storage ping failed", "error", err.Error())
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)

	return err == nil
}

// Run checks immediately and then on every interval until ctx is done.
// On return every service reports NOT_SERVING.
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer c.server.Shutdown()

	c.Check(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}
