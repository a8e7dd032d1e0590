package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/tasktracker-server/internal/mocks"
	"github.com/dtroode/tasktracker-server/internal/testutil"
)

func servingStatus(t *testing.T, c *Checker, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := c.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	pinger := mocks.NewPinger(t)
	c := NewChecker(pinger, time.Minute, testutil.MakeNoopLogger())

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, c, ""))

	pinger.On("Ping", mock.Anything).Return(nil).Once()
	assert.True(t, c.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, c, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, c, ServiceName))

	pinger.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()
	assert.False(t, c.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, c, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, c, ServiceName))
}

func TestChecker_UnknownService(t *testing.T) {
	t.Parallel()

	c := NewChecker(mocks.NewPinger(t), 0, testutil.MakeNoopLogger())

	_, err := c.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: "other"})
	assert.Error(t, err)
	assert.Equal(t, defaultInterval, c.interval)
}

func TestChecker_Run(t *testing.T) {
	t.Parallel()

	pinger := mocks.NewPinger(t)
	pinger.On("Ping", mock.Anything).Return(nil)

	c := NewChecker(pinger, 10*time.Millisecond, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		resp, err := c.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, c, ServiceName))
}
