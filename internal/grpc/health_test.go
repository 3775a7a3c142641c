package grpc

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/shhac/probe/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Package-level test infrastructure shared by all tests.
var (
	testAddr   string
	testServer *grpc.Server
)

func TestMain(m *testing.M) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen: %v\n", err)
		os.Exit(1)
	}
	testAddr = lis.Addr().String()

	hs := health.NewServer()
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus("analysis", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	testServer = grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(testServer, hs)

	go func() {
		if err := testServer.Serve(lis); err != nil {
			fmt.Fprintf(os.Stderr, "server exited: %v\n", err)
		}
	}()

	code := m.Run()

	testServer.Stop()
	os.Exit(code)
}

func newChecker(t *testing.T, address, service string) *HealthChecker {
	t.Helper()
	logger := logging.NewNopLogger()
	manager := NewConnectionManager(logger)
	t.Cleanup(func() { _ = manager.Disconnect() })
	return NewHealthChecker(manager, Target{Address: address}, service, logger)
}

func TestHealthChecker_Serving(t *testing.T) {
	checker := newChecker(t, testAddr, "")

	resp, err := checker.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "SERVING", resp.Status)
	assert.Zero(t, resp.StatusCode)
	assert.JSONEq(t, `{"status":"SERVING"}`, string(resp.Body))
}

func TestHealthChecker_NotServing(t *testing.T) {
	checker := newChecker(t, testAddr, "analysis")

	resp, err := checker.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "NOT_SERVING", resp.Status)
	assert.JSONEq(t, `{"status":"NOT_SERVING"}`, string(resp.Body))
}

func TestHealthChecker_UnknownService(t *testing.T) {
	checker := newChecker(t, testAddr, "nope")

	resp, err := checker.Health(context.Background())
	assert.Nil(t, resp)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealthChecker_Unreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	checker := newChecker(t, addr, "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := checker.Health(ctx)
	assert.Nil(t, resp)
	assert.Error(t, err)
}

func TestHealthChecker_ReconnectsAfterDisconnect(t *testing.T) {
	checker := newChecker(t, testAddr, "")

	_, err := checker.Health(context.Background())
	require.NoError(t, err)
	require.NoError(t, checker.manager.Disconnect())
	assert.Equal(t, StateDisconnected, checker.manager.State())

	resp, err := checker.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, StateConnected, checker.manager.State())
}

func TestConnectionManager_Lifecycle(t *testing.T) {
	manager := NewConnectionManager(logging.NewNopLogger())
	assert.Equal(t, StateDisconnected, manager.State())
	assert.Nil(t, manager.Conn())

	conn, err := manager.Connect(Target{Address: testAddr})
	require.NoError(t, err)
	assert.Same(t, conn, manager.Conn())
	assert.Equal(t, StateConnected, manager.State())

	require.NoError(t, manager.Disconnect())
	assert.Nil(t, manager.Conn())
	assert.Equal(t, StateDisconnected, manager.State())

	// Disconnecting twice is a no-op
	assert.NoError(t, manager.Disconnect())
}

func TestConnectionState_String(t *testing.T) {
	assert.Equal(t, "Disconnected", StateDisconnected.String())
	assert.Equal(t, "Connected", StateConnected.String())
	assert.Equal(t, "Error", StateError.String())
	assert.Equal(t, "Unknown", ConnectionState(42).String())
}
