package grpc

import (
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// ConnectionState represents the current state of the gRPC connection
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnected
	StateError
)

// String returns a human-readable representation of the connection state
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Target describes the gRPC server used for health checks.
type Target struct {
	Address string
	UseTLS  bool
}

// ConnectionManager owns the client connection to the health check target.
// Connections are created lazily by grpc.NewClient; no I/O happens until the
// first RPC.
type ConnectionManager struct {
	conn   *grpc.ClientConn
	state  ConnectionState
	target Target
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger *slog.Logger) *ConnectionManager {
	return &ConnectionManager{
		state:  StateDisconnected,
		logger: logger,
	}
}

// Connect creates a client connection for target, replacing any existing one.
func (m *ConnectionManager) Connect(target Target) (*grpc.ClientConn, error) {
	kaParams := keepalive.ClientParameters{
		Time:                30 * time.Second,
		Timeout:             5 * time.Second,
		PermitWithoutStream: false,
	}

	opts := []grpc.DialOption{
		grpc.WithKeepaliveParams(kaParams),
	}

	if target.UseTLS {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(nil)))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(target.Address, opts...)
	if err != nil {
		m.logger.Error("failed to create gRPC client",
			slog.String("address", target.Address),
			slog.Any("error", err),
		)
		m.setState(StateError)
		return nil, err
	}

	m.mu.Lock()
	if m.conn != nil {
		oldConn := m.conn
		go func() {
			if err := oldConn.Close(); err != nil {
				m.logger.Warn("failed to close old connection", slog.Any("error", err))
			}
		}()
	}
	m.conn = conn
	m.target = target
	m.state = StateConnected
	m.mu.Unlock()

	m.logger.Info("gRPC health target configured",
		slog.String("address", target.Address),
		slog.Bool("tls", target.UseTLS),
	)
	return conn, nil
}

// Conn returns the current connection, or nil before Connect.
func (m *ConnectionManager) Conn() *grpc.ClientConn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn
}

// State returns the current connection state
func (m *ConnectionManager) State() ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Disconnect closes the connection if one is open.
func (m *ConnectionManager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		m.state = StateDisconnected
		return nil
	}

	addr := m.target.Address
	if err := m.conn.Close(); err != nil {
		m.logger.Error("failed to close connection",
			slog.String("address", addr),
			slog.Any("error", err),
		)
		m.state = StateError
		return err
	}

	m.conn = nil
	m.target = Target{}
	m.state = StateDisconnected
	m.logger.Info("gRPC connection closed", slog.String("address", addr))
	return nil
}

func (m *ConnectionManager) setState(state ConnectionState) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}
