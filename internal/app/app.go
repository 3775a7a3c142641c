package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"

	"github.com/shhac/probe/internal/api"
	"github.com/shhac/probe/internal/console"
	"github.com/shhac/probe/internal/domain"
	"github.com/shhac/probe/internal/grpc"
	"github.com/shhac/probe/internal/logging"
	"github.com/shhac/probe/internal/ui"
)

// App is the main application coordinator, responsible for wiring
// together all components and managing their lifecycle.
type App struct {
	fyneApp     fyne.App
	window      fyne.Window
	config      *Config
	logger      *slog.Logger
	logCloser   io.Closer
	transport   console.Transport
	connManager *grpc.ConnectionManager
}

// New creates a new App instance with the given configuration.
// This performs all dependency injection and wiring.
func New(fyneApp fyne.App, cfg *Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := logging.InitLogger("probe", cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("initializing Probe",
		slog.Bool("debug", cfg.Debug),
		slog.String("base_url", cfg.BaseURL),
		slog.String("grpc_health", cfg.GRPCHealth),
	)

	transport, connManager := NewTransport(cfg, logger)

	if fyneApp != nil {
		ui.ApplyTheme(fyneApp, cfg.Theme)
	}

	logger.Info("application initialized successfully")

	return &App{
		fyneApp:     fyneApp,
		config:      cfg,
		logger:      logger,
		logCloser:   closer,
		transport:   transport,
		connManager: connManager,
	}, nil
}

// NewTransport builds the transport described by cfg. When a gRPC health
// target is configured the returned connection manager owns its connection;
// otherwise it is nil.
func NewTransport(cfg *Config, logger *slog.Logger) (console.Transport, *grpc.ConnectionManager) {
	client := api.NewClient(cfg.BaseURL, cfg.Timeout, logger)
	if cfg.GRPCHealth == "" {
		return client, nil
	}

	manager := grpc.NewConnectionManager(logger)
	checker := grpc.NewHealthChecker(manager, grpc.Target{
		Address: cfg.GRPCHealth,
		UseTLS:  cfg.GRPCHealthTLS,
	}, cfg.GRPCHealthService, logger)

	return &grpcHealthTransport{Client: client, checker: checker, timeout: cfg.Timeout}, manager
}

// grpcHealthTransport serves uploads and samples over HTTP and the health
// check over grpc.health.v1.
type grpcHealthTransport struct {
	*api.Client
	checker *grpc.HealthChecker
	timeout time.Duration
}

func (t *grpcHealthTransport) Health(ctx context.Context) (*domain.Response, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.checker.Health(ctx)
}

// Run starts the application and displays the main window.
// This is a blocking call that runs the Fyne event loop.
func (a *App) Run(window fyne.Window) {
	a.window = window
	a.logger.Info("starting application")
	a.window.ShowAndRun()
}

// Close releases the gRPC connection and the log file.
func (a *App) Close() error {
	if a.connManager != nil {
		if err := a.connManager.Disconnect(); err != nil {
			a.logger.Warn("failed to close gRPC connection", slog.Any("error", err))
		}
	}
	a.logger.Info("shutting down")
	return a.logCloser.Close()
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Transport returns the transport used by the console controller.
func (a *App) Transport() console.Transport {
	return a.transport
}

// Endpoints returns the configured endpoint paths.
func (a *App) Endpoints() []string {
	return a.config.Endpoints
}

// Samples returns the configured sample file names.
func (a *App) Samples() []string {
	return a.config.Samples
}

// Config returns the active configuration.
func (a *App) Config() *Config {
	return a.config
}

// FyneApp returns the underlying Fyne application instance.
func (a *App) FyneApp() fyne.App {
	return a.fyneApp
}
