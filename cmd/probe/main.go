package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/shhac/probe/internal/app"
	"github.com/shhac/probe/internal/logging"
	"github.com/shhac/probe/internal/ui"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flags holds command-line flags. Only flags the user actually set
// override the environment.
type flags struct {
	envFile    string
	debug      bool
	baseURL    string
	timeout    time.Duration
	grpcHealth string
	theme      string

	check app.CheckOptions
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	var cfg *app.Config

	rootCmd := &cobra.Command{
		Use:           "probe",
		Short:         "Manual test console for a document-analysis API",
		Long:          "Probe opens a window for uploading files to API endpoints and inspecting the JSON they return.",
		Version:       ui.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadEnvFile(f.envFile); err != nil {
				return err
			}
			cfg = app.ConfigFromEnv()
			f.apply(cmd, cfg)
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.envFile, "env-file", app.DefaultEnvFile, "Dotenv file to load before reading PROBE_* variables")
	pf.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&f.baseURL, "base-url", app.DefaultBaseURL, "Base URL of the API under test")
	pf.DurationVar(&f.timeout, "timeout", 0, "Per-request timeout (0 for none)")
	pf.StringVar(&f.grpcHealth, "grpc-health", "", "Address of a grpc.health.v1 server used for the health check")
	pf.StringVar(&f.theme, "theme", app.DefaultTheme, "Window theme: system, light or dark")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Run one test from the terminal",
		Long:  "Send one request through the console and print the status, elapsed time and body. Exits non-zero when the run fails.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewConsoleLogger(os.Stderr, cfg.Debug)
			return app.RunCheck(cmd.Context(), cfg, f.check, cmd.OutOrStdout(), os.Stderr, logger)
		},
	}
	checkCmd.Flags().StringVarP(&f.check.Endpoint, "endpoint", "e", "", "Endpoint path (defaults to the first configured endpoint)")
	checkCmd.Flags().StringVarP(&f.check.File, "file", "f", "", "Local file to upload")
	checkCmd.Flags().StringVarP(&f.check.Sample, "sample", "s", "", "Server sample to upload")
	checkCmd.MarkFlagsMutuallyExclusive("file", "sample")
	rootCmd.AddCommand(checkCmd)

	return rootCmd
}

// apply copies flags the user set on the command line into cfg.
func (f *flags) apply(cmd *cobra.Command, cfg *app.Config) {
	changed := cmd.Flags().Changed
	if changed("debug") {
		cfg.Debug = f.debug
	}
	if changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("grpc-health") {
		cfg.GRPCHealth = f.grpcHealth
	}
	if changed("theme") {
		cfg.Theme = f.theme
	}
}

// runGUI opens the console window with panic recovery.
func runGUI(cfg *app.Config) (err error) {
	// Create a temporary stdout logger for bootstrap errors
	tempLogger := logging.NewConsoleLogger(os.Stdout, false)

	defer func() {
		if r := recover(); r != nil {
			tempLogger.Error("panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	tempLogger.Info("starting Probe API test console")

	fyneApp := fyneapp.NewWithID("com.shhac.probe")

	probe, err := app.New(fyneApp, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if cerr := probe.Close(); cerr != nil {
			tempLogger.Warn("failed to close application", slog.Any("error", cerr))
		}
	}()

	mainWindow := ui.NewMainWindow(probe.FyneApp(), probe)

	// Run the application (blocking)
	probe.Run(mainWindow.Window())

	probe.Logger().Info("application shutdown complete")
	return nil
}
