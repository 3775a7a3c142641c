package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shhac/probe/internal/console"
	"github.com/shhac/probe/internal/domain"
	apperrors "github.com/shhac/probe/internal/errors"
	"github.com/shhac/probe/internal/term"
)

// ErrCheckFailed is returned by RunCheck when the run settled as a failure.
var ErrCheckFailed = errors.New("check failed")

// CheckOptions selects what a headless check sends.
type CheckOptions struct {
	Endpoint string // Defaults to the first configured endpoint
	File     string // Local file to upload
	Sample   string // Sample to fetch from the server and upload
}

// RunCheck performs one test run without a window, rendering to out. A
// spinner is drawn on spinnerOut while the request is in flight; pass nil
// to disable it.
func RunCheck(ctx context.Context, cfg *Config, opts CheckOptions, out, spinnerOut io.Writer, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if opts.File != "" && opts.Sample != "" {
		return errors.New("--file and --sample are mutually exclusive")
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = cfg.Endpoints[0]
	}
	if domain.IsHealth(endpoint) && (opts.File != "" || opts.Sample != "") {
		return fmt.Errorf("%s sends no file: drop --file and --sample", endpoint)
	}

	transport, connManager := NewTransport(cfg, logger)
	if connManager != nil {
		defer func() { _ = connManager.Disconnect() }()
	}

	view := term.NewView(out, spinnerOut)
	defer view.Close()

	controller := console.NewController(transport, view, logger, endpoint)

	switch {
	case domain.IsHealth(endpoint):
	case opts.File != "":
		file, err := readLocalFile(opts.File)
		if err != nil {
			return err
		}
		controller.SelectFile(file)
	case opts.Sample != "":
		if err := controller.LoadSample(ctx, opts.Sample); err != nil {
			return err
		}
	}

	done := controller.RunTest(ctx)
	if done == nil {
		return fmt.Errorf("%s: %w", endpoint, apperrors.ErrNoFileSelected)
	}
	<-done

	if last := controller.Snapshot().Last; last == nil || !last.Success {
		return ErrCheckFailed
	}
	return nil
}

func readLocalFile(path string) (*domain.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.NewFile(filepath.Base(path), "", data), nil
}
