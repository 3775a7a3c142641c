// Package console holds the test console's state and the rules that drive
// it: which controls are visible, when a run may start, and how a settled
// request is rendered. Rendering itself is delegated to a View.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shhac/probe/internal/domain"
	apperrors "github.com/shhac/probe/internal/errors"
)

// Status lines shown outside of a settled HTTP response.
const (
	SubmittingStatusLine = "Testing..."
	FailedStatusLine     = "Error: Request failed"
)

// RunState is the UI-visible state of the last test run.
type RunState int

const (
	StateIdle RunState = iota
	StateSubmitting
	StateSuccess
	StateFailure
)

// String returns a human-readable representation of the run state
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSubmitting:
		return "Submitting"
	case StateSuccess:
		return "Success"
	case StateFailure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// Transport sends the console's requests to the API under test.
type Transport interface {
	Health(ctx context.Context) (*domain.Response, error)
	Upload(ctx context.Context, endpoint string, file *domain.File) (*domain.Response, error)
	FetchSample(ctx context.Context, name string) (*domain.File, error)
}

// View renders controller state. Methods may be called from any goroutine.
type View interface {
	ShowFile(name, size string)
	SetUploadVisible(visible bool)
	SetRunEnabled(enabled bool)
	ShowSubmitting()
	ShowOutcome(outcome domain.Outcome)
}

// Snapshot is a copy of the controller state at one point in time.
type Snapshot struct {
	File       *domain.File
	Endpoint   string
	RunEnabled bool
	State      RunState
	Last       *domain.Outcome
}

// Controller mediates between UI events and the one outbound request of a
// test run.
//
// Runs are numbered as they start. When runs overlap, only the most recently
// started one is rendered; results of older runs are logged and dropped.
type Controller struct {
	transport Transport
	view      View
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	file     *domain.File
	endpoint string
	state    RunState
	last     *domain.Outcome
	seq      uint64
}

// NewController creates a controller with endpoint selected and renders the
// initial state to view.
func NewController(transport Transport, view View, logger *slog.Logger, endpoint string) *Controller {
	c := &Controller{
		transport: transport,
		view:      view,
		logger:    logger,
		now:       time.Now,
		endpoint:  endpoint,
	}

	c.mu.Lock()
	c.view.SetUploadVisible(!domain.IsHealth(endpoint))
	c.view.SetRunEnabled(c.runEnabledLocked())
	c.mu.Unlock()

	return c
}

// SelectFile replaces the selected file. A nil file is ignored.
func (c *Controller) SelectFile(file *domain.File) {
	if file == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.file = file
	c.view.ShowFile(file.Name, file.SizeLabel())
	c.view.SetRunEnabled(c.runEnabledLocked())

	c.logger.Debug("file selected",
		slog.String("name", file.Name),
		slog.String("content_type", file.ContentType),
		slog.Int("bytes", file.Size()),
	)
}

// SelectEndpoint sets the target endpoint. Upload controls are hidden for
// the health check and shown for every other endpoint.
func (c *Controller) SelectEndpoint(endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.endpoint = endpoint
	c.view.SetUploadVisible(!domain.IsHealth(endpoint))
	c.view.SetRunEnabled(c.runEnabledLocked())

	c.logger.Debug("endpoint selected", slog.String("endpoint", endpoint))
}

// LoadSample fetches a fixture from the sample server and selects it. On
// failure the error is logged and returned, and the controller state and
// view are left untouched.
func (c *Controller) LoadSample(ctx context.Context, name string) error {
	file, err := c.transport.FetchSample(ctx, name)
	if err != nil {
		c.logger.Warn("failed to load sample file",
			slog.String("sample", name),
			slog.Any("error", err),
		)
		return fmt.Errorf("load sample %q: %w", name, err)
	}

	c.SelectFile(file)
	return nil
}

// RunEnabled reports whether a test run may start now.
func (c *Controller) RunEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runEnabledLocked()
}

// RunTest starts a test run against the selected endpoint. The view shows
// the submitting state before this method returns; the request itself runs
// on its own goroutine. The returned channel is closed once the run has
// settled, and is nil when no run was started because Run is disabled.
func (c *Controller) RunTest(ctx context.Context) <-chan struct{} {
	start := c.now()

	c.mu.Lock()
	if !c.runEnabledLocked() {
		c.mu.Unlock()
		c.logger.Debug("run requested while disabled")
		return nil
	}
	c.seq++
	seq := c.seq
	endpoint := c.endpoint
	file := c.file
	c.state = StateSubmitting
	c.view.ShowSubmitting()
	c.mu.Unlock()

	c.logger.Info("starting test run",
		slog.String("endpoint", endpoint),
		slog.Uint64("run", seq),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, err := c.send(ctx, endpoint, file)
		c.settle(seq, endpoint, buildOutcome(resp, err, c.now().Sub(start)))
	}()
	return done
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var last *domain.Outcome
	if c.last != nil {
		o := *c.last
		last = &o
	}
	return Snapshot{
		File:       c.file,
		Endpoint:   c.endpoint,
		RunEnabled: c.runEnabledLocked(),
		State:      c.state,
		Last:       last,
	}
}

func (c *Controller) runEnabledLocked() bool {
	return domain.IsHealth(c.endpoint) || c.file != nil
}

func (c *Controller) send(ctx context.Context, endpoint string, file *domain.File) (*domain.Response, error) {
	if domain.IsHealth(endpoint) {
		return c.transport.Health(ctx)
	}
	return c.transport.Upload(ctx, endpoint, file)
}

func (c *Controller) settle(seq uint64, endpoint string, outcome domain.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.Debug("dropping result of superseded run",
			slog.Uint64("run", seq),
			slog.Uint64("latest", c.seq),
		)
		return
	}

	c.last = &outcome
	if outcome.Success {
		c.state = StateSuccess
	} else {
		c.state = StateFailure
	}
	c.view.ShowOutcome(outcome)

	attrs := []any{
		slog.String("endpoint", endpoint),
		slog.String("status", outcome.StatusLine),
		slog.Duration("elapsed", outcome.Elapsed),
	}
	if outcome.Err != nil {
		c.logger.Warn("test run failed", append(attrs, slog.Any("error", outcome.Err))...)
		return
	}
	c.logger.Info("test run settled", append(attrs, slog.Bool("success", outcome.Success))...)
}

// buildOutcome renders a settled request. A response whose body is not JSON
// is reported the same way as a request that got no response at all.
func buildOutcome(resp *domain.Response, err error, elapsed time.Duration) domain.Outcome {
	if err == nil && resp == nil {
		err = apperrors.ErrConnectionFailed
	}
	if err == nil {
		body, jsonErr := prettyJSON(resp.Body)
		if jsonErr == nil {
			return domain.Outcome{
				Elapsed:    elapsed,
				StatusLine: "Status: " + resp.Status,
				Success:    resp.OK,
				Body:       body,
			}
		}
		err = jsonErr
	}

	return domain.Outcome{
		Elapsed:    elapsed,
		StatusLine: FailedStatusLine,
		Success:    false,
		Body:       "Error: " + err.Error(),
		Err:        err,
	}
}

// prettyJSON re-indents a JSON document with two spaces. Only whitespace
// changes: key order, duplicate keys and number literals such as 0.0 are
// kept as the server sent them.
func prettyJSON(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidJSON, err)
	}
	return buf.String(), nil
}
