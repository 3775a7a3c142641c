// Package term renders console runs to a terminal.
package term

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/shhac/probe/internal/console"
	"github.com/shhac/probe/internal/domain"
	apperrors "github.com/shhac/probe/internal/errors"
)

const spinnerInterval = 100 * time.Millisecond

// View writes run results to out. While a request is in flight a spinner is
// drawn on spinnerOut; a nil spinnerOut prints a plain status line instead.
type View struct {
	out        io.Writer
	spinnerOut io.Writer

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
}

// NewView creates a terminal view.
func NewView(out, spinnerOut io.Writer) *View {
	return &View{out: out, spinnerOut: spinnerOut}
}

// ShowFile prints the selected file.
func (v *View) ShowFile(name, size string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "%s %s (%s)\n", color.CyanString("File:"), name, size)
}

// SetUploadVisible is a no-op; the terminal has no upload controls.
func (v *View) SetUploadVisible(bool) {}

// SetRunEnabled is a no-op; runs are started by the check command.
func (v *View) SetRunEnabled(bool) {}

// ShowSubmitting starts the spinner.
func (v *View) ShowSubmitting() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopSpinnerLocked()
	if v.spinnerOut == nil {
		fmt.Fprintln(v.out, console.SubmittingStatusLine)
		return
	}

	v.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(console.SubmittingStatusLine)),
		progressbar.OptionSetWriter(v.spinnerOut),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
	)
	v.stop = make(chan struct{})
	v.done = make(chan struct{})
	go spin(v.bar, v.stop, v.done)
}

func spin(bar *progressbar.ProgressBar, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			_ = bar.Finish()
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func (v *View) stopSpinnerLocked() {
	if v.stop == nil {
		return
	}
	close(v.stop)
	<-v.done
	v.bar, v.stop, v.done = nil, nil, nil
}

// ShowOutcome stops the spinner and prints the status line, elapsed time,
// body and any recovery suggestions.
func (v *View) ShowOutcome(outcome domain.Outcome) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopSpinnerLocked()

	status := color.RedString("✗ %s", outcome.StatusLine)
	if outcome.Success {
		status = color.GreenString("✓ %s", outcome.StatusLine)
	}
	fmt.Fprintln(v.out, status)
	fmt.Fprintf(v.out, "%s %s\n", color.CyanString("Time:"), domain.FormatElapsed(outcome.Elapsed))

	if outcome.Body != "" {
		fmt.Fprintf(v.out, "\n%s\n", outcome.Body)
	}

	if uiErr := apperrors.ClassifyGRPCError(outcome.Err); uiErr != nil && len(uiErr.Recovery) > 0 {
		fmt.Fprintf(v.out, "\n%s\n", color.YellowString("%s. You can:", uiErr.Title))
		for _, r := range uiErr.Recovery {
			fmt.Fprintf(v.out, "  • %s\n", r)
		}
	}
}

// Close stops the spinner if one is running.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopSpinnerLocked()
}
