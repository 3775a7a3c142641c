package ui

import (
	"errors"
	"syscall"
	"testing"
	"time"

	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/test"
	"github.com/shhac/probe/internal/console"
	"github.com/shhac/probe/internal/domain"
	"github.com/shhac/probe/internal/model"
	"github.com/stretchr/testify/assert"
)

func eventuallyString(t *testing.T, b binding.String, want string) {
	t.Helper()
	assert.Eventually(t, func() bool {
		got, _ := b.Get()
		return got == want
	}, time.Second, 10*time.Millisecond, "want %q", want)
}

func eventuallyBool(t *testing.T, b binding.Bool, want bool) {
	t.Helper()
	assert.Eventually(t, func() bool {
		got, _ := b.Get()
		return got == want
	}, time.Second, 10*time.Millisecond, "want %v", want)
}

func TestBindingView_FileAndControls(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	state := model.NewConsoleState()
	view := NewBindingView(state)

	view.ShowFile("a.bin", "2.0 KB")
	view.SetUploadVisible(false)
	view.SetRunEnabled(true)

	eventuallyString(t, state.Upload.FileName, "a.bin")
	eventuallyString(t, state.Upload.FileSize, "2.0 KB")
	eventuallyBool(t, state.Upload.Visible, false)
	eventuallyBool(t, state.Upload.RunEnabled, true)
}

func TestBindingView_SubmittingThenSuccess(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	state := model.NewConsoleState()
	view := NewBindingView(state)
	r := state.Response

	view.ShowSubmitting()
	eventuallyString(t, r.RunState, model.RunSubmitting)
	eventuallyString(t, r.Status, console.SubmittingStatusLine)
	eventuallyBool(t, r.Loading, true)

	view.ShowOutcome(domain.Outcome{
		Elapsed:    120 * time.Millisecond,
		StatusLine: "Status: 200 OK",
		Success:    true,
		Body:       "{\n  \"ok\": true\n}",
	})
	eventuallyString(t, r.RunState, model.RunSuccess)
	eventuallyString(t, r.Status, "Status: 200 OK")
	eventuallyString(t, r.Elapsed, "0.12s")
	eventuallyString(t, r.Body, "{\n  \"ok\": true\n}")
	eventuallyString(t, r.Hint, "")
	eventuallyBool(t, r.Loading, false)
}

func TestBindingView_FailureShowsHint(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	state := model.NewConsoleState()
	view := NewBindingView(state)
	r := state.Response

	err := syscall.ECONNREFUSED
	view.ShowOutcome(domain.Outcome{
		Elapsed:    30 * time.Millisecond,
		StatusLine: console.FailedStatusLine,
		Body:       "Error: " + err.Error(),
		Err:        err,
	})

	eventuallyString(t, r.RunState, model.RunFailure)
	eventuallyString(t, r.Status, console.FailedStatusLine)
	eventuallyString(t, r.Elapsed, "0.03s")
	assert.Eventually(t, func() bool {
		hint, _ := r.Hint.Get()
		return hint != ""
	}, time.Second, 10*time.Millisecond)
}

func TestRecoveryHint(t *testing.T) {
	assert.Empty(t, recoveryHint(nil))
	assert.Equal(t, "Try again", recoveryHint(errors.New("boom")))
}
