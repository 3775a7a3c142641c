package ui

import (
	"fyne.io/fyne/v2"

	"github.com/shhac/probe/internal/console"
	"github.com/shhac/probe/internal/domain"
	apperrors "github.com/shhac/probe/internal/errors"
	"github.com/shhac/probe/internal/model"
)

// bindingView renders controller state into Fyne data bindings. The
// controller settles runs on a request goroutine, so every update is
// handed to the Fyne main goroutine with fyne.Do.
type bindingView struct {
	state *model.ConsoleState
}

// NewBindingView returns a console.View backed by state.
func NewBindingView(state *model.ConsoleState) console.View {
	return &bindingView{state: state}
}

func (v *bindingView) ShowFile(name, size string) {
	fyne.Do(func() {
		_ = v.state.Upload.FileName.Set(name)
		_ = v.state.Upload.FileSize.Set(size)
	})
}

func (v *bindingView) SetUploadVisible(visible bool) {
	fyne.Do(func() {
		_ = v.state.Upload.Visible.Set(visible)
	})
}

func (v *bindingView) SetRunEnabled(enabled bool) {
	fyne.Do(func() {
		_ = v.state.Upload.RunEnabled.Set(enabled)
	})
}

func (v *bindingView) ShowSubmitting() {
	r := v.state.Response
	fyne.Do(func() {
		_ = r.Status.Set(console.SubmittingStatusLine)
		_ = r.Elapsed.Set("")
		_ = r.Hint.Set("")
		_ = r.Loading.Set(true)
		_ = r.RunState.Set(model.RunSubmitting)
	})
}

func (v *bindingView) ShowOutcome(outcome domain.Outcome) {
	runState := model.RunFailure
	if outcome.Success {
		runState = model.RunSuccess
	}
	hint := recoveryHint(outcome.Err)

	r := v.state.Response
	fyne.Do(func() {
		_ = r.Loading.Set(false)
		_ = r.Body.Set(outcome.Body)
		_ = r.Status.Set(outcome.StatusLine)
		_ = r.Elapsed.Set(domain.FormatElapsed(outcome.Elapsed))
		_ = r.Hint.Set(hint)
		_ = r.RunState.Set(runState)
	})
}

// recoveryHint returns the first recovery suggestion for err, if any.
func recoveryHint(err error) string {
	uiErr := apperrors.ClassifyGRPCError(err)
	if uiErr == nil || len(uiErr.Recovery) == 0 {
		return ""
	}
	return uiErr.Recovery[0]
}
