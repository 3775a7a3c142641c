package errors

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/probe/internal/model"
)

// StatusBar displays the status line of the last run, its elapsed time and a
// shape-changing icon, so success and failure are not told apart by colour
// alone:
//   - Idle: info icon
//   - Submitting: view-refresh icon (circular arrows)
//   - Success: confirm icon (checkmark)
//   - Failure: error icon (X shape)
type StatusBar struct {
	widget.BaseWidget

	state        *model.ResponseState
	statusLabel  *widget.Label
	elapsedLabel *widget.Label
	indicator    *widget.Icon
}

// NewStatusBar creates a new status bar bound to the given response state.
func NewStatusBar(state *model.ResponseState) *StatusBar {
	label := widget.NewLabel("")
	label.Truncation = fyne.TextTruncateEllipsis

	s := &StatusBar{
		state:        state,
		statusLabel:  label,
		elapsedLabel: widget.NewLabel(""),
		indicator:    widget.NewIcon(theme.InfoIcon()),
	}
	s.elapsedLabel.TextStyle = fyne.TextStyle{Monospace: true}
	s.ExtendBaseWidget(s)

	state.RunState.AddListener(binding.NewDataListener(s.updateStatus))
	state.Status.AddListener(binding.NewDataListener(s.updateStatus))
	state.Elapsed.AddListener(binding.NewDataListener(s.updateStatus))

	s.updateStatus()

	return s
}

// updateStatus refreshes the status bar based on current state.
func (s *StatusBar) updateStatus() {
	runState, _ := s.state.RunState.Get()
	status, _ := s.state.Status.Get()
	elapsed, _ := s.state.Elapsed.Get()

	switch runState {
	case model.RunSubmitting:
		s.indicator.SetResource(theme.ViewRefreshIcon())
		s.statusLabel.Importance = widget.MediumImportance
	case model.RunSuccess:
		s.indicator.SetResource(theme.ConfirmIcon())
		s.statusLabel.Importance = widget.SuccessImportance
	case model.RunFailure:
		s.indicator.SetResource(theme.ErrorIcon())
		s.statusLabel.Importance = widget.DangerImportance
	default:
		s.indicator.SetResource(theme.InfoIcon())
		s.statusLabel.Importance = widget.MediumImportance
		if status == "" {
			status = "Ready"
		}
	}

	s.statusLabel.SetText(status)
	s.elapsedLabel.SetText(elapsed)
}

// CreateRenderer implements fyne.Widget.
func (s *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(
		nil,
		nil,
		s.indicator,
		s.elapsedLabel,
		s.statusLabel,
	))
}
