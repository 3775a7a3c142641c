package upload

import (
	"fmt"
	"io"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/probe/internal/domain"
	"github.com/shhac/probe/internal/model"
	"github.com/shhac/probe/internal/ui/components"
)

// maxFileNameRunes bounds the visible part of long file names.
const maxFileNameRunes = 48

// UploadPanel holds the request controls: the endpoint selector, the file
// picker with its drop hint, sample shortcuts and the Run button.
type UploadPanel struct {
	widget.BaseWidget

	state *model.UploadState

	endpointSelect *widget.Select
	chooseBtn      *widget.Button
	fileName       *components.HintLabel
	fileSize       *widget.Label
	sampleBtns     []*widget.Button
	runBtn         *widget.Button

	fileControls *fyne.Container
	samples      *fyne.Container

	logger *slog.Logger

	onEndpointChange func(endpoint string)
	onChooseFile     func()
	onSample         func(name string)
	onRun            func()
}

// NewUploadPanel creates an upload panel offering endpoints and samples.
// The first endpoint is selected.
func NewUploadPanel(state *model.UploadState, endpoints, samples []string, logger *slog.Logger) *UploadPanel {
	p := &UploadPanel{
		state:  state,
		logger: logger,
	}

	p.endpointSelect = widget.NewSelect(endpoints, func(endpoint string) {
		if p.onEndpointChange != nil {
			p.onEndpointChange(endpoint)
		}
	})
	if len(endpoints) > 0 {
		p.endpointSelect.Selected = endpoints[0]
	}

	p.chooseBtn = widget.NewButtonWithIcon("Choose File...", theme.FolderOpenIcon(), func() {
		if p.onChooseFile != nil {
			p.onChooseFile()
		}
	})

	p.fileName = components.NewHintLabel("Drop a file here or choose one", maxFileNameRunes)
	p.fileSize = widget.NewLabel("")
	p.fileSize.TextStyle = fyne.TextStyle{Monospace: true}

	p.samples = container.NewHBox(widget.NewLabel("Samples:"))
	for _, name := range samples {
		p.sampleBtns = append(p.sampleBtns, p.newSampleButton(name))
		p.samples.Add(p.sampleBtns[len(p.sampleBtns)-1])
	}

	p.runBtn = widget.NewButtonWithIcon("Run Test", theme.MediaPlayIcon(), func() {
		p.TriggerRun()
	})
	p.runBtn.Importance = widget.HighImportance
	p.runBtn.Disable()

	p.fileControls = container.NewBorder(nil, nil, p.chooseBtn, p.fileSize, p.fileName)

	p.setupBindings()
	p.ExtendBaseWidget(p)
	return p
}

func (p *UploadPanel) newSampleButton(name string) *widget.Button {
	return widget.NewButton(name, func() {
		p.logger.Debug("sample requested", slog.String("sample", name))
		if p.onSample != nil {
			p.onSample(name)
		}
	})
}

func (p *UploadPanel) setupBindings() {
	p.state.FileName.AddListener(binding.NewDataListener(func() {
		name, _ := p.state.FileName.Get()
		if name != "" {
			p.fileName.SetText(name)
		}
	}))
	p.fileSize.Bind(p.state.FileSize)

	p.state.Visible.AddListener(binding.NewDataListener(func() {
		visible, _ := p.state.Visible.Get()
		if visible {
			p.fileControls.Show()
			p.samples.Show()
		} else {
			p.fileControls.Hide()
			p.samples.Hide()
		}
	}))

	p.state.RunEnabled.AddListener(binding.NewDataListener(func() {
		enabled, _ := p.state.RunEnabled.Get()
		if enabled {
			p.runBtn.Enable()
		} else {
			p.runBtn.Disable()
		}
	}))
}

// SetOnEndpointChange sets the callback for a new endpoint selection.
func (p *UploadPanel) SetOnEndpointChange(fn func(endpoint string)) {
	p.onEndpointChange = fn
}

// SetOnChooseFile sets the callback for the "Choose File..." button.
func (p *UploadPanel) SetOnChooseFile(fn func()) {
	p.onChooseFile = fn
}

// SetOnSample sets the callback for the sample buttons.
func (p *UploadPanel) SetOnSample(fn func(name string)) {
	p.onSample = fn
}

// SetOnRun sets the callback for the Run button.
func (p *UploadPanel) SetOnRun(fn func()) {
	p.onRun = fn
}

// SelectedEndpoint returns the endpoint currently chosen in the selector.
func (p *UploadPanel) SelectedEndpoint() string {
	return p.endpointSelect.Selected
}

// RunEnabled reports whether the Run button currently accepts clicks.
func (p *UploadPanel) RunEnabled() bool {
	return !p.runBtn.Disabled()
}

// TriggerRun runs a test if the Run button is enabled. Used for keyboard
// shortcuts.
func (p *UploadPanel) TriggerRun() {
	if !p.RunEnabled() {
		p.logger.Debug("run ignored, button disabled")
		return
	}
	if p.onRun != nil {
		p.onRun()
	}
}

// CreateRenderer implements fyne.Widget.
func (p *UploadPanel) CreateRenderer() fyne.WidgetRenderer {
	endpointRow := container.NewBorder(nil, nil, widget.NewLabel("Endpoint:"), p.runBtn, p.endpointSelect)

	return widget.NewSimpleRenderer(container.NewVBox(
		endpointRow,
		widget.NewSeparator(),
		p.fileControls,
		p.samples,
	))
}

// ReadFile reads a picked or dropped file into memory and closes it.
func ReadFile(rc fyne.URIReadCloser) (*domain.File, error) {
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rc.URI().Name(), err)
	}
	return domain.NewFile(rc.URI().Name(), rc.URI().MimeType(), data), nil
}
