package response

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/probe/internal/model"
)

// LoadingText is shown while a request is in flight.
const LoadingText = "Making API request..."

// ResponsePanel displays the body of the last run, a loading indicator while
// a run is in progress and a recovery hint after a failed request.
type ResponsePanel struct {
	widget.BaseWidget

	state      *model.ResponseState
	body       *widget.RichText
	hint       *widget.Label
	loadingBar *widget.ProgressBarInfinite

	loadingContent *fyne.Container
	bodyContent    fyne.CanvasObject
	content        *fyne.Container
}

// NewResponsePanel creates a new response panel bound to state.
func NewResponsePanel(state *model.ResponseState) *ResponsePanel {
	p := &ResponsePanel{state: state}
	p.ExtendBaseWidget(p)
	p.initializeComponents()
	p.setupBindings()
	return p
}

func (p *ResponsePanel) initializeComponents() {
	p.body = widget.NewRichText()
	p.body.Wrapping = fyne.TextWrapBreak

	p.hint = widget.NewLabel("")
	p.hint.Importance = widget.LowImportance
	p.hint.Wrapping = fyne.TextWrapWord
	p.hint.Hide()

	p.loadingBar = widget.NewProgressBarInfinite()
	p.loadingBar.Stop()

	p.loadingContent = container.NewVBox(
		widget.NewLabelWithStyle(LoadingText, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		p.loadingBar,
	)
	p.loadingContent.Hide()

	p.bodyContent = container.NewBorder(
		widget.NewLabel("Response:"),
		p.hint,
		nil,
		nil,
		container.NewScroll(p.body),
	)

	p.content = container.NewStack(p.bodyContent, p.loadingContent)
}

func (p *ResponsePanel) setupBindings() {
	p.state.Body.AddListener(binding.NewDataListener(func() {
		body, _ := p.state.Body.Get()
		p.body.Segments = bodySegments(body)
		p.body.Refresh()
	}))

	p.state.Hint.AddListener(binding.NewDataListener(func() {
		hint, _ := p.state.Hint.Get()
		if hint == "" {
			p.hint.Hide()
			return
		}
		p.hint.SetText("Hint: " + hint)
		p.hint.Show()
	}))

	p.state.Loading.AddListener(binding.NewDataListener(func() {
		loading, _ := p.state.Loading.Get()
		if loading {
			p.bodyContent.Hide()
			p.loadingContent.Show()
			p.loadingBar.Start()
			return
		}
		p.loadingBar.Stop()
		p.loadingContent.Hide()
		p.bodyContent.Show()
	}))
}

// Loading reports whether the loading indicator is currently shown.
func (p *ResponsePanel) Loading() bool {
	return p.loadingContent.Visible()
}

// CreateRenderer implements fyne.Widget.
func (p *ResponsePanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

// MinSize implements fyne.Widget.
func (p *ResponsePanel) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}
