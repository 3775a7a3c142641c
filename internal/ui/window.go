package ui

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/shhac/probe/internal/console"
	"github.com/shhac/probe/internal/domain"
	"github.com/shhac/probe/internal/model"
	uierrors "github.com/shhac/probe/internal/ui/errors"
	"github.com/shhac/probe/internal/ui/response"
	"github.com/shhac/probe/internal/ui/upload"
)

// WindowTitle is the title of the console window.
const WindowTitle = "Probe - API Test Console"

// AppController defines the interface for app-level dependencies needed by the UI
type AppController interface {
	Logger() *slog.Logger
	Transport() console.Transport
	Endpoints() []string
	Samples() []string
}

// MainWindow manages the console window and its layout.
type MainWindow struct {
	window     fyne.Window
	state      *model.ConsoleState
	logger     *slog.Logger
	controller *console.Controller

	// Panel widgets
	uploadPanel   *upload.UploadPanel
	responsePanel *response.ResponsePanel
	statusBar     *uierrors.StatusBar
}

// NewMainWindow creates the console window. The window is split vertically
// with the upload panel on top and the status bar and response below.
func NewMainWindow(fyneApp fyne.App, app AppController) *MainWindow {
	window := fyneApp.NewWindow(WindowTitle)

	mw := &MainWindow{
		window: window,
		state:  model.NewConsoleState(),
		logger: app.Logger(),
	}

	mw.uploadPanel = upload.NewUploadPanel(mw.state.Upload, app.Endpoints(), app.Samples(), mw.logger)
	mw.responsePanel = response.NewResponsePanel(mw.state.Response)
	mw.statusBar = uierrors.NewStatusBar(mw.state.Response)

	mw.controller = console.NewController(
		app.Transport(),
		NewBindingView(mw.state),
		mw.logger,
		mw.uploadPanel.SelectedEndpoint(),
	)

	mw.wireCallbacks()
	mw.setupKeyboardShortcuts()
	mw.setupMainMenu()
	mw.SetContent()

	window.Resize(fyne.NewSize(900, 700))

	return mw
}

// wireCallbacks connects panel events to the controller.
func (w *MainWindow) wireCallbacks() {
	w.uploadPanel.SetOnEndpointChange(func(endpoint string) {
		w.controller.SelectEndpoint(endpoint)
	})

	w.uploadPanel.SetOnChooseFile(func() {
		w.openFileDialog()
	})

	w.uploadPanel.SetOnSample(func(name string) {
		w.handleLoadSample(name)
	})

	w.uploadPanel.SetOnRun(func() {
		w.controller.RunTest(context.Background())
	})

	w.window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		w.handleDrop(uris)
	})
}

// handleLoadSample fetches a sample file without blocking the UI. Failures
// are logged by the controller and leave the window unchanged.
func (w *MainWindow) handleLoadSample(name string) {
	go func() {
		_ = w.controller.LoadSample(context.Background(), name)
	}()
}

// openFileDialog lets the user pick the file to upload.
func (w *MainWindow) openFileDialog() {
	if domain.IsHealth(w.controller.Snapshot().Endpoint) {
		return
	}

	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			w.logger.Error("file dialog failed", slog.Any("error", err))
			uierrors.ShowError(err, w.window)
			return
		}
		if rc == nil {
			return // cancelled
		}
		w.selectFrom(rc)
	}, w.window)
	d.Show()
}

// handleDrop selects the first dropped file. Drops are ignored while the
// upload controls are hidden.
func (w *MainWindow) handleDrop(uris []fyne.URI) {
	if len(uris) == 0 || domain.IsHealth(w.controller.Snapshot().Endpoint) {
		return
	}
	if len(uris) > 1 {
		w.logger.Debug("multiple files dropped, using the first", slog.Int("count", len(uris)))
	}

	rc, err := storage.Reader(uris[0])
	if err != nil {
		w.logger.Error("failed to open dropped file",
			slog.String("uri", uris[0].String()),
			slog.Any("error", err),
		)
		uierrors.ShowError(err, w.window)
		return
	}
	w.selectFrom(rc)
}

func (w *MainWindow) selectFrom(rc fyne.URIReadCloser) {
	file, err := upload.ReadFile(rc)
	if err != nil {
		w.logger.Error("failed to read file", slog.Any("error", err))
		uierrors.ShowError(err, w.window)
		return
	}
	w.controller.SelectFile(file)
}

func (w *MainWindow) setupMainMenu() {
	w.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Open File...", w.openFileDialog),
			fyne.NewMenuItem("Run Test", w.uploadPanel.TriggerRun),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Keyboard Shortcuts", func() { ShowShortcutDialog(w.window) }),
			fyne.NewMenuItem("About Probe", func() { ShowAboutDialog(w.window) }),
		),
	))
}

// SetContent builds and sets the window layout:
//
//	┌──────────────────────────────────────┐
//	│  Upload Panel (endpoint, file, run)  │
//	├──────────────────────────────────────┤
//	│  Status Bar                          │
//	├──────────────────────────────────────┤
//	│  Response Panel                      │
//	└──────────────────────────────────────┘
func (w *MainWindow) SetContent() {
	bottom := container.NewBorder(
		w.statusBar, // top
		nil,         // bottom
		nil,         // left
		nil,         // right
		w.responsePanel,
	)

	split := container.NewVSplit(w.uploadPanel, bottom)
	split.SetOffset(0.25)

	w.window.SetContent(split)
}

// Controller returns the console controller driving the window.
func (w *MainWindow) Controller() *console.Controller {
	return w.controller
}

// Window returns the underlying Fyne window.
func (w *MainWindow) Window() fyne.Window {
	return w.window
}
