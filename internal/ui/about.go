package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Version is set at build time via ldflags:
//
//	go build -ldflags "-X github.com/shhac/probe/internal/ui.Version=1.2.3"
var Version = "dev"

// ShowAboutDialog displays information about Probe.
func ShowAboutDialog(parent fyne.Window) {
	content := container.NewVBox(
		widget.NewLabelWithStyle("Probe", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("A manual test console for document-analysis APIs"),
		widget.NewLabel("Version "+Version),
		widget.NewSeparator(),
		widget.NewLabel("Built with Fyne and Go"),
	)
	dialog.ShowCustom("About Probe", "Close", content, parent)
}

// shortcutKeys lists the keyboard shortcuts shown in the reference dialog.
var shortcutKeys = []struct{ action, key string }{
	{"Run Test", "Cmd/Ctrl + Return"},
	{"Choose File", "Cmd/Ctrl + O"},
}

// ShowShortcutDialog displays a reference of all keyboard shortcuts.
func ShowShortcutDialog(parent fyne.Window) {
	grid := container.NewGridWithColumns(2)
	for _, s := range shortcutKeys {
		grid.Add(widget.NewLabel(s.action))
		grid.Add(widget.NewLabelWithStyle(s.key, fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true}))
	}

	dialog.ShowCustom("Keyboard Shortcuts", "Close", container.NewVScroll(grid), parent)
}
