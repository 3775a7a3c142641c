package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// setupKeyboardShortcuts configures all keyboard shortcuts for the main window
func (w *MainWindow) setupKeyboardShortcuts() {
	canvas := w.window.Canvas()

	// Cmd/Ctrl+Enter: Run test
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyReturn,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		w.logger.Debug("keyboard shortcut: run test")
		w.uploadPanel.TriggerRun()
	})

	// Cmd/Ctrl+O: Choose file
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyO,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		w.logger.Debug("keyboard shortcut: choose file")
		w.openFileDialog()
	})

	w.logger.Debug("keyboard shortcuts configured")
}
