package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme modes accepted by ApplyTheme.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// forcedVariant wraps a theme to force a specific variant (light/dark)
type forcedVariant struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

// Color returns the color for the forced variant, ignoring the passed variant
func (f *forcedVariant) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return f.Theme.Color(name, f.variant)
}

// ApplyTheme sets the application theme. mode is "dark", "light" or
// "system"; anything else falls back to the system theme.
func ApplyTheme(a fyne.App, mode string) {
	a.Settings().SetTheme(themeFor(mode))
}

func themeFor(mode string) fyne.Theme {
	switch strings.ToLower(mode) {
	case ThemeDark:
		return &forcedVariant{Theme: theme.DefaultTheme(), variant: theme.VariantDark}
	case ThemeLight:
		return &forcedVariant{Theme: theme.DefaultTheme(), variant: theme.VariantLight}
	default:
		return theme.DefaultTheme()
	}
}

// ValidTheme reports whether mode names a supported theme.
func ValidTheme(mode string) bool {
	switch strings.ToLower(mode) {
	case "", ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}
