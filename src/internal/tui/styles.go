// Package tui provides styled console output using lipgloss for rich terminal UI.
package tui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Lazy initialization to avoid cold start penalty from lipgloss terminal detection
var (
	initOnce sync.Once

	// Colors
	colorPrimary lipgloss.Color
	colorSuccess lipgloss.Color
	colorError   lipgloss.Color
	colorVersion lipgloss.Color
	colorMuted   lipgloss.Color

	// Text styles
	StyleVersion       lipgloss.Style
	StyleActiveVersion lipgloss.Style
	StyleMuted         lipgloss.Style

	// Table styles
	StyleTableHeader    lipgloss.Style
	StyleTableCell      lipgloss.Style
	StyleTableRowActive lipgloss.Style
	StyleTableBorder    lipgloss.Style

	// Indicator strings
	CheckMark string
	CrossMark string
)

// initStyles initializes all lipgloss styles lazily
func initStyles() {
	initOnce.Do(func() {
		// Force TrueColor profile to skip slow terminal capability detection
		// See: https://github.com/charmbracelet/lipgloss/issues/86
		lipgloss.SetColorProfile(termenv.TrueColor)

		colorPrimary = lipgloss.Color("39")  // Cyan
		colorSuccess = lipgloss.Color("42")  // Green
		colorError = lipgloss.Color("196")   // Red
		colorVersion = lipgloss.Color("213") // Magenta/Pink
		colorMuted = lipgloss.Color("245")   // Gray

		StyleVersion = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorVersion)

		StyleActiveVersion = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

		StyleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

		StyleTableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingRight(2)

		StyleTableCell = lipgloss.NewStyle().
			PaddingRight(2)

		StyleTableRowActive = lipgloss.NewStyle().
			Foreground(colorSuccess)

		StyleTableBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

		CheckMark = lipgloss.NewStyle().Foreground(colorSuccess).Render("✓")
		CrossMark = lipgloss.NewStyle().Foreground(colorError).Render("✗")
	})
}

// Init ensures styles are initialized. Call this before using any styles.
func Init() {
	initStyles()
}

// RenderVersion renders a version string with styling
func RenderVersion(version string) string {
	initStyles()
	return StyleVersion.Render(version)
}

// RenderActiveVersion renders the active version string with styling
func RenderActiveVersion(version string) string {
	initStyles()
	return StyleActiveVersion.Render(version)
}

// RenderMuted renders text in a muted/dim style
func RenderMuted(text string) string {
	initStyles()
	return StyleMuted.Render(text)
}

// GetCheckMark returns the styled checkmark indicator
func GetCheckMark() string {
	initStyles()
	return CheckMark
}

// GetCrossMark returns the styled cross indicator
func GetCrossMark() string {
	initStyles()
	return CrossMark
}
