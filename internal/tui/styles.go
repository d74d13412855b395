package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Base styles for hausvoice TUI components
var (
	// Header style for titles and section headers
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// Label style for criteria card labels
	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	// Success style for positive feedback
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// Error style for error messages
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Warning style for transient states
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// Glow style for fields recognized within the glow window
	StyleGlow = lipgloss.NewStyle().
			Foreground(ColorGlow).
			Bold(true)

	// Highlight style for recognized transcript substrings
	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	// Muted style for secondary text
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Subtle style for hints and key legends
	StyleSubtle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Italic(true)

	// Chip style for amenity and tag chips
	StyleChip = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Padding(0, 1)

	// ChipGlow style for freshly recognized chips
	StyleChipGlow = lipgloss.NewStyle().
			Foreground(ColorBg).
			Background(ColorGlow).
			Padding(0, 1)

	// Box style for bordered containers
	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(1, 2)

	// FocusedBox style for the active pane
	StyleFocusedBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)
)

var logoLines = []string{
	" _                                                     ",
	"| |__    __ _  _   _  ___ __   __  ___   _   ___   ___ ",
	"| '_ \\  / _` || | | |/ __|\\ \\ / / / _ \\ (_) / __| / _ \\",
	"| | | || (_| || |_| |\\__ \\ \\ V / | (_) || || (__ |  __/",
	"|_| |_| \\__,_| \\__,_||___/  \\_/   \\___/ |_| \\___| \\___|",
}

// Logo returns the hausvoice ASCII art
func Logo() string {
	return StyleHeader.Render(strings.Join(logoLines, "\n"))
}

func LogoLines() []string {
	return logoLines
}
