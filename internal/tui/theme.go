package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha, https://catppuccin.com/palette
const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorBorder  = colorLavender
	colorMuted   = colorOverlay0
	colorError   = colorRed
	colorWarning = colorYellow
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	textStyle     = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	skeletonStyle = lipgloss.NewStyle().Foreground(colorSurface1)
	keyStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(colorMuted).Background(colorMantle)
)

// rankColor maps Codeforces rank labels to their tier colour.
func rankColor(rank string) lipgloss.Color {
	switch strings.ToLower(strings.TrimSpace(rank)) {
	case "newbie":
		return colorOverlay1
	case "pupil":
		return colorGreen
	case "specialist":
		return colorTeal
	case "expert":
		return colorBlue
	case "candidate master":
		return colorMauve
	case "master", "international master":
		return colorPeach
	case "grandmaster", "international grandmaster", "legendary grandmaster":
		return colorRed
	default:
		return colorText
	}
}
