package tui

import "github.com/charmbracelet/lipgloss"

// Card is a rounded, padded frame with a title line.
type Card struct {
	Title   string
	Content string
}

func (c Card) Render(width int) string {
	if width <= 0 {
		return ""
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width - 2)
	return style.Render(c.Title + "\n\n" + c.Content)
}
