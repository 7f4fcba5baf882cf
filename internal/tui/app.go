package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shonendev/portfolio/internal/msgcat"
)

const (
	minCardWidth     = 32
	defaultCardWidth = 48
)

// App hosts the stats widget in a titled card.
type App struct {
	widget   *Widget
	msgs     *msgcat.Catalog
	width    int
	quitting bool
}

func New(widget *Widget, msgs *msgcat.Catalog) *App {
	if msgs == nil {
		msgs = msgcat.MustDefault()
	}
	return &App{widget: widget, msgs: msgs}
}

func (a *App) Init() tea.Cmd {
	return a.widget.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch m.String() {
		case "q", "ctrl+c", "esc":
			a.quitting = true
			a.widget.Unmount()
			return a, tea.Quit
		}
		return a, nil
	case tea.WindowSizeMsg:
		a.width = m.Width
		return a, nil
	}
	_, cmd := a.widget.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	width := defaultCardWidth
	if a.width > 0 {
		width = min(max(a.width, minCardWidth), defaultCardWidth)
	}
	title := a.msgs.RenderOr("widget.title", map[string]any{"Handle": a.widget.Handle()}, a.widget.Handle())
	card := Card{Title: titleStyle.Render(title), Content: a.widget.View()}.Render(width)

	footer := a.msgs.RenderOr("app.footer", nil, "q quit")
	return lipgloss.JoinVertical(lipgloss.Left, card, a.renderFooter(footer, width))
}

func (a *App) renderFooter(text string, width int) string {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) == 2 {
		text = keyStyle.Render(parts[0]) + " " + parts[1]
	}
	return footerStyle.Width(width).Render(" " + text)
}
