package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shonendev/portfolio/internal/stats"
)

// RunOnce mounts w, waits for its single fetch and returns the final view.
// The widget is unmounted before returning. A Failed result is returned as
// the error alongside its rendered fallback text.
func RunOnce(w *Widget) (string, error) {
	cmd := w.Init()
	defer w.Unmount()
	if cmd != nil {
		w.Update(cmd())
	}
	out := w.View()
	if f, ok := w.Result().(stats.Failed); ok {
		if f.Err != nil {
			return out, f.Err
		}
		return out, stats.NewFetchError(f.Kind, w.Handle(), nil)
	}
	return out, nil
}

// Run starts the interactive program.
func Run(app *App, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(app, opts...).Run()
	return err
}
