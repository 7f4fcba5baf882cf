package tui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shonendev/portfolio/internal/msgcat"
	"github.com/shonendev/portfolio/internal/stats"
)

// skeletonWidths are the fixed bar widths shown in place of the three text
// fields while the fetch is outstanding.
var skeletonWidths = [...]int{16, 20, 14}

const skeletonGlyph = "░"

// WidgetConfig is everything a ProfileStatsWidget needs at construction.
type WidgetConfig struct {
	Handle  string
	Fetcher stats.Fetcher
	Catalog *msgcat.Catalog
	Logger  *zap.Logger
	// Plain disables lipgloss styling, for non-interactive output.
	Plain bool
}

// Widget displays a handle's rating statistics. Init is the mount: it issues
// the single fetch for that mount. Unmount cancels it and discards the data.
type Widget struct {
	ctx     context.Context
	handle  string
	fetcher stats.Fetcher
	msgs    *msgcat.Catalog
	logger  *zap.Logger
	plain   bool

	mountID string
	cancel  context.CancelFunc
	result  stats.Result
}

// profileFetchedMsg carries a fetch outcome back to the mount that asked for it.
type profileFetchedMsg struct {
	mountID string
	result  stats.Result
}

func NewWidget(ctx context.Context, cfg WidgetConfig) *Widget {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	msgs := cfg.Catalog
	if msgs == nil {
		msgs = msgcat.MustDefault()
	}
	return &Widget{
		ctx:     ctx,
		handle:  strings.TrimSpace(cfg.Handle),
		fetcher: cfg.Fetcher,
		msgs:    msgs,
		logger:  logger.With(zap.String("component", "profile_stats"), zap.String("handle", strings.TrimSpace(cfg.Handle))),
		plain:   cfg.Plain,
		result:  stats.Pending{},
	}
}

// Init mounts the widget. A widget that is already mounted returns nil so a
// mount never issues more than one request.
func (w *Widget) Init() tea.Cmd {
	if w.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(w.ctx)
	w.cancel = cancel
	w.mountID = uuid.NewString()
	w.result = stats.Pending{}
	w.logger.Debug("mount", zap.String("mount_id", w.mountID))
	return fetchProfileCmd(ctx, w.fetcher, w.handle, w.mountID)
}

func fetchProfileCmd(ctx context.Context, f stats.Fetcher, handle, mountID string) tea.Cmd {
	return func() tea.Msg {
		if f == nil {
			return profileFetchedMsg{mountID: mountID, result: stats.Failed{Kind: stats.KindNetwork}}
		}
		ps, err := f.FetchProfile(ctx, handle)
		return profileFetchedMsg{mountID: mountID, result: stats.ResultFromFetch(ps, err)}
	}
}

// Unmount cancels any in-flight fetch and drops the profile.
func (w *Widget) Unmount() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	w.logger.Debug("unmount", zap.String("mount_id", w.mountID))
	w.cancel = nil
	w.mountID = ""
	w.result = stats.Pending{}
}

func (w *Widget) Mounted() bool { return w.cancel != nil }

func (w *Widget) Result() stats.Result { return w.result }

func (w *Widget) Handle() string { return w.handle }

func (w *Widget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, ok := msg.(profileFetchedMsg)
	if !ok {
		return w, nil
	}
	if w.cancel == nil || m.mountID != w.mountID {
		w.logger.Debug("drop stale fetch result", zap.String("mount_id", m.mountID))
		return w, nil
	}
	if _, pending := w.result.(stats.Pending); !pending {
		return w, nil
	}
	switch r := m.result.(type) {
	case stats.Resolved:
		w.result = r
		w.logger.Info("profile resolved", zap.String("max_rank", r.Stats.MaxRank))
	case stats.Failed:
		w.result = r
		w.logger.Warn("profile fetch failed", zap.Stringer("kind", r.Kind), zap.Error(r.Err))
	}
	return w, nil
}

func (w *Widget) View() string {
	switch r := w.result.(type) {
	case stats.Resolved:
		return w.viewResolved(r.Stats)
	case stats.Failed:
		return w.viewFailed(r)
	default:
		return w.viewSkeleton()
	}
}

func (w *Widget) render(style lipgloss.Style, s string) string {
	if w.plain {
		return s
	}
	return style.Render(s)
}

func (w *Widget) viewSkeleton() string {
	lines := make([]string, 0, len(skeletonWidths))
	for _, n := range skeletonWidths {
		lines = append(lines, w.render(skeletonStyle, strings.Repeat(skeletonGlyph, n)))
	}
	return strings.Join(lines, "\n")
}

func (w *Widget) viewResolved(s stats.ProfileStats) string {
	unrated := w.msgs.RenderOr("widget.unrated", nil, stats.UnratedRank)
	rating := func(v *int) string {
		if v == nil {
			return unrated
		}
		return strconv.Itoa(*v)
	}
	field := func(key, fallbackLabel, value string) string {
		return w.msgs.RenderOr(key, map[string]any{"Value": value}, fallbackLabel+value)
	}

	rankStyle := lipgloss.NewStyle().Foreground(rankColor(s.MaxRank)).Bold(true)
	lines := []string{
		w.render(textStyle, field("widget.max_rating", "Max Rating: ", rating(s.MaxRating))),
		w.render(textStyle, field("widget.current_rating", "Current Rating: ", rating(s.CurrentRating))),
		w.render(rankStyle, field("widget.max_rank", "Max Rank: ", s.MaxRank)),
		w.render(mutedStyle, field("widget.avatar", "Avatar: ", s.ProfileImageURL)),
	}
	return strings.Join(lines, "\n")
}

func (w *Widget) viewFailed(f stats.Failed) string {
	data := map[string]any{"Handle": w.handle, "Kind": f.Kind.String()}
	if f.Kind == stats.KindNotFound {
		return w.render(warningStyle, w.msgs.RenderOr("widget.not_found", data, "No Codeforces profile for "+w.handle))
	}
	return w.render(errorStyle, w.msgs.RenderOr("widget.failed", data, "Stats unavailable right now ("+f.Kind.String()+")"))
}
