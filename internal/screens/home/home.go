package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/musiclab/internal/coach"
	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/progress"
	"github.com/abhisek/musiclab/internal/router"
	"github.com/abhisek/musiclab/internal/screen"
	"github.com/abhisek/musiclab/internal/screens/dashboard"
	"github.com/abhisek/musiclab/internal/screens/history"
	"github.com/abhisek/musiclab/internal/screens/lab"
	"github.com/abhisek/musiclab/internal/store"
	"github.com/abhisek/musiclab/internal/ui/components"
	"github.com/abhisek/musiclab/internal/ui/layout"
	"github.com/abhisek/musiclab/internal/ui/theme"
)

// Deps are the services the home screen hands to the screens it opens.
type Deps struct {
	Progress *progress.Service
	Events   store.EventRepo // optional, enables history
	Coach    *coach.Coach
	Lab      lab.Deps
}

type tipMsg struct {
	tip coach.Tip
}

// HomeScreen lists the labs and summarizes progress.
type HomeScreen struct {
	deps      Deps
	menu      components.Menu
	labIDs    []labs.ID
	data      progress.UserSessionData
	suggested labs.ID
	mascot    MascotVariant
	notice    string
	tip       *coach.Tip
	loading   bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen and loads the current progress.
func New(deps Deps) *HomeScreen {
	if deps.Lab.Recorder == nil && deps.Progress != nil {
		deps.Lab.Recorder = deps.Progress
	}
	h := &HomeScreen{deps: deps, labIDs: labs.IDs()}

	var items []components.MenuItem
	for _, l := range labs.All() {
		id := l.ID
		items = append(items, components.MenuItem{
			Label:  l.Icon + " " + l.Name,
			Action: func() tea.Cmd { return h.openLab(id) },
		})
	}
	items = append(items,
		components.MenuItem{Label: "📈 Progress", Action: func() tea.Cmd {
			return push(dashboard.New(deps.Progress))
		}},
		components.MenuItem{Label: "📜 History", Disabled: deps.Events == nil, Action: func() tea.Cmd {
			return push(history.New(deps.Events))
		}},
		components.MenuItem{Label: "💬 Coach Tip", Action: h.requestTip},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)
	h.menu = components.NewMenu(items)
	h.reload(context.Background())
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) openLab(id labs.ID) tea.Cmd {
	s, err := lab.New(id, h.deps.Lab)
	if err != nil {
		h.notice = err.Error()
		return nil
	}
	h.notice = ""
	return push(s)
}

func (h *HomeScreen) requestTip() tea.Cmd {
	if h.deps.Coach == nil || h.loading {
		return nil
	}
	h.loading = true
	c, data := h.deps.Coach, h.data
	return func() tea.Msg {
		return tipMsg{tip: c.Tip(context.Background(), data)}
	}
}

func (h *HomeScreen) reload(ctx context.Context) {
	if h.deps.Progress == nil {
		h.setData(progress.Default())
		return
	}
	data, _ := h.deps.Progress.SessionData(ctx)
	h.setData(data)
}

func (h *HomeScreen) setData(data progress.UserSessionData) {
	h.data = data
	h.suggested, _ = progress.SuggestLab(data, h.labIDs)
	if h.mascot != MascotCelebrating {
		h.mascot = mascotFor(data, time.Now())
	}
}

// mascotFor raises the alert when yesterday was the last practice day.
func mascotFor(data progress.UserSessionData, now time.Time) MascotVariant {
	if data.LastActiveDate == "" {
		return MascotIdle
	}
	days, err := progress.DaysBetween(data.LastActiveDate, progress.DateOf(now))
	if err == nil && days == 1 && data.Streak > 0 {
		return MascotAlert
	}
	return MascotIdle
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "1-0", Description: "Pick"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.SessionRecordedMsg:
		h.onRecorded(msg)
		return h, nil

	case screen.ProgressChangedMsg:
		h.setData(msg.Data)
		return h, nil

	case tipMsg:
		h.loading = false
		h.tip = &msg.tip
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) onRecorded(msg screen.SessionRecordedMsg) {
	switch {
	case msg.Err != nil:
		h.notice = "Could not record session: " + msg.Err.Error()
		return
	case !msg.Result.Admitted:
		h.notice = "Too short to count. Stay a little longer next time!"
		return
	}

	res := msg.Result
	gained := res.Data.TotalXP - h.data.TotalXP
	h.mascot = MascotIdle
	if res.LeveledUp() {
		h.mascot = MascotCelebrating
	}
	h.setData(res.Data)

	h.notice = fmt.Sprintf("+%d XP", max(0, gained))
	if res.LeveledUp() {
		h.notice += fmt.Sprintf("  ·  Level up! You reached level %d", res.Data.Level)
	}
	if res.SaveStatus.Degraded() {
		h.notice += "  ·  progress not saved (" + res.SaveStatus.String() + ")"
	}
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) ||
		layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot, cw))
	}
	sections = append(sections, renderStatsBar(h.data, cw, compact))
	sections = append(sections, renderGoals(h.data, cw))

	badged := -1
	for i, id := range h.labIDs {
		if id == h.suggested {
			badged = i
		}
	}
	sections = append(sections, components.Buttons(h.menu.Labels(), h.menu.Selected, badged, "★", cw))

	switch {
	case h.loading:
		sections = append(sections, renderNote("Asking the coach...", cw, theme.TextDim))
	case h.tip != nil:
		sections = append(sections, renderNote("💬 "+h.tip.Text, cw, theme.Secondary))
	}
	if h.notice != "" {
		sections = append(sections, renderNote(h.notice, cw, theme.Gold))
	}

	return components.StageFrame(strings.Join(sections, "\n\n"), width, height)
}
