// Package dashboard shows accumulated progress: the level bar, the weekly
// goal and one row of statistics per lab.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/progress"
	"github.com/abhisek/musiclab/internal/screen"
	"github.com/abhisek/musiclab/internal/ui/components"
	"github.com/abhisek/musiclab/internal/ui/layout"
	"github.com/abhisek/musiclab/internal/ui/theme"
)

const nameWidth = 23

type loadedMsg struct {
	data   progress.UserSessionData
	status progress.Status
}

type goalSavedMsg struct {
	data   progress.UserSessionData
	status progress.Status
	err    error
}

// Service is the part of progress.Service the dashboard needs.
type Service interface {
	SessionData(ctx context.Context) (progress.UserSessionData, progress.Status)
	SetWeeklyGoal(ctx context.Context, minutes int) (progress.Status, error)
}

// DashboardScreen renders the progress overview.
type DashboardScreen struct {
	svc       Service
	data      progress.UserSessionData
	status    progress.Status
	loaded    bool
	editing   bool
	goalInput components.NumberInput
	errMsg    string
	now       func() time.Time
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.InputCapturer = (*DashboardScreen)(nil)

// New creates the dashboard. A nil service shows defaults and disables
// goal editing.
func New(svc *progress.Service) *DashboardScreen {
	if svc == nil {
		return newScreen(nil)
	}
	return newScreen(svc)
}

func newScreen(svc Service) *DashboardScreen {
	return &DashboardScreen{
		svc:  svc,
		data: progress.Default(),
		now:  time.Now,
	}
}

func (s *DashboardScreen) Init() tea.Cmd {
	if s.svc == nil {
		s.loaded = true
		return nil
	}
	svc := s.svc
	return func() tea.Msg {
		data, status := svc.SessionData(context.Background())
		return loadedMsg{data: data, status: status}
	}
}

func (s *DashboardScreen) Title() string {
	return "Progress"
}

func (s *DashboardScreen) CapturingInput() bool {
	return s.editing
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save goal"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{}
	if s.svc != nil {
		hints = append(hints, layout.KeyHint{Key: "G", Description: "Weekly goal"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.data, s.status, s.loaded = msg.data, msg.status, true
		return s, nil

	case goalSavedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.data, s.status = msg.data, msg.status
		s.errMsg = ""
		data := msg.data
		return s, func() tea.Msg { return screen.ProgressChangedMsg{Data: data} }

	case tea.KeyPressMsg:
		if s.editing {
			return s, s.updateEditing(msg)
		}
		if msg.String() == "g" && s.svc != nil {
			s.editing = true
			s.errMsg = ""
			s.goalInput = components.NewNumberInput(fmt.Sprint(s.data.WeeklyGoal), 4)
			return s, s.goalInput.Focus()
		}
	}
	return s, nil
}

func (s *DashboardScreen) updateEditing(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.editing = false
		return nil
	case "enter":
		minutes, ok := s.goalInput.Parse(1)
		if !ok {
			s.errMsg = "Enter a number of minutes greater than zero"
			return nil
		}
		s.editing = false
		return s.saveGoal(minutes)
	}
	var cmd tea.Cmd
	s.goalInput, cmd = s.goalInput.Update(msg)
	return cmd
}

func (s *DashboardScreen) saveGoal(minutes int) tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := svc.SetWeeklyGoal(ctx, minutes); err != nil {
			return goalSavedMsg{err: err}
		}
		data, status := svc.SessionData(ctx)
		return goalSavedMsg{data: data, status: status}
	}
}

func (s *DashboardScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Loading progress..."))
	}

	cw := components.ContentWidth(width)
	var sections []string

	lp := progress.LevelProgressFor(s.data.TotalXP)
	sections = append(sections, theme.Title.Render(fmt.Sprintf("Level %d", lp.Level)))
	sections = append(sections,
		components.NewProgressBar("XP", float64(lp.Percent)/100, true, cw).View(),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("%d XP total · %d to next level · 🔥 %d day streak",
				s.data.TotalXP, lp.XPToNext, s.data.Streak)),
	)

	wp := progress.WeeklyProgressFor(s.data)
	sections = append(sections, components.NewProgressBar(
		fmt.Sprintf("Week %.1f/%d min", wp.Minutes, wp.Goal), float64(wp.Percent)/100, true, cw).View())

	if s.editing {
		sections = append(sections, "Weekly goal (minutes): "+s.goalInput.View())
	}
	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	sections = append(sections, components.Panel(s.labTable(), cw))

	if s.status.Degraded() {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).
			Render("Storage problem: "+s.status.String()))
	}

	return components.StageFrame(strings.Join(sections, "\n\n"), width, height)
}

func (s *DashboardScreen) labTable() string {
	suggested, _ := progress.SuggestLab(s.data, labs.IDs())

	var b strings.Builder
	head := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true)
	b.WriteString(head.Render(fmt.Sprintf("%s %4s %6s %5s %5s  %s", pad("Lab", nameWidth), "Runs", "Time", "Acts", "XP", "Last")))
	for _, l := range labs.All() {
		st := s.data.LabStats[l.ID]
		name := l.Icon + " " + l.Name
		if l.ID == suggested {
			name += " ★"
		}
		line := fmt.Sprintf("%s %4d %6s %5d %5d  %s",
			pad(truncate(name, nameWidth), nameWidth), st.TotalSessions, formatDuration(st.TotalTimeMs),
			st.TotalActivity, st.TotalXP, s.lastVisit(st))
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if st.TotalSessions == 0 {
			style = style.Foreground(theme.TextDim)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(line))
	}
	return b.String()
}

func (s *DashboardScreen) lastVisit(st progress.LabStats) string {
	t := st.LastVisitTime()
	if t.IsZero() {
		return "never"
	}
	days, err := progress.DaysBetween(progress.DateOf(t.In(s.now().Location())), progress.DateOf(s.now()))
	switch {
	case err != nil:
		return "-"
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	default:
		return fmt.Sprintf("%dd ago", days)
	}
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Hour {
		return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > n-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func pad(s string, n int) string {
	return s + strings.Repeat(" ", max(0, n-lipgloss.Width(s)))
}
