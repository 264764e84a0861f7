package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/router"
	"github.com/abhisek/musiclab/internal/screen"
	"github.com/abhisek/musiclab/internal/store"
	"github.com/abhisek/musiclab/internal/ui/layout"
	"github.com/abhisek/musiclab/internal/ui/theme"
)

// Limit is the number of most recent sessions shown.
const Limit = 50

// SessionSource is the part of store.EventRepo the history screen reads.
type SessionSource interface {
	QueryLabSessions(ctx context.Context, opts store.QueryOpts) ([]store.LabSessionEvent, error)
}

type historyLoadedMsg struct {
	Sessions []store.LabSessionEvent
	Err      error
}

// HistoryScreen lists past lab visits, newest first.
type HistoryScreen struct {
	source   SessionSource
	sessions []store.LabSessionEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source SessionSource) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.source == nil {
		s.loaded = true
		return nil
	}
	source := s.source
	return func() tea.Msg {
		sessions, err := source.QueryLabSessions(context.Background(), store.QueryOpts{Limit: Limit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case screen.SessionRecordedMsg:
		return s, s.Init()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Open a lab and play for a bit!")
	}

	var b strings.Builder
	b.WriteString("\n")

	start := s.firstVisible(height)
	for i := start; i < len(s.sessions); i++ {
		sess := s.sessions[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-20s %6s  %3d actions  +%d XP",
			prefix, sess.StartedAt.Local().Format("Jan 02 15:04"), labName(sess.LabID),
			formatDuration(sess.DurationMs), sess.ActivityCount, sess.XPEarned)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    session %s · recorded %s · event #%d",
				shortID(sess.SessionID), sess.Timestamp.Local().Format(time.DateTime), sess.Sequence)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// firstVisible scrolls so the selected row stays on screen.
func (s *HistoryScreen) firstVisible(height int) int {
	rows := max(1, height-2)
	if s.selected < rows {
		return 0
	}
	return s.selected - rows + 1
}

func labName(id labs.ID) string {
	if l, ok := labs.Lookup(id); ok {
		return l.Name
	}
	return string(id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
