package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/coach"
	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/progress"
	"github.com/abhisek/musiclab/internal/router"
	"github.com/abhisek/musiclab/internal/screen"
	"github.com/abhisek/musiclab/internal/screens/home"
	"github.com/abhisek/musiclab/internal/screens/lab"
	"github.com/abhisek/musiclab/internal/screens/welcome"
	"github.com/abhisek/musiclab/internal/store"
	"github.com/abhisek/musiclab/internal/ui/layout"
)

// Options wires the services the TUI runs against.
type Options struct {
	Progress *progress.Service
	Events   store.EventRepo
	Coach    *coach.Coach
	NoSplash bool

	// StartLab, when set, opens that lab on top of home and skips the splash.
	StartLab labs.ID

	// Now is the lab clock. Defaults to time.Now.
	Now func() time.Time
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	stats  layout.HeaderStats
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the splash or home screen.
func newAppModel(opts Options) AppModel {
	deps := home.Deps{
		Progress: opts.Progress,
		Events:   opts.Events,
		Coach:    opts.Coach,
		Lab:      lab.Deps{Now: opts.Now},
	}
	if opts.Progress != nil {
		deps.Lab.Recorder = opts.Progress
	}
	homeFactory := func() screen.Screen { return home.New(deps) }

	var first screen.Screen
	if opts.NoSplash || opts.StartLab != "" {
		first = homeFactory()
	} else {
		first = welcome.New(homeFactory)
	}

	m := AppModel{router: router.New(first)}
	if opts.StartLab != "" {
		if s, err := lab.New(opts.StartLab, deps.Lab); err == nil {
			m.router.Push(s)
		}
	}
	if opts.Progress != nil {
		data, _ := opts.Progress.SessionData(context.Background())
		m.stats = statsFor(data)
	} else {
		m.stats = statsFor(progress.Default())
	}
	return m
}

func statsFor(data progress.UserSessionData) layout.HeaderStats {
	return layout.HeaderStats{Level: data.Level, XP: data.TotalXP, Streak: data.Streak}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.SessionRecordedMsg:
		if msg.Err == nil && msg.Result.Admitted {
			m.stats = statsFor(msg.Result.Data)
		}

	case screen.ProgressChangedMsg:
		m.stats = statsFor(msg.Data)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			// Record an open lab before leaving.
			if l, ok := m.router.Active().(screen.Leaver); ok {
				if cmd := l.Leave(); cmd != nil {
					return m, tea.Sequence(cmd, tea.Quit)
				}
			}
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(0, m.height-headerHeight-footerHeight)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
