package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/router"
	"github.com/abhisek/musiclab/internal/screen"
	"github.com/abhisek/musiclab/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
)

const (
	eqBars   = 9
	eqHeight = 5
	tagline  = "Make some noise and level up!"
)

// noteFrames float around the equalizer once it is going.
var noteFrames = []string{"♪", "♫"}

type tickMsg time.Time

// WelcomeScreen shows a splash animation before transitioning to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips the rest of the animation.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// equalizer draws bouncing bars. Heights are a pure function of the tick
// count so the animation is reproducible.
func equalizer(tickCount int) string {
	heights := make([]int, eqBars)
	for i := range heights {
		heights[i] = 1 + (i*3+tickCount*(i%3+1))%eqHeight
	}

	colors := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(theme.Success),
		lipgloss.NewStyle().Foreground(theme.Accent),
		lipgloss.NewStyle().Foreground(theme.Error),
	}

	rows := make([]string, eqHeight)
	for r := range eqHeight {
		level := eqHeight - r
		style := colors[0]
		switch {
		case level > 4:
			style = colors[2]
		case level > 2:
			style = colors[1]
		}
		var b strings.Builder
		for _, h := range heights {
			if h >= level {
				b.WriteString(style.Render("██"))
			} else {
				b.WriteString("  ")
			}
			b.WriteString(" ")
		}
		rows[r] = b.String()
	}
	return strings.Join(rows, "\n")
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := equalizer(w.tickCount)

	if w.elapsed >= phase1End {
		note := noteFrames[w.tickCount%len(noteFrames)]
		other := noteFrames[(w.tickCount+1)%len(noteFrames)]

		n1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(note)
		n2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(other)

		lines := strings.Split(rendered, "\n")
		lines[0] = n1 + "  " + lines[0] + "  " + n2
		lines[2] = n2 + "  " + lines[2] + "  " + n1
		lines[4] = n1 + "  " + lines[4] + "  " + n2
		for _, i := range []int{1, 3} {
			lines[i] = "   " + lines[i] + "   "
		}
		rendered = strings.Join(lines, "\n")
	}

	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		sections = append(sections, "")
		sections = append(sections, RenderBanner(width))
		sections = append(sections, "")

		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(tagline))

		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
