package lab

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/coach"
	"github.com/abhisek/musiclab/internal/rhythm"
	"github.com/abhisek/musiclab/internal/ui/components"
	"github.com/abhisek/musiclab/internal/ui/layout"
	"github.com/abhisek/musiclab/internal/ui/theme"
)

type rhythmActivity struct {
	metronome *rhythm.Metronome
	copy      *rhythm.Copy
	pattern   int
	last      string
	fb        *coach.Feedbacker
}

func newRhythmActivity(fb *coach.Feedbacker) *rhythmActivity {
	return &rhythmActivity{
		metronome: rhythm.NewMetronome(rhythm.DefaultBPM),
		copy:      rhythm.NewCopy(rhythm.Patterns[0]),
		fb:        fb,
	}
}

func (a *rhythmActivity) Key(key string, now time.Time) Outcome {
	m := a.metronome
	switch key {
	case "enter":
		if m.Running() {
			m.Stop()
		} else {
			m.Start(now)
			a.copy = rhythm.NewCopy(rhythm.Patterns[a.pattern])
		}
		return Outcome{Activity: 1}
	case "up", "+", "=":
		m.Faster(now)
		return Outcome{Activity: 1}
	case "down", "-":
		m.Slower(now)
		return Outcome{Activity: 1}
	case "p":
		a.pattern = (a.pattern + 1) % len(rhythm.Patterns)
		a.copy = rhythm.NewCopy(rhythm.Patterns[a.pattern])
		return Outcome{Activity: 1}
	case "space":
		acc, ok := m.Tap(now)
		if !ok {
			return Outcome{Feedback: coach.Feedback{Type: coach.Hint, Message: "Press Enter to start the metronome"}}
		}
		a.last = fmt.Sprintf("%s (%+dms)", acc, m.Offset(now).Milliseconds())
		a.copy.Advance()
		return Outcome{Activity: 1, Feedback: a.fb.For(coach.PerformanceFromAccuracy(acc))}
	}
	return Outcome{}
}

func (a *rhythmActivity) Tick(time.Time) Outcome { return Outcome{} }

func (a *rhythmActivity) View(cw int, now time.Time) string {
	m := a.metronome
	var b strings.Builder

	state := "stopped"
	if m.Running() {
		state = "playing"
	}
	fmt.Fprintf(&b, "%d BPM  (%s)\n\n", m.BPM(), state)

	beat := -1
	if m.Running() {
		beat = m.Beat(now) % 4
	}
	dots := make([]string, 4)
	for i := range dots {
		if i == beat {
			dots[i] = lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("●")
		} else {
			dots[i] = lipgloss.NewStyle().Foreground(theme.Border).Render("○")
		}
	}
	b.WriteString(strings.Join(dots, "  "))
	b.WriteString("\n\n")

	p := a.copy.Pattern()
	fmt.Fprintf(&b, "Copy: %s\n", p.Name)
	for i, on := range p.Steps {
		cell := "·"
		if on {
			cell = "x"
		}
		if i == a.copy.Index() {
			b.WriteString(theme.StepCursor.Render(cell))
		} else if on {
			b.WriteString(theme.StepOn.Render(cell))
		} else {
			b.WriteString(theme.StepOff.Render(cell))
		}
	}
	b.WriteString("\n\n")

	last := a.last
	if last == "" {
		last = "-"
	}
	fmt.Fprintf(&b, "Last tap: %s   Streak: %d\n", last, m.Streak())
	fmt.Fprintf(&b, "Perfect %d · Close %d · Off %d",
		m.Count(rhythm.Perfect), m.Count(rhythm.Close), m.Count(rhythm.Off))

	return components.Panel(b.String(), cw)
}

func (a *rhythmActivity) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start/Stop"},
		{Key: "Space", Description: "Tap"},
		{Key: "↑↓", Description: "Tempo"},
		{Key: "P", Description: "Pattern"},
	}
}
