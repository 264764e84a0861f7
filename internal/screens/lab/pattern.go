package lab

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/musiclab/internal/theory"
	"github.com/abhisek/musiclab/internal/ui/components"
	"github.com/abhisek/musiclab/internal/ui/layout"
	"github.com/abhisek/musiclab/internal/ui/theme"
)

type patternActivity struct {
	grid     theory.Grid
	track    theory.Track
	col      int
	playing  bool
	step     int
	lastStep time.Time
	preset   int // -1 until a preset is loaded
}

func newPatternActivity() *patternActivity {
	return &patternActivity{preset: -1}
}

func (a *patternActivity) Key(key string, now time.Time) Outcome {
	switch key {
	case "up", "k":
		a.track = max(0, a.track-1)
	case "down", "j":
		a.track = min(theory.Melody, a.track+1)
	case "left", "h":
		a.col = (a.col + theory.Steps - 1) % theory.Steps
	case "right", "l":
		a.col = theory.NextStep(a.col)
	case "space":
		a.grid.Toggle(a.track, a.col)
		return Outcome{Activity: 1}
	case "enter":
		a.playing = !a.playing
		a.step = 0
		a.lastStep = now
		return Outcome{Activity: 1}
	case "c":
		a.grid.Clear()
		return Outcome{Activity: 1}
	case "p":
		a.preset = (a.preset + 1) % len(theory.GridPresets)
		a.grid = theory.GridPresets[a.preset].Grid
		return Outcome{Activity: 1}
	}
	return Outcome{}
}

func (a *patternActivity) Tick(now time.Time) Outcome {
	if !a.playing {
		return Outcome{}
	}
	for now.Sub(a.lastStep) >= theory.StepTime {
		a.step = theory.NextStep(a.step)
		a.lastStep = a.lastStep.Add(theory.StepTime)
	}
	return Outcome{}
}

func (a *patternActivity) View(cw int, _ time.Time) string {
	var b strings.Builder

	for _, t := range theory.Tracks {
		fmt.Fprintf(&b, "%-7s", t)
		for i := range theory.Steps {
			on := a.grid[t][i]
			cell := " · "
			if on {
				cell = " ■ "
			}
			switch {
			case t == a.track && i == a.col:
				b.WriteString(theme.StepCursor.Render(cell))
			case a.playing && i == a.step:
				b.WriteString(theme.Playhead.Render(cell))
			case on:
				b.WriteString(theme.StepOn.Render(cell))
			default:
				b.WriteString(theme.StepOff.Render(cell))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if a.playing {
		names := make([]string, 0, 4)
		for _, t := range a.grid.ActiveAt(a.step) {
			if t == theory.Melody {
				names = append(names, theory.MelodyNote(a.step).Name())
			} else {
				names = append(names, t.String())
			}
		}
		fmt.Fprintf(&b, "Step %2d: %s", a.step+1, strings.Join(names, " + "))
	} else {
		fmt.Fprintf(&b, "%d notes placed", a.grid.Count())
	}
	if a.preset >= 0 {
		fmt.Fprintf(&b, "   Preset: %s", theory.GridPresets[a.preset].Name)
	}
	return components.Panel(b.String(), max(cw, 7+3*theory.Steps+4))
}

func (a *patternActivity) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Space", Description: "Toggle"},
		{Key: "Enter", Description: "Play/Stop"},
		{Key: "P", Description: "Preset"},
		{Key: "C", Description: "Clear"},
	}
}
