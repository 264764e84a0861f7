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

const chordTime = time.Second

type harmonyActivity struct {
	progression theory.Progression
	slot        int
	mood        int // -1 until a mood is picked
	chord       *theory.Chord
	playing     bool
	playSlot    int
	lastChord   time.Time
}

func newHarmonyActivity() *harmonyActivity {
	return &harmonyActivity{progression: theory.DefaultProgression(), mood: -1}
}

func (a *harmonyActivity) Key(key string, now time.Time) Outcome {
	switch key {
	case "1", "2", "3", "4", "5", "6", "7":
		c := theory.Chords[key[0]-'1']
		a.chord = &c
		return Outcome{Activity: 1}
	case "left", "h":
		a.slot = (a.slot + len(a.progression) - 1) % len(a.progression)
	case "right", "l":
		a.slot = (a.slot + 1) % len(a.progression)
	case "space":
		a.progression = a.progression.CycleChord(a.slot)
		return Outcome{Activity: 1}
	case "m":
		a.mood = (a.mood + 1) % len(theory.Moods)
		p, err := theory.ProgressionFor(theory.Moods[a.mood])
		if err == nil {
			a.progression = p
		}
		return Outcome{Activity: 1}
	case "enter":
		a.playing = !a.playing
		a.playSlot = 0
		a.lastChord = now
		a.sound(0)
		return Outcome{Activity: 1}
	}
	return Outcome{}
}

func (a *harmonyActivity) sound(slot int) {
	if c, ok := theory.ChordFor(a.progression[slot]); ok {
		a.chord = &c
	}
}

func (a *harmonyActivity) Tick(now time.Time) Outcome {
	if !a.playing {
		return Outcome{}
	}
	for now.Sub(a.lastChord) >= chordTime {
		a.lastChord = a.lastChord.Add(chordTime)
		a.playSlot++
		if a.playSlot >= len(a.progression) {
			a.playing = false
			return Outcome{}
		}
		a.sound(a.playSlot)
	}
	return Outcome{}
}

func (a *harmonyActivity) View(cw int, _ time.Time) string {
	var b strings.Builder

	var chords []string
	for i, c := range theory.Chords {
		chords = append(chords, fmt.Sprintf("%d %s", i+1, c.Name))
	}
	b.WriteString(theme.Hint.Render(strings.Join(chords, "  ")))
	b.WriteString("\n\n")

	names := a.progression.Names()
	cells := make([]string, len(a.progression))
	for i, roman := range a.progression {
		cell := fmt.Sprintf(" %s %s ", roman, names[i])
		switch {
		case a.playing && i == a.playSlot:
			cells[i] = theme.Playhead.Render(cell)
		case i == a.slot:
			cells[i] = theme.StepCursor.Render(cell)
		default:
			cells[i] = theme.StepOff.Render(cell)
		}
	}
	b.WriteString(strings.Join(cells, " "))
	b.WriteString("\n\n")

	if a.mood >= 0 {
		fmt.Fprintf(&b, "Mood: %s\n", theory.Moods[a.mood])
	}
	if a.chord != nil {
		notes := make([]string, len(a.chord.Notes))
		for i, n := range a.chord.Notes {
			notes[i] = n.Name()
		}
		fmt.Fprintf(&b, "♪ %s (%s): %s", a.chord.Name, a.chord.Roman, strings.Join(notes, " "))
	} else {
		b.WriteString("♪ -")
	}
	return components.Panel(b.String(), cw)
}

func (a *harmonyActivity) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "1-7", Description: "Chord"},
		{Key: "←→", Description: "Slot"},
		{Key: "Space", Description: "Change"},
		{Key: "M", Description: "Mood"},
		{Key: "Enter", Description: "Play"},
	}
}
