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

const (
	vizBars   = 16
	vizHeight = 5
)

type creativityActivity struct {
	keyboard   *theory.Keyboard
	instrument int
	take       theory.Take
	heard      []theory.Note

	playing   bool
	playStart time.Time
	playAt    time.Duration
}

func newCreativityActivity() *creativityActivity {
	return &creativityActivity{keyboard: theory.StudioKeyboard()}
}

func (a *creativityActivity) Key(key string, now time.Time) Outcome {
	switch key {
	case "tab":
		a.instrument = (a.instrument + 1) % len(theory.Instruments)
		return Outcome{Activity: 1}
	case "enter":
		if a.take.Recording() {
			a.take.Stop()
		} else {
			a.playing = false
			a.take.Record(now)
		}
		return Outcome{Activity: 1}
	case "space":
		if a.take.Recording() || a.take.Len() == 0 {
			return Outcome{}
		}
		a.playing = true
		a.playStart = now
		a.playAt = -1
		return Outcome{Activity: 1}
	}

	runes := []rune(key)
	if len(runes) != 1 {
		return Outcome{}
	}
	note, ok := a.keyboard.Lookup(runes[0])
	if !ok {
		return Outcome{}
	}
	a.hear(note)
	a.take.Add(note, now)
	return Outcome{Activity: 1}
}

func (a *creativityActivity) hear(n theory.Note) {
	a.heard = append(a.heard, n)
	if len(a.heard) > vizBars {
		a.heard = a.heard[len(a.heard)-vizBars:]
	}
}

func (a *creativityActivity) Tick(now time.Time) Outcome {
	if !a.playing {
		return Outcome{}
	}
	at := now.Sub(a.playStart)
	for _, p := range a.take.Due(a.playAt, at) {
		a.hear(p.Note)
	}
	a.playAt = at
	if at >= a.take.Length() {
		a.playing = false
	}
	return Outcome{}
}

func (a *creativityActivity) View(cw int, _ time.Time) string {
	var b strings.Builder

	inst := theory.Instruments[a.instrument]
	fmt.Fprintf(&b, "Instrument: %s (%s wave)\n\n", inst, inst.Waveform())

	bars := theory.Bars(a.heard, vizBars)
	for row := vizHeight; row >= 1; row-- {
		threshold := row * 100 / vizHeight
		for _, h := range bars {
			if h >= threshold {
				b.WriteString(theme.StepOn.Render("█ "))
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var keys []string
	for _, n := range a.keyboard.WhiteKeys() {
		keys = append(keys, fmt.Sprintf("%c", a.keyboard.Binding(n)))
	}
	b.WriteString(theme.Hint.Render(strings.Join(keys, " ")))
	b.WriteString("\n\n")

	switch {
	case a.take.Recording():
		fmt.Fprintf(&b, "● Recording  %d notes", a.take.Len())
	case a.playing:
		fmt.Fprintf(&b, "▶ Playing  %s / %s", a.playAt.Truncate(100*time.Millisecond), a.take.Length().Truncate(100*time.Millisecond))
	case a.take.Len() > 0:
		fmt.Fprintf(&b, "Take: %d notes  (Space to play)", a.take.Len())
	default:
		b.WriteString("Enter to record")
	}
	return components.Panel(b.String(), cw)
}

func (a *creativityActivity) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "A-N", Description: "Play"},
		{Key: "Tab", Description: "Instrument"},
		{Key: "Enter", Description: "Record"},
		{Key: "Space", Description: "Playback"},
	}
}
