package lab

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/abhisek/musiclab/internal/coach"
	"github.com/abhisek/musiclab/internal/theory"
	"github.com/abhisek/musiclab/internal/ui/components"
	"github.com/abhisek/musiclab/internal/ui/layout"
	"github.com/abhisek/musiclab/internal/ui/theme"
)

// matchTolerance is how close in Hz a key must be to the target note.
const matchTolerance = 1.0

type pitchActivity struct {
	keyboard *theory.Keyboard
	last     theory.Note
	played   bool
	target   theory.Note
	finding  bool
	found    int
	rng      *rand.Rand
	fb       *coach.Feedbacker
}

func newPitchActivity(fb *coach.Feedbacker) *pitchActivity {
	return &pitchActivity{
		keyboard: theory.PitchKeyboard(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		fb:       fb,
	}
}

func (a *pitchActivity) Key(key string, _ time.Time) Outcome {
	if key == "n" {
		whites := a.keyboard.WhiteKeys()
		a.target = whites[a.rng.IntN(len(whites))]
		a.finding = true
		return Outcome{Activity: 1, Feedback: coach.Feedback{Type: coach.Hint,
			Message: fmt.Sprintf("Find the note at %.1f Hz", a.target.Frequency())}}
	}

	runes := []rune(key)
	if len(runes) != 1 {
		return Outcome{}
	}
	note, ok := a.keyboard.Lookup(runes[0])
	if !ok {
		return Outcome{}
	}
	a.last, a.played = note, true

	out := Outcome{Activity: 1}
	if a.finding {
		out.Feedback = a.judge(note)
	}
	return out
}

func (a *pitchActivity) judge(note theory.Note) coach.Feedback {
	diff := note.Frequency() - a.target.Frequency()
	if math.Abs(diff) < matchTolerance {
		a.finding = false
		a.found++
		return a.fb.For(coach.Excellent)
	}
	fb := a.fb.For(coach.Good)
	if diff < 0 {
		fb.Message += " (go higher)"
	} else {
		fb.Message += " (go lower)"
	}
	return fb
}

func (a *pitchActivity) Tick(time.Time) Outcome { return Outcome{} }

func (a *pitchActivity) View(cw int, _ time.Time) string {
	var b strings.Builder

	var keys, labels []string
	for _, n := range a.keyboard.WhiteKeys() {
		cell := fmt.Sprintf(" %-3s", n.Name())
		if a.played && n == a.last {
			keys = append(keys, theme.StepCursor.Render(cell))
		} else {
			keys = append(keys, theme.StepOff.Render(cell))
		}
		labels = append(labels, fmt.Sprintf("  %c ", a.keyboard.Binding(n)))
	}
	b.WriteString(strings.Join(keys, ""))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(strings.Join(labels, "")))
	b.WriteString("\n\n")

	if a.played {
		fmt.Fprintf(&b, "♪ %s  %.2f Hz\n", a.last.Name(), a.last.Frequency())
	} else {
		b.WriteString("♪ -\n")
	}

	if a.finding {
		fmt.Fprintf(&b, "Target: %.1f Hz", a.target.Frequency())
	} else {
		fmt.Fprintf(&b, "Notes found: %d  (N for a new target)", a.found)
	}
	return components.Panel(b.String(), cw)
}

func (a *pitchActivity) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "A-K", Description: "Play"},
		{Key: "N", Description: "Find a note"},
	}
}
