package theory

import (
	"math"
	"time"
)

// Instrument colors the creativity lab's keyboard.
type Instrument string

const (
	Piano   Instrument = "piano"
	Synth   Instrument = "synth"
	Marimba Instrument = "marimba"
)

// Instruments lists the choices in display order.
var Instruments = []Instrument{Piano, Synth, Marimba}

// Waveform returns the oscillator shape used to voice the instrument.
func (i Instrument) Waveform() Waveform {
	switch i {
	case Synth:
		return Sawtooth
	case Marimba:
		return Triangle
	default:
		return Sine
	}
}

// Played is one recorded keypress.
type Played struct {
	Note Note
	At   time.Duration // offset from the start of the take
}

// Take records notes against a clock and plays them back at their
// recorded offsets.
type Take struct {
	start     time.Time
	recording bool
	notes     []Played
}

// Record clears the take and starts recording at now.
func (t *Take) Record(now time.Time) {
	t.start = now
	t.recording = true
	t.notes = nil
}

// Stop ends recording.
func (t *Take) Stop() { t.recording = false }

// Recording reports whether notes are being captured.
func (t *Take) Recording() bool { return t.recording }

// Add captures n at now if recording.
func (t *Take) Add(n Note, now time.Time) {
	if !t.recording {
		return
	}
	at := now.Sub(t.start)
	if at < 0 {
		at = 0
	}
	t.notes = append(t.notes, Played{Note: n, At: at})
}

// Notes returns the recorded notes in order.
func (t *Take) Notes() []Played {
	return append([]Played(nil), t.notes...)
}

// Len is the number of recorded notes.
func (t *Take) Len() int { return len(t.notes) }

// Length is the offset of the last note.
func (t *Take) Length() time.Duration {
	if len(t.notes) == 0 {
		return 0
	}
	return t.notes[len(t.notes)-1].At
}

// Due returns the notes whose offsets fall in (from, to]. Playback calls
// it on each tick with the previous and current elapsed times, starting
// from a negative offset so a note at zero is included.
func (t *Take) Due(from, to time.Duration) []Played {
	var out []Played
	for _, p := range t.notes {
		if p.At > from && p.At <= to {
			out = append(out, p)
		}
	}
	return out
}

// Bars maps the last n notes to bar heights in [0, 100] for the
// visualizer, scaled so C5 fills the bar.
func Bars(notes []Note, n int) []int {
	out := make([]int, n)
	if len(notes) > n {
		notes = notes[len(notes)-n:]
	}
	offset := n - len(notes)
	for i, note := range notes {
		h := int(math.Round(note.Frequency() / Note(72).Frequency() * 100))
		out[offset+i] = min(100, max(0, h))
	}
	return out
}
