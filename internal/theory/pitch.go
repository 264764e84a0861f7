// Package theory holds the musical data behind the labs: keyboards and
// note frequencies, oscillator shapes, diatonic chords, and the step
// sequencer grid.
package theory

import (
	"fmt"
	"math"
	"strings"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is a key on a keyboard, identified by its MIDI number.
type Note int

// A4 is concert pitch.
const A4 Note = 69

// NoteFromName parses names like "C4", "F#3" or "A#5".
func NoteFromName(name string) (Note, error) {
	for i := len(noteNames) - 1; i >= 0; i-- {
		rest, ok := strings.CutPrefix(name, noteNames[i])
		if !ok {
			continue
		}
		var octave int
		if _, err := fmt.Sscanf(rest, "%d", &octave); err != nil {
			return 0, fmt.Errorf("note %q: missing octave", name)
		}
		return Note((octave+1)*12 + i), nil
	}
	return 0, fmt.Errorf("note %q: unknown pitch class", name)
}

// Name returns the note name with its octave, e.g. "C#4".
func (n Note) Name() string {
	return fmt.Sprintf("%s%d", n.PitchClass(), int(n)/12-1)
}

// PitchClass returns the name without octave.
func (n Note) PitchClass() string {
	return noteNames[((int(n)%12)+12)%12]
}

// Sharp reports whether the note is a black key.
func (n Note) Sharp() bool {
	return strings.HasSuffix(n.PitchClass(), "#")
}

// Frequency returns the equal-tempered frequency in Hz, tuned to A4 = 440.
func (n Note) Frequency() float64 {
	return 440 * math.Pow(2, float64(n-A4)/12)
}

// Keyboard is a contiguous run of keys with computer-keyboard bindings
// for its white keys.
type Keyboard struct {
	Low, High Note
	bindings  map[rune]Note
}

// NewKeyboard spans low..high inclusive and binds the runes of keys, in
// order, to the white keys from low upward. Extra runes are ignored.
func NewKeyboard(low, high Note, keys string) *Keyboard {
	kb := &Keyboard{Low: low, High: high, bindings: make(map[rune]Note)}
	whites := kb.WhiteKeys()
	for i, r := range []rune(keys) {
		if i >= len(whites) {
			break
		}
		kb.bindings[r] = whites[i]
	}
	return kb
}

// Notes returns every key from low to high.
func (kb *Keyboard) Notes() []Note {
	notes := make([]Note, 0, kb.High-kb.Low+1)
	for n := kb.Low; n <= kb.High; n++ {
		notes = append(notes, n)
	}
	return notes
}

// WhiteKeys returns the natural notes in range.
func (kb *Keyboard) WhiteKeys() []Note {
	var out []Note
	for _, n := range kb.Notes() {
		if !n.Sharp() {
			out = append(out, n)
		}
	}
	return out
}

// Lookup returns the note bound to r.
func (kb *Keyboard) Lookup(r rune) (Note, bool) {
	n, ok := kb.bindings[r]
	return n, ok
}

// Binding returns the rune bound to n, or 0.
func (kb *Keyboard) Binding(n Note) rune {
	for r, bound := range kb.bindings {
		if bound == n {
			return r
		}
	}
	return 0
}

// PitchKeyboard is the one-octave C4..C5 keyboard of the pitch lab.
func PitchKeyboard() *Keyboard {
	return NewKeyboard(60, 72, "asdfghjk")
}

// StudioKeyboard is the two-octave C3..C5 keyboard of the creativity lab.
func StudioKeyboard() *Keyboard {
	return NewKeyboard(48, 72, "asdfghjklzxcvbn")
}
