package theory

import "fmt"

// Chord is a diatonic triad in C major.
type Chord struct {
	Roman string
	Name  string
	Notes [3]Note
}

// Chords are the seven diatonic triads in the order CycleChord steps through.
var Chords = []Chord{
	{"I", "C", [3]Note{60, 64, 67}},
	{"ii", "Dm", [3]Note{62, 65, 69}},
	{"iii", "Em", [3]Note{64, 67, 71}},
	{"IV", "F", [3]Note{65, 69, 72}},
	{"V", "G", [3]Note{67, 71, 74}},
	{"vi", "Am", [3]Note{57, 60, 64}},
	{"vii°", "B°", [3]Note{59, 62, 65}},
}

// ChordFor looks up a chord by roman numeral.
func ChordFor(roman string) (Chord, bool) {
	for _, c := range Chords {
		if c.Roman == roman {
			return c, true
		}
	}
	return Chord{}, false
}

// Mood names a stock progression.
type Mood string

const (
	Happy   Mood = "happy"
	Chill   Mood = "chill"
	Epic    Mood = "epic"
	Mystery Mood = "mystery"
)

// Moods lists the moods in display order.
var Moods = []Mood{Happy, Chill, Epic, Mystery}

var moodProgressions = map[Mood][4]string{
	Happy:   {"I", "V", "vi", "IV"},
	Chill:   {"I", "vi", "IV", "V"},
	Epic:    {"I", "IV", "I", "V"},
	Mystery: {"vi", "IV", "ii", "V"},
}

// Progression is a four-chord loop of roman numerals.
type Progression [4]string

// DefaultProgression is I IV V I.
func DefaultProgression() Progression {
	return Progression{"I", "IV", "V", "I"}
}

// ProgressionFor returns the stock progression for mood.
func ProgressionFor(m Mood) (Progression, error) {
	p, ok := moodProgressions[m]
	if !ok {
		return Progression{}, fmt.Errorf("unknown mood %q", m)
	}
	return Progression(p), nil
}

// CycleChord replaces slot with the next chord in Chords order, wrapping
// from vii° back to I. Unknown chords restart at I.
func (p Progression) CycleChord(slot int) Progression {
	if slot < 0 || slot >= len(p) {
		return p
	}
	next := 0
	for i, c := range Chords {
		if c.Roman == p[slot] {
			next = (i + 1) % len(Chords)
			break
		}
	}
	p[slot] = Chords[next].Roman
	return p
}

// Names returns the chord names of the progression, e.g. C G Am F.
func (p Progression) Names() []string {
	out := make([]string, len(p))
	for i, r := range p {
		if c, ok := ChordFor(r); ok {
			out[i] = c.Name
		} else {
			out[i] = "?"
		}
	}
	return out
}
