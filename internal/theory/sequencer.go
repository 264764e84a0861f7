package theory

import (
	"fmt"
	"strings"
	"time"
)

// Sequencer dimensions.
const (
	Steps    = 16
	StepTime = 125 * time.Millisecond
)

// Track is a row of the step sequencer.
type Track int

const (
	Kick Track = iota
	Snare
	HiHat
	Melody
	numTracks
)

// Tracks lists the rows top to bottom.
var Tracks = []Track{Kick, Snare, HiHat, Melody}

func (t Track) String() string {
	switch t {
	case Kick:
		return "Kick"
	case Snare:
		return "Snare"
	case HiHat:
		return "Hi-Hat"
	case Melody:
		return "Melody"
	default:
		return fmt.Sprintf("Track(%d)", int(t))
	}
}

// melodyScale is the C4..C5 white-key run the melody row walks through.
var melodyScale = [8]Note{60, 62, 64, 65, 67, 69, 71, 72}

// MelodyNote is the note the melody row plays on step.
func MelodyNote(step int) Note {
	return melodyScale[((step%8)+8)%8]
}

// Grid is a four-row, sixteen-step pattern.
type Grid [numTracks][Steps]bool

// ParseGrid builds a grid from one string per track, using '1' or 'x' for
// an active step.
func ParseGrid(rows ...string) (Grid, error) {
	var g Grid
	if len(rows) != int(numTracks) {
		return g, fmt.Errorf("grid needs %d rows, got %d", numTracks, len(rows))
	}
	for t, row := range rows {
		if len(row) != Steps {
			return g, fmt.Errorf("%s row has %d steps, want %d", Track(t), len(row), Steps)
		}
		for i := range Steps {
			g[t][i] = row[i] == '1' || row[i] == 'x'
		}
	}
	return g, nil
}

func mustGrid(rows ...string) Grid {
	g, err := ParseGrid(rows...)
	if err != nil {
		panic(err)
	}
	return g
}

// Toggle flips one cell. Out-of-range cells are ignored.
func (g *Grid) Toggle(t Track, step int) {
	if t < 0 || t >= numTracks || step < 0 || step >= Steps {
		return
	}
	g[t][step] = !g[t][step]
}

// ActiveAt returns the tracks that sound on step.
func (g *Grid) ActiveAt(step int) []Track {
	step = ((step % Steps) + Steps) % Steps
	var out []Track
	for _, t := range Tracks {
		if g[t][step] {
			out = append(out, t)
		}
	}
	return out
}

// Count returns the number of active cells.
func (g *Grid) Count() int {
	n := 0
	for _, row := range g {
		for _, on := range row {
			if on {
				n++
			}
		}
	}
	return n
}

// Clear switches every cell off.
func (g *Grid) Clear() { *g = Grid{} }

// Row renders a track as x and . characters.
func (g *Grid) Row(t Track) string {
	var b strings.Builder
	for _, on := range g[t] {
		if on {
			b.WriteByte('x')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// NextStep advances the playhead, wrapping after the last step.
func NextStep(step int) int {
	return (step + 1) % Steps
}

// GridPreset is a named starting pattern.
type GridPreset struct {
	Name string
	Grid Grid
}

// GridPresets are the pattern lab presets.
var GridPresets = []GridPreset{
	{"Four on Floor", mustGrid(
		"1000000010000000",
		"0000100000001000",
		"1111111111111111",
		"0010001000100010",
	)},
	{"Hip-Hop", mustGrid(
		"1000100010001000",
		"0000100000001000",
		"1010101010101010",
		"0001000001000100",
	)},
	{"House", mustGrid(
		"1000100010001000",
		"0010001000100010",
		"1111111111111111",
		"1000000000000000",
	)},
	{"Breakbeat", mustGrid(
		"1001001001001000",
		"0010010010010010",
		"1010101010101010",
		"0000100000100000",
	)},
}
