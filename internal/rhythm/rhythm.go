// Package rhythm evaluates taps against a metronome for the rhythm lab.
package rhythm

import (
	"time"
)

// Tempo limits and defaults for the metronome.
const (
	MinBPM     = 60
	MaxBPM     = 180
	DefaultBPM = 100
	BPMStep    = 10
)

// Accuracy grades a single tap.
type Accuracy int

const (
	Off Accuracy = iota
	Close
	Perfect
)

func (a Accuracy) String() string {
	switch a {
	case Perfect:
		return "perfect"
	case Close:
		return "close"
	default:
		return "off"
	}
}

// ClampBPM limits bpm to [MinBPM, MaxBPM].
func ClampBPM(bpm int) int {
	return min(MaxBPM, max(MinBPM, bpm))
}

// BeatInterval is the time between beats at bpm.
func BeatInterval(bpm int) time.Duration {
	return time.Minute / time.Duration(ClampBPM(bpm))
}

// Tolerance is the window around a beat that counts as perfect.
// Twice the tolerance still counts as close.
func Tolerance(bpm int) time.Duration {
	return BeatInterval(bpm) / 4
}

// Evaluate grades a tap that landed offset away from its beat.
func Evaluate(offset time.Duration, bpm int) Accuracy {
	if offset < 0 {
		offset = -offset
	}
	tol := Tolerance(bpm)
	switch {
	case offset < tol:
		return Perfect
	case offset < 2*tol:
		return Close
	default:
		return Off
	}
}

// Metronome ticks at a fixed tempo from a start time and grades taps
// against the nearest beat. The zero value is stopped.
type Metronome struct {
	bpm     int
	start   time.Time
	running bool

	streak int
	taps   int
	counts [3]int
}

// NewMetronome creates a stopped metronome at bpm.
func NewMetronome(bpm int) *Metronome {
	return &Metronome{bpm: ClampBPM(bpm)}
}

// BPM returns the current tempo.
func (m *Metronome) BPM() int { return m.bpm }

// Running reports whether the metronome is ticking.
func (m *Metronome) Running() bool { return m.running }

// Start begins ticking with a beat at now and clears the tap streak.
func (m *Metronome) Start(now time.Time) {
	m.start = now
	m.running = true
	m.streak = 0
}

// Stop halts the metronome.
func (m *Metronome) Stop() { m.running = false }

// SetBPM changes the tempo. A running metronome restarts its beat grid at now.
func (m *Metronome) SetBPM(bpm int, now time.Time) {
	m.bpm = ClampBPM(bpm)
	if m.running {
		m.start = now
	}
}

// Faster raises the tempo by one step.
func (m *Metronome) Faster(now time.Time) { m.SetBPM(m.bpm+BPMStep, now) }

// Slower lowers the tempo by one step.
func (m *Metronome) Slower(now time.Time) { m.SetBPM(m.bpm-BPMStep, now) }

// Beat returns the index of the most recent beat at now.
func (m *Metronome) Beat(now time.Time) int {
	if !m.running || now.Before(m.start) {
		return 0
	}
	return int(now.Sub(m.start) / BeatInterval(m.bpm))
}

// Offset returns the distance from now to the nearest beat. Negative
// values mean the tap was early.
func (m *Metronome) Offset(now time.Time) time.Duration {
	interval := BeatInterval(m.bpm)
	since := now.Sub(m.start) % interval
	if since < 0 {
		since += interval
	}
	if since > interval/2 {
		return since - interval
	}
	return since
}

// Tap grades a tap at now. Taps on a stopped metronome are ignored and
// report ok=false.
func (m *Metronome) Tap(now time.Time) (acc Accuracy, ok bool) {
	if !m.running {
		return Off, false
	}
	acc = Evaluate(m.Offset(now), m.bpm)
	m.taps++
	m.counts[acc]++
	if acc == Perfect {
		m.streak++
	} else {
		m.streak = 0
	}
	return acc, true
}

// Streak is the number of consecutive perfect taps.
func (m *Metronome) Streak() int { return m.streak }

// Taps is the number of graded taps since the metronome was created.
func (m *Metronome) Taps() int { return m.taps }

// Count returns how many taps were graded acc.
func (m *Metronome) Count(acc Accuracy) int { return m.counts[acc] }

// Pattern is a one-bar rhythm of 16 slots; true is a hit.
type Pattern struct {
	Name  string
	Steps [16]bool
}

// Hits returns the number of hits in the pattern.
func (p Pattern) Hits() int {
	n := 0
	for _, s := range p.Steps {
		if s {
			n++
		}
	}
	return n
}

func bits(s string) (out [16]bool) {
	for i := range out {
		out[i] = s[i] == 'x'
	}
	return out
}

// Patterns are the copy-mode presets.
var Patterns = []Pattern{
	{Name: "Four on the Floor", Steps: bits("x...x...x...x...")},
	{Name: "Eighth Notes", Steps: bits("xxxxxxxxxxxxxxxx")},
	{Name: "Syncopation", Steps: bits("x..x.x..x.x...x.")},
	{Name: "Hip-Hop", Steps: bits("x.x..x.xx..x.xx.")},
}

// Copy follows the learner through a pattern in copy mode.
type Copy struct {
	pattern Pattern
	index   int
}

// NewCopy starts copying p from its first hit.
func NewCopy(p Pattern) *Copy {
	return &Copy{pattern: p}
}

// Pattern returns the pattern being copied.
func (c *Copy) Pattern() Pattern { return c.pattern }

// Index is the position of the next expected hit.
func (c *Copy) Index() int { return c.index }

// Advance moves to the next slot, stopping at the last one.
func (c *Copy) Advance() {
	c.index = min(c.index+1, len(c.pattern.Steps)-1)
}
