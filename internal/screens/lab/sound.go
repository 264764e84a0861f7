package lab

import (
	"fmt"
	"math"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/theory"
	"github.com/abhisek/musiclab/internal/ui/components"
	"github.com/abhisek/musiclab/internal/ui/layout"
	"github.com/abhisek/musiclab/internal/ui/theme"
)

const (
	frequencyStep = 10.0
	detuneStep    = 5
	scopeRows     = 7
)

type soundActivity struct {
	voice  theory.Voice
	preset int // -1 until a preset is picked
}

func newSoundActivity() *soundActivity {
	return &soundActivity{voice: theory.DefaultVoice(), preset: -1}
}

func (a *soundActivity) Key(key string, _ time.Time) Outcome {
	v := a.voice
	switch key {
	case "w":
		v = v.NextWaveform()
	case "1", "2", "3", "4":
		v.Waveform = theory.Waveforms[key[0]-'1']
	case "up":
		v.Frequency += frequencyStep
	case "down":
		v.Frequency -= frequencyStep
	case "right":
		v.Detune += detuneStep
	case "left":
		v.Detune -= detuneStep
	case "o":
		v = v.OctaveUp()
	case "O", "shift+o":
		v = v.OctaveDown()
	case "p":
		a.preset = (a.preset + 1) % len(theory.VoicePresets)
		v = theory.VoicePresets[a.preset].Voice
	default:
		return Outcome{}
	}
	a.voice = v.Clamp()
	return Outcome{Activity: 1}
}

func (a *soundActivity) Tick(time.Time) Outcome { return Outcome{} }

func (a *soundActivity) View(cw int, _ time.Time) string {
	var b strings.Builder
	v := a.voice

	fmt.Fprintf(&b, "%s  ·  %.0f Hz  ·  %+d cents\n", v.Waveform, v.Frequency, v.Detune)
	b.WriteString(theme.Hint.Render(v.Waveform.Describe()))
	b.WriteString("\n\n")
	b.WriteString(scope(v, max(16, cw-8)))
	b.WriteString("\n")

	if a.preset >= 0 {
		p := theory.VoicePresets[a.preset]
		fmt.Fprintf(&b, "\nPreset: %s (%s)", p.Name, p.Description)
	}
	return components.Panel(b.String(), cw)
}

// scope plots the waveform as characters. Higher pitches draw more
// cycles so a frequency change is visible.
func scope(v theory.Voice, width int) string {
	cycles := 1 + math.Log2(v.Pitch()/theory.MinFrequency)
	grid := make([][]rune, scopeRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	for x := range width {
		phase := float64(x) / float64(width) * cycles * 2 * math.Pi
		y := v.Waveform.Sample(phase)
		row := int(math.Round((1 - y) / 2 * float64(scopeRows-1)))
		grid[row][x] = '•'
	}
	lines := make([]string, scopeRows)
	for r, row := range grid {
		lines[r] = string(row)
	}
	return lipgloss.NewStyle().Foreground(theme.Neon).Render(strings.Join(lines, "\n"))
}

func (a *soundActivity) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "W/1-4", Description: "Wave"},
		{Key: "↑↓", Description: "Freq"},
		{Key: "←→", Description: "Detune"},
		{Key: "o/O", Description: "Octave"},
		{Key: "P", Description: "Preset"},
	}
}
