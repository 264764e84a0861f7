package theory

import (
	"fmt"
	"math"
)

// Waveform is an oscillator shape.
type Waveform string

const (
	Sine     Waveform = "sine"
	Square   Waveform = "square"
	Sawtooth Waveform = "sawtooth"
	Triangle Waveform = "triangle"
)

// Waveforms lists the shapes in display order.
var Waveforms = []Waveform{Sine, Square, Sawtooth, Triangle}

// Describe returns a one-line description of how the shape sounds.
func (w Waveform) Describe() string {
	switch w {
	case Sine:
		return "Pure and smooth, no overtones"
	case Square:
		return "Hollow and buzzy, like old game consoles"
	case Sawtooth:
		return "Bright and edgy, rich in harmonics"
	case Triangle:
		return "Soft and flute-like"
	default:
		return ""
	}
}

// Sample evaluates the shape at phase (radians) and returns a value in [-1, 1].
func (w Waveform) Sample(phase float64) float64 {
	t := math.Mod(phase, 2*math.Pi)
	if t < 0 {
		t += 2 * math.Pi
	}
	switch w {
	case Square:
		if math.Sin(t) >= 0 {
			return 1
		}
		return -1
	case Sawtooth:
		return t/math.Pi - 1
	case Triangle:
		return 1 - 2*math.Abs(t/math.Pi-1)
	default:
		return math.Sin(t)
	}
}

// Oscillator limits.
const (
	MinFrequency = 55.0
	MaxFrequency = 2000.0
	MinDetune    = -50
	MaxDetune    = 50
)

// Voice is the sound-design lab's oscillator settings.
type Voice struct {
	Waveform  Waveform
	Frequency float64 // Hz
	Detune    int     // cents
}

// DefaultVoice is a sine at A4.
func DefaultVoice() Voice {
	return Voice{Waveform: Sine, Frequency: 440}
}

// Clamp keeps frequency and detune within the oscillator limits.
func (v Voice) Clamp() Voice {
	v.Frequency = math.Min(MaxFrequency, math.Max(MinFrequency, v.Frequency))
	v.Detune = min(MaxDetune, max(MinDetune, v.Detune))
	if v.Waveform == "" {
		v.Waveform = Sine
	}
	return v
}

// OctaveUp doubles the frequency, within limits.
func (v Voice) OctaveUp() Voice {
	v.Frequency *= 2
	return v.Clamp()
}

// OctaveDown halves the frequency, within limits.
func (v Voice) OctaveDown() Voice {
	v.Frequency /= 2
	return v.Clamp()
}

// NextWaveform cycles to the following shape.
func (v Voice) NextWaveform() Voice {
	for i, w := range Waveforms {
		if w == v.Waveform {
			v.Waveform = Waveforms[(i+1)%len(Waveforms)]
			return v
		}
	}
	v.Waveform = Sine
	return v
}

// Pitch is the frequency after detune is applied.
func (v Voice) Pitch() float64 {
	return v.Frequency * math.Pow(2, float64(v.Detune)/1200)
}

func (v Voice) String() string {
	return fmt.Sprintf("%s %.0f Hz %+d¢", v.Waveform, v.Frequency, v.Detune)
}

// VoicePreset is a named starting sound.
type VoicePreset struct {
	Name        string
	Description string
	Voice       Voice
}

// VoicePresets are the sound-design lab presets.
var VoicePresets = []VoicePreset{
	{"Warm Pad", "Smooth & cozy", Voice{Waveform: Sine, Frequency: 220}},
	{"Laser Zap", "Bright & edgy", Voice{Waveform: Sawtooth, Frequency: 880}},
	{"Sub Boom", "Deep bass", Voice{Waveform: Sine, Frequency: 55}},
	{"Bell Tone", "Crystalline", Voice{Waveform: Triangle, Frequency: 1047}},
	{"8-Bit", "Retro game", Voice{Waveform: Square, Frequency: 440}},
}
