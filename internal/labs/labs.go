package labs

import "fmt"

// ID identifies one of the fixed labs.
type ID string

const (
	Rhythm      ID = "rhythm"
	Pitch       ID = "pitch"
	SoundDesign ID = "sound-design"
	Pattern     ID = "pattern"
	Harmony     ID = "harmony"
	Creativity  ID = "creativity"
)

// Category groups labs by the musical concept they teach.
type Category string

const (
	CategoryRhythm     Category = "rhythm"
	CategoryPitch      Category = "pitch"
	CategorySound      Category = "sound"
	CategoryStructure  Category = "structure"
	CategoryHarmony    Category = "harmony"
	CategoryCreativity Category = "creativity"
)

// Lab describes one interactive lab.
type Lab struct {
	ID          ID
	Name        string
	Description string
	Icon        string
	Category    Category
	TipsTitle   string
	Tips        []string
}

// catalog is ordered; the order is the tie-break order for suggestions.
var catalog = []Lab{
	{
		ID:          Rhythm,
		Name:        "Rhythm Lab",
		Description: "Feel the pulse, master the beat",
		Icon:        "🥁",
		Category:    CategoryRhythm,
		TipsTitle:   "Rhythm Lab Tips",
		Tips: []string{
			"Press Space to tap with the beat",
			"Start the metronome first, then tap when you hear the click",
			"Adjust BPM: slower (60–80) for beginners, faster (120+) for challenge",
		},
	},
	{
		ID:          Pitch,
		Name:        "Pitch & Melody Lab",
		Description: "Explore tones and melodies",
		Icon:        "🎵",
		Category:    CategoryPitch,
		TipsTitle:   "Pitch Lab Tips",
		Tips: []string{
			"Use A S D F G H J K for the white keys",
			"Listen to how different notes relate to each other",
			"Try playing simple melodies like Twinkle Twinkle",
		},
	},
	{
		ID:          SoundDesign,
		Name:        "Sound Design Lab",
		Description: "Create and shape sounds",
		Icon:        "🎛️",
		Category:    CategorySound,
		TipsTitle:   "Sound Design Tips",
		Tips: []string{
			"Sine = smooth, Square = buzzy, Sawtooth = bright, Triangle = mellow",
			"440 Hz is concert A. Try doubling (880) or halving (220)",
			"Experiment with frequency + wave type combinations",
		},
	},
	{
		ID:          Pattern,
		Name:        "Pattern Lab",
		Description: "Build music like LEGO blocks",
		Icon:        "🧩",
		Category:    CategoryStructure,
		TipsTitle:   "Pattern Lab Tips",
		Tips: []string{
			"Toggle cells to add notes. Rows are sounds, columns are beats",
			"Try creating a simple 4-beat loop first",
			"Play your pattern to hear it, then adjust and repeat",
		},
	},
	{
		ID:          Harmony,
		Name:        "Harmony Lab",
		Description: "Discover chords and harmony",
		Icon:        "🎼",
		Category:    CategoryHarmony,
		TipsTitle:   "Harmony Lab Tips",
		Tips: []string{
			"Each chord has a different emotional feel",
			"C Major and G Major often sound good together",
			"Try playing chords in sequence to make progressions",
		},
	},
	{
		ID:          Creativity,
		Name:        "Creativity Sandbox",
		Description: "Pure exploration, no rules",
		Icon:        "🎨",
		Category:    CategoryCreativity,
		TipsTitle:   "Creativity Sandbox Tips",
		Tips: []string{
			"No rules. Explore freely!",
			"Use the keyboard for faster playing",
			"Record and play back your creations",
		},
	},
}

// All returns every lab in enumeration order.
func All() []Lab {
	out := make([]Lab, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns every lab identifier in enumeration order.
func IDs() []ID {
	ids := make([]ID, len(catalog))
	for i, l := range catalog {
		ids[i] = l.ID
	}
	return ids
}

// Lookup returns the lab with the given identifier.
func Lookup(id ID) (Lab, bool) {
	for _, l := range catalog {
		if l.ID == id {
			return l, true
		}
	}
	return Lab{}, false
}

// Valid reports whether id names a known lab.
func (id ID) Valid() bool {
	_, ok := Lookup(id)
	return ok
}

// Parse converts a string into a known lab ID.
func Parse(s string) (ID, error) {
	id := ID(s)
	if !id.Valid() {
		return "", fmt.Errorf("unknown lab %q (want one of %v)", s, IDs())
	}
	return id, nil
}
