package scale

import "slices"

// Fallback is used whenever a requested scale name is unknown.
const Fallback = "C Major"

// KeysPerOctave is the number of key indices in the octave-relative range.
const KeysPerOctave = 12

// Key is one of the twelve octave-relative piano keys.
type Key struct {
	Note      string  `json:"note"`
	Type      string  `json:"type"`
	Frequency float64 `json:"frequency"`
	Label     string  `json:"label"`
}

// Keys is the octave key catalog, indexed by key index 0-11.
var Keys = []Key{
	{Note: "C4", Type: "white", Frequency: 261.63, Label: "Do"},
	{Note: "C#4", Type: "black", Frequency: 277.18, Label: "Do#"},
	{Note: "D4", Type: "white", Frequency: 293.66, Label: "Re"},
	{Note: "D#4", Type: "black", Frequency: 311.13, Label: "Re#"},
	{Note: "E4", Type: "white", Frequency: 329.63, Label: "Mi"},
	{Note: "F4", Type: "white", Frequency: 349.23, Label: "Fa"},
	{Note: "F#4", Type: "black", Frequency: 369.99, Label: "Fa#"},
	{Note: "G4", Type: "white", Frequency: 392.0, Label: "Sol"},
	{Note: "G#4", Type: "black", Frequency: 415.3, Label: "Sol#"},
	{Note: "A4", Type: "white", Frequency: 440.0, Label: "La"},
	{Note: "A#4", Type: "black", Frequency: 466.16, Label: "La#"},
	{Note: "B4", Type: "white", Frequency: 493.88, Label: "Si"},
}

// names fixes the catalog enumeration order.
var names = []string{
	"C Major",
	"G Major",
	"D Major",
	"A Major",
	"E Major",
	"F Major",
	"C Pentatonic",
	"A Minor Pentatonic",
}

// Key indices are listed in allocation priority order.
var scales = map[string][]int{
	"C Major":            {0, 2, 4, 5, 7, 9, 11},
	"G Major":            {7, 9, 11, 0, 2, 4, 6},
	"D Major":            {2, 4, 6, 7, 9, 11, 1},
	"A Major":            {9, 11, 1, 2, 4, 6, 8},
	"E Major":            {4, 6, 8, 9, 11, 1, 3},
	"F Major":            {5, 7, 9, 10, 0, 2, 4},
	"C Pentatonic":       {0, 2, 4, 7, 9},
	"A Minor Pentatonic": {9, 0, 2, 4, 7},
}

// Get returns the key indices of the named scale, falling back to the
// default scale for unknown names. The returned slice is a copy.
func Get(name string) []int {
	keys, ok := scales[name]
	if !ok {
		keys = scales[Fallback]
	}

	return slices.Clone(keys)
}

// Exists reports whether name is a known scale.
func Exists(name string) bool {
	_, ok := scales[name]
	return ok
}

// Names returns the scale names in catalog order.
func Names() []string {
	return slices.Clone(names)
}

// Contains reports whether keyIndex belongs to the named scale,
// falling back to the default scale for unknown names.
func Contains(name string, keyIndex int) bool {
	return slices.Contains(Get(name), keyIndex%KeysPerOctave)
}
