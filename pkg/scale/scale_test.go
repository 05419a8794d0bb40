package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	assert.Equal(t, []int{0, 2, 4, 5, 7, 9, 11}, Get("C Major"))
	assert.Equal(t, []int{0, 2, 4, 7, 9}, Get("C Pentatonic"))
	assert.Equal(t, Get(Fallback), Get("H Mixolydian"), "unknown scale must fall back")
}

func TestGetReturnsCopy(t *testing.T) {
	keys := Get("C Major")
	keys[0] = 99
	assert.Equal(t, []int{0, 2, 4, 5, 7, 9, 11}, Get("C Major"))
}

func TestNames(t *testing.T) {
	names := Names()
	require.Len(t, names, len(scales))
	for _, name := range names {
		assert.True(t, Exists(name), "name %q must exist in catalog", name)
	}
	assert.Equal(t, Fallback, names[0])
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("C Major", 0))
	assert.False(t, Contains("C Major", 1))
	assert.True(t, Contains("C Pentatonic", 7))
	assert.False(t, Contains("C Pentatonic", 5))
	// unknown scale falls back to C Major
	assert.True(t, Contains("nope", 11))
	assert.False(t, Contains("nope", 10))
}

func TestKeysCatalog(t *testing.T) {
	require.Len(t, Keys, KeysPerOctave)
	assert.Equal(t, "C4", Keys[0].Note)
	assert.InDelta(t, 440.0, Keys[9].Frequency, 0.001)
	for name := range scales {
		for _, idx := range scales[name] {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, KeysPerOctave)
		}
	}
}
