package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactor_Identity(t *testing.T) {
	c := NewConverter()

	for _, unit := range []string{UnitSF, UnitLF, UnitCY, UnitEA, "anything"} {
		factor, ok := c.Factor(unit, unit)
		assert.True(t, ok, "identity conversion should always succeed for %s", unit)
		assert.Equal(t, 1.0, factor)
	}
}

func TestFactor_KnownPairs(t *testing.T) {
	c := NewConverter()

	tests := []struct {
		from, to string
		want     float64
	}{
		{UnitSF, UnitSY, 1.0 / 9.0},
		{UnitSF, UnitSQFT, 1.0},
		{UnitLF, UnitFT, 1.0},
		{UnitCY, UnitCF, 27.0},
		{UnitEA, UnitEach, 1.0},
		{UnitGal, UnitGallon, 1.0},
	}
	for _, tt := range tests {
		factor, ok := c.Factor(tt.from, tt.to)
		require.True(t, ok, "%s to %s should be convertible", tt.from, tt.to)
		assert.InDelta(t, tt.want, factor, 1e-12)
	}
}

func TestFactor_Symmetry(t *testing.T) {
	c := NewConverter()

	for _, p := range DefaultPairs() {
		fwd, ok := c.Factor(p.From, p.To)
		require.True(t, ok)
		rev, ok := c.Factor(p.To, p.From)
		require.True(t, ok)
		assert.InDelta(t, 1.0, fwd*rev, 1e-12,
			"round trip %s -> %s -> %s should be lossless", p.From, p.To, p.From)
	}
}

func TestFactor_UnknownPair(t *testing.T) {
	c := NewConverter()

	_, ok := c.Factor(UnitSF, UnitCY)
	assert.False(t, ok, "area to volume has no defined conversion")

	_, ok = c.Factor("SF", "WIDGET")
	assert.False(t, ok)
}

func TestFactor_CaseInsensitive(t *testing.T) {
	c := NewConverter()

	upper, ok := c.Factor("SF", "SY")
	require.True(t, ok)
	lower, ok := c.Factor("sf", "sy")
	require.True(t, ok)
	assert.Equal(t, upper, lower)
}

func TestNewConverterWithPairs_Extends(t *testing.T) {
	c := NewConverterWithPairs([]Pair{{From: "BAG", To: "PALLET", Factor: 0.02}})

	factor, ok := c.Factor("BAG", "PALLET")
	require.True(t, ok)
	assert.Equal(t, 0.02, factor)

	// Custom pairs extend the defaults rather than replacing them.
	_, ok = c.Factor(UnitSF, UnitSY)
	assert.True(t, ok)
}

func TestGuessUnit(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"slab_sf", UnitSF},
		{"wall_area", UnitSF},
		{"trim_lf", UnitLF},
		{"footing_length", UnitLF},
		{"concrete_cy", UnitCY},
		{"paint_gallons", UnitGal},
		{"outlet_count", UnitEA},
		{"recessed_lights", UnitEA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessUnit(tt.name))
		})
	}
}
