// Package units provides canonical construction units and conversions.
package units

import "strings"

// Common catalog units.
const (
	UnitSF     = "SF"
	UnitSY     = "SY"
	UnitSQFT   = "SQFT"
	UnitLF     = "LF"
	UnitFT     = "FT"
	UnitCY     = "CY"
	UnitCF     = "CF"
	UnitEA     = "EA"
	UnitEach   = "EACH"
	UnitGal    = "GAL"
	UnitGallon = "GALLON"
)

// Pair is a single directed conversion between two units.
type Pair struct {
	From   string
	To     string
	Factor float64
}

// DefaultPairs covers the conversions the catalog needs out of the box.
// One direction per pair is enough; the converter derives the reciprocal.
func DefaultPairs() []Pair {
	return []Pair{
		{UnitSF, UnitSY, 1.0 / 9.0},
		{UnitSF, UnitSQFT, 1},
		{UnitLF, UnitFT, 1},
		{UnitCY, UnitCF, 27},
		{UnitEA, UnitEach, 1},
		{UnitGal, UnitGallon, 1},
	}
}

// Converter resolves conversion factors between quantity units and catalog
// units. Lookup is symmetric: when only the reverse pair is registered the
// reciprocal factor is returned.
type Converter struct {
	factors map[string]map[string]float64
}

// NewConverter builds a converter from the built-in pair table.
func NewConverter() *Converter {
	return NewConverterWithPairs(DefaultPairs())
}

// NewConverterWithPairs builds a converter from explicit pairs, appended to
// (and overriding) the built-in table.
func NewConverterWithPairs(pairs []Pair) *Converter {
	c := &Converter{factors: make(map[string]map[string]float64)}
	for _, p := range DefaultPairs() {
		c.register(p)
	}
	for _, p := range pairs {
		c.register(p)
	}
	return c
}

func (c *Converter) register(p Pair) {
	from := strings.ToUpper(strings.TrimSpace(p.From))
	to := strings.ToUpper(strings.TrimSpace(p.To))
	if from == "" || to == "" || p.Factor == 0 {
		return
	}
	if c.factors[from] == nil {
		c.factors[from] = make(map[string]float64)
	}
	c.factors[from][to] = p.Factor
}

// Factor returns the multiplier converting from one unit to another. The
// second return is false when no conversion is defined in either direction.
func (c *Converter) Factor(from, to string) (float64, bool) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == "" || to == "" {
		return 0, false
	}
	if from == to {
		return 1.0, true
	}
	if f, ok := c.factors[from][to]; ok {
		return f, true
	}
	if f, ok := c.factors[to][from]; ok {
		return 1 / f, true
	}
	return 0, false
}

// GuessUnit infers the most likely unit for a quantity from its name.
// Quantities that carry no units sidecar fall back to this.
func GuessUnit(quantityName string) string {
	name := strings.ToLower(quantityName)

	switch {
	case containsAny(name, "_sf", "square_feet", "area", "sqft"):
		return UnitSF
	case containsAny(name, "_lf", "linear_feet", "length"):
		return UnitLF
	case containsAny(name, "_cy", "cubic_yards", "concrete"):
		return UnitCY
	case containsAny(name, "_ea", "count", "quantity"):
		return UnitEA
	case containsAny(name, "gallons", "_gal"):
		return UnitGal
	default:
		return UnitEA
	}
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
