package estimators

import (
	"math"

	"construction-cost/pkg/units"
)

// StructuralCalculator produces framing, steel, and sheathing takeoffs.
type StructuralCalculator struct{}

func NewStructuralCalculator() *StructuralCalculator {
	return &StructuralCalculator{}
}

func (c *StructuralCalculator) Category() string { return "structural" }

func (c *StructuralCalculator) Calculate(squareFootage float64, tier string, _ Fields) (Quantities, error) {
	if squareFootage <= 0 {
		return Quantities{}, nil
	}

	boardFeetPerSF := tierTable{"Premium": 2.8, "Luxury": 3.2, "Ultra-Luxury": 3.6}.at(tier)
	engineeredPct := tierTable{"Premium": 0.15, "Luxury": 0.25, "Ultra-Luxury": 0.35}.at(tier)
	steelPct := tierTable{"Premium": 0.05, "Luxury": 0.15, "Ultra-Luxury": 0.25}.at(tier)

	totalBF := squareFootage * boardFeetPerSF
	conventionalBF := totalBF * (1 - engineeredPct - steelPct)
	engineeredBF := totalBF * engineeredPct
	steelEquivBF := totalBF * steelPct

	// Perimeter plus interior walls.
	wallLF := 4*math.Sqrt(squareFootage) + squareFootage*0.15
	studSpacingIn := 16.0
	if tier == "Ultra-Luxury" {
		studSpacingIn = 12.0
	}
	studs := wallLF * (12 / (studSpacingIn / 12))

	steelWeightLbs := steelEquivBF * 0.5
	connectionsPerSF := tierTable{"Premium": 0.004, "Luxury": 0.006, "Ultra-Luxury": 0.008}.at(tier)

	sheathingFactor := tierTable{"Premium": 2.1, "Luxury": 2.3, "Ultra-Luxury": 2.6}.at(tier)
	sheathingSF := squareFootage * sheathingFactor

	return Quantities{
		Values: map[string]float64{
			"conventional_lumber_bf":       math.Round(conventionalBF),
			"engineered_lumber_bf":         math.Round(engineeredBF),
			"steel_framing_equivalent_bf":  math.Round(steelEquivBF),
			"stud_quantity":                math.Round(studs),
			"wall_linear_feet":             math.Round(wallLF),
			"steel_framing_weight_lbs":     math.Round(steelWeightLbs),
			"steel_connections":            math.Round(squareFootage * connectionsPerSF),
			"total_sheathing_sf":           math.Round(sheathingSF),
		},
		Units: map[string]string{
			"conventional_lumber_bf":      "BF",
			"engineered_lumber_bf":        "BF",
			"steel_framing_equivalent_bf": "BF",
			"stud_quantity":               units.UnitEA,
			"wall_linear_feet":            units.UnitLF,
			"steel_framing_weight_lbs":    "LBS",
			"steel_connections":           units.UnitEA,
			"total_sheathing_sf":          units.UnitSF,
		},
	}, nil
}
