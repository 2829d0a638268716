package estimators

import (
	"math"

	"construction-cost/pkg/units"
)

// HVACCalculator produces system sizing and distribution takeoffs.
type HVACCalculator struct{}

func NewHVACCalculator() *HVACCalculator {
	return &HVACCalculator{}
}

func (c *HVACCalculator) Category() string { return "hvac" }

func (c *HVACCalculator) Calculate(squareFootage float64, tier string, _ Fields) (Quantities, error) {
	if squareFootage <= 0 {
		return Quantities{}, nil
	}

	// SF served per ton of cooling / per system.
	tonnageFactor := tierTable{"Premium": 550, "Luxury": 500, "Ultra-Luxury": 450}.at(tier)
	systemFactor := tierTable{"Premium": 2000, "Luxury": 1800, "Ultra-Luxury": 1600}.at(tier)
	zonesPerSystem := tierTable{"Premium": 2.5, "Luxury": 3.5, "Ultra-Luxury": 5}.at(tier)

	tonnage := squareFootage / tonnageFactor
	systems := math.Ceil(squareFootage / systemFactor)
	zones := systems * zonesPerSystem

	// Distribution: registers and returns per SF, duct runs per system.
	registersPerSF := tierTable{"Premium": 0.006, "Luxury": 0.007, "Ultra-Luxury": 0.008}.at(tier)
	returnsPerSF := tierTable{"Premium": 0.002, "Luxury": 0.0025, "Ultra-Luxury": 0.003}.at(tier)
	ductPerSF := tierTable{"Premium": 0.9, "Luxury": 1.0, "Ultra-Luxury": 1.2}.at(tier)

	return Quantities{
		Values: map[string]float64{
			"tonnage":      math.Round(tonnage*10) / 10,
			"systems":      systems,
			"zones":        math.Round(zones),
			"registers":    math.Round(squareFootage * registersPerSF),
			"returns":      math.Round(squareFootage * returnsPerSF),
			"duct_work_lf": math.Round(squareFootage * ductPerSF),
		},
		Units: map[string]string{
			"tonnage":      "TON",
			"systems":      units.UnitEA,
			"zones":        units.UnitEA,
			"registers":    units.UnitEA,
			"returns":      units.UnitEA,
			"duct_work_lf": units.UnitLF,
		},
	}, nil
}
