package estimators

import (
	"math"

	"construction-cost/pkg/units"
)

// FoundationCalculator produces concrete volumes and waterproofing takeoffs.
type FoundationCalculator struct{}

func NewFoundationCalculator() *FoundationCalculator {
	return &FoundationCalculator{}
}

func (c *FoundationCalculator) Category() string { return "foundation" }

func (c *FoundationCalculator) Calculate(squareFootage float64, tier string, _ Fields) (Quantities, error) {
	if squareFootage <= 0 {
		return Quantities{}, nil
	}

	// Foundation footprint runs about 10% larger than the house footprint.
	footprint := squareFootage * 1.1
	perimeter := 4 * math.Sqrt(footprint)

	slabThicknessIn := tierTable{"Premium": 4, "Luxury": 5, "Ultra-Luxury": 6}.at(tier)
	footingWidthIn := tierTable{"Premium": 12, "Luxury": 16, "Ultra-Luxury": 24}.at(tier)
	footingDepthIn := tierTable{"Premium": 18, "Luxury": 24, "Ultra-Luxury": 30}.at(tier)
	wallThicknessIn := tierTable{"Premium": 8, "Luxury": 10, "Ultra-Luxury": 12}.at(tier)
	const wallHeightFt = 9.0

	slabCY := (footprint * slabThicknessIn / 12) / 27
	footingCY := (perimeter * (footingWidthIn / 12) * (footingDepthIn / 12)) / 27
	wallCY := (perimeter * wallHeightFt * (wallThicknessIn / 12)) / 27

	waterproofingFactor := tierTable{"Premium": 0.4, "Luxury": 0.5, "Ultra-Luxury": 0.6}.at(tier)
	drainageFactor := tierTable{"Premium": 0.1, "Luxury": 0.15, "Ultra-Luxury": 0.2}.at(tier)
	roofDrainageFactor := tierTable{"Premium": 0.05, "Luxury": 0.08, "Ultra-Luxury": 0.1}.at(tier)
	sumpPumps := tierTable{"Premium": 1, "Luxury": 2, "Ultra-Luxury": 3}.at(tier)

	return Quantities{
		Values: map[string]float64{
			"slab_concrete_cy":            math.Round(slabCY),
			"footing_concrete_cy":         math.Round(footingCY),
			"foundation_wall_cy":          math.Round(wallCY),
			"total_concrete_cy":           math.Round(slabCY + footingCY + wallCY),
			"foundation_waterproofing_sf": math.Round(squareFootage * waterproofingFactor),
			"below_grade_drainage_lf":     math.Round(squareFootage * drainageFactor),
			"roof_drainage_lf":            math.Round(squareFootage * roofDrainageFactor),
			"sump_pumps":                  sumpPumps,
		},
		Units: map[string]string{
			"slab_concrete_cy":            units.UnitCY,
			"footing_concrete_cy":         units.UnitCY,
			"foundation_wall_cy":          units.UnitCY,
			"total_concrete_cy":           units.UnitCY,
			"foundation_waterproofing_sf": units.UnitSF,
			"below_grade_drainage_lf":     units.UnitLF,
			"roof_drainage_lf":            units.UnitLF,
			"sump_pumps":                  units.UnitEA,
		},
	}, nil
}
