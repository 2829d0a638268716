package estimators

import (
	"math"

	"construction-cost/pkg/units"
)

// PaintingCalculator produces paintable areas and paint gallon takeoffs.
type PaintingCalculator struct{}

func NewPaintingCalculator() *PaintingCalculator {
	return &PaintingCalculator{}
}

func (c *PaintingCalculator) Category() string { return "painting" }

// Coverage in SF per gallon, the same across tiers.
const paintCoverage = 350.0

func (c *PaintingCalculator) Calculate(squareFootage float64, tier string, _ Fields) (Quantities, error) {
	if squareFootage <= 0 {
		return Quantities{}, nil
	}

	wallFactor := tierTable{"Premium": 2.2, "Luxury": 2.4, "Ultra-Luxury": 2.7}.at(tier)
	ceilingFactor := tierTable{"Premium": 0.9, "Luxury": 1.0, "Ultra-Luxury": 1.1}.at(tier)

	paintCoats := 2.0
	if tier == "Ultra-Luxury" {
		paintCoats = 3.0
	}
	const primerCoats = 1.0

	wallArea := squareFootage * wallFactor
	ceilingArea := squareFootage * ceilingFactor
	paintable := wallArea + ceilingArea

	trimFactor := tierTable{"Premium": 0.8, "Luxury": 0.9, "Ultra-Luxury": 1.0}.at(tier)
	trimLF := squareFootage * trimFactor
	// One room per ~300 SF, about 1.2 doors per room; 30 LF of trim paints
	// like one door.
	doorCount := squareFootage / 300 * 1.2
	trimDoorEquivalent := trimLF/30 + doorCount
	trimDoorsPerGallon := tierTable{"Premium": 15, "Luxury": 12, "Ultra-Luxury": 10}.at(tier)
	trimGallons := trimDoorEquivalent / trimDoorsPerGallon * (primerCoats + paintCoats)

	return Quantities{
		Values: map[string]float64{
			"wall_area_sf":                math.Round(wallArea),
			"ceiling_area_sf":             math.Round(ceilingArea),
			"total_paintable_area_sf":     math.Round(paintable),
			"wall_ceiling_primer_gallons": math.Round(paintable * primerCoats / paintCoverage),
			"wall_ceiling_paint_gallons":  math.Round(paintable * paintCoats / paintCoverage),
			"trim_lf":                     math.Round(trimLF),
			"trim_door_paint_gallons":     math.Round(trimGallons),
		},
		Units: map[string]string{
			"wall_area_sf":                units.UnitSF,
			"ceiling_area_sf":             units.UnitSF,
			"total_paintable_area_sf":     units.UnitSF,
			"wall_ceiling_primer_gallons": units.UnitGal,
			"wall_ceiling_paint_gallons":  units.UnitGal,
			"trim_lf":                     units.UnitLF,
			"trim_door_paint_gallons":     units.UnitGal,
		},
	}, nil
}
