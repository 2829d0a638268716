package estimators

import (
	"math"

	"construction-cost/pkg/units"
)

// CountertopsCalculator produces countertop area takeoffs.
type CountertopsCalculator struct{}

func NewCountertopsCalculator() *CountertopsCalculator {
	return &CountertopsCalculator{}
}

func (c *CountertopsCalculator) Category() string { return "countertops" }

func (c *CountertopsCalculator) Calculate(squareFootage float64, tier string, fields Fields) (Quantities, error) {
	if squareFootage <= 0 {
		return Quantities{}, nil
	}

	kitchen := tierTable{"Premium": 65, "Luxury": 85, "Ultra-Luxury": 110}.at(tier)
	threshold := tierTable{"Premium": 4000, "Luxury": 6000, "Ultra-Luxury": 10000}.at(tier)
	extraPer1000 := tierTable{"Premium": 10, "Luxury": 12, "Ultra-Luxury": 15}.at(tier)
	if squareFootage > threshold {
		kitchen += ((squareFootage - threshold) / 1000) * extraPer1000
	}

	var butlersPantry, waterfallEdges float64
	switch tier {
	case "Luxury":
		butlersPantry = 30
		waterfallEdges = 8
	case "Ultra-Luxury":
		butlersPantry = 50
		waterfallEdges = 15
	default:
		if squareFootage > 5000 {
			waterfallEdges = 3
		}
	}

	primary := fields.Get("primary_bath_count", 0)
	secondary := fields.Get("secondary_bath_count", 0)
	powder := fields.Get("powder_room_count", 0)

	primarySF := primary * tierTable{"Premium": 30, "Luxury": 48, "Ultra-Luxury": 75}.at(tier)
	secondarySF := secondary * tierTable{"Premium": 14, "Luxury": 18, "Ultra-Luxury": 25}.at(tier)
	powderSF := powder * tierTable{"Premium": 9, "Luxury": 12, "Ultra-Luxury": 18}.at(tier)

	return Quantities{
		Values: map[string]float64{
			"kitchen_countertops_sf":        math.Round(kitchen),
			"butlers_pantry_countertops_sf": math.Round(butlersPantry),
			"waterfall_edges_lf":            math.Round(waterfallEdges),
			"primary_bath_countertops_sf":   math.Round(primarySF),
			"secondary_bath_countertops_sf": math.Round(secondarySF),
			"powder_room_countertops_sf":    math.Round(powderSF),
		},
		Units: map[string]string{
			"kitchen_countertops_sf":        units.UnitSF,
			"butlers_pantry_countertops_sf": units.UnitSF,
			"waterfall_edges_lf":            units.UnitLF,
			"primary_bath_countertops_sf":   units.UnitSF,
			"secondary_bath_countertops_sf": units.UnitSF,
			"powder_room_countertops_sf":    units.UnitSF,
		},
	}, nil
}
