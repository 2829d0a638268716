package estimators

import (
	"math"

	"construction-cost/pkg/units"
)

// CabinetryCalculator produces kitchen, bathroom, and specialty cabinetry
// takeoffs in linear feet.
type CabinetryCalculator struct{}

func NewCabinetryCalculator() *CabinetryCalculator {
	return &CabinetryCalculator{}
}

func (c *CabinetryCalculator) Category() string { return "cabinetry" }

func (c *CabinetryCalculator) Calculate(squareFootage float64, tier string, fields Fields) (Quantities, error) {
	if squareFootage <= 0 {
		return Quantities{}, nil
	}

	// Additional LF per 1000 SF above the 4000 SF baseline.
	extraPer1000 := 0.0
	if squareFootage > 4000 {
		extraPer1000 = (squareFootage - 4000) / 1000
	}

	baseCabinets := tierTable{"Premium": 22, "Luxury": 28, "Ultra-Luxury": 34}.at(tier) + 6*extraPer1000
	wallCabinets := tierTable{"Premium": 18, "Luxury": 24, "Ultra-Luxury": 30}.at(tier) + 5*extraPer1000
	island := tierTable{"Premium": 8, "Luxury": 10, "Ultra-Luxury": 14}.at(tier) + 3*extraPer1000
	fullHeight := tierTable{"Premium": 6, "Luxury": 8, "Ultra-Luxury": 12}.at(tier) + 2*extraPer1000

	primary := fields.Get("primary_bath_count", 0)
	secondary := fields.Get("secondary_bath_count", 0)
	powder := fields.Get("powder_room_count", 0)

	primaryVanity := primary * (tierTable{"Premium": 8, "Luxury": 10, "Ultra-Luxury": 14}.at(tier) + 2*extraPer1000)
	secondaryVanity := secondary * (tierTable{"Premium": 3, "Luxury": 4, "Ultra-Luxury": 5}.at(tier) + 0.5*extraPer1000)
	powderVanity := powder * tierTable{"Premium": 2, "Luxury": 2.5, "Ultra-Luxury": 3}.at(tier)

	values := map[string]float64{
		"kitchen_base_cabinets_lf":        round1(baseCabinets),
		"kitchen_wall_cabinets_lf":        round1(wallCabinets),
		"kitchen_island_lf":               round1(island),
		"kitchen_full_height_cabinets_lf": round1(fullHeight),
		"primary_bath_vanity_lf":          round1(primaryVanity),
		"secondary_bath_vanity_lf":        round1(secondaryVanity),
		"powder_room_vanity_lf":           round1(powderVanity),
	}

	// Specialty cabinetry only appears in the luxury tiers.
	switch tier {
	case "Luxury":
		values["office_cabinetry_lf"] = 6
		values["butlers_pantry_lf"] = 8
	case "Ultra-Luxury":
		values["office_cabinetry_lf"] = 10
		values["butlers_pantry_lf"] = 15
		values["media_room_cabinetry_lf"] = 8
	}

	unitTags := make(map[string]string, len(values))
	for name := range values {
		unitTags[name] = units.UnitLF
	}

	return Quantities{Values: values, Units: unitTags}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
