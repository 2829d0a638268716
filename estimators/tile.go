package estimators

import (
	"math"

	"construction-cost/pkg/units"
)

// TileCalculator produces tile area takeoffs for bathrooms and kitchens.
type TileCalculator struct{}

func NewTileCalculator() *TileCalculator {
	return &TileCalculator{}
}

func (c *TileCalculator) Category() string { return "tile" }

func (c *TileCalculator) Calculate(squareFootage float64, tier string, fields Fields) (Quantities, error) {
	if squareFootage <= 0 {
		return Quantities{}, nil
	}

	primary := fields.Get("primary_bath_count", 0)
	secondary := fields.Get("secondary_bath_count", 0)

	values := make(map[string]float64)

	if primary > 0 {
		showerFloor := tierTable{"Premium": 15, "Luxury": 25, "Ultra-Luxury": 45}.at(tier)
		showerWalls := tierTable{"Premium": 110, "Luxury": 160, "Ultra-Luxury": 250}.at(tier)
		bathFloor := tierTable{"Premium": 70, "Luxury": 120, "Ultra-Luxury": 200}.at(tier)
		niches := tierTable{"Premium": 2.5, "Luxury": 5, "Ultra-Luxury": 10}.at(tier)
		edging := tierTable{"Premium": 45, "Luxury": 80, "Ultra-Luxury": 150}.at(tier)

		values["primary_bath_shower_floor_sf"] = math.Round(primary * showerFloor)
		values["primary_bath_shower_walls_sf"] = math.Round(primary * showerWalls)
		values["primary_bath_floor_sf"] = math.Round(primary * bathFloor)
		values["primary_bath_niches_sf"] = math.Round(primary * niches)
		values["primary_bath_schluter_lf"] = math.Round(primary * edging)
		values["primary_bath_tile_sf"] = values["primary_bath_shower_floor_sf"] +
			values["primary_bath_shower_walls_sf"] +
			values["primary_bath_floor_sf"] +
			values["primary_bath_niches_sf"]
	}

	if secondary > 0 {
		showerFloor := tierTable{"Premium": 12, "Luxury": 16, "Ultra-Luxury": 25}.at(tier)
		showerWalls := tierTable{"Premium": 90, "Luxury": 110, "Ultra-Luxury": 150}.at(tier)
		bathFloor := tierTable{"Premium": 45, "Luxury": 60, "Ultra-Luxury": 90}.at(tier)

		values["secondary_bath_shower_floor_sf"] = math.Round(secondary * showerFloor)
		values["secondary_bath_shower_walls_sf"] = math.Round(secondary * showerWalls)
		values["secondary_bath_floor_sf"] = math.Round(secondary * bathFloor)
		values["secondary_bath_tile_sf"] = values["secondary_bath_shower_floor_sf"] +
			values["secondary_bath_shower_walls_sf"] +
			values["secondary_bath_floor_sf"]
	}

	// Kitchen backsplash scales with the countertop run.
	backsplash := tierTable{"Premium": 30, "Luxury": 45, "Ultra-Luxury": 70}.at(tier)
	values["kitchen_backsplash_sf"] = math.Round(backsplash)

	unitTags := make(map[string]string, len(values))
	for name := range values {
		if name == "primary_bath_schluter_lf" {
			unitTags[name] = units.UnitLF
		} else {
			unitTags[name] = units.UnitSF
		}
	}

	return Quantities{Values: values, Units: unitTags}, nil
}
