package estimators

import (
	"math"

	"construction-cost/pkg/units"
)

// PlumbingCalculator produces fixture takeoffs driven by bath counts.
type PlumbingCalculator struct{}

func NewPlumbingCalculator() *PlumbingCalculator {
	return &PlumbingCalculator{}
}

func (c *PlumbingCalculator) Category() string { return "plumbing" }

func (c *PlumbingCalculator) Calculate(squareFootage float64, tier string, fields Fields) (Quantities, error) {
	if squareFootage <= 0 {
		return Quantities{}, nil
	}

	primary := fields.Get("primary_bath_count", 0)
	secondary := fields.Get("secondary_bath_count", 0)
	powder := fields.Get("powder_room_count", 0)

	values := make(map[string]float64)

	if primary > 0 {
		baseShowerValves := tierTable{"Premium": 1, "Luxury": 2, "Ultra-Luxury": 3}.at(tier)
		baseSinks := tierTable{"Premium": 2, "Luxury": 2, "Ultra-Luxury": 3}.at(tier)
		baseBathtubs := tierTable{"Premium": 1, "Luxury": 1, "Ultra-Luxury": 1.5}.at(tier)
		baseToilets := tierTable{"Premium": 1, "Luxury": 1, "Ultra-Luxury": 2}.at(tier)

		per1000 := squareFootage / 1000
		values["primary_shower_valves"] = math.Round(primary * (baseShowerValves + per1000*0.4))
		values["primary_sinks"] = math.Round(primary * (baseSinks + per1000*0.5))
		values["primary_bathtubs"] = math.Round(primary * (baseBathtubs + per1000*0.1))
		values["primary_toilets"] = math.Round(primary * (baseToilets + per1000*0.2))
	}

	if secondary > 0 {
		baseSinks := tierTable{"Premium": 1, "Luxury": 1.5, "Ultra-Luxury": 2}.at(tier)
		values["secondary_shower_valves"] = math.Round(secondary)
		values["secondary_sinks"] = math.Round(secondary * (baseSinks + squareFootage*0.3/1000))
		// Roughly 70% of secondary bathrooms get tubs.
		values["secondary_bathtubs"] = math.Round(secondary * 0.7)
		values["secondary_toilets"] = math.Round(secondary)
	}

	if powder > 0 {
		values["powder_room_sinks"] = powder
		values["powder_room_toilets"] = powder
	}

	values["tankless_water_heaters"] = tanklessCount(squareFootage)

	fixturesPerPrimary := tierTable{"Premium": 5, "Luxury": 6, "Ultra-Luxury": 8}.at(tier)
	fixturesPerSecondary := tierTable{"Premium": 3.7, "Luxury": 4.7, "Ultra-Luxury": 5.7}.at(tier)
	values["total_fixtures"] = math.Round(primary*fixturesPerPrimary + secondary*fixturesPerSecondary + powder*2)

	unitTags := make(map[string]string, len(values))
	for name := range values {
		unitTags[name] = units.UnitEA
	}

	return Quantities{Values: values, Units: unitTags}, nil
}

func tanklessCount(squareFootage float64) float64 {
	switch {
	case squareFootage <= 3500:
		return 1
	case squareFootage <= 7000:
		return 2
	case squareFootage <= 10000:
		return 3
	default:
		return 4
	}
}
