package estimators

import (
	"math"

	"construction-cost/pkg/units"
)

// ElectricalCalculator produces device, lighting, specialty, and
// distribution takeoffs with an explicit unit for every quantity.
type ElectricalCalculator struct{}

func NewElectricalCalculator() *ElectricalCalculator {
	return &ElectricalCalculator{}
}

func (c *ElectricalCalculator) Category() string { return "electrical" }

// Per-SF device coefficients by tier.
var electricalDevices = map[string]tierTable{
	"standard_outlets":     {"Premium": 0.020, "Luxury": 0.022, "Ultra-Luxury": 0.025},
	"gfci_outlets":         {"Premium": 0.004, "Luxury": 0.005, "Ultra-Luxury": 0.006},
	"usb_outlets":          {"Premium": 0.001, "Luxury": 0.003, "Ultra-Luxury": 0.005},
	"floor_outlets":        {"Premium": 0.001, "Luxury": 0.002, "Ultra-Luxury": 0.004},
	"single_pole_switches": {"Premium": 0.014, "Luxury": 0.015, "Ultra-Luxury": 0.016},
	"three_way_switches":   {"Premium": 0.005, "Luxury": 0.006, "Ultra-Luxury": 0.008},
	"dimmer_switches":      {"Premium": 0.005, "Luxury": 0.007, "Ultra-Luxury": 0.01},
	"smart_switches":       {"Premium": 0.001, "Luxury": 0.003, "Ultra-Luxury": 0.007},
}

var electricalLighting = map[string]tierTable{
	"recessed_lights":      {"Premium": 0.014, "Luxury": 0.015, "Ultra-Luxury": 0.018},
	"pendants":             {"Premium": 0.001, "Luxury": 0.0013, "Ultra-Luxury": 0.002},
	"chandeliers":          {"Premium": 0.0005, "Luxury": 0.001, "Ultra-Luxury": 0.0015},
	"under_cabinet_lights": {"Premium": 0.008, "Luxury": 0.01, "Ultra-Luxury": 0.012},
	"toe_kick_lights":      {"Premium": 0, "Luxury": 0.005, "Ultra-Luxury": 0.01},
	"closet_lights":        {"Premium": 0.002, "Luxury": 0.003, "Ultra-Luxury": 0.005},
}

var electricalUnits = map[string]string{
	"under_cabinet_lights": units.UnitLF,
	"toe_kick_lights":      units.UnitLF,
	"romex_lf":             units.UnitLF,
	"main_panel_size":      "AMP",
}

func (c *ElectricalCalculator) Calculate(squareFootage float64, tier string, _ Fields) (Quantities, error) {
	if squareFootage <= 0 {
		return Quantities{}, nil
	}

	values := make(map[string]float64)

	for name, table := range electricalDevices {
		values[name] = math.Round(squareFootage * table.at(tier))
	}
	values["total_outlets_switches"] = math.Round(squareFootage *
		tierTable{"Premium": 0.06, "Luxury": 0.07, "Ultra-Luxury": 0.08}.at(tier))

	for name, table := range electricalLighting {
		values[name] = math.Round(squareFootage * table.at(tier))
	}
	values["total_light_fixtures"] = math.Round(squareFootage *
		tierTable{"Premium": 0.03, "Luxury": 0.035, "Ultra-Luxury": 0.045}.at(tier))

	values["total_specialty_systems"] = math.Round(squareFootage *
		tierTable{"Premium": 0.005, "Luxury": 0.008, "Ultra-Luxury": 0.012}.at(tier))
	if tier == "Luxury" || tier == "Ultra-Luxury" {
		values["lighting_control_panels"] = math.Round(squareFootage *
			tierTable{"Luxury": 0.0002, "Ultra-Luxury": 0.0005}.at(tier))
		values["audio_visual_drops"] = math.Round(squareFootage *
			tierTable{"Luxury": 0.002, "Ultra-Luxury": 0.003}.at(tier))
		values["security_system_components"] = math.Round(squareFootage *
			tierTable{"Luxury": 0.001, "Ultra-Luxury": 0.002}.at(tier))
	}

	c.distribution(squareFootage, tier, values)

	unitTags := make(map[string]string, len(values))
	for name := range values {
		if u, ok := electricalUnits[name]; ok {
			unitTags[name] = u
		} else {
			unitTags[name] = units.UnitEA
		}
	}

	return Quantities{Values: values, Units: unitTags}, nil
}

func (c *ElectricalCalculator) distribution(squareFootage float64, tier string, values map[string]float64) {
	switch {
	case squareFootage <= 5000:
		values["main_panel_size"] = 200
		if tier == "Premium" {
			values["sub_panels"] = 0
		} else {
			values["sub_panels"] = 1
		}
	case squareFootage <= 8000:
		values["main_panel_size"] = 400
		if tier == "Premium" {
			values["sub_panels"] = 1
		} else {
			values["sub_panels"] = 2
		}
	default:
		values["main_panel_size"] = 400
		switch tier {
		case "Premium":
			values["sub_panels"] = 2
		case "Luxury":
			values["sub_panels"] = 3
		default:
			values["sub_panels"] = 4
		}
	}

	circuitsPerDevice := tierTable{"Premium": 8, "Luxury": 7, "Ultra-Luxury": 6}.at(tier)
	values["total_circuits"] = math.Round((squareFootage * 0.06) / circuitsPerDevice)
	values["romex_lf"] = math.Round(squareFootage *
		tierTable{"Premium": 2.5, "Luxury": 3.0, "Ultra-Luxury": 3.5}.at(tier))
}
