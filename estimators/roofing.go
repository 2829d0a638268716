package estimators

import (
	"math"

	"construction-cost/pkg/units"
)

// RoofingCalculator produces roof area, underlayment, and component takeoffs.
type RoofingCalculator struct{}

func NewRoofingCalculator() *RoofingCalculator {
	return &RoofingCalculator{}
}

func (c *RoofingCalculator) Category() string { return "roofing" }

func (c *RoofingCalculator) Calculate(squareFootage float64, tier string, _ Fields) (Quantities, error) {
	if squareFootage <= 0 {
		return Quantities{}, nil
	}

	roofRatio := tierTable{"Premium": 1.2, "Luxury": 1.35, "Ultra-Luxury": 1.5}.at(tier)
	underlaymentLayers := tierTable{"Premium": 1, "Luxury": 2, "Ultra-Luxury": 2}.at(tier)

	roofArea := squareFootage * roofRatio
	// Underlayment includes 15% for overlaps.
	underlayment := roofArea * 1.15 * underlaymentLayers

	ridgeVentFactor := tierTable{"Premium": 0.03, "Luxury": 0.05, "Ultra-Luxury": 0.07}.at(tier)
	dripEdgeFactor := tierTable{"Premium": 0.12, "Luxury": 0.16, "Ultra-Luxury": 0.2}.at(tier)
	fasciaFactor := tierTable{"Premium": 0.12, "Luxury": 0.16, "Ultra-Luxury": 0.2}.at(tier)
	soffitFactor := tierTable{"Premium": 0.15, "Luxury": 0.22, "Ultra-Luxury": 0.3}.at(tier)

	return Quantities{
		Values: map[string]float64{
			"roof_area_sf":          math.Round(roofArea),
			"underlayment_area_sf":  math.Round(underlayment),
			"ceiling_insulation_sf": math.Round(squareFootage),
			"ridge_vent_lf":         math.Round(roofArea * ridgeVentFactor),
			"drip_edge_lf":          math.Round(roofArea * dripEdgeFactor),
			"fascia_lf":             math.Round(squareFootage * fasciaFactor),
			"soffit_sf":             math.Round(squareFootage * soffitFactor),
		},
		Units: map[string]string{
			"roof_area_sf":          units.UnitSF,
			"underlayment_area_sf":  units.UnitSF,
			"ceiling_insulation_sf": units.UnitSF,
			"ridge_vent_lf":         units.UnitLF,
			"drip_edge_lf":          units.UnitLF,
			"fascia_lf":             units.UnitLF,
			"soffit_sf":             units.UnitSF,
		},
	}, nil
}
