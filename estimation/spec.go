// Package estimation orchestrates per-category quantity calculation, catalog
// resolution, and cost aggregation into a full project estimate.
package estimation

import (
	"fmt"

	"construction-cost/catalog"
	"construction-cost/estimators"
)

// RoomTrade overrides the tier for one trade inside one room.
type RoomTrade struct {
	Tier string `json:"tier,omitempty"`
}

// Room describes one room for the detailed, room-granular estimate.
type Room struct {
	Type          string               `json:"type"` // bathroom, kitchen, other
	SquareFootage float64              `json:"square_footage"`
	Tier          string               `json:"tier,omitempty"`
	Trades        map[string]RoomTrade `json:"trades,omitempty"`
}

// ProjectSpec is the estimation input. It is created per call and never
// mutated after validation, except for tier injection when absent.
type ProjectSpec struct {
	SquareFootage      float64 `json:"square_footage"`
	Tier               string  `json:"tier,omitempty"`
	BedroomCount       float64 `json:"bedroom_count,omitempty"`
	PrimaryBathCount   float64 `json:"primary_bath_count,omitempty"`
	SecondaryBathCount float64 `json:"secondary_bath_count,omitempty"`
	PowderRoomCount    float64 `json:"powder_room_count,omitempty"`

	// Detailed-estimate extensions.
	Rooms      map[string]Room   `json:"rooms,omitempty"`
	TradeTiers map[string]string `json:"trade_tiers,omitempty"`

	// Free-form numeric fields passed through to calculators.
	Additional map[string]float64 `json:"additional,omitempty"`
}

// Fields flattens the project spec into the calculator field map. The named counts
// ride alongside any free-form additions.
func (s ProjectSpec) Fields() estimators.Fields {
	fields := make(estimators.Fields, len(s.Additional)+4)
	for k, v := range s.Additional {
		fields[k] = v
	}
	fields["bedroom_count"] = s.BedroomCount
	fields["primary_bath_count"] = s.PrimaryBathCount
	fields["secondary_bath_count"] = s.SecondaryBathCount
	fields["powder_room_count"] = s.PowderRoomCount
	return fields
}

// InvalidValue describes one rejected field.
type InvalidValue struct {
	Field   string  `json:"field"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

// ValidationResult reports the outcome of project validation. Warnings do
// not block estimation; missing fields and invalid values do.
type ValidationResult struct {
	IsValid       bool           `json:"is_valid"`
	MissingFields []string       `json:"missing_fields"`
	InvalidValues []InvalidValue `json:"invalid_values"`
	Warnings      []string       `json:"warnings"`
}

// Validate checks the project spec. Square footage is required and positive;
// an explicit tier must be a known construction tier; counts must be sane.
func Validate(spec ProjectSpec) ValidationResult {
	result := ValidationResult{
		IsValid:       true,
		MissingFields: []string{},
		InvalidValues: []InvalidValue{},
		Warnings:      []string{},
	}

	switch {
	case spec.SquareFootage == 0:
		result.IsValid = false
		result.MissingFields = append(result.MissingFields, "square_footage")
	case spec.SquareFootage < 0:
		result.IsValid = false
		result.InvalidValues = append(result.InvalidValues, InvalidValue{
			Field:   "square_footage",
			Value:   spec.SquareFootage,
			Message: "Square footage must be a positive number",
		})
	case spec.SquareFootage > 25000:
		result.Warnings = append(result.Warnings, "Square footage exceeds typical residential size")
	}

	if spec.Tier != "" && !validTier(spec.Tier) {
		result.IsValid = false
		result.InvalidValues = append(result.InvalidValues, InvalidValue{
			Field:   "tier",
			Message: fmt.Sprintf("Tier must be one of: %s, %s, %s", catalog.TierPremium, catalog.TierLuxury, catalog.TierUltraLuxury),
		})
	}

	bathCounts := map[string]float64{
		"primary_bath_count":   spec.PrimaryBathCount,
		"secondary_bath_count": spec.SecondaryBathCount,
		"powder_room_count":    spec.PowderRoomCount,
	}
	for _, field := range []string{"primary_bath_count", "secondary_bath_count", "powder_room_count"} {
		if bathCounts[field] < 0 {
			result.IsValid = false
			result.InvalidValues = append(result.InvalidValues, InvalidValue{
				Field:   field,
				Value:   bathCounts[field],
				Message: field + " must be a non-negative number",
			})
		}
	}

	switch {
	case spec.BedroomCount < 0:
		result.IsValid = false
		result.InvalidValues = append(result.InvalidValues, InvalidValue{
			Field:   "bedroom_count",
			Value:   spec.BedroomCount,
			Message: "Bedroom count must be a positive number",
		})
	case spec.BedroomCount > 10:
		result.Warnings = append(result.Warnings, "Bedroom count is unusually high")
	}

	return result
}

func validTier(tier string) bool {
	for _, t := range catalog.Tiers() {
		if t == tier {
			return true
		}
	}
	return false
}
