package estimation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"construction-cost/catalog"
	"construction-cost/pkg/units"
)

// LineBuilder turns a resolved catalog item plus an originating quantity
// into a costed line with provenance.
type LineBuilder struct {
	converter *units.Converter
}

// NewLineBuilder creates a builder over a unit converter.
func NewLineBuilder(converter *units.Converter) *LineBuilder {
	return &LineBuilder{converter: converter}
}

// Build computes the costed line. An undefined unit conversion is non-fatal:
// the factor defaults to 1.0 and the note flags a possible mismatch.
func (b *LineBuilder) Build(item catalog.Item, quantityName string, quantityValue float64, quantityUnit string) CostedLineItem {
	factor, ok := b.converter.Factor(quantityUnit, item.Unit)
	var note string
	switch {
	case !ok:
		factor = 1.0
		note = fmt.Sprintf(noteMismatchFmt, quantityUnit, item.Unit)
	case quantityUnit == item.Unit:
		note = NoteDirectMatch
	default:
		note = fmt.Sprintf(noteConvertedFmt, quantityUnit, item.Unit)
	}

	adjusted := sanitize(quantityValue * factor)
	unitCost := item.UnitCost()
	totalCost := unitCost.Mul(decimal.NewFromFloat(adjusted))

	return CostedLineItem{
		ItemID:                item.ID,
		ItemName:              item.Name,
		Category:              item.Category,
		Subcategory:           item.Subcategory,
		Quantity:              adjusted,
		Unit:                  item.Unit,
		UnitCost:              unitCost,
		TotalCost:             totalCost,
		MarkupPct:             item.MarkupPct,
		Note:                  note,
		QualityTier:           item.QualityTier,
		OriginalQuantityName:  quantityName,
		OriginalQuantityValue: quantityValue,
		OriginalUnit:          quantityUnit,
	}
}

// sanitize maps NaN and infinities to zero so one bad quantity cannot poison
// the aggregate totals.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
