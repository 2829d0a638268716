package estimation

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"construction-cost/catalog"
	"construction-cost/pkg/units"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestLineBuilder_DirectMatch(t *testing.T) {
	b := NewLineBuilder(units.NewConverter())
	item := catalog.Item{ID: "EL-001", Name: "Outlet", Unit: "EA", CostMid: nd("12")}

	line := b.Build(item, "standard_outlets", 40, "EA")

	assert.Equal(t, "Direct match", line.Note)
	assert.Equal(t, 40.0, line.Quantity)
	assert.True(t, line.TotalCost.Equal(decimal.RequireFromString("480")))
	assert.Equal(t, "standard_outlets", line.OriginalQuantityName)
}

func TestLineBuilder_UnitConversion(t *testing.T) {
	b := NewLineBuilder(units.NewConverter())
	item := catalog.Item{ID: "FL-001", Name: "Carpet", Unit: "SY", CostMid: nd("27")}

	line := b.Build(item, "carpet_sf", 900, "SF")

	assert.Equal(t, "Converted units (SF to SY)", line.Note)
	assert.InDelta(t, 100.0, line.Quantity, 1e-9)
	assert.True(t, line.TotalCost.Equal(decimal.RequireFromString("2700")))
	assert.Equal(t, 900.0, line.OriginalQuantityValue)
	assert.Equal(t, "SF", line.OriginalUnit)
}

func TestLineBuilder_UnitMismatchWarns(t *testing.T) {
	b := NewLineBuilder(units.NewConverter())
	item := catalog.Item{ID: "CO-001", Name: "Slab", Unit: "CY", CostMid: nd("180")}

	line := b.Build(item, "slab_area", 100, "SF")

	assert.Equal(t, "WARNING: Possible unit mismatch (guessed SF to CY)", line.Note)
	assert.Equal(t, 100.0, line.Quantity, "mismatch keeps the raw quantity")
	assert.True(t, line.TotalCost.Equal(decimal.RequireFromString("18000")))
}

func TestLineBuilder_AllowanceCostsZero(t *testing.T) {
	b := NewLineBuilder(units.NewConverter())
	item := catalog.Item{ID: "LT-099", Name: "Fixture Allowance", Unit: "EA", CostMid: nd("5000")}

	line := b.Build(item, "fixture_allowance", 3, "EA")

	assert.True(t, line.UnitCost.IsZero())
	assert.True(t, line.TotalCost.IsZero())
}

func TestLineBuilder_NonFiniteQuantitySanitized(t *testing.T) {
	b := NewLineBuilder(units.NewConverter())
	item := catalog.Item{ID: "EL-001", Name: "Outlet", Unit: "EA", CostMid: nd("12")}

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		line := b.Build(item, "broken_quantity", v, "EA")
		assert.Equal(t, 0.0, line.Quantity)
		assert.True(t, line.TotalCost.IsZero())
	}
}
