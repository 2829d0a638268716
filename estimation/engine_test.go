package estimation

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"construction-cost/catalog"
	"construction-cost/config"
	"construction-cost/estimators"
)

func decimalFrom(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// stubCalculator is a scriptable calculator for orchestration tests.
type stubCalculator struct {
	category   string
	quantities estimators.Quantities
	err        error
	panicMsg   string
	delay      time.Duration
	calls      int
}

func (s *stubCalculator) Category() string { return s.category }

func (s *stubCalculator) Calculate(sf float64, tier string, fields estimators.Fields) (estimators.Quantities, error) {
	s.calls++
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.quantities, s.err
}

func quantities(values map[string]float64) estimators.Quantities {
	units := make(map[string]string, len(values))
	for name := range values {
		units[name] = "EA"
	}
	return estimators.Quantities{Values: values, Units: units}
}

func engineMappings() map[string]config.CategoryMapping {
	return map[string]config.CategoryMapping{
		"widgets": {
			CatalogCategories: []string{"Widgets"},
			ItemMappings: map[string]config.ItemMapping{
				"widget_count": {ItemIDs: []string{"W-001"}},
			},
		},
		"gadgets": {
			CatalogCategories: []string{"Gadgets"},
			ItemMappings: map[string]config.ItemMapping{
				"gadget_count": {ItemIDs: []string{"G-001"}},
			},
		},
	}
}

func engineItems() []catalog.Item {
	return []catalog.Item{
		{ID: "W-001", Name: "Widget", Category: "Widgets", Unit: "EA", CostMid: nd("10"), ConstructionTier: catalog.TierPremium},
		{ID: "G-001", Name: "Gadget", Category: "Gadgets", Unit: "EA", CostMid: nd("5"), ConstructionTier: catalog.TierPremium},
	}
}

func newTestEngine(t *testing.T, registry *estimators.Registry) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Categories = engineMappings()
	store := catalog.NewStore(engineItems(), cfg.Categories)
	return NewEngine(cfg, store, registry, slog.Default())
}

func TestEstimate_HappyPath(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.Register(&stubCalculator{category: "widgets", quantities: quantities(map[string]float64{"widget_count": 4})})
	registry.Register(&stubCalculator{category: "gadgets", quantities: quantities(map[string]float64{"gadget_count": 10})})
	e := newTestEngine(t, registry)

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: 3000, Tier: "Premium"})

	require.Equal(t, RunStatusSuccess, result.Status)
	require.Len(t, result.Categories, 2)
	assert.Equal(t, StatusSuccess, result.Categories["widgets"].Status)
	assert.Equal(t, StatusSuccess, result.Categories["gadgets"].Status)

	// widgets: 4 x $10, gadgets: 10 x $5
	assert.True(t, result.Categories["widgets"].TotalCost.Equal(decimalFrom("40")))
	assert.True(t, result.Categories["gadgets"].TotalCost.Equal(decimalFrom("50")))
	assert.True(t, result.TotalCost.Equal(decimalFrom("90")))

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.Summary.Metadata.RunID.String())
	assert.Equal(t, 2, result.Summary.Metadata.CatalogItemCount)
}

func TestEstimate_TotalsMatchCategorySum(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.Register(&stubCalculator{category: "widgets", quantities: quantities(map[string]float64{"widget_count": 7})})
	registry.Register(&stubCalculator{category: "gadgets", quantities: quantities(map[string]float64{"gadget_count": 3})})
	e := newTestEngine(t, registry)

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: 3000, Tier: "Premium"})

	sum := decimalFrom("0")
	for _, cr := range result.Categories {
		sum = sum.Add(cr.TotalCost)
	}
	assert.True(t, result.TotalCost.Equal(sum))

	pctSum := 0.0
	for _, pct := range result.Summary.PercentageBreakdown {
		pctSum += pct
	}
	assert.InDelta(t, 100.0, pctSum, 0.01)
}

func TestEstimate_ValidationErrorAbortsRun(t *testing.T) {
	stub := &stubCalculator{category: "widgets", quantities: quantities(map[string]float64{"widget_count": 4})}
	registry := estimators.NewRegistry()
	registry.Register(stub)
	e := newTestEngine(t, registry)

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: -100})

	assert.Equal(t, RunStatusValidationError, result.Status)
	assert.Equal(t, "Invalid project data", result.Message)
	require.NotNil(t, result.Validation)
	assert.Equal(t, "square_footage", result.Validation.InvalidValues[0].Field)
	assert.Empty(t, result.Categories)
	assert.Equal(t, 0, stub.calls, "validation failure must not run any calculator")
}

func TestEstimate_TierInjectedFromSquareFootage(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.Register(&stubCalculator{category: "widgets", quantities: quantities(map[string]float64{"widget_count": 1})})
	e := newTestEngine(t, registry)

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: 5000})
	assert.Equal(t, "Luxury", result.Project.Tier)

	result = e.Estimate(context.Background(), ProjectSpec{SquareFootage: 9000})
	assert.Equal(t, "Ultra-Luxury", result.Project.Tier)
}

func TestDetermineTier_Bands(t *testing.T) {
	e := newTestEngine(t, estimators.NewRegistry())

	tests := []struct {
		sf   float64
		want string
	}{
		{1, "Premium"},
		{3999.99, "Premium"},
		{4000, "Luxury"},
		{7999.99, "Luxury"},
		{8000, "Ultra-Luxury"},
		{50000, "Ultra-Luxury"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.DetermineTier(tt.sf), "square footage %v", tt.sf)
	}
}

func TestEstimate_PanickingCalculatorIsolated(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.Register(&stubCalculator{category: "widgets", panicMsg: "boom"})
	registry.Register(&stubCalculator{category: "gadgets", quantities: quantities(map[string]float64{"gadget_count": 2})})
	e := newTestEngine(t, registry)

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: 3000, Tier: "Premium"})

	require.Equal(t, RunStatusSuccess, result.Status)
	assert.Equal(t, StatusError, result.Categories["widgets"].Status)
	assert.Equal(t, StatusSuccess, result.Categories["gadgets"].Status)
	assert.True(t, result.TotalCost.Equal(decimalFrom("10")), "failed category contributes nothing")
	assert.NotEmpty(t, result.Summary.Warnings)
}

func TestEstimate_CalculatorErrorIsolated(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.Register(&stubCalculator{category: "widgets", err: assert.AnError})
	registry.Register(&stubCalculator{category: "gadgets", quantities: quantities(map[string]float64{"gadget_count": 1})})
	e := newTestEngine(t, registry)

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: 3000, Tier: "Premium"})

	assert.Equal(t, StatusError, result.Categories["widgets"].Status)
	assert.Equal(t, StatusSuccess, result.Categories["gadgets"].Status)
}

func TestEstimate_CalculatorTimeout(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.Register(&stubCalculator{category: "widgets", delay: 200 * time.Millisecond,
		quantities: quantities(map[string]float64{"widget_count": 1})})

	cfg := config.Default()
	cfg.Categories = engineMappings()
	cfg.Estimation.CategoryTimeout = config.Duration(20 * time.Millisecond)
	store := catalog.NewStore(engineItems(), cfg.Categories)
	e := NewEngine(cfg, store, registry, slog.Default())

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: 3000, Tier: "Premium"})

	assert.Equal(t, StatusError, result.Categories["widgets"].Status)
	assert.NotEmpty(t, result.Summary.Warnings)
}

func TestEstimate_EmptyQuantities(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.Register(&stubCalculator{category: "widgets"})
	e := newTestEngine(t, registry)

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: 3000, Tier: "Premium"})

	assert.Equal(t, StatusNoQuantities, result.Categories["widgets"].Status)
	assert.NotEmpty(t, result.Summary.Warnings)
}

func TestEstimate_PlaceholderNotImplemented(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.RegisterPlaceholder("landscaping")
	e := newTestEngine(t, registry)

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: 3000, Tier: "Premium"})

	assert.Equal(t, StatusNotImplemented, result.Categories["landscaping"].Status)
}

func TestEstimate_UnmatchedQuantityTracked(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.Register(&stubCalculator{category: "widgets", quantities: quantities(map[string]float64{
		"widget_count":  4,
		"mystery_blorp": 2,
	})})
	e := newTestEngine(t, registry)

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: 3000, Tier: "Premium"})

	cr := result.Categories["widgets"]
	require.Equal(t, StatusSuccess, cr.Status)
	assert.Equal(t, []string{"mystery_blorp"}, cr.UnmatchedQuantities)

	// A quantity lands in exactly one bucket.
	for _, line := range cr.CostedItems {
		assert.NotEqual(t, "mystery_blorp", line.OriginalQuantityName)
	}
	assert.True(t, cr.TotalCost.Equal(decimalFrom("40")))
	assert.NotEmpty(t, result.Summary.Warnings)
}

func TestEstimate_ZeroQuantitiesSkipped(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.Register(&stubCalculator{category: "widgets", quantities: quantities(map[string]float64{
		"widget_count": 0,
	})})
	e := newTestEngine(t, registry)

	result := e.Estimate(context.Background(), ProjectSpec{SquareFootage: 3000, Tier: "Premium"})

	cr := result.Categories["widgets"]
	assert.Empty(t, cr.CostedItems)
	assert.Empty(t, cr.UnmatchedQuantities, "a zero quantity is neither costed nor unmatched")
}

func TestEstimate_RepeatRunsDeterministic(t *testing.T) {
	registry := estimators.NewRegistry()
	registry.Register(&stubCalculator{category: "widgets", quantities: quantities(map[string]float64{"widget_count": 4})})
	e := newTestEngine(t, registry)

	spec := ProjectSpec{SquareFootage: 3000, Tier: "Premium"}
	first := e.Estimate(context.Background(), spec)
	second := e.Estimate(context.Background(), spec)

	assert.True(t, first.TotalCost.Equal(second.TotalCost))
	assert.Equal(t, first.Categories["widgets"].CostedItems, second.Categories["widgets"].CostedItems)
}
