package estimation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"construction-cost/match"
)

// Room-scoped trades are re-estimated per room with an allocation share;
// everything else is priced once at project scope.
var roomScopedCategories = map[string]bool{
	"electrical":  true,
	"plumbing":    true,
	"tile":        true,
	"painting":    true,
	"cabinetry":   true,
	"countertops": true,
}

// Cost density multipliers by room type. A bathroom carries far more
// plumbing per square foot than a bedroom of the same size.
var roomCategoryWeights = map[string]map[string]float64{
	"bathroom": {"electrical": 1.5, "plumbing": 3.0, "tile": 2.5},
	"kitchen":  {"electrical": 2.0, "cabinetry": 3.0, "countertops": 2.5},
}

// DetailedEstimate produces a room-granular estimate. Project-wide trades
// (foundation, structural, roofing, hvac) run once against the full square
// footage; room-scoped trades run per room at the room's effective tier,
// scaled by the room's allocation share. Without rooms it degrades to the
// standard whole-project estimate.
func (e *Engine) DetailedEstimate(ctx context.Context, spec ProjectSpec) *EstimationResult {
	if len(spec.Rooms) == 0 {
		return e.Estimate(ctx, spec)
	}

	cache := match.NewCache()
	defer cache.Clear()

	validation := Validate(spec)
	if !validation.IsValid {
		return &EstimationResult{
			Status:     RunStatusValidationError,
			Project:    spec,
			Validation: &validation,
			Message:    "Invalid project data",
		}
	}

	if spec.Tier == "" {
		spec.Tier = e.DetermineTier(spec.SquareFootage)
	}

	result := &EstimationResult{
		Status:     RunStatusSuccess,
		Project:    spec,
		Categories: make(map[string]CategoryResult),
		Rooms:      make(map[string]RoomResult, len(spec.Rooms)),
		Summary: Summary{
			CostBreakdown: make(map[string]decimal.Decimal),
			Warnings:      append([]string{}, validation.Warnings...),
			Metadata: Metadata{
				RunID:            uuid.New(),
				EstimatedAt:      time.Now(),
				CatalogItemCount: e.store.Len(),
			},
		},
	}

	total := decimal.Zero

	// Project-wide pass.
	for _, category := range e.registry.Categories() {
		if roomScopedCategories[category] {
			continue
		}
		cr := e.estimateCategory(ctx, cache, category, spec)
		result.Categories[category] = cr
		if cr.Status == StatusError {
			result.Summary.Warnings = append(result.Summary.Warnings,
				fmt.Sprintf("Error in category '%s': %s", category, cr.Message))
		}
		if cr.Status != StatusSuccess {
			continue
		}
		result.Summary.CostBreakdown[category] = cr.TotalCost
		total = total.Add(cr.TotalCost)
	}

	// Per-room pass.
	for name, room := range spec.Rooms {
		roomResult := RoomResult{
			Tier:       e.roomTier(spec, room, ""),
			Categories: make(map[string]CategoryResult),
			TotalCost:  decimal.Zero,
		}
		if spec.SquareFootage > 0 {
			roomResult.Allocation = room.SquareFootage / spec.SquareFootage
		}

		for _, category := range e.registry.Categories() {
			if !roomScopedCategories[category] {
				continue
			}

			tier := e.roomTier(spec, room, category)
			share := roomResult.Allocation * roomWeight(room.Type, category)

			scoped := spec
			scoped.Tier = tier
			cr := e.estimateCategory(ctx, cache, category, scoped)
			if cr.Status == StatusError {
				result.Summary.Warnings = append(result.Summary.Warnings,
					fmt.Sprintf("Error in category '%s' for room '%s': %s", category, name, cr.Message))
			}
			if cr.Status == StatusSuccess {
				cr = scaleCategory(cr, share)
				roomResult.TotalCost = roomResult.TotalCost.Add(cr.TotalCost)
				existing := result.Summary.CostBreakdown[category]
				result.Summary.CostBreakdown[category] = existing.Add(cr.TotalCost)
				total = total.Add(cr.TotalCost)
			}
			roomResult.Categories[category] = cr
		}

		result.Rooms[name] = roomResult
	}

	result.TotalCost = total
	if total.IsPositive() {
		result.Summary.PercentageBreakdown = make(map[string]float64, len(result.Summary.CostBreakdown))
		for category, cost := range result.Summary.CostBreakdown {
			pct, _ := cost.Div(total).Mul(decimal.NewFromInt(100)).Float64()
			result.Summary.PercentageBreakdown[category] = pct
		}
	}

	return result
}

// roomTier resolves the effective tier for one trade in one room. The most
// specific override wins: room trade, then project trade, then room, then
// project. An empty category resolves the room's own tier.
func (e *Engine) roomTier(spec ProjectSpec, room Room, category string) string {
	if category != "" {
		if trade, ok := room.Trades[category]; ok && trade.Tier != "" {
			return trade.Tier
		}
		if tier, ok := spec.TradeTiers[category]; ok && tier != "" {
			return tier
		}
	}
	if room.Tier != "" {
		return room.Tier
	}
	return spec.Tier
}

func roomWeight(roomType, category string) float64 {
	if weights, ok := roomCategoryWeights[roomType]; ok {
		if w, ok := weights[category]; ok {
			return w
		}
	}
	return 1.0
}

// scaleCategory applies an allocation share to a project-scope category
// result, scaling quantities and costs uniformly.
func scaleCategory(cr CategoryResult, share float64) CategoryResult {
	factor := decimal.NewFromFloat(sanitize(share))
	f := sanitize(share)

	quantities := make(map[string]float64, len(cr.Quantities))
	for k, v := range cr.Quantities {
		quantities[k] = sanitize(v * f)
	}
	cr.Quantities = quantities

	costed := make([]CostedLineItem, len(cr.CostedItems))
	for i, line := range cr.CostedItems {
		line.OriginalQuantityValue = sanitize(line.OriginalQuantityValue * f)
		line.Quantity = sanitize(line.Quantity * f)
		line.TotalCost = line.TotalCost.Mul(factor)
		costed[i] = line
	}
	cr.CostedItems = costed

	cr.TotalCost = cr.TotalCost.Mul(factor)
	return cr
}
