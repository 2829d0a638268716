package estimation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"construction-cost/catalog"
	"construction-cost/config"
	"construction-cost/estimators"
	"construction-cost/match"
	cerrors "construction-cost/pkg/errors"
	"construction-cost/pkg/units"
)

// Engine drives a full estimation run: validation, tier determination, the
// per-category calculator loop, catalog resolution, and aggregation. One
// Estimate call is sequential; all per-run state (the match cache) is scoped
// to the call, so a single Engine is safe for concurrent callers.
type Engine struct {
	cfg             *config.Config
	store           *catalog.Store
	registry        *estimators.Registry
	resolver        *match.Resolver
	genericResolver *match.Resolver
	lines           *LineBuilder
	logger          *slog.Logger
}

// NewEngine assembles an engine over a loaded catalog and a populated
// calculator registry.
func NewEngine(cfg *config.Config, store *catalog.Store, registry *estimators.Registry, logger *slog.Logger) *Engine {
	pairs := make([]units.Pair, 0, len(cfg.UnitConversions))
	for _, p := range cfg.UnitConversions {
		pairs = append(pairs, units.Pair{From: p.From, To: p.To, Factor: p.Factor})
	}
	converter := units.NewConverterWithPairs(pairs)

	return &Engine{
		cfg:             cfg,
		store:           store,
		registry:        registry,
		resolver:        match.NewResolver(store, cfg.Categories, logger),
		genericResolver: match.NewGenericResolver(store, cfg.Categories, logger),
		lines:           NewLineBuilder(converter),
		logger:          logger.With("component", "estimation_engine"),
	}
}

// Catalog exposes the engine's catalog store.
func (e *Engine) Catalog() *catalog.Store {
	return e.store
}

// Config exposes the engine's configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// DetermineTier scans the configured bands in order; the first band
// containing the square footage wins, the default tier covers anything the
// bands miss.
func (e *Engine) DetermineTier(squareFootage float64) string {
	for _, band := range e.cfg.Estimation.Tiers {
		if squareFootage < band.MinSF {
			continue
		}
		if band.MaxSF == nil || squareFootage < *band.MaxSF {
			return band.Tier
		}
	}
	return e.cfg.Estimation.DefaultTier
}

// Validate checks a project spec without running an estimate.
func (e *Engine) Validate(spec ProjectSpec) ValidationResult {
	return Validate(spec)
}

// Estimate runs the full category loop. Only validation failure aborts the
// run; every other failure is isolated to its category or quantity and
// surfaced through the summary warnings.
func (e *Engine) Estimate(ctx context.Context, spec ProjectSpec) *EstimationResult {
	// The cache lives exactly as long as this call.
	cache := match.NewCache()
	cache.Clear()
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
		e.logger.Info("tier determined from square footage",
			"square_footage", spec.SquareFootage, "tier", spec.Tier)
	}

	result := &EstimationResult{
		Status:     RunStatusSuccess,
		Project:    spec,
		Categories: make(map[string]CategoryResult),
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
	for _, category := range e.registry.Categories() {
		cr := e.estimateCategory(ctx, cache, category, spec)
		result.Categories[category] = cr

		switch cr.Status {
		case StatusNotImplemented:
			result.Summary.Warnings = append(result.Summary.Warnings,
				fmt.Sprintf("Category '%s' has no calculator implementation", category))
		case StatusNoQuantities:
			result.Summary.Warnings = append(result.Summary.Warnings,
				fmt.Sprintf("Category '%s' produced no quantities", category))
		case StatusError:
			result.Summary.Warnings = append(result.Summary.Warnings,
				fmt.Sprintf("Error in category '%s': %s", category, cr.Message))
		case StatusSuccess:
			if len(cr.UnmatchedQuantities) > 0 {
				result.Summary.Warnings = append(result.Summary.Warnings,
					fmt.Sprintf("Category '%s' has %d unmatched quantities: %s",
						category, len(cr.UnmatchedQuantities), strings.Join(cr.UnmatchedQuantities, ", ")))
			}
			result.Summary.CostBreakdown[category] = cr.TotalCost
			total = total.Add(cr.TotalCost)
		}
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

// estimateCategory runs one category end to end, converting every failure
// mode into a terminal status instead of aborting the run.
func (e *Engine) estimateCategory(ctx context.Context, cache *match.Cache, category string, spec ProjectSpec) CategoryResult {
	calc, _ := e.registry.Get(category)
	if calc == nil {
		return CategoryResult{
			Status:  StatusNotImplemented,
			Message: fmt.Sprintf("Calculator for %s is not yet implemented", category),
		}
	}

	quantities, err := e.runCalculator(ctx, category, calc, spec)
	if err != nil {
		e.logger.Error("category estimation failed", "category", category, "error", err)
		return CategoryResult{Status: StatusError, Message: err.Error()}
	}
	if quantities.Empty() {
		return CategoryResult{
			Status:  StatusNoQuantities,
			Message: fmt.Sprintf("No quantities calculated for %s", category),
		}
	}

	costed, unmatched, note := e.costQuantities(cache, category, spec.Tier, quantities)

	totalCost := decimal.Zero
	for _, line := range costed {
		totalCost = totalCost.Add(line.TotalCost)
	}

	return CategoryResult{
		Status:              StatusSuccess,
		Quantities:          quantities.Values,
		Units:               quantities.Units,
		CostedItems:         costed,
		TotalCost:           totalCost,
		UnmatchedQuantities: unmatched,
		Note:                note,
	}
}

// runCalculator executes one calculator under the category timeout, turning
// panics and expiry into category-scoped errors. A non-returning calculator
// leaks its goroutine but never hangs the run.
func (e *Engine) runCalculator(ctx context.Context, category string, calc estimators.Calculator, spec ProjectSpec) (estimators.Quantities, error) {
	timeout := time.Duration(e.cfg.Estimation.CategoryTimeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	type outcome struct {
		quantities estimators.Quantities
		err        error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: cerrors.NewCalculatorError(category, fmt.Errorf("panic: %v", r))}
			}
		}()
		q, err := calc.Calculate(spec.SquareFootage, spec.Tier, spec.Fields())
		if err != nil {
			err = cerrors.NewCalculatorError(category, err)
		}
		done <- outcome{quantities: q, err: err}
	}()

	select {
	case out := <-done:
		return out.quantities, out.err
	case <-time.After(timeout):
		return estimators.Quantities{}, cerrors.NewCategoryTimeoutError(category)
	case <-ctx.Done():
		return estimators.Quantities{}, cerrors.NewCalculatorError(category, ctx.Err())
	}
}

// costQuantities resolves and prices a quantity set. Electrical runs its
// specialized first-pass pipeline; any internal failure there transparently
// retries the same quantities through the generic path rather than failing
// the category.
func (e *Engine) costQuantities(cache *match.Cache, category, tier string, quantities estimators.Quantities) (costed []CostedLineItem, unmatched []string, note string) {
	if category == "electrical" {
		costed, unmatched, err := e.costWith(e.resolver, cache, category, tier, quantities)
		if err == nil {
			return costed, unmatched, ""
		}
		e.logger.Warn("specialized electrical flow failed, retrying via standard flow",
			"category", category, "error", err)
		costed, unmatched, _ = e.costWith(e.genericResolver, cache, category, tier, quantities)
		return costed, unmatched, "Used standard estimation flow due to error in specialized flow"
	}

	costed, unmatched, _ = e.costWith(e.resolver, cache, category, tier, quantities)
	return costed, unmatched, ""
}

func (e *Engine) costWith(resolver *match.Resolver, cache *match.Cache, category, tier string, quantities estimators.Quantities) (costed []CostedLineItem, unmatched []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("costing panic: %v", r)
		}
	}()

	costed = []CostedLineItem{}
	unmatched = []string{}
	for _, name := range quantities.Names() {
		value := quantities.Values[name]
		if value == 0 {
			continue
		}

		unit := quantities.Units[name]
		if unit == "" {
			unit = units.GuessUnit(name)
		}

		items := resolver.Resolve(cache, category, name, tier)
		if len(items) == 0 {
			unmatched = append(unmatched, name)
			continue
		}
		costed = append(costed, e.lines.Build(items[0], name, value, unit))
	}
	return costed, unmatched, nil
}
