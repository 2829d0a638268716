package match

import (
	"log/slog"

	"construction-cost/catalog"
	"construction-cost/config"
)

// Resolver runs the match cascade: ranked strategies tried in order, the
// first non-empty result winning. The resolver itself is stateless across
// runs; per-run memoization lives in the Cache the caller threads through.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewResolver wires the standard cascade against a catalog store:
//
//  1. explicit catalog IDs from configuration (per-tier aware)
//  2. configured search terms
//  3. terms derived from the quantity name
//  4. category keyword fallback
//  5. estimator-module fallback, ignoring tier
//  6. electrical domain fallback (aliases, component families,
//     adjacent tiers, synthetic average item)
func NewResolver(store *catalog.Store, mappings map[string]config.CategoryMapping, logger *slog.Logger) *Resolver {
	return &Resolver{
		strategies: []Strategy{
			&explicitIDStrategy{store: store, mappings: mappings},
			&searchTermStrategy{store: store, mappings: mappings},
			&derivedTermStrategy{store: store},
			&categoryKeywordStrategy{store: store},
			&moduleFallbackStrategy{store: store},
			&electricalStrategy{store: store},
		},
		logger: logger.With("component", "match_resolver"),
	}
}

// NewGenericResolver wires the cascade without the domain-specific final
// stage. Used as the retry path when a specialized flow fails mid-category.
func NewGenericResolver(store *catalog.Store, mappings map[string]config.CategoryMapping, logger *slog.Logger) *Resolver {
	return &Resolver{
		strategies: []Strategy{
			&explicitIDStrategy{store: store, mappings: mappings},
			&searchTermStrategy{store: store, mappings: mappings},
			&derivedTermStrategy{store: store},
			&categoryKeywordStrategy{store: store},
			&moduleFallbackStrategy{store: store},
		},
		logger: logger.With("component", "match_resolver"),
	}
}

// NewResolverWithStrategies builds a resolver over an explicit pipeline.
// New fallback stages slot in without touching the orchestrator.
func NewResolverWithStrategies(strategies []Strategy, logger *slog.Logger) *Resolver {
	return &Resolver{strategies: strategies, logger: logger.With("component", "match_resolver")}
}

// Resolve returns the ordered catalog items matching a quantity, consulting
// the per-run cache first. An empty result means every stage failed and the
// quantity should be recorded as unmatched.
func (r *Resolver) Resolve(cache *Cache, category, quantity, tier string) []catalog.Item {
	if items, ok := cache.get(category, quantity, tier); ok {
		return items
	}

	req := Request{Category: category, Quantity: quantity, Tier: tier}
	var items []catalog.Item
	for _, strategy := range r.strategies {
		if items = strategy.TryMatch(req); len(items) > 0 {
			r.logger.Debug("quantity matched",
				"category", category, "quantity", quantity, "tier", tier,
				"strategy", strategy.Name(), "items", len(items))
			break
		}
	}
	if len(items) == 0 {
		r.logger.Warn("no catalog match found",
			"category", category, "quantity", quantity, "tier", tier)
	}

	cache.put(category, quantity, tier, items)
	return items
}
