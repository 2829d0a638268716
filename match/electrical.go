package match

import (
	"strings"

	"github.com/shopspring/decimal"

	"construction-cost/catalog"
	"construction-cost/pkg/units"
)

// electricalModule is the estimator module tag the domain fallback scans.
const electricalModule = "electrical"

// electricalAliases maps well-known quantity names to catalog synonyms.
var electricalAliases = map[string][]string{
	"recessed_lights":            {"can lights", "pot lights", "downlights"},
	"dimmer_switches":            {"dimmers", "light controls"},
	"gfci_outlets":               {"gfi outlets", "ground fault", "bathroom outlets"},
	"standard_outlets":           {"receptacles", "plugs", "wall outlets"},
	"three_way_switches":         {"3 way", "multiple location"},
	"chandeliers":                {"hanging fixtures", "pendant lights", "ceiling fixtures"},
	"under_cabinet_lights":       {"cabinet lighting", "task lighting"},
	"audio_visual_drops":         {"av connections", "media outlets"},
	"security_system_components": {"security devices", "alarm components"},
}

// componentTerms groups electrical quantities into component families.
var componentTerms = map[string][]string{
	"outlets":  {"outlet", "receptacle", "plug", "gfci"},
	"switches": {"switch", "dimmer", "control"},
	"lights":   {"light", "fixture", "lamp", "recessed", "chandelier", "pendant"},
	"panels":   {"panel", "circuit", "breaker"},
}

// genericComponentSearch names one representative catalog item per family.
var genericComponentSearch = map[string]string{
	"outlets":  "standard electrical outlet",
	"switches": "standard wall switch",
	"lights":   "standard light fixture",
	"panels":   "electrical panel",
}

// adjacentTiers is the neighbor graph for tier substitution.
var adjacentTiers = map[string][]string{
	catalog.TierPremium:     {catalog.TierLuxury},
	catalog.TierLuxury:      {catalog.TierPremium, catalog.TierUltraLuxury},
	catalog.TierUltraLuxury: {catalog.TierLuxury},
}

// electricalStrategy is the domain-specific last stage of the cascade for
// the electrical category. Its internal steps run in order: aliases,
// component grouping, generic representative, adjacent-tier substitution,
// and finally a synthetic average-cost item.
type electricalStrategy struct {
	store *catalog.Store
}

func (s *electricalStrategy) Name() string { return "electrical_fallback" }

func (s *electricalStrategy) TryMatch(req Request) []catalog.Item {
	if req.Category != electricalModule {
		return nil
	}
	if items := s.matchAtTier(req.Quantity, req.Tier); len(items) > 0 {
		return items
	}
	for _, alt := range adjacentTiers[req.Tier] {
		if items := s.matchAtTier(req.Quantity, alt); len(items) > 0 {
			return items
		}
	}
	if avg := s.syntheticAverage(req.Quantity); avg != nil {
		return []catalog.Item{*avg}
	}
	return nil
}

func (s *electricalStrategy) matchAtTier(quantity, tier string) []catalog.Item {
	if aliases, ok := electricalAliases[quantity]; ok {
		scoped := s.store.ModuleItems(electricalModule, tier)
		for _, alias := range aliases {
			// Aliases are normalized phrases; match them against the token field.
			if items := filterByTerms(scoped, []string{catalog.NormalizeSearch(alias)}); len(items) > 0 {
				return sortByID(items)
			}
		}
	}

	component := componentFor(quantity)
	if component == "" {
		return nil
	}

	if items := filterByTerms(s.store.ModuleItems(electricalModule, tier), componentTerms[component]); len(items) > 0 {
		return sortByID(items)
	}

	// Generic representative item for the component family at this tier.
	generic := filterByTerms(s.store.ModuleItems(electricalModule, tier),
		[]string{catalog.NormalizeSearch(genericComponentSearch[component])})
	if len(generic) > 0 {
		return head(sortByID(generic), 1)
	}
	return nil
}

func componentFor(quantity string) string {
	name := strings.ToLower(quantity)
	// Deterministic family order so a name matching two families always
	// lands on the same one.
	for _, component := range []string{"outlets", "switches", "lights", "panels"} {
		for _, term := range componentTerms[component] {
			if strings.Contains(name, term) {
				return component
			}
		}
	}
	return ""
}

// syntheticAverage assembles a stand-in item priced at the mean mid cost of
// every electrical item in the quantity's component family, across all
// tiers. Tagged with the synthetic ID prefix and never written back to the
// catalog.
func (s *electricalStrategy) syntheticAverage(quantity string) *catalog.Item {
	component := componentFor(quantity)
	if component == "" {
		return nil
	}

	members := filterByTerms(s.store.ModuleItems(electricalModule, ""), componentTerms[component])
	if len(members) == 0 {
		return nil
	}

	sum := decimal.Zero
	count := 0
	for _, it := range members {
		if it.CostMid.Valid {
			sum = sum.Add(it.CostMid.Decimal)
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := sum.Div(decimal.NewFromInt(int64(count)))

	return &catalog.Item{
		ID:               catalog.SyntheticIDPrefix + strings.ToUpper(component),
		Name:             "Average " + component + " component",
		Category:         "Electrical",
		Unit:             units.UnitEA,
		CostMid:          decimal.NullDecimal{Decimal: avg, Valid: true},
		QualityTier:      "Standard",
		ConstructionTier: catalog.TierLuxury,
		EstimatorModule:  electricalModule,
		SearchItem:       catalog.NormalizeSearch("Average " + component + " component"),
	}
}
