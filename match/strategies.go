package match

import (
	"sort"
	"strings"

	"construction-cost/catalog"
	"construction-cost/config"
)

// Request identifies one resolution: a named quantity within an estimation
// category at a construction tier.
type Request struct {
	Category string
	Quantity string
	Tier     string
}

// Strategy is one stage of the match cascade. A nil or empty return means
// the stage found nothing and the next stage runs.
type Strategy interface {
	Name() string
	TryMatch(req Request) []catalog.Item
}

// fallbackLimit caps how many items the coarse fallback stages return.
const fallbackLimit = 3

func sortByID(items []catalog.Item) []catalog.Item {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func dedupeByID(items []catalog.Item) []catalog.Item {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}

func head(items []catalog.Item, n int) []catalog.Item {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// containsToken reports whether any of the terms occurs in the normalized
// search field.
func matchesAnyTerm(it catalog.Item, terms []string) bool {
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(it.SearchItem, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func filterByTerms(items []catalog.Item, terms []string) []catalog.Item {
	var out []catalog.Item
	for _, it := range items {
		if matchesAnyTerm(it, terms) {
			out = append(out, it)
		}
	}
	return out
}

// explicitIDStrategy resolves quantities that configuration pins to literal
// catalog IDs, optionally per tier. Configured order is preserved verbatim.
type explicitIDStrategy struct {
	store    *catalog.Store
	mappings map[string]config.CategoryMapping
}

func (s *explicitIDStrategy) Name() string { return "explicit_ids" }

func (s *explicitIDStrategy) TryMatch(req Request) []catalog.Item {
	mapping, ok := s.mappings[req.Category]
	if !ok {
		return nil
	}
	im, ok := mapping.ItemMappings[req.Quantity]
	if !ok {
		return nil
	}
	if ids, ok := im.TierItemIDs[req.Tier]; ok {
		if items := s.store.GetAll(ids); len(items) > 0 {
			return items
		}
	}
	if len(im.ItemIDs) > 0 {
		return s.store.GetAll(im.ItemIDs)
	}
	return nil
}

// searchTermStrategy filters the tier+category-scoped catalog by
// configuration-provided search phrases (OR over terms).
type searchTermStrategy struct {
	store    *catalog.Store
	mappings map[string]config.CategoryMapping
}

func (s *searchTermStrategy) Name() string { return "search_terms" }

func (s *searchTermStrategy) TryMatch(req Request) []catalog.Item {
	mapping, ok := s.mappings[req.Category]
	if !ok {
		return nil
	}
	im, ok := mapping.ItemMappings[req.Quantity]
	if !ok || len(im.SearchTerms) == 0 {
		return nil
	}
	scoped := s.store.CategoryItems(req.Category, req.Tier)
	return sortByID(filterByTerms(scoped, im.SearchTerms))
}

// derivedTermStrategy tokenizes the quantity name itself into search terms.
type derivedTermStrategy struct {
	store *catalog.Store
}

func (s *derivedTermStrategy) Name() string { return "derived_terms" }

func (s *derivedTermStrategy) TryMatch(req Request) []catalog.Item {
	terms := DeriveSearchTerms(req.Quantity)
	if len(terms) == 0 {
		return nil
	}
	scoped := s.store.ModuleItems(req.Category, req.Tier)
	return sortByID(filterByTerms(scoped, terms))
}

var unitSuffixes = map[string]bool{
	"sf": true, "lf": true, "cy": true, "ea": true, "count": true,
}

var genericPrefixes = map[string]bool{
	"total": true, "simplified": true,
}

// DeriveSearchTerms splits a quantity name on separators, drops trailing
// unit suffixes and generic prefixes, and adds singular/plural variants.
func DeriveSearchTerms(quantityName string) []string {
	parts := strings.FieldsFunc(strings.ToLower(quantityName), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(parts) > 0 && unitSuffixes[parts[len(parts)-1]] {
		parts = parts[:len(parts)-1]
	}

	var terms []string
	for _, part := range parts {
		if genericPrefixes[part] {
			continue
		}
		terms = append(terms, part)
		if strings.HasSuffix(part, "s") && len(part) > 3 {
			terms = append(terms, part[:len(part)-1])
		} else {
			terms = append(terms, part+"s")
		}
	}
	return terms
}

// keywordCategories maps known quantity-name substrings to raw catalog
// categories for the coarse keyword fallback.
var keywordCategories = []struct {
	keyword  string
	category string
}{
	{"concrete", "Concrete"},
	{"slab", "Concrete"},
	{"footing", "Foundation"},
	{"foundation", "Foundation"},
	{"framing", "Framing"},
	{"lumber", "Lumber"},
	{"door", "Doors"},
	{"window", "Windows"},
	{"outlet", "Electrical"},
	{"switch", "Electrical"},
	{"light", "Lighting"},
	{"fixture", "Lighting"},
	{"paint", "Paint"},
	{"sink", "Plumbing"},
	{"toilet", "Plumbing"},
	{"shower", "Plumbing"},
	{"hvac", "HVAC"},
	{"duct", "HVAC"},
	{"cabinet", "Cabinets"},
	{"countertop", "Countertops"},
	{"tile", "Tile"},
	{"flooring", "Flooring"},
	{"insulation", "Insulation"},
	{"drywall", "Drywall"},
	{"roof", "Roofing"},
}

// categoryKeywordStrategy guesses a raw catalog category from the quantity
// name and returns its top few items, tier-filtered when possible.
type categoryKeywordStrategy struct {
	store *catalog.Store
}

func (s *categoryKeywordStrategy) Name() string { return "category_keyword" }

func (s *categoryKeywordStrategy) TryMatch(req Request) []catalog.Item {
	name := strings.ToLower(req.Quantity)
	for _, kc := range keywordCategories {
		if !strings.Contains(name, kc.keyword) {
			continue
		}
		items := s.store.CatalogCategoryItems(kc.category, req.Tier)
		if len(items) == 0 {
			items = s.store.CatalogCategoryItems(kc.category, "")
		}
		if len(items) > 0 {
			return head(sortByID(items), fallbackLimit)
		}
	}
	return nil
}

// moduleFallbackStrategy returns a few items tagged with the category's
// estimator module, ignoring tier. Last generic resort before
// domain-specific handling.
type moduleFallbackStrategy struct {
	store *catalog.Store
}

func (s *moduleFallbackStrategy) Name() string { return "module_fallback" }

func (s *moduleFallbackStrategy) TryMatch(req Request) []catalog.Item {
	items := s.store.ModuleItems(req.Category, "")
	return head(sortByID(items), fallbackLimit)
}
