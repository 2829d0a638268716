package catalog

import (
	"context"
	"log/slog"
	"sort"

	"construction-cost/config"
	cerrors "construction-cost/pkg/errors"
)

// Source supplies raw catalog items from some backing medium.
type Source interface {
	Load(ctx context.Context) ([]Item, error)
	Name() string
}

// Store holds the loaded catalog with pre-built lookup indices. All filtered
// views return items in ascending ID order, which is the deterministic
// tie-break rule for "best match".
type Store struct {
	items    []Item
	byID     map[string]int
	mappings map[string]config.CategoryMapping

	// Indices keyed at load time. Values are positions into items, which is
	// itself ID-sorted, so index slices inherit the ordering.
	byCatalogCategory map[string][]int
	byCategoryTier    map[string][]int
	byModule          map[string][]int
	byModuleTier      map[string][]int
}

// NewStore indexes a fixed item set. Duplicate IDs keep the first occurrence.
func NewStore(items []Item, mappings map[string]config.CategoryMapping) *Store {
	sorted := make([]Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ID == "" || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		sorted = append(sorted, it)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	s := &Store{
		items:             sorted,
		byID:              make(map[string]int, len(sorted)),
		mappings:          mappings,
		byCatalogCategory: make(map[string][]int),
		byCategoryTier:    make(map[string][]int),
		byModule:          make(map[string][]int),
		byModuleTier:      make(map[string][]int),
	}
	for i, it := range sorted {
		s.byID[it.ID] = i
		s.byCatalogCategory[it.Category] = append(s.byCatalogCategory[it.Category], i)
		s.byCategoryTier[it.Category+"|"+it.ConstructionTier] = append(s.byCategoryTier[it.Category+"|"+it.ConstructionTier], i)
		if it.EstimatorModule != "" {
			s.byModule[it.EstimatorModule] = append(s.byModule[it.EstimatorModule], i)
			s.byModuleTier[it.EstimatorModule+"|"+it.ConstructionTier] = append(s.byModuleTier[it.EstimatorModule+"|"+it.ConstructionTier], i)
		}
	}
	return s
}

// LoadStore builds a store from a source. A failed load yields an empty
// store and a logged error: the engine keeps running degraded, with every
// subsequent match failing gracefully instead of fatally.
func LoadStore(ctx context.Context, src Source, mappings map[string]config.CategoryMapping, logger *slog.Logger) *Store {
	items, err := src.Load(ctx)
	if err != nil {
		logger.Error("catalog load failed, continuing with empty catalog",
			"error", cerrors.NewCatalogLoadError(src.Name(), err))
		return NewStore(nil, mappings)
	}
	logger.Info("catalog loaded", "source", src.Name(), "items", len(items))
	return NewStore(items, mappings)
}

// Len returns the number of catalog items.
func (s *Store) Len() int {
	return len(s.items)
}

// Get returns the item with the given ID.
func (s *Store) Get(id string) (Item, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

// GetAll resolves a list of IDs, preserving the requested order and skipping
// unknown IDs.
func (s *Store) GetAll(ids []string) []Item {
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := s.Get(id); ok {
			out = append(out, it)
		}
	}
	return out
}

// Items returns every catalog item in ID order.
func (s *Store) Items() []Item {
	return s.items
}

func (s *Store) collect(idx []int) []Item {
	out := make([]Item, len(idx))
	for i, pos := range idx {
		out[i] = s.items[pos]
	}
	return out
}

// CategoryItems returns items belonging to the catalog categories mapped to
// an estimation category, optionally filtered by construction tier.
func (s *Store) CategoryItems(estimationCategory, tier string) []Item {
	mapping, ok := s.mappings[estimationCategory]
	if !ok {
		return nil
	}
	var out []Item
	for _, cc := range mapping.CatalogCategories {
		if tier == "" {
			out = append(out, s.collect(s.byCatalogCategory[cc])...)
		} else {
			out = append(out, s.collect(s.byCategoryTier[cc+"|"+tier])...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CatalogCategoryItems returns items in a raw catalog category, optionally
// tier-filtered. Used by the keyword fallback, which maps quantity substrings
// straight to catalog categories.
func (s *Store) CatalogCategoryItems(catalogCategory, tier string) []Item {
	if tier == "" {
		return s.collect(s.byCatalogCategory[catalogCategory])
	}
	return s.collect(s.byCategoryTier[catalogCategory+"|"+tier])
}

// ModuleItems returns items tagged with an estimator module, optionally
// tier-filtered.
func (s *Store) ModuleItems(module, tier string) []Item {
	if tier == "" {
		return s.collect(s.byModule[module])
	}
	return s.collect(s.byModuleTier[module+"|"+tier])
}
