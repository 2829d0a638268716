// Package estimators provides the quantity calculator contract, an explicit
// category registry, and the built-in per-trade calculators.
package estimators

import "sort"

// Fields carries the free-form numeric project fields (bedroom counts, bath
// counts, and anything else the caller supplies) through to calculators.
type Fields map[string]float64

// Get returns a named field, or the fallback when absent.
func (f Fields) Get(name string, fallback float64) float64 {
	if v, ok := f[name]; ok {
		return v
	}
	return fallback
}

// Quantities is the output of one calculator run: named numeric takeoff
// values plus an optional unit tag per name. The name "units" is reserved
// and must never be used as a quantity.
type Quantities struct {
	Values map[string]float64
	Units  map[string]string
}

// Empty reports whether the calculator produced nothing.
func (q Quantities) Empty() bool {
	return len(q.Values) == 0
}

// Names returns the quantity names in sorted order, skipping the reserved
// "units" key if a calculator smuggled one in.
func (q Quantities) Names() []string {
	names := make([]string, 0, len(q.Values))
	for name := range q.Values {
		if name == "units" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calculator computes takeoff quantities for one estimation category.
// Implementations must be side-effect-free and must return empty quantities
// when squareFootage is not positive.
type Calculator interface {
	Category() string
	Calculate(squareFootage float64, tier string, fields Fields) (Quantities, error)
}

// Registry maps categories to calculator instances. It is populated
// explicitly at startup; the engine iterates it in registration order.
type Registry struct {
	calculators map[string]Calculator
	order       []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{calculators: make(map[string]Calculator)}
}

// Register adds a calculator under its category. Re-registering a category
// replaces the instance but keeps its original position.
func (r *Registry) Register(c Calculator) {
	category := c.Category()
	if _, exists := r.calculators[category]; !exists {
		r.order = append(r.order, category)
	}
	r.calculators[category] = c
}

// RegisterPlaceholder reserves a category with no implementation. The engine
// reports it as not_implemented.
func (r *Registry) RegisterPlaceholder(category string) {
	if _, exists := r.calculators[category]; !exists {
		r.order = append(r.order, category)
		r.calculators[category] = nil
	}
}

// Get returns the calculator for a category. The boolean reports whether the
// category is registered at all; a registered category may still have a nil
// (placeholder) calculator.
func (r *Registry) Get(category string) (Calculator, bool) {
	c, ok := r.calculators[category]
	return c, ok
}

// Categories returns registered categories in registration order.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// RegisterAll wires every built-in calculator.
func RegisterAll(r *Registry) {
	// Sitework and shell
	r.Register(NewFoundationCalculator())
	r.Register(NewStructuralCalculator())
	r.Register(NewRoofingCalculator())

	// Systems
	r.Register(NewElectricalCalculator())
	r.Register(NewPlumbingCalculator())
	r.Register(NewHVACCalculator())

	// Interior finishes
	r.Register(NewCabinetryCalculator())
	r.Register(NewCountertopsCalculator())
	r.Register(NewTileCalculator())
	r.Register(NewPaintingCalculator())

	// Tracked but not yet implemented; surfaced as not_implemented so
	// estimates list them instead of silently omitting the scope.
	r.RegisterPlaceholder("windows_doors")
	r.RegisterPlaceholder("landscaping")
	r.RegisterPlaceholder("cleaning")
	r.RegisterPlaceholder("preliminaries")
	r.RegisterPlaceholder("specialty")
}

// tierTable is a tier-keyed coefficient lookup used by every calculator.
// Coefficients are business constants, not algorithmic structure.
type tierTable map[string]float64

func (t tierTable) at(tier string) float64 {
	if v, ok := t[tier]; ok {
		return v
	}
	// Unknown tier falls back to the middle band.
	return t["Luxury"]
}
