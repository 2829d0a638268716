package estimators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OrderAndPlaceholders(t *testing.T) {
	r := NewRegistry()
	r.Register(NewFoundationCalculator())
	r.RegisterPlaceholder("windows_doors")
	r.Register(NewElectricalCalculator())

	assert.Equal(t, []string{"foundation", "windows_doors", "electrical"}, r.Categories())

	calc, ok := r.Get("windows_doors")
	assert.True(t, ok, "placeholders are registered")
	assert.Nil(t, calc, "placeholders have no implementation")

	_, ok = r.Get("landscaping")
	assert.False(t, ok)
}

func TestRegistry_ReRegisterKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Register(NewFoundationCalculator())
	r.Register(NewElectricalCalculator())
	r.Register(NewFoundationCalculator())

	assert.Equal(t, []string{"foundation", "electrical"}, r.Categories())
}

func TestRegisterAll_Coverage(t *testing.T) {
	r := NewRegistry()
	RegisterAll(r)

	for _, category := range []string{
		"foundation", "structural", "roofing", "electrical", "plumbing",
		"hvac", "cabinetry", "countertops", "tile", "painting",
	} {
		calc, ok := r.Get(category)
		assert.True(t, ok, "category %s must be registered", category)
		assert.NotNil(t, calc, "category %s must have an implementation", category)
	}

	for _, category := range []string{
		"windows_doors", "landscaping", "cleaning", "preliminaries", "specialty",
	} {
		calc, ok := r.Get(category)
		assert.True(t, ok, "category %s must be registered", category)
		assert.Nil(t, calc, "category %s is a placeholder", category)
	}
}

func TestCalculators_EmptyForNonPositiveFootage(t *testing.T) {
	r := NewRegistry()
	RegisterAll(r)

	for _, category := range r.Categories() {
		calc, _ := r.Get(category)
		if calc == nil {
			continue
		}
		t.Run(category, func(t *testing.T) {
			for _, sf := range []float64{0, -100} {
				q, err := calc.Calculate(sf, "Premium", Fields{})
				require.NoError(t, err)
				assert.True(t, q.Empty(), "square footage %v must yield no quantities", sf)
			}
		})
	}
}

func TestQuantities_NamesSkipsReservedKey(t *testing.T) {
	q := Quantities{Values: map[string]float64{
		"b_quantity": 1,
		"units":      99,
		"a_quantity": 2,
	}}
	assert.Equal(t, []string{"a_quantity", "b_quantity"}, q.Names())
}

func TestFields_Get(t *testing.T) {
	f := Fields{"primary_bath_count": 2}
	assert.Equal(t, 2.0, f.Get("primary_bath_count", 0))
	assert.Equal(t, 1.0, f.Get("powder_room_count", 1))
}
