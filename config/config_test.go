package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Premium", cfg.Estimation.DefaultTier)
	assert.Len(t, cfg.Estimation.Tiers, 3)
	assert.Contains(t, cfg.Categories, "electrical")
}

func TestValidate_TierBands(t *testing.T) {
	band := func(tier string, min float64, max *float64) TierBand {
		return TierBand{Tier: tier, MinSF: min, MaxSF: max}
	}
	f := func(v float64) *float64 { return &v }

	t.Run("gap between bands", func(t *testing.T) {
		cfg := Default()
		cfg.Estimation.Tiers = []TierBand{
			band("Premium", 0, f(4000)),
			band("Luxury", 5000, nil),
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("bounded last band leaves a hole", func(t *testing.T) {
		cfg := Default()
		cfg.Estimation.Tiers = []TierBand{
			band("Premium", 0, f(4000)),
			band("Luxury", 4000, f(8000)),
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("unbounded band must be last", func(t *testing.T) {
		cfg := Default()
		cfg.Estimation.Tiers = []TierBand{
			band("Premium", 0, nil),
			band("Luxury", 4000, f(8000)),
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("inverted band", func(t *testing.T) {
		cfg := Default()
		cfg.Estimation.Tiers = []TierBand{
			band("Premium", 0, f(0)),
			band("Luxury", 0, nil),
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("no bands", func(t *testing.T) {
		cfg := Default()
		cfg.Estimation.Tiers = nil
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
estimation:
  default_tier: Luxury
  category_timeout: 5s
unit_conversions:
  - from: BAG
    to: PALLET
    factor: 0.02
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Luxury", cfg.Estimation.DefaultTier)
	assert.Equal(t, Duration(5*time.Second), cfg.Estimation.CategoryTimeout)
	require.Len(t, cfg.UnitConversions, 1)
	assert.Equal(t, "BAG", cfg.UnitConversions[0].From)

	// Unspecified sections keep their defaults.
	assert.Len(t, cfg.Estimation.Tiers, 3)
	assert.Contains(t, cfg.Categories, "plumbing")
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Premium", cfg.Estimation.DefaultTier)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
