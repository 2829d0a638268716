// Package config loads estimator settings: tier bands, category-to-catalog
// mappings, unit conversion pairs, and data paths.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"construction-cost/pkg/platform"
)

// Duration wraps time.Duration so YAML settings can use "30s" notation.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// TierBand maps a square-footage range to a construction tier. MinSF is
// inclusive, MaxSF exclusive; a nil MaxSF means unbounded.
type TierBand struct {
	Tier  string   `yaml:"tier"`
	MinSF float64  `yaml:"min_sf"`
	MaxSF *float64 `yaml:"max_sf,omitempty"`
}

// ItemMapping pins a quantity name to explicit catalog items or search terms.
type ItemMapping struct {
	SearchTerms []string            `yaml:"search_terms,omitempty"`
	ItemIDs     []string            `yaml:"item_ids,omitempty"`
	TierItemIDs map[string][]string `yaml:"tier_item_ids,omitempty"`
}

// CategoryMapping scopes an estimation category to catalog categories and
// carries its per-quantity item mappings.
type CategoryMapping struct {
	CatalogCategories []string               `yaml:"catalog_categories"`
	ItemMappings      map[string]ItemMapping `yaml:"item_mappings,omitempty"`
}

// UnitPair is a configured unit conversion.
type UnitPair struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Factor float64 `yaml:"factor"`
}

// DataConfig holds paths to external data.
type DataConfig struct {
	CatalogPath     string `yaml:"catalog_path"`
	EstimationsPath string `yaml:"estimations_path"`
}

// EstimationConfig drives the orchestrator.
type EstimationConfig struct {
	Tiers           []TierBand    `yaml:"tiers"`
	DefaultTier     string        `yaml:"default_tier"`
	CategoryTimeout Duration      `yaml:"category_timeout"`
}

// Config is the root settings document.
type Config struct {
	Data            DataConfig                 `yaml:"data"`
	Estimation      EstimationConfig           `yaml:"estimation"`
	Categories      map[string]CategoryMapping `yaml:"category_mappings"`
	UnitConversions []UnitPair                 `yaml:"unit_conversions,omitempty"`
}

// Default returns the built-in configuration used when no settings file is
// supplied. Tier bands partition [0, inf) with no gaps.
func Default() *Config {
	luxuryMax := 8000.0
	premiumMax := 4000.0
	return &Config{
		Data: DataConfig{
			CatalogPath:     platform.GetEnv("COSTIMATE_CATALOG_PATH", "data/catalog_enhanced.csv"),
			EstimationsPath: platform.GetEnv("COSTIMATE_ESTIMATIONS_PATH", "data/estimations"),
		},
		Estimation: EstimationConfig{
			Tiers: []TierBand{
				{Tier: "Premium", MinSF: 0, MaxSF: &premiumMax},
				{Tier: "Luxury", MinSF: 4000, MaxSF: &luxuryMax},
				{Tier: "Ultra-Luxury", MinSF: 8000},
			},
			DefaultTier:     "Premium",
			CategoryTimeout: Duration(30 * time.Second),
		},
		Categories: DefaultCategoryMappings(),
	}
}

// DefaultCategoryMappings scopes each registered estimation category to its
// catalog categories.
func DefaultCategoryMappings() map[string]CategoryMapping {
	return map[string]CategoryMapping{
		"foundation": {
			CatalogCategories: []string{"Concrete", "Foundation"},
		},
		"structural": {
			CatalogCategories: []string{"Framing", "Lumber", "Structural Steel"},
		},
		"electrical": {
			CatalogCategories: []string{"Electrical", "Lighting"},
		},
		"plumbing": {
			CatalogCategories: []string{"Plumbing"},
		},
		"hvac": {
			CatalogCategories: []string{"HVAC"},
		},
		"roofing": {
			CatalogCategories: []string{"Roofing"},
		},
		"cabinetry": {
			CatalogCategories: []string{"Cabinets", "Millwork"},
		},
		"countertops": {
			CatalogCategories: []string{"Countertops"},
		},
		"tile": {
			CatalogCategories: []string{"Tile", "Flooring"},
		},
		"painting": {
			CatalogCategories: []string{"Paint"},
		},
	}
}

// Load reads a YAML settings file, layering it over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the tier bands partition [0, inf) without gaps or overlaps.
func (c *Config) Validate() error {
	if len(c.Estimation.Tiers) == 0 {
		return fmt.Errorf("config: at least one tier band required")
	}
	if c.Estimation.DefaultTier == "" {
		return fmt.Errorf("config: default_tier required")
	}

	expectedMin := 0.0
	for i, band := range c.Estimation.Tiers {
		if band.Tier == "" {
			return fmt.Errorf("config: tier band %d has no tier name", i)
		}
		if band.MinSF != expectedMin {
			return fmt.Errorf("config: tier band %q starts at %.0f, expected %.0f (bands must be contiguous)",
				band.Tier, band.MinSF, expectedMin)
		}
		if band.MaxSF == nil {
			if i != len(c.Estimation.Tiers)-1 {
				return fmt.Errorf("config: tier band %q is unbounded but not last", band.Tier)
			}
			return nil
		}
		if *band.MaxSF <= band.MinSF {
			return fmt.Errorf("config: tier band %q has max_sf <= min_sf", band.Tier)
		}
		expectedMin = *band.MaxSF
	}
	return fmt.Errorf("config: last tier band must be unbounded (no max_sf)")
}
