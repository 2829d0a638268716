// Package catalog loads and indexes the residential cost reference catalog.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Construction tiers used throughout the catalog.
const (
	TierPremium     = "Premium"
	TierLuxury      = "Luxury"
	TierUltraLuxury = "Ultra-Luxury"
)

// Tiers lists all valid construction tiers.
func Tiers() []string {
	return []string{TierPremium, TierLuxury, TierUltraLuxury}
}

// SyntheticIDPrefix marks items assembled by the resolver rather than loaded
// from the catalog. Synthetic items are never written back.
const SyntheticIDPrefix = "AVG-"

// Item is a single priced catalog entry. Items are immutable once loaded;
// the catalog is read-only for the duration of a run.
type Item struct {
	ID               string
	Name             string
	Category         string
	Subcategory      string
	Unit             string
	CostLow          decimal.NullDecimal
	CostMid          decimal.NullDecimal
	CostHigh         decimal.NullDecimal
	MarkupPct        float64
	QualityTier      string
	ConstructionTier string
	EstimatorModule  string
	SearchItem       string
}

// IsSynthetic reports whether the item was assembled by a fallback strategy.
func (it Item) IsSynthetic() bool {
	return strings.HasPrefix(it.ID, SyntheticIDPrefix)
}

// UnitCost picks the costing basis for a line item: the mid cost when
// present, otherwise the low cost, otherwise zero. Allowance items always
// cost zero so the caller prices them separately.
func (it Item) UnitCost() decimal.Decimal {
	if strings.Contains(strings.ToLower(it.Name), "allowance") {
		return decimal.Zero
	}
	if it.CostMid.Valid {
		return it.CostMid.Decimal
	}
	if it.CostLow.Valid {
		return it.CostLow.Decimal
	}
	return decimal.Zero
}

// NormalizeSearch lowercases a string and replaces every non-alphanumeric
// rune with a space, producing the token field used for matching.
func NormalizeSearch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ParseCost coerces a cost column value to a decimal, stripping currency
// symbols and thousands separators. Unparseable or empty values come back
// invalid rather than zero so callers can distinguish "free" from "unknown".
func ParseCost(raw string) decimal.NullDecimal {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
