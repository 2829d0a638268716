package estimation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryStatus is the terminal state of one category within a run. It is
// assigned exactly once per category per run.
type CategoryStatus string

const (
	StatusSuccess        CategoryStatus = "success"
	StatusNoQuantities   CategoryStatus = "no_quantities"
	StatusNotImplemented CategoryStatus = "not_implemented"
	StatusError          CategoryStatus = "error"
)

// Run-level statuses.
const (
	RunStatusSuccess         = "success"
	RunStatusValidationError = "validation_error"
)

// Provenance notes recorded on costed lines.
const (
	NoteDirectMatch  = "Direct match"
	noteConvertedFmt = "Converted units (%s to %s)"
	noteMismatchFmt  = "WARNING: Possible unit mismatch (guessed %s to %s)"
)

// CostedLineItem is a quantity resolved against a catalog item with a
// computed total and full provenance back to the originating quantity.
type CostedLineItem struct {
	ItemID      string          `json:"item_id"`
	ItemName    string          `json:"item_name"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Quantity    float64         `json:"quantity"` // adjusted by unit conversion
	Unit        string          `json:"unit"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	MarkupPct   float64         `json:"markup"`
	Note        string          `json:"note"`
	QualityTier string          `json:"quality_tier,omitempty"`

	OriginalQuantityName  string  `json:"original_quantity_name"`
	OriginalQuantityValue float64 `json:"original_quantity_value"`
	OriginalUnit          string  `json:"original_unit,omitempty"`
}

// CategoryResult holds everything one category produced during a run.
type CategoryResult struct {
	Status              CategoryStatus     `json:"status"`
	Quantities          map[string]float64 `json:"quantities,omitempty"`
	Units               map[string]string  `json:"units,omitempty"`
	CostedItems         []CostedLineItem   `json:"costed_items,omitempty"`
	TotalCost           decimal.Decimal    `json:"total_cost"`
	UnmatchedQuantities []string           `json:"unmatched_quantities,omitempty"`
	Message             string             `json:"message,omitempty"`
	Note                string             `json:"note,omitempty"`
}

// Metadata records run provenance.
type Metadata struct {
	RunID            uuid.UUID `json:"run_id"`
	EstimatedAt      time.Time `json:"estimation_date"`
	CatalogItemCount int       `json:"catalog_item_count"`
}

// Summary aggregates the run.
type Summary struct {
	CostBreakdown       map[string]decimal.Decimal `json:"cost_breakdown"`
	PercentageBreakdown map[string]float64         `json:"percentage_breakdown,omitempty"`
	Warnings            []string                   `json:"warnings"`
	Metadata            Metadata                   `json:"metadata"`
}

// RoomResult holds the room-scoped slice of a detailed estimate.
type RoomResult struct {
	Tier       string                    `json:"tier"`
	Allocation float64                   `json:"allocation_share"`
	Categories map[string]CategoryResult `json:"categories"`
	TotalCost  decimal.Decimal           `json:"total_cost"`
}

// EstimationResult is the complete output of one estimate call.
type EstimationResult struct {
	Status     string                    `json:"status"`
	Project    ProjectSpec               `json:"project"`
	Validation *ValidationResult         `json:"validation_results,omitempty"`
	Categories map[string]CategoryResult `json:"categories"`
	Rooms      map[string]RoomResult     `json:"rooms,omitempty"`
	Summary    Summary                   `json:"summary"`
	TotalCost  decimal.Decimal           `json:"total_cost"`
	Message    string                    `json:"message,omitempty"`
}
