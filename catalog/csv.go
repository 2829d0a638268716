package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"construction-cost/pkg/units"
)

// CSVSource reads the catalog from the enhanced catalog CSV export.
type CSVSource struct {
	Path string
}

func (s *CSVSource) Name() string {
	return s.Path
}

// Load parses the CSV, coercing cost columns (currency symbols stripped),
// defaulting missing units to EA and missing markup to 0, and building the
// normalized SearchItem field when the export does not carry one.
func (s *CSVSource) Load(ctx context.Context) ([]Item, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

// Header keys are matched after normalization, so "Cost (Low)", "Cost-Low"
// and "CostLow" all land on the same column.
var csvColumns = map[string]string{
	"id":               "id",
	"item":             "item",
	"category":         "category",
	"subcategory":      "subcategory",
	"unit":             "unit",
	"costlow":          "costlow",
	"costmid":          "costmid",
	"costhigh":         "costhigh",
	"markuppercentage": "markup",
	"qualitytier":      "qualitytier",
	"constructiontier": "constructiontier",
	"estimatormodule":  "estimatormodule",
	"searchitem":       "searchitem",
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseCSV(r io.Reader) ([]Item, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int)
	for i, h := range header {
		if key, ok := csvColumns[normalizeHeader(h)]; ok {
			cols[key] = i
		}
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("catalog CSV missing ID column")
	}

	field := func(record []string, key string) string {
		i, ok := cols[key]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var items []Item
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		it := Item{
			ID:               field(record, "id"),
			Name:             field(record, "item"),
			Category:         field(record, "category"),
			Subcategory:      field(record, "subcategory"),
			Unit:             field(record, "unit"),
			CostLow:          ParseCost(field(record, "costlow")),
			CostMid:          ParseCost(field(record, "costmid")),
			CostHigh:         ParseCost(field(record, "costhigh")),
			QualityTier:      field(record, "qualitytier"),
			ConstructionTier: field(record, "constructiontier"),
			EstimatorModule:  field(record, "estimatormodule"),
			SearchItem:       field(record, "searchitem"),
		}
		if it.ID == "" {
			continue
		}
		if it.Unit == "" {
			it.Unit = units.UnitEA
		}
		if markup := field(record, "markup"); markup != "" {
			if v, err := strconv.ParseFloat(strings.TrimSuffix(markup, "%"), 64); err == nil {
				it.MarkupPct = v
			}
		}
		if it.SearchItem == "" {
			it.SearchItem = NormalizeSearch(it.Name)
		} else {
			it.SearchItem = NormalizeSearch(it.SearchItem)
		}
		items = append(items, it)
	}
	return items, nil
}
