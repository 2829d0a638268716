package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"construction-cost/estimation"
)

// SavedEstimate is one entry in a store listing.
type SavedEstimate struct {
	Name          string    `json:"name"`
	Modified      time.Time `json:"modified"`
	SizeBytes     int64     `json:"size_bytes"`
	SquareFootage float64   `json:"square_footage"`
	TotalCost     string    `json:"total_cost"`
}

// Store persists estimation results under caller-chosen names.
type Store interface {
	Save(ctx context.Context, name string, result *estimation.EstimationResult) error
	Load(ctx context.Context, name string) (*estimation.EstimationResult, error)
	List(ctx context.Context) ([]SavedEstimate, error)
}

// ValidateName rejects names that could escape the store's namespace.
// Filesystem backends map names to paths, so separators and parent
// references are never allowed.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("estimate name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("estimate name %q contains path elements", name)
	}
	return nil
}
