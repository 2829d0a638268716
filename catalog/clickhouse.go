package catalog

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"construction-cost/pkg/units"
)

// ClickHouseConfig holds connection settings for a shared catalog database.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Table    string
}

// ClickHouseSource reads the catalog from a ClickHouse table. Deployments
// that share one catalog across estimator instances load from here instead
// of a local CSV; normalization is identical.
type ClickHouseSource struct {
	conn clickhouse.Conn
	cfg  *ClickHouseConfig
}

// NewClickHouseSource connects to ClickHouse.
func NewClickHouseSource(cfg *ClickHouseConfig) (*ClickHouseSource, error) {
	if cfg.Table == "" {
		cfg.Table = "catalog_items"
	}
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return &ClickHouseSource{conn: conn, cfg: cfg}, nil
}

func (s *ClickHouseSource) Name() string {
	return fmt.Sprintf("clickhouse://%s:%d/%s.%s", s.cfg.Host, s.cfg.Port, s.cfg.Database, s.cfg.Table)
}

// Ping checks database connectivity.
func (s *ClickHouseSource) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the database connection.
func (s *ClickHouseSource) Close() error {
	return s.conn.Close()
}

// Load reads every catalog row. Cost columns are stored as strings in the
// shared table (the upstream export keeps currency formatting) and coerced
// the same way the CSV source does.
func (s *ClickHouseSource) Load(ctx context.Context) ([]Item, error) {
	query := fmt.Sprintf(`
		SELECT id, item, category, subcategory, unit,
		       cost_low, cost_mid, cost_high, markup_pct,
		       quality_tier, construction_tier, estimator_module, search_item
		FROM %s
		ORDER BY id
	`, s.cfg.Table)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it                       Item
			costLow, costMid, costHi string
		)
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Category, &it.Subcategory, &it.Unit,
			&costLow, &costMid, &costHi, &it.MarkupPct,
			&it.QualityTier, &it.ConstructionTier, &it.EstimatorModule, &it.SearchItem,
		); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		it.CostLow = ParseCost(costLow)
		it.CostMid = ParseCost(costMid)
		it.CostHigh = ParseCost(costHi)
		if it.Unit == "" {
			it.Unit = units.UnitEA
		}
		if it.SearchItem == "" {
			it.SearchItem = NormalizeSearch(it.Name)
		} else {
			it.SearchItem = NormalizeSearch(it.SearchItem)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
