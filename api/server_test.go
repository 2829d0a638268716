package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"construction-cost/catalog"
	"construction-cost/config"
	"construction-cost/estimation"
	"construction-cost/estimators"
	"construction-cost/storage"
)

type fixedCalculator struct {
	category string
	values   map[string]float64
}

func (c *fixedCalculator) Category() string { return c.category }

func (c *fixedCalculator) Calculate(sf float64, tier string, fields estimators.Fields) (estimators.Quantities, error) {
	units := make(map[string]string, len(c.values))
	for name := range c.values {
		units[name] = "EA"
	}
	return estimators.Quantities{Values: c.values, Units: units}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Categories = map[string]config.CategoryMapping{
		"widgets": {
			CatalogCategories: []string{"Widgets"},
			ItemMappings: map[string]config.ItemMapping{
				"widget_count": {ItemIDs: []string{"W-001"}},
			},
		},
	}
	items := []catalog.Item{
		{
			ID: "W-001", Name: "Widget", Category: "Widgets", Unit: "EA",
			CostMid:          decimal.NewNullDecimal(decimal.RequireFromString("10")),
			ConstructionTier: catalog.TierPremium,
		},
	}
	store := catalog.NewStore(items, cfg.Categories)

	registry := estimators.NewRegistry()
	registry.Register(&fixedCalculator{category: "widgets", values: map[string]float64{"widget_count": 4}})

	engine := estimation.NewEngine(cfg, store, registry, slog.Default())
	estimates, err := storage.NewFilesystemStore(t.TempDir(), slog.Default())
	require.NoError(t, err)

	return NewServer(engine, estimates, DefaultConfig())
}

func postSpec(t *testing.T, handler http.HandlerFunc, path string, spec map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(spec)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleEstimate(t *testing.T) {
	s := newTestServer(t)

	t.Run("valid project", func(t *testing.T) {
		rec := postSpec(t, s.handleEstimate, "/api/v1/estimate", map[string]any{
			"square_footage": 3000,
			"tier":           "Premium",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var result estimation.EstimationResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, estimation.RunStatusSuccess, result.Status)
		assert.True(t, result.TotalCost.Equal(decimal.RequireFromString("40")))
	})

	t.Run("invalid project returns 422", func(t *testing.T) {
		rec := postSpec(t, s.handleEstimate, "/api/v1/estimate", map[string]any{
			"square_footage": -50,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/estimate", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		s.handleEstimate(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("GET not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/estimate", nil)
		rec := httptest.NewRecorder()
		s.handleEstimate(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer(t)

	rec := postSpec(t, s.handleValidate, "/api/v1/validate", map[string]any{
		"square_footage": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var validation estimation.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &validation))
	assert.False(t, validation.IsValid)
}

func TestHandleTiers(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tiers", nil)
	rec := httptest.NewRecorder()
	s.handleTiers(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Tiers []struct {
			Tier string `json:"tier"`
		} `json:"tiers"`
		DefaultTier string `json:"default_tier"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Tiers, 3)
	assert.NotEmpty(t, payload.DefaultTier)
}

func TestHandleSavedEstimate(t *testing.T) {
	s := newTestServer(t)

	t.Run("save then load", func(t *testing.T) {
		rec := postSpec(t, s.handleSavedEstimate, "/api/v1/estimates/smith-residence", map[string]any{
			"square_footage": 3000,
			"tier":           "Premium",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/estimates/smith-residence", nil)
		get := httptest.NewRecorder()
		s.handleSavedEstimate(get, req)
		require.Equal(t, http.StatusOK, get.Code)

		var result estimation.EstimationResult
		require.NoError(t, json.Unmarshal(get.Body.Bytes(), &result))
		assert.True(t, result.TotalCost.Equal(decimal.RequireFromString("40")))
	})

	t.Run("missing estimate returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/estimates/nope", nil)
		rec := httptest.NewRecorder()
		s.handleSavedEstimate(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid name returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/estimates/..", nil)
		rec := httptest.NewRecorder()
		s.handleSavedEstimate(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("persistence disabled returns 501", func(t *testing.T) {
		bare := NewServer(s.engine, nil, DefaultConfig())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/estimates/anything", nil)
		rec := httptest.NewRecorder()
		bare.handleSavedEstimate(rec, req)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}

func TestHandleListEstimates(t *testing.T) {
	s := newTestServer(t)

	postSpec(t, s.handleSavedEstimate, "/api/v1/estimates/one", map[string]any{
		"square_footage": 3000,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/estimates", nil)
	rec := httptest.NewRecorder()
	s.handleListEstimates(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Count)
}

func TestHandleReady(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	s.handleReady(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
