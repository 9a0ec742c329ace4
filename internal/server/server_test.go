package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mallmetrics/analytics-cli/internal/model"
	"github.com/mallmetrics/analytics-cli/internal/pipeline"
)

func enrichedRow(invoice, customer, mall, region, category, method string, day time.Time, qty int, price float64) model.EnrichedRow {
	row := model.EnrichedRow{
		Date:        model.DateOf(day),
		GrossAmount: float64(qty) * price,
		NetAmount:   float64(qty) * price,
		Year:        day.Year(),
		Month:       int(day.Month()),
		Day:         day.Day(),
		Weekday:     model.WeekdayIndex(day.Weekday()),
		Quarter:     (int(day.Month())-1)/3 + 1,
		Season:      model.SeasonOf(day.Month()),
	}
	row.InvoiceNo = invoice
	row.CustomerID = customer
	row.ShoppingMall = mall
	row.Region = region
	row.Category = category
	row.PaymentMethod = method
	row.Quantity = qty
	row.Price = price
	return row
}

func sampleResult() *pipeline.Result {
	base := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	enriched := []model.EnrichedRow{
		enrichedRow("I1", "C1", "Kanyon", "Marmara", "Clothing", "Cash", base, 1, 100),
		enrichedRow("I2", "C2", "Kanyon", "Marmara", "Shoes", "Credit Card", base.AddDate(0, 0, 1), 2, 50),
		enrichedRow("I3", "C3", "Forum Bornova", "Aegean", "Clothing", "Cash", base.AddDate(0, 0, 2), 1, 75),
	}
	agg := pipeline.Aggregate(enriched)
	return &pipeline.Result{
		RunID:    "test-run",
		Enriched: enriched,
		Tables:   agg,
		Summary:  pipeline.BuildSummary(enriched, agg),
		RFM: []model.RFMRecord{
			{CustomerID: "C1", RFMScore: 12, Segment: model.SegmentChampions},
			{CustomerID: "C2", RFMScore: 3, Segment: model.SegmentLostCustomers},
		},
		Forecasts: []model.ForecastRow{
			{ShoppingMall: "Kanyon", Region: "Marmara", Category: "Clothing",
				ForecastDate: model.DateOf(base.AddDate(0, 0, 3)), ForecastedSales: 42},
		},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAlwaysOK(t *testing.T) {
	h := New(nil).Router()
	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestEndpointsUnavailableBeforeFirstSnapshot(t *testing.T) {
	h := New(nil).Router()
	paths := []string{
		"/api/summary", "/api/filters",
		"/api/charts/profitability", "/api/charts/seasonal",
		"/api/charts/payment", "/api/charts/regional", "/api/charts/segments",
		"/api/data/mall_profitability", "/api/forecast/plot",
	}
	for _, path := range paths {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "data not loaded", path)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	s := New(nil)
	s.Swap(sampleResult())
	rec := get(t, s.Router(), "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body["total_malls"])
	assert.EqualValues(t, 2, body["total_regions"])
	assert.EqualValues(t, 3, body["total_transactions"])
	assert.InDelta(t, 275.0, body["total_revenue"].(float64), 1e-9)
}

func TestFiltersEndpoint(t *testing.T) {
	s := New(nil)
	s.Swap(sampleResult())
	rec := get(t, s.Router(), "/api/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	var f Filters
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	assert.Equal(t, []string{"Forum Bornova", "Kanyon"}, f.ShoppingMalls)
	assert.Equal(t, []string{"Aegean", "Marmara"}, f.Regions)
	assert.Equal(t, []string{"Clothing", "Shoes"}, f.Categories)
}

func TestChartEndpoints(t *testing.T) {
	s := New(nil)
	s.Swap(sampleResult())
	h := s.Router()

	for _, path := range []string{
		"/api/charts/profitability", "/api/charts/seasonal",
		"/api/charts/payment", "/api/charts/regional", "/api/charts/segments",
	} {
		rec := get(t, h, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var payload chartPayload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), path)
		assert.NotEmpty(t, payload.Title, path)
		assert.NotEmpty(t, payload.Series, path)
	}
}

func TestSegmentsChartUnavailableWithoutRFM(t *testing.T) {
	res := sampleResult()
	res.RFM = nil
	s := New(nil)
	s.Swap(res)

	rec := get(t, s.Router(), "/api/charts/segments")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "rfm data unavailable")
}

func TestDataTables(t *testing.T) {
	s := New(nil)
	s.Swap(sampleResult())
	h := s.Router()

	for _, table := range []string{"mall_profitability", "category_profitability", "payment_analysis", "rfm"} {
		rec := get(t, h, "/api/data/"+table)
		require.Equal(t, http.StatusOK, rec.Code, table)

		var rows []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows), table)
		assert.NotEmpty(t, rows, table)
	}
}

func TestDataUnknownTable(t *testing.T) {
	s := New(nil)
	s.Swap(sampleResult())
	rec := get(t, s.Router(), "/api/data/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDataRFMUnavailable(t *testing.T) {
	res := sampleResult()
	res.RFM = nil
	s := New(nil)
	s.Swap(res)

	rec := get(t, s.Router(), "/api/data/rfm")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestForecastPlotKnownKey(t *testing.T) {
	s := New(nil)
	s.Swap(sampleResult())

	rec := get(t, s.Router(), "/api/forecast/plot?shopping_mall=Kanyon&region=Marmara&category=Clothing")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Actual   []model.SeriesPoint `json:"actual"`
		Forecast []model.SeriesPoint `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Actual)
	require.Len(t, body.Forecast, 1)
	assert.InDelta(t, 42.0, body.Forecast[0].Value, 1e-9)
}

func TestForecastPlotUnknownKeyEmpty(t *testing.T) {
	s := New(nil)
	s.Swap(sampleResult())

	rec := get(t, s.Router(), "/api/forecast/plot?shopping_mall=Nowhere&region=None&category=None")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Actual   []model.SeriesPoint `json:"actual"`
		Forecast []model.SeriesPoint `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Actual)
	assert.Empty(t, body.Forecast)
}

func TestForecastPlotMissingParams(t *testing.T) {
	s := New(nil)
	s.Swap(sampleResult())

	rec := get(t, s.Router(), "/api/forecast/plot?shopping_mall=Kanyon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReloadNotConfigured(t *testing.T) {
	s := New(nil)
	s.Swap(sampleResult())

	req := httptest.NewRequest(http.MethodPost, "/api/reload", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestReloadSwapsSnapshot(t *testing.T) {
	fresh := sampleResult()
	fresh.RunID = "fresh-run"
	s := New(func(ctx context.Context) (*pipeline.Result, error) {
		return fresh, nil
	})
	s.Swap(sampleResult())

	req := httptest.NewRequest(http.MethodPost, "/api/reload", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fresh-run")
	assert.Equal(t, "fresh-run", s.snapshot().Result.RunID)
}

func TestReloadFailureKeepsOldSnapshot(t *testing.T) {
	s := New(func(ctx context.Context) (*pipeline.Result, error) {
		return nil, eris.New("rebuild failed")
	})
	s.Swap(sampleResult())

	req := httptest.NewRequest(http.MethodPost, "/api/reload", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "test-run", s.snapshot().Result.RunID)
}
