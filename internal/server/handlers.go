package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mallmetrics/analytics-cli/internal/forecast"
	"github.com/mallmetrics/analytics-cli/internal/model"
)

// chartSeries is one named series of a chart payload.
type chartSeries struct {
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}

// chartPayload is the structured chart description the dashboard renders.
// Deliberately library-neutral: labels and series, no renderer directives.
type chartPayload struct {
	Title  string        `json:"title"`
	Series []chartSeries `json:"series"`
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		respondUnavailable(w)
		return
	}

	var totalRevenue, discountRateSum float64
	var totalTransactions int
	regions := make(map[string]struct{})
	for _, row := range snap.Result.Tables.MallProfitability {
		totalRevenue += row.NetRevenue
		totalTransactions += row.TotalTransactions
		discountRateSum += row.DiscountRate
		regions[row.Region] = struct{}{}
	}
	avgDiscountRate := 0.0
	if n := len(snap.Result.Tables.MallProfitability); n > 0 {
		avgDiscountRate = discountRateSum / float64(n)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total_malls":        len(snap.Result.Tables.MallProfitability),
		"total_regions":      len(regions),
		"total_revenue":      totalRevenue,
		"total_transactions": totalTransactions,
		"avg_discount_rate":  avgDiscountRate,
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		respondUnavailable(w)
		return
	}
	respondJSON(w, http.StatusOK, snap.Filters)
}

func (s *Server) handleProfitabilityChart(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		respondUnavailable(w)
		return
	}

	malls := snap.Result.Tables.MallProfitability
	mallRevenue := chartSeries{Name: "Net Revenue by Mall"}
	discountRate := chartSeries{Name: "Discount Rate by Mall"}
	for _, row := range malls {
		mallRevenue.X = append(mallRevenue.X, row.ShoppingMall)
		mallRevenue.Y = append(mallRevenue.Y, row.NetRevenue)
		discountRate.X = append(discountRate.X, row.ShoppingMall)
		discountRate.Y = append(discountRate.Y, row.DiscountRate)
	}

	categoryRevenue := chartSeries{Name: "Revenue by Category"}
	for _, row := range snap.Result.Tables.CategoryProfitability {
		categoryRevenue.X = append(categoryRevenue.X, row.Category)
		categoryRevenue.Y = append(categoryRevenue.Y, row.FinalAmount)
	}

	regionTotals := make(map[string]float64)
	for _, row := range malls {
		regionTotals[row.Region] += row.NetRevenue
	}
	regionRevenue := chartSeries{Name: "Regional Revenue Distribution"}
	for _, region := range snap.Filters.Regions {
		regionRevenue.X = append(regionRevenue.X, region)
		regionRevenue.Y = append(regionRevenue.Y, regionTotals[region])
	}

	respondJSON(w, http.StatusOK, chartPayload{
		Title:  "Profitability Dashboard",
		Series: []chartSeries{mallRevenue, discountRate, categoryRevenue, regionRevenue},
	})
}

func (s *Server) handleSeasonalChart(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		respondUnavailable(w)
		return
	}

	seasonal := chartSeries{Name: "Revenue by Season"}
	seasonalTx := chartSeries{Name: "Transactions by Season"}
	for _, row := range snap.Result.Tables.SeasonalTrends {
		seasonal.X = append(seasonal.X, string(row.Season))
		seasonal.Y = append(seasonal.Y, row.TotalRevenue)
		seasonalTx.X = append(seasonalTx.X, string(row.Season))
		seasonalTx.Y = append(seasonalTx.Y, float64(row.TotalTransactions))
	}

	weekly := chartSeries{Name: "Revenue by Day of Week"}
	for _, row := range snap.Result.Tables.WeeklyPatterns {
		weekly.X = append(weekly.X, row.WeekdayName)
		weekly.Y = append(weekly.Y, row.TotalRevenue)
	}

	monthly := chartSeries{Name: "Monthly Trends"}
	for _, row := range snap.Result.Tables.MonthlyTrends {
		monthly.X = append(monthly.X, row.YearMonth)
		monthly.Y = append(monthly.Y, row.TotalRevenue)
	}

	respondJSON(w, http.StatusOK, chartPayload{
		Title:  "Seasonal Analysis Dashboard",
		Series: []chartSeries{seasonal, weekly, monthly, seasonalTx},
	})
}

func (s *Server) handlePaymentChart(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		respondUnavailable(w)
		return
	}

	revenue := chartSeries{Name: "Revenue by Payment Method"}
	transactions := chartSeries{Name: "Transactions by Payment Method"}
	avgValue := chartSeries{Name: "Average Transaction Value"}
	revenuePct := chartSeries{Name: "Revenue Percentage"}
	txPct := chartSeries{Name: "Transaction Percentage"}
	for _, row := range snap.Result.Tables.PaymentAnalysis {
		revenue.X = append(revenue.X, row.PaymentMethod)
		revenue.Y = append(revenue.Y, row.TotalRevenue)
		transactions.X = append(transactions.X, row.PaymentMethod)
		transactions.Y = append(transactions.Y, float64(row.TransactionCount))
		avgValue.X = append(avgValue.X, row.PaymentMethod)
		avgValue.Y = append(avgValue.Y, row.AvgTransactionValue)
		revenuePct.X = append(revenuePct.X, row.PaymentMethod)
		revenuePct.Y = append(revenuePct.Y, row.RevenuePercentage)
		txPct.X = append(txPct.X, row.PaymentMethod)
		txPct.Y = append(txPct.Y, row.TransactionPercentage)
	}

	respondJSON(w, http.StatusOK, chartPayload{
		Title:  "Payment Methods Analysis",
		Series: []chartSeries{revenue, transactions, avgValue, revenuePct, txPct},
	})
}

func (s *Server) handleRegionalChart(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		respondUnavailable(w)
		return
	}

	perRegion := make(map[string]*chartSeries)
	overall := make(map[string]float64)
	var dates []string
	seenDates := make(map[string]bool)
	for _, row := range snap.Result.Tables.RegionalDailySales {
		d := row.InvoiceDate.String()
		series, ok := perRegion[row.Region]
		if !ok {
			series = &chartSeries{Name: row.Region}
			perRegion[row.Region] = series
		}
		series.X = append(series.X, d)
		series.Y = append(series.Y, row.TotalRevenue)
		overall[d] += row.TotalRevenue
		if !seenDates[d] {
			seenDates[d] = true
			dates = append(dates, d)
		}
	}

	payload := chartPayload{Title: "Regional Daily Sales Trends"}
	for _, region := range snap.Filters.Regions {
		if series, ok := perRegion[region]; ok {
			payload.Series = append(payload.Series, *series)
		}
	}
	overallSeries := chartSeries{Name: "Overall"}
	for _, d := range dates {
		overallSeries.X = append(overallSeries.X, d)
		overallSeries.Y = append(overallSeries.Y, overall[d])
	}
	payload.Series = append(payload.Series, overallSeries)

	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSegmentsChart(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		respondUnavailable(w)
		return
	}
	if len(snap.Result.RFM) == 0 {
		respondError(w, http.StatusServiceUnavailable, "rfm data unavailable")
		return
	}

	counts := make(map[string]int)
	for _, rec := range snap.Result.RFM {
		counts[rec.Segment]++
	}
	segments := chartSeries{Name: "Customer Segmentation"}
	for _, seg := range []string{
		model.SegmentChampions,
		model.SegmentLoyalCustomers,
		model.SegmentPotentialLoyalists,
		model.SegmentAtRiskCustomers,
		model.SegmentLostCustomers,
	} {
		segments.X = append(segments.X, seg)
		segments.Y = append(segments.Y, float64(counts[seg]))
	}

	respondJSON(w, http.StatusOK, chartPayload{
		Title:  "Customer Segmentation",
		Series: []chartSeries{segments},
	})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		respondUnavailable(w)
		return
	}

	switch chi.URLParam(r, "table") {
	case "mall_profitability":
		respondJSON(w, http.StatusOK, snap.Result.Tables.MallProfitability)
	case "category_profitability":
		respondJSON(w, http.StatusOK, snap.Result.Tables.CategoryProfitability)
	case "payment_analysis":
		respondJSON(w, http.StatusOK, snap.Result.Tables.PaymentAnalysis)
	case "rfm":
		if len(snap.Result.RFM) == 0 {
			respondError(w, http.StatusServiceUnavailable, "rfm data unavailable")
			return
		}
		respondJSON(w, http.StatusOK, snap.Result.RFM)
	default:
		respondError(w, http.StatusNotFound, "unknown table")
	}
}

// handleForecastPlot serves the stitched actual+forecast series for one
// (mall, region, category). An unknown combination is an empty result, not
// an error.
func (s *Server) handleForecastPlot(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		respondUnavailable(w)
		return
	}

	q := r.URL.Query()
	key := model.ForecastKey{
		ShoppingMall: q.Get("shopping_mall"),
		Region:       q.Get("region"),
		Category:     q.Get("category"),
	}
	if key.ShoppingMall == "" || key.Region == "" || key.Category == "" {
		respondError(w, http.StatusBadRequest, "shopping_mall, region, and category are required")
		return
	}

	combined := forecast.Window(key, snap.DailySeries[key], snap.ForecastsByKey[key])
	respondJSON(w, http.StatusOK, combined)
}
