package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// DataOverview summarizes the combined dataset.
type DataOverview struct {
	TotalRecords      int     `json:"total_records"`
	DateRange         string  `json:"date_range"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalTransactions int     `json:"total_transactions"`
	UniqueCustomers   int     `json:"unique_customers"`
	UniqueMalls       int     `json:"unique_malls"`
	UniqueRegions     int     `json:"unique_regions"`
}

// TopPerformers names the revenue and volume leaders.
type TopPerformers struct {
	TopMallByRevenue         string `json:"top_mall_by_revenue"`
	TopRegionByRevenue       string `json:"top_region_by_revenue"`
	TopCategoryByRevenue     string `json:"top_category_by_revenue"`
	MostPopularPaymentMethod string `json:"most_popular_payment_method"`
}

// SeasonalInsights names the strongest season, weekday, and month.
type SeasonalInsights struct {
	BestSeason  string `json:"best_season"`
	BestWeekday string `json:"best_weekday"`
	PeakMonth   string `json:"peak_month"`
}

// SummaryReport is the textual summary exported beside the derived tables.
type SummaryReport struct {
	DataOverview     DataOverview     `json:"data_overview"`
	TopPerformers    TopPerformers    `json:"top_performers"`
	SeasonalInsights SeasonalInsights `json:"seasonal_insights"`
}

// BuildSummary derives the summary report from the enriched rows and the
// already-computed aggregate tables.
func BuildSummary(rows []model.EnrichedRow, agg *Aggregates) *SummaryReport {
	r := &SummaryReport{}

	customers := make(map[string]struct{})
	malls := make(map[string]struct{})
	regions := make(map[string]struct{})
	var revenue float64
	var minDate, maxDate model.Date
	for i, row := range rows {
		customers[row.CustomerID] = struct{}{}
		malls[row.ShoppingMall] = struct{}{}
		regions[row.Region] = struct{}{}
		revenue += row.NetAmount
		if i == 0 || row.Date.Before(minDate) {
			minDate = row.Date
		}
		if i == 0 || maxDate.Before(row.Date) {
			maxDate = row.Date
		}
	}

	r.DataOverview = DataOverview{
		TotalRecords:      len(rows),
		TotalRevenue:      round2(revenue),
		TotalTransactions: len(rows),
		UniqueCustomers:   len(customers),
		UniqueMalls:       len(malls),
		UniqueRegions:     len(regions),
	}
	if len(rows) > 0 {
		r.DataOverview.DateRange = fmt.Sprintf("%s to %s", minDate, maxDate)
	}

	var bestMall string
	var bestMallRevenue float64
	regionRevenue := make(map[string]float64)
	for _, row := range agg.MallProfitability {
		if bestMall == "" || row.NetRevenue > bestMallRevenue {
			bestMall, bestMallRevenue = row.ShoppingMall, row.NetRevenue
		}
		regionRevenue[row.Region] += row.NetRevenue
	}
	var bestRegion string
	var bestRegionRevenue float64
	for region, rev := range regionRevenue {
		if bestRegion == "" || rev > bestRegionRevenue || (rev == bestRegionRevenue && region < bestRegion) {
			bestRegion, bestRegionRevenue = region, rev
		}
	}
	var bestCategory string
	var bestCategoryRevenue float64
	for _, row := range agg.CategoryProfitability {
		if bestCategory == "" || row.FinalAmount > bestCategoryRevenue {
			bestCategory, bestCategoryRevenue = row.Category, row.FinalAmount
		}
	}
	var topMethod string
	var topMethodCount int
	for _, row := range agg.PaymentAnalysis {
		if topMethod == "" || row.TransactionCount > topMethodCount {
			topMethod, topMethodCount = row.PaymentMethod, row.TransactionCount
		}
	}
	r.TopPerformers = TopPerformers{
		TopMallByRevenue:         bestMall,
		TopRegionByRevenue:       bestRegion,
		TopCategoryByRevenue:     bestCategory,
		MostPopularPaymentMethod: topMethod,
	}

	var bestSeason string
	var bestSeasonRevenue float64
	for _, row := range agg.SeasonalTrends {
		if bestSeason == "" || row.TotalRevenue > bestSeasonRevenue {
			bestSeason, bestSeasonRevenue = string(row.Season), row.TotalRevenue
		}
	}
	var bestWeekday string
	var bestWeekdayRevenue float64
	for _, row := range agg.WeeklyPatterns {
		if bestWeekday == "" || row.TotalRevenue > bestWeekdayRevenue {
			bestWeekday, bestWeekdayRevenue = row.WeekdayName, row.TotalRevenue
		}
	}
	var peakMonth string
	var peakMonthRevenue float64
	for _, row := range agg.MonthlyTrends {
		if peakMonth == "" || row.TotalRevenue > peakMonthRevenue {
			peakMonth, peakMonthRevenue = row.YearMonth, row.TotalRevenue
		}
	}
	r.SeasonalInsights = SeasonalInsights{
		BestSeason:  bestSeason,
		BestWeekday: bestWeekday,
		PeakMonth:   peakMonth,
	}

	return r
}

// Render formats the report in the fixed SECTION/key/value layout used by
// the exported summary_report.txt.
func (r *SummaryReport) Render() string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("Retail Analytics Pipeline Summary Report\n")
	b.WriteString("=========================================\n\n")

	b.WriteString("DATA_OVERVIEW:\n")
	p.Fprintf(&b, "  total_records: %d\n", r.DataOverview.TotalRecords)
	fmt.Fprintf(&b, "  date_range: %s\n", r.DataOverview.DateRange)
	p.Fprintf(&b, "  total_revenue: %.2f\n", r.DataOverview.TotalRevenue)
	p.Fprintf(&b, "  total_transactions: %d\n", r.DataOverview.TotalTransactions)
	p.Fprintf(&b, "  unique_customers: %d\n", r.DataOverview.UniqueCustomers)
	p.Fprintf(&b, "  unique_malls: %d\n", r.DataOverview.UniqueMalls)
	p.Fprintf(&b, "  unique_regions: %d\n", r.DataOverview.UniqueRegions)
	b.WriteString("\n")

	b.WriteString("TOP_PERFORMERS:\n")
	fmt.Fprintf(&b, "  top_mall_by_revenue: %s\n", r.TopPerformers.TopMallByRevenue)
	fmt.Fprintf(&b, "  top_region_by_revenue: %s\n", r.TopPerformers.TopRegionByRevenue)
	fmt.Fprintf(&b, "  top_category_by_revenue: %s\n", r.TopPerformers.TopCategoryByRevenue)
	fmt.Fprintf(&b, "  most_popular_payment_method: %s\n", r.TopPerformers.MostPopularPaymentMethod)
	b.WriteString("\n")

	b.WriteString("SEASONAL_INSIGHTS:\n")
	fmt.Fprintf(&b, "  best_season: %s\n", r.SeasonalInsights.BestSeason)
	fmt.Fprintf(&b, "  best_weekday: %s\n", r.SeasonalInsights.BestWeekday)
	fmt.Fprintf(&b, "  peak_month: %s\n", r.SeasonalInsights.PeakMonth)

	return b.String()
}
