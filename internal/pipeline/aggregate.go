package pipeline

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// Aggregates bundles every derived table computed from one preprocessed
// run. Pure derived data: recomputed wholesale, never updated incrementally.
type Aggregates struct {
	DailySales            []model.DailySalesRow
	RegionalDailySales    []model.RegionalDailySalesRow
	MallProfitability     []model.MallProfitabilityRow
	CategoryProfitability []model.CategoryProfitabilityRow
	MonthlyTrends         []model.MonthlyTrendRow
	SeasonalTrends        []model.SeasonalTrendRow
	QuarterlyTrends       []model.QuarterlyTrendRow
	WeeklyPatterns        []model.WeeklyPatternRow
	PaymentAnalysis       []model.PaymentAnalysisRow
	PaymentByRegion       []model.PaymentByRegionRow
	PaymentByCategory     []model.PaymentByCategoryRow
	PaymentTrends         []model.PaymentTrendRow
}

// groupAcc accumulates the per-group sums every aggregation derives its
// metrics from. Ratio metrics are always computed from these sums, never by
// averaging per-row ratios.
type groupAcc struct {
	gross     float64
	discounts float64
	net       float64
	quantity  int
	count     int
	customers map[string]struct{}
	malls     map[string]struct{}
}

func newGroupAcc() *groupAcc {
	return &groupAcc{
		customers: make(map[string]struct{}),
		malls:     make(map[string]struct{}),
	}
}

func (a *groupAcc) add(r model.EnrichedRow) {
	a.gross += r.GrossAmount
	a.discounts += r.DiscountAmount
	a.net += r.NetAmount
	a.quantity += r.Quantity
	a.count++
	a.customers[r.CustomerID] = struct{}{}
	a.malls[r.ShoppingMall] = struct{}{}
}

// meanNet is the mean net amount per transaction in the group.
func (a *groupAcc) meanNet() float64 {
	if a.count == 0 {
		return 0
	}
	return round2(a.net / float64(a.count))
}

// accumulate groups rows under comparable keys.
func accumulate[K comparable](rows []model.EnrichedRow, keyOf func(model.EnrichedRow) K) map[K]*groupAcc {
	groups := make(map[K]*groupAcc)
	for _, r := range rows {
		k := keyOf(r)
		acc, ok := groups[k]
		if !ok {
			acc = newGroupAcc()
			groups[k] = acc
		}
		acc.add(r)
	}
	return groups
}

// sortedKeys returns the group keys in ascending order under less.
func sortedKeys[K comparable](groups map[K]*groupAcc, less func(a, b K) bool) []K {
	keys := make([]K, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}

// Aggregate computes all twelve derived tables from the enriched rows. It is
// a pure function: the same input always yields identical tables.
func Aggregate(rows []model.EnrichedRow) *Aggregates {
	agg := &Aggregates{
		DailySales:            dailySales(rows),
		RegionalDailySales:    regionalDailySales(rows),
		MallProfitability:     mallProfitability(rows),
		CategoryProfitability: categoryProfitability(rows),
		MonthlyTrends:         monthlyTrends(rows),
		SeasonalTrends:        seasonalTrends(rows),
		QuarterlyTrends:       quarterlyTrends(rows),
		WeeklyPatterns:        weeklyPatterns(rows),
		PaymentAnalysis:       paymentAnalysis(rows),
		PaymentByRegion:       paymentByRegion(rows),
		PaymentByCategory:     paymentByCategory(rows),
		PaymentTrends:         paymentTrends(rows),
	}

	zap.L().Info("aggregate: derived tables computed",
		zap.Int("daily_sales", len(agg.DailySales)),
		zap.Int("mall_profitability", len(agg.MallProfitability)),
		zap.Int("category_profitability", len(agg.CategoryProfitability)),
		zap.Int("payment_methods", len(agg.PaymentAnalysis)),
	)
	return agg
}

type dailyKey struct {
	date   model.Date
	mall   string
	region string
}

func dailySales(rows []model.EnrichedRow) []model.DailySalesRow {
	groups := accumulate(rows, func(r model.EnrichedRow) dailyKey {
		return dailyKey{date: r.Date, mall: r.ShoppingMall, region: r.Region}
	})

	keys := sortedKeys(groups, func(a, b dailyKey) bool {
		if !a.date.Time().Equal(b.date.Time()) {
			return a.date.Before(b.date)
		}
		if a.mall != b.mall {
			return a.mall < b.mall
		}
		return a.region < b.region
	})

	out := make([]model.DailySalesRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		out = append(out, model.DailySalesRow{
			InvoiceDate:         k.date,
			ShoppingMall:        k.mall,
			Region:              k.region,
			TotalRevenue:        round2(acc.net),
			TransactionCount:    acc.count,
			AvgTransactionValue: acc.meanNet(),
			TotalQuantity:       acc.quantity,
			UniqueCustomers:     len(acc.customers),
			RevenuePerCustomer:  round2(acc.net / float64(len(acc.customers))),
		})
	}
	return out
}

type regionalDailyKey struct {
	date   model.Date
	region string
}

func regionalDailySales(rows []model.EnrichedRow) []model.RegionalDailySalesRow {
	groups := accumulate(rows, func(r model.EnrichedRow) regionalDailyKey {
		return regionalDailyKey{date: r.Date, region: r.Region}
	})

	keys := sortedKeys(groups, func(a, b regionalDailyKey) bool {
		if !a.date.Time().Equal(b.date.Time()) {
			return a.date.Before(b.date)
		}
		return a.region < b.region
	})

	out := make([]model.RegionalDailySalesRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		out = append(out, model.RegionalDailySalesRow{
			InvoiceDate:         k.date,
			Region:              k.region,
			TotalRevenue:        round2(acc.net),
			TransactionCount:    acc.count,
			AvgTransactionValue: acc.meanNet(),
			TotalQuantity:       acc.quantity,
			UniqueCustomers:     len(acc.customers),
			ActiveMalls:         len(acc.malls),
		})
	}
	return out
}

type mallKey struct {
	mall   string
	region string
}

func mallProfitability(rows []model.EnrichedRow) []model.MallProfitabilityRow {
	groups := accumulate(rows, func(r model.EnrichedRow) mallKey {
		return mallKey{mall: r.ShoppingMall, region: r.Region}
	})

	keys := sortedKeys(groups, func(a, b mallKey) bool {
		if a.mall != b.mall {
			return a.mall < b.mall
		}
		return a.region < b.region
	})

	out := make([]model.MallProfitabilityRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		row := model.MallProfitabilityRow{
			ShoppingMall:        k.mall,
			Region:              k.region,
			GrossRevenue:        round2(acc.gross),
			TotalDiscounts:      round2(acc.discounts),
			NetRevenue:          round2(acc.net),
			TotalQuantity:       acc.quantity,
			TotalTransactions:   acc.count,
			AvgTransactionValue: acc.meanNet(),
		}
		if acc.gross != 0 {
			row.DiscountRate = round2(acc.discounts / acc.gross * 100)
		}
		if acc.quantity != 0 {
			row.RevenuePerUnit = round2(acc.net / float64(acc.quantity))
		}
		out = append(out, row)
	}
	return out
}

func categoryProfitability(rows []model.EnrichedRow) []model.CategoryProfitabilityRow {
	groups := accumulate(rows, func(r model.EnrichedRow) string { return r.Category })

	keys := sortedKeys(groups, func(a, b string) bool { return a < b })

	out := make([]model.CategoryProfitabilityRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		row := model.CategoryProfitabilityRow{
			Category:       k,
			TotalAmount:    round2(acc.gross),
			DiscountAmount: round2(acc.discounts),
			FinalAmount:    round2(acc.net),
			Quantity:       acc.quantity,
		}
		if acc.net != 0 {
			row.ProfitMargin = round2((acc.net - acc.discounts) / acc.net * 100)
		}
		out = append(out, row)
	}
	return out
}

type yearMonthKey struct {
	year  int
	month int
}

func monthlyTrends(rows []model.EnrichedRow) []model.MonthlyTrendRow {
	groups := accumulate(rows, func(r model.EnrichedRow) yearMonthKey {
		return yearMonthKey{year: r.Year, month: r.Month}
	})

	keys := sortedKeys(groups, func(a, b yearMonthKey) bool {
		if a.year != b.year {
			return a.year < b.year
		}
		return a.month < b.month
	})

	out := make([]model.MonthlyTrendRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		out = append(out, model.MonthlyTrendRow{
			Year:              k.year,
			Month:             k.month,
			TotalRevenue:      round2(acc.net),
			TotalQuantity:     acc.quantity,
			TotalTransactions: acc.count,
			YearMonth:         fmt.Sprintf("%d-%02d", k.year, k.month),
		})
	}
	return out
}

func seasonalTrends(rows []model.EnrichedRow) []model.SeasonalTrendRow {
	groups := accumulate(rows, func(r model.EnrichedRow) model.Season { return r.Season })

	// Fixed calendar order, never alphabetical or by magnitude.
	out := make([]model.SeasonalTrendRow, 0, len(groups))
	for _, season := range model.Seasons {
		acc, ok := groups[season]
		if !ok {
			continue
		}
		out = append(out, model.SeasonalTrendRow{
			Season:            season,
			TotalRevenue:      round2(acc.net),
			AvgRevenue:        acc.meanNet(),
			TotalQuantity:     acc.quantity,
			TotalTransactions: acc.count,
		})
	}
	return out
}

type yearQuarterKey struct {
	year    int
	quarter int
}

func quarterlyTrends(rows []model.EnrichedRow) []model.QuarterlyTrendRow {
	groups := accumulate(rows, func(r model.EnrichedRow) yearQuarterKey {
		return yearQuarterKey{year: r.Year, quarter: r.Quarter}
	})

	keys := sortedKeys(groups, func(a, b yearQuarterKey) bool {
		if a.year != b.year {
			return a.year < b.year
		}
		return a.quarter < b.quarter
	})

	out := make([]model.QuarterlyTrendRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		out = append(out, model.QuarterlyTrendRow{
			Year:              k.year,
			Quarter:           k.quarter,
			TotalRevenue:      round2(acc.net),
			TotalQuantity:     acc.quantity,
			TotalTransactions: acc.count,
		})
	}
	return out
}

func weeklyPatterns(rows []model.EnrichedRow) []model.WeeklyPatternRow {
	groups := accumulate(rows, func(r model.EnrichedRow) int { return r.Weekday })

	// Fixed Monday..Sunday order.
	out := make([]model.WeeklyPatternRow, 0, len(groups))
	for wd := 0; wd < len(model.WeekdayNames); wd++ {
		acc, ok := groups[wd]
		if !ok {
			continue
		}
		out = append(out, model.WeeklyPatternRow{
			Weekday:           wd,
			WeekdayName:       model.WeekdayNames[wd],
			TotalRevenue:      round2(acc.net),
			AvgRevenue:        acc.meanNet(),
			TotalTransactions: acc.count,
		})
	}
	return out
}

func paymentAnalysis(rows []model.EnrichedRow) []model.PaymentAnalysisRow {
	groups := accumulate(rows, func(r model.EnrichedRow) string { return r.PaymentMethod })

	keys := sortedKeys(groups, func(a, b string) bool { return a < b })

	// Grand totals across all methods; each method's share must sum to ~100.
	var totalRevenue float64
	var totalTransactions int
	for _, acc := range groups {
		totalRevenue += acc.net
		totalTransactions += acc.count
	}

	out := make([]model.PaymentAnalysisRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		row := model.PaymentAnalysisRow{
			PaymentMethod:       k,
			TotalRevenue:        round2(acc.net),
			AvgTransactionValue: acc.meanNet(),
			TransactionCount:    acc.count,
			TotalQuantity:       acc.quantity,
			UniqueCustomers:     len(acc.customers),
		}
		if totalRevenue != 0 {
			row.RevenuePercentage = round2(acc.net / totalRevenue * 100)
		}
		if totalTransactions != 0 {
			row.TransactionPercentage = round2(float64(acc.count) / float64(totalTransactions) * 100)
		}
		out = append(out, row)
	}
	return out
}

type regionMethodKey struct {
	region string
	method string
}

func paymentByRegion(rows []model.EnrichedRow) []model.PaymentByRegionRow {
	groups := accumulate(rows, func(r model.EnrichedRow) regionMethodKey {
		return regionMethodKey{region: r.Region, method: r.PaymentMethod}
	})

	keys := sortedKeys(groups, func(a, b regionMethodKey) bool {
		if a.region != b.region {
			return a.region < b.region
		}
		return a.method < b.method
	})

	out := make([]model.PaymentByRegionRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		out = append(out, model.PaymentByRegionRow{
			Region:           k.region,
			PaymentMethod:    k.method,
			TotalRevenue:     round2(acc.net),
			TransactionCount: acc.count,
		})
	}
	return out
}

type categoryMethodKey struct {
	category string
	method   string
}

func paymentByCategory(rows []model.EnrichedRow) []model.PaymentByCategoryRow {
	groups := accumulate(rows, func(r model.EnrichedRow) categoryMethodKey {
		return categoryMethodKey{category: r.Category, method: r.PaymentMethod}
	})

	keys := sortedKeys(groups, func(a, b categoryMethodKey) bool {
		if a.category != b.category {
			return a.category < b.category
		}
		return a.method < b.method
	})

	out := make([]model.PaymentByCategoryRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		out = append(out, model.PaymentByCategoryRow{
			Category:         k.category,
			PaymentMethod:    k.method,
			TotalRevenue:     round2(acc.net),
			TransactionCount: acc.count,
		})
	}
	return out
}

type monthMethodKey struct {
	year   int
	month  int
	method string
}

func paymentTrends(rows []model.EnrichedRow) []model.PaymentTrendRow {
	groups := accumulate(rows, func(r model.EnrichedRow) monthMethodKey {
		return monthMethodKey{year: r.Year, month: r.Month, method: r.PaymentMethod}
	})

	keys := sortedKeys(groups, func(a, b monthMethodKey) bool {
		if a.year != b.year {
			return a.year < b.year
		}
		if a.month != b.month {
			return a.month < b.month
		}
		return a.method < b.method
	})

	out := make([]model.PaymentTrendRow, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		out = append(out, model.PaymentTrendRow{
			Year:             k.year,
			Month:            k.month,
			PaymentMethod:    k.method,
			TotalRevenue:     round2(acc.net),
			TransactionCount: acc.count,
		})
	}
	return out
}
