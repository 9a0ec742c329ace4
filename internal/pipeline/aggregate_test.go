package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// toyRows is twelve Toys transactions at quantity 1, price 10, 10% discount:
// gross 120, discounts 12, net 108 in total.
func toyRows(t *testing.T) []model.EnrichedRow {
	t.Helper()
	var rows []model.CombinedRow
	for i := 0; i < 12; i++ {
		day := fmt.Sprintf("%02d-01-2023", i+1)
		rows = append(rows, combined(
			tx(fmt.Sprintf("I%d", i+1), fmt.Sprintf("C%d", i%4+1), "Kanyon", "Toys", "Cash", day, "10%", 1, 10),
			"Marmara",
		))
	}
	return enrich(t, rows)
}

func TestAggregateCategoryProfitability(t *testing.T) {
	agg := Aggregate(toyRows(t))

	require.Len(t, agg.CategoryProfitability, 1)
	row := agg.CategoryProfitability[0]
	assert.Equal(t, "Toys", row.Category)
	assert.InDelta(t, 120.0, row.TotalAmount, 1e-9)
	assert.InDelta(t, 12.0, row.DiscountAmount, 1e-9)
	assert.InDelta(t, 108.0, row.FinalAmount, 1e-9)
	assert.Equal(t, 12, row.Quantity)
	assert.InDelta(t, 88.89, row.ProfitMargin, 1e-9)
}

func TestAggregateMallProfitability(t *testing.T) {
	agg := Aggregate(toyRows(t))

	require.Len(t, agg.MallProfitability, 1)
	row := agg.MallProfitability[0]
	assert.Equal(t, "Kanyon", row.ShoppingMall)
	assert.Equal(t, "Marmara", row.Region)
	assert.InDelta(t, 120.0, row.GrossRevenue, 1e-9)
	assert.InDelta(t, 12.0, row.TotalDiscounts, 1e-9)
	assert.InDelta(t, 108.0, row.NetRevenue, 1e-9)
	assert.Equal(t, 12, row.TotalTransactions)
	assert.InDelta(t, 10.0, row.DiscountRate, 1e-9)
	assert.InDelta(t, 9.0, row.AvgTransactionValue, 1e-9)
	assert.InDelta(t, 9.0, row.RevenuePerUnit, 1e-9)
}

func TestAggregateIdempotent(t *testing.T) {
	rows := toyRows(t)
	assert.Equal(t, Aggregate(rows), Aggregate(rows))
}

func TestAggregatePaymentPercentagesSumToHundred(t *testing.T) {
	rows := enrich(t, []model.CombinedRow{
		combined(tx("I1", "C1", "Kanyon", "Clothing", "Cash", "01-01-2023", "0%", 1, 33.33), "Marmara"),
		combined(tx("I2", "C2", "Kanyon", "Clothing", "Credit Card", "02-01-2023", "0%", 2, 17.99), "Marmara"),
		combined(tx("I3", "C3", "Kanyon", "Shoes", "Debit Card", "03-01-2023", "5%", 1, 250), "Marmara"),
		combined(tx("I4", "C1", "Kanyon", "Shoes", "Cash", "04-01-2023", "15%", 3, 9.95), "Marmara"),
	})

	agg := Aggregate(rows)
	require.Len(t, agg.PaymentAnalysis, 3)

	var revenuePct, txPct float64
	for _, row := range agg.PaymentAnalysis {
		revenuePct += row.RevenuePercentage
		txPct += row.TransactionPercentage
	}
	assert.InDelta(t, 100.0, revenuePct, 0.1)
	assert.InDelta(t, 100.0, txPct, 0.1)
}

func TestAggregateSeasonalOrderIsCalendar(t *testing.T) {
	// One transaction per season, inserted out of calendar order.
	rows := enrich(t, []model.CombinedRow{
		combined(tx("I1", "C1", "Kanyon", "Clothing", "Cash", "15-12-2023", "0%", 1, 10), "Marmara"), // Winter
		combined(tx("I2", "C1", "Kanyon", "Clothing", "Cash", "15-07-2023", "0%", 1, 10), "Marmara"), // Summer
		combined(tx("I3", "C1", "Kanyon", "Clothing", "Cash", "15-04-2023", "0%", 1, 10), "Marmara"), // Spring
		combined(tx("I4", "C1", "Kanyon", "Clothing", "Cash", "15-10-2023", "0%", 1, 10), "Marmara"), // Fall
	})

	agg := Aggregate(rows)
	require.Len(t, agg.SeasonalTrends, 4)
	assert.Equal(t, model.Spring, agg.SeasonalTrends[0].Season)
	assert.Equal(t, model.Summer, agg.SeasonalTrends[1].Season)
	assert.Equal(t, model.Fall, agg.SeasonalTrends[2].Season)
	assert.Equal(t, model.Winter, agg.SeasonalTrends[3].Season)
}

func TestAggregateSeasonalSkipsAbsent(t *testing.T) {
	rows := enrich(t, []model.CombinedRow{
		combined(tx("I1", "C1", "Kanyon", "Clothing", "Cash", "15-07-2023", "0%", 1, 10), "Marmara"),
	})

	agg := Aggregate(rows)
	require.Len(t, agg.SeasonalTrends, 1)
	assert.Equal(t, model.Summer, agg.SeasonalTrends[0].Season)
}

func TestAggregateWeeklyOrderMondayFirst(t *testing.T) {
	// 02-01-2023 is a Monday; the week of 02..08 Jan covers all seven days.
	var in []model.CombinedRow
	for i := 0; i < 7; i++ {
		in = append(in, combined(
			tx(fmt.Sprintf("I%d", i+1), "C1", "Kanyon", "Clothing", "Cash", fmt.Sprintf("%02d-01-2023", i+2), "0%", 1, 10),
			"Marmara",
		))
	}

	agg := Aggregate(enrich(t, in))
	require.Len(t, agg.WeeklyPatterns, 7)
	for i, row := range agg.WeeklyPatterns {
		assert.Equal(t, i, row.Weekday)
		assert.Equal(t, model.WeekdayNames[i], row.WeekdayName)
	}
}

func TestAggregateDailySales(t *testing.T) {
	rows := enrich(t, []model.CombinedRow{
		combined(tx("I1", "C1", "Kanyon", "Clothing", "Cash", "02-01-2023", "0%", 2, 10), "Marmara"),
		combined(tx("I2", "C2", "Kanyon", "Shoes", "Cash", "02-01-2023", "0%", 1, 30), "Marmara"),
		combined(tx("I3", "C1", "Kanyon", "Clothing", "Cash", "01-01-2023", "0%", 1, 5), "Marmara"),
	})

	agg := Aggregate(rows)
	require.Len(t, agg.DailySales, 2)

	// Sorted by date ascending.
	assert.Equal(t, "2023-01-01", agg.DailySales[0].InvoiceDate.String())
	assert.Equal(t, "2023-01-02", agg.DailySales[1].InvoiceDate.String())

	jan2 := agg.DailySales[1]
	assert.InDelta(t, 50.0, jan2.TotalRevenue, 1e-9)
	assert.Equal(t, 2, jan2.TransactionCount)
	assert.InDelta(t, 25.0, jan2.AvgTransactionValue, 1e-9)
	assert.Equal(t, 3, jan2.TotalQuantity)
	assert.Equal(t, 2, jan2.UniqueCustomers)
	assert.InDelta(t, 25.0, jan2.RevenuePerCustomer, 1e-9)
}

func TestAggregateRegionalDailyCountsActiveMalls(t *testing.T) {
	rows := enrich(t, []model.CombinedRow{
		combined(tx("I1", "C1", "Kanyon", "Clothing", "Cash", "02-01-2023", "0%", 1, 10), "Marmara"),
		combined(tx("I2", "C2", "Zorlu", "Clothing", "Cash", "02-01-2023", "0%", 1, 10), "Marmara"),
		combined(tx("I3", "C3", "Forum Bornova", "Clothing", "Cash", "02-01-2023", "0%", 1, 10), "Aegean"),
	})

	agg := Aggregate(rows)
	require.Len(t, agg.RegionalDailySales, 2)
	// Same date: regions sort ascending.
	assert.Equal(t, "Aegean", agg.RegionalDailySales[0].Region)
	assert.Equal(t, 1, agg.RegionalDailySales[0].ActiveMalls)
	assert.Equal(t, "Marmara", agg.RegionalDailySales[1].Region)
	assert.Equal(t, 2, agg.RegionalDailySales[1].ActiveMalls)
}

func TestAggregateMonthlyAndQuarterlyTrends(t *testing.T) {
	rows := enrich(t, []model.CombinedRow{
		combined(tx("I1", "C1", "Kanyon", "Clothing", "Cash", "15-01-2023", "0%", 1, 10), "Marmara"),
		combined(tx("I2", "C1", "Kanyon", "Clothing", "Cash", "15-02-2023", "0%", 1, 20), "Marmara"),
		combined(tx("I3", "C1", "Kanyon", "Clothing", "Cash", "15-04-2023", "0%", 1, 40), "Marmara"),
	})

	agg := Aggregate(rows)
	require.Len(t, agg.MonthlyTrends, 3)
	assert.Equal(t, "2023-01", agg.MonthlyTrends[0].YearMonth)
	assert.Equal(t, "2023-02", agg.MonthlyTrends[1].YearMonth)
	assert.Equal(t, "2023-04", agg.MonthlyTrends[2].YearMonth)

	require.Len(t, agg.QuarterlyTrends, 2)
	assert.Equal(t, 1, agg.QuarterlyTrends[0].Quarter)
	assert.InDelta(t, 30.0, agg.QuarterlyTrends[0].TotalRevenue, 1e-9)
	assert.Equal(t, 2, agg.QuarterlyTrends[1].Quarter)
	assert.InDelta(t, 40.0, agg.QuarterlyTrends[1].TotalRevenue, 1e-9)
}

func TestAggregatePaymentBreakdowns(t *testing.T) {
	rows := enrich(t, []model.CombinedRow{
		combined(tx("I1", "C1", "Kanyon", "Clothing", "Cash", "15-01-2023", "0%", 1, 10), "Marmara"),
		combined(tx("I2", "C2", "Forum Bornova", "Shoes", "Credit Card", "15-01-2023", "0%", 1, 20), "Aegean"),
		combined(tx("I3", "C3", "Kanyon", "Clothing", "Credit Card", "15-02-2023", "0%", 1, 30), "Marmara"),
	})

	agg := Aggregate(rows)

	require.Len(t, agg.PaymentByRegion, 3)
	assert.Equal(t, "Aegean", agg.PaymentByRegion[0].Region)
	assert.Equal(t, "Credit Card", agg.PaymentByRegion[0].PaymentMethod)

	require.Len(t, agg.PaymentByCategory, 3)
	assert.Equal(t, "Clothing", agg.PaymentByCategory[0].Category)
	assert.Equal(t, "Cash", agg.PaymentByCategory[0].PaymentMethod)

	require.Len(t, agg.PaymentTrends, 3)
	assert.Equal(t, 1, agg.PaymentTrends[0].Month)
	assert.Equal(t, 2, agg.PaymentTrends[2].Month)
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := Aggregate(nil)
	assert.Empty(t, agg.DailySales)
	assert.Empty(t, agg.MallProfitability)
	assert.Empty(t, agg.SeasonalTrends)
	assert.Empty(t, agg.PaymentAnalysis)
}
