// Package export serializes the derived tables to CSV files and the summary
// report to text.
package export

import (
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/pipeline"
)

// Output file names, one per derived table.
const (
	CombinedDataFile          = "combined_data.csv"
	DailySalesFile            = "daily_sales.csv"
	RegionalDailySalesFile    = "regional_daily_sales.csv"
	MallProfitabilityFile     = "mall_profitability.csv"
	CategoryProfitabilityFile = "category_profitability.csv"
	MonthlyTrendsFile         = "monthly_trends.csv"
	SeasonalTrendsFile        = "seasonal_trends.csv"
	QuarterlyTrendsFile       = "quarterly_trends.csv"
	WeeklyPatternsFile        = "weekly_patterns.csv"
	PaymentAnalysisFile       = "payment_analysis.csv"
	PaymentByRegionFile       = "payment_by_region.csv"
	PaymentByCategoryFile     = "payment_by_category.csv"
	PaymentTrendsFile         = "payment_trends.csv"
	RFMAnalysisFile           = "rfm_analysis.csv"
	SalesForecastFile         = "sales_forecast.csv"
	SummaryReportFile         = "summary_report.txt"
)

// WriteAll writes every derived table and the summary report into dir,
// creating it if needed.
func WriteAll(dir string, res *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create output dir %s", dir)
	}

	if err := writeCSV(dir, CombinedDataFile, res.Enriched); err != nil {
		return err
	}
	if err := writeCSV(dir, DailySalesFile, res.Tables.DailySales); err != nil {
		return err
	}
	if err := writeCSV(dir, RegionalDailySalesFile, res.Tables.RegionalDailySales); err != nil {
		return err
	}
	if err := writeCSV(dir, MallProfitabilityFile, res.Tables.MallProfitability); err != nil {
		return err
	}
	if err := writeCSV(dir, CategoryProfitabilityFile, res.Tables.CategoryProfitability); err != nil {
		return err
	}
	if err := writeCSV(dir, MonthlyTrendsFile, res.Tables.MonthlyTrends); err != nil {
		return err
	}
	if err := writeCSV(dir, SeasonalTrendsFile, res.Tables.SeasonalTrends); err != nil {
		return err
	}
	if err := writeCSV(dir, QuarterlyTrendsFile, res.Tables.QuarterlyTrends); err != nil {
		return err
	}
	if err := writeCSV(dir, WeeklyPatternsFile, res.Tables.WeeklyPatterns); err != nil {
		return err
	}
	if err := writeCSV(dir, PaymentAnalysisFile, res.Tables.PaymentAnalysis); err != nil {
		return err
	}
	if err := writeCSV(dir, PaymentByRegionFile, res.Tables.PaymentByRegion); err != nil {
		return err
	}
	if err := writeCSV(dir, PaymentByCategoryFile, res.Tables.PaymentByCategory); err != nil {
		return err
	}
	if err := writeCSV(dir, PaymentTrendsFile, res.Tables.PaymentTrends); err != nil {
		return err
	}
	if err := writeCSV(dir, RFMAnalysisFile, res.RFM); err != nil {
		return err
	}
	if err := writeCSV(dir, SalesForecastFile, res.Forecasts); err != nil {
		return err
	}

	report := filepath.Join(dir, SummaryReportFile)
	if err := os.WriteFile(report, []byte(res.Summary.Render()), 0o644); err != nil {
		return eris.Wrap(err, "export: write summary report")
	}
	zap.L().Info("export: saved", zap.String("file", SummaryReportFile))

	return nil
}

// WriteTable writes a single derived table into dir, creating it if needed.
func WriteTable[T any](dir, name string, rows []T) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create output dir %s", dir)
	}
	return writeCSV(dir, name, rows)
}

// writeCSV marshals typed rows to a headered CSV file. An empty table still
// gets its header row.
func writeCSV[T any](dir, name string, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrapf(err, "export: marshal %s", name)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", name)
	}
	zap.L().Info("export: saved", zap.String("file", name), zap.Int("rows", len(rows)))
	return nil
}
