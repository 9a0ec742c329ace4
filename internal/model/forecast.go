package model

// ForecastKey identifies one forecastable series.
type ForecastKey struct {
	ShoppingMall string `json:"shopping_mall"`
	Region       string `json:"region"`
	Category     string `json:"category"`
}

// ForecastRow is one forecasted day for a (mall, region, category) series.
// ForecastedSales is floored at zero.
type ForecastRow struct {
	ShoppingMall    string  `csv:"shopping_mall" json:"shopping_mall"`
	Region          string  `csv:"Region" json:"region"`
	Category        string  `csv:"category" json:"category"`
	ForecastDate    Date    `csv:"forecast_date" json:"forecast_date"`
	ForecastedSales float64 `csv:"forecasted_sales" json:"forecasted_sales"`
}

// Key returns the series key of the row.
func (r ForecastRow) Key() ForecastKey {
	return ForecastKey{ShoppingMall: r.ShoppingMall, Region: r.Region, Category: r.Category}
}

// SeriesPoint is one day of an observed or predicted daily sales series.
type SeriesPoint struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
}
