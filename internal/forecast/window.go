package forecast

import "github.com/mallmetrics/analytics-cli/internal/model"

// actualWindowDays bounds the history shown next to a forecast.
const actualWindowDays = 365

// CombinedSeries stitches a group's recent actual history with its forecast
// for visualization. Both halves are keyed by date and date-sorted.
type CombinedSeries struct {
	Key      model.ForecastKey   `json:"key"`
	Actual   []model.SeriesPoint `json:"actual"`
	Forecast []model.SeriesPoint `json:"forecast"`
}

// Window filters the actual daily series to the most recent 365 days ending
// at the last actual date and pairs it with the group's forecast rows, which
// are already bounded to the horizon. Empty inputs yield empty halves; the
// caller treats that as "no data for this key", not an error.
func Window(key model.ForecastKey, actual []model.SeriesPoint, forecasts []model.ForecastRow) CombinedSeries {
	out := CombinedSeries{Key: key}

	if len(actual) > 0 {
		last := actual[len(actual)-1].Date
		cutoff := last.AddDays(-actualWindowDays)
		for _, p := range actual {
			if !p.Date.Before(cutoff) {
				out.Actual = append(out.Actual, p)
			}
		}
	}

	for _, r := range forecasts {
		if r.Key() == key {
			out.Forecast = append(out.Forecast, model.SeriesPoint{Date: r.ForecastDate, Value: r.ForecastedSales})
		}
	}
	return out
}
