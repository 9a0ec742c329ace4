// Package forecast prepares per-group daily sales series, runs them through
// a pluggable time-series model, and sanitizes the predictions into the
// persisted forecast table.
package forecast

import (
	"context"
	"math"

	"github.com/rotisserie/eris"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// Forecaster fits a daily series and returns a model ready to predict. Any
// curve-fitting implementation with this shape can be swapped in without
// touching the adapter's reshaping logic.
type Forecaster interface {
	Fit(ctx context.Context, series []model.SeriesPoint) (Model, error)
}

// Model predicts a fixed horizon of daily values starting the day after the
// last fitted observation.
type Model interface {
	Predict(horizonDays int) []model.SeriesPoint
}

// Config tunes the default smoothing model. Zero values fall back to
// DefaultConfig.
type Config struct {
	SeasonalityMode  string  // "multiplicative" or "additive"
	WeeklyPeriod     int     // days per weekly cycle
	MonthlyPeriod    float64 // days per ~monthly cycle
	TrendFlexibility float64 // trend smoothing factor
	HolidayCountry   string  // key into the holiday calendar
}

// DefaultConfig mirrors the seasonality setup the forecast table was
// originally produced with: multiplicative weekly + ~monthly components and
// the Turkish holiday calendar.
func DefaultConfig() Config {
	return Config{
		SeasonalityMode:  "multiplicative",
		WeeklyPeriod:     7,
		MonthlyPeriod:    30.5,
		TrendFlexibility: 0.1,
		HolidayCountry:   "TR",
	}
}

// holidayCalendars maps a country code to its fixed-date national holidays
// (MM-DD).
var holidayCalendars = map[string][]string{
	"TR": {"01-01", "04-23", "05-01", "05-19", "07-15", "08-30", "10-29"},
}

const levelSmoothing = 0.3

// Smoother is the default Forecaster: damped-trend exponential smoothing
// with weekly, ~monthly, and yearly seasonal indices plus a holiday effect.
type Smoother struct {
	cfg Config
}

// NewSmoother builds a Smoother, filling zero config fields from
// DefaultConfig.
func NewSmoother(cfg Config) *Smoother {
	def := DefaultConfig()
	if cfg.SeasonalityMode == "" {
		cfg.SeasonalityMode = def.SeasonalityMode
	}
	if cfg.WeeklyPeriod == 0 {
		cfg.WeeklyPeriod = def.WeeklyPeriod
	}
	if cfg.MonthlyPeriod == 0 {
		cfg.MonthlyPeriod = def.MonthlyPeriod
	}
	if cfg.TrendFlexibility == 0 {
		cfg.TrendFlexibility = def.TrendFlexibility
	}
	if cfg.HolidayCountry == "" {
		cfg.HolidayCountry = def.HolidayCountry
	}
	return &Smoother{cfg: cfg}
}

// Fit estimates level, trend, and seasonal indices from the series. The
// series must be date-sorted. Fails on fewer than two points or a series
// with no variance (a degenerate fit). Honors ctx cancellation between
// passes so a wall-clock budget can be enforced by the caller.
func (s *Smoother) Fit(ctx context.Context, series []model.SeriesPoint) (Model, error) {
	if len(series) < 2 {
		return nil, eris.New("smoother: series too short to fit")
	}

	var mean float64
	for _, p := range series {
		mean += p.Value
	}
	mean /= float64(len(series))

	variance := 0.0
	for _, p := range series {
		d := p.Value - mean
		variance += d * d
	}
	if variance == 0 {
		return nil, eris.New("smoother: series has no variance")
	}

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "smoother: fit cancelled")
	}

	// Exponential smoothing pass for level and trend.
	level := series[0].Value
	trend := series[1].Value - series[0].Value
	alpha := levelSmoothing
	beta := s.cfg.TrendFlexibility
	for _, p := range series[1:] {
		prevLevel := level
		level = alpha*p.Value + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "smoother: fit cancelled")
	}

	m := &smoothedModel{
		cfg:      s.cfg,
		lastDate: series[len(series)-1].Date,
		level:    level,
		trend:    trend,
		weekly:   seasonalIndex(series, mean, s.cfg.WeeklyPeriod, weeklyPhase),
		monthly: seasonalIndex(series, mean, int(math.Round(s.cfg.MonthlyPeriod)), func(d model.Date, period int) int {
			return (d.Time().Day() - 1) % period
		}),
		yearly:  seasonalIndex(series, mean, 12, yearlyPhase),
		holiday: holidayEffect(series, mean, holidayCalendars[s.cfg.HolidayCountry]),
	}
	return m, nil
}

func weeklyPhase(d model.Date, period int) int {
	return model.WeekdayIndex(d.Time().Weekday()) % period
}

func yearlyPhase(d model.Date, _ int) int {
	return int(d.Time().Month()) - 1
}

// seasonalIndex computes the mean value-to-mean ratio per cycle phase.
// Phases without observations keep a neutral index of 1.
func seasonalIndex(series []model.SeriesPoint, mean float64, period int, phase func(model.Date, int) int) []float64 {
	sums := make([]float64, period)
	counts := make([]int, period)
	for _, p := range series {
		i := phase(p.Date, period)
		sums[i] += p.Value
		counts[i]++
	}

	idx := make([]float64, period)
	for i := range idx {
		if counts[i] == 0 || mean == 0 {
			idx[i] = 1
			continue
		}
		idx[i] = (sums[i] / float64(counts[i])) / mean
	}
	return idx
}

// holidayEffect is the mean value-to-mean ratio across observed holidays,
// neutral when the series covers none.
func holidayEffect(series []model.SeriesPoint, mean float64, holidays []string) float64 {
	if mean == 0 || len(holidays) == 0 {
		return 1
	}
	dates := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		dates[h] = true
	}

	var sum float64
	var n int
	for _, p := range series {
		if dates[p.Date.Time().Format("01-02")] {
			sum += p.Value
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return (sum / float64(n)) / mean
}

// smoothedModel is a fitted Smoother ready to extrapolate.
type smoothedModel struct {
	cfg      Config
	lastDate model.Date
	level    float64
	trend    float64
	weekly   []float64
	monthly  []float64
	yearly   []float64
	holiday  float64
}

// trendDamping flattens the extrapolated trend so long horizons do not run
// away.
const trendDamping = 0.98

// Predict extrapolates horizonDays contiguous daily values starting the day
// after the last fitted observation. Raw predictions may be negative; the
// adapter floors them.
func (m *smoothedModel) Predict(horizonDays int) []model.SeriesPoint {
	holidaySet := make(map[string]bool)
	for _, h := range holidayCalendars[m.cfg.HolidayCountry] {
		holidaySet[h] = true
	}

	out := make([]model.SeriesPoint, 0, horizonDays)
	trend := m.trend
	base := m.level
	for h := 1; h <= horizonDays; h++ {
		trend *= trendDamping
		base += trend
		d := m.lastDate.AddDays(h)

		seasonal := m.weekly[weeklyPhase(d, m.cfg.WeeklyPeriod)] *
			m.monthly[(d.Time().Day()-1)%len(m.monthly)] *
			m.yearly[yearlyPhase(d, 0)]
		if holidaySet[d.Time().Format("01-02")] {
			seasonal *= m.holiday
		}

		v := base
		if m.cfg.SeasonalityMode == "multiplicative" {
			v = base * seasonal
		} else {
			v = base + (seasonal-1)*math.Abs(base)
		}

		out = append(out, model.SeriesPoint{Date: d, Value: v})
	}
	return out
}
