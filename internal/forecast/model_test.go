package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// dailySeries produces n contiguous daily points from a value function.
func dailySeries(n int, value func(i int) float64) []model.SeriesPoint {
	base := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC) // a Monday
	out := make([]model.SeriesPoint, n)
	for i := range out {
		out[i] = model.SeriesPoint{
			Date:  model.DateOf(base.AddDate(0, 0, i)),
			Value: value(i),
		}
	}
	return out
}

func TestSmootherFitTooShort(t *testing.T) {
	s := NewSmoother(Config{})
	_, err := s.Fit(context.Background(), dailySeries(1, func(int) float64 { return 10 }))
	assert.Error(t, err)
}

func TestSmootherFitNoVariance(t *testing.T) {
	s := NewSmoother(Config{})
	_, err := s.Fit(context.Background(), dailySeries(20, func(int) float64 { return 42 }))
	assert.Error(t, err)
}

func TestSmootherFitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSmoother(Config{})
	_, err := s.Fit(ctx, dailySeries(20, func(i int) float64 { return float64(10 + i%3) }))
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSmootherPredictContiguousDates(t *testing.T) {
	series := dailySeries(30, func(i int) float64 { return float64(100 + 5*(i%7)) })

	s := NewSmoother(Config{})
	m, err := s.Fit(context.Background(), series)
	require.NoError(t, err)

	predicted := m.Predict(14)
	require.Len(t, predicted, 14)

	last := series[len(series)-1].Date
	for i, p := range predicted {
		assert.Equal(t, last.AddDays(i+1).String(), p.Date.String())
	}
}

func TestSmootherPredictTracksLevel(t *testing.T) {
	// Flat-ish series around 100: predictions should stay in the same
	// neighborhood, not explode or collapse.
	series := dailySeries(60, func(i int) float64 { return float64(95 + (i%7)*2) })

	s := NewSmoother(Config{})
	m, err := s.Fit(context.Background(), series)
	require.NoError(t, err)

	for _, p := range m.Predict(30) {
		assert.Greater(t, p.Value, 30.0)
		assert.Less(t, p.Value, 300.0)
	}
}

func TestSmootherWeeklySeasonality(t *testing.T) {
	// Mondays sell triple: predicted Mondays should exceed predicted Tuesdays.
	series := dailySeries(56, func(i int) float64 {
		if i%7 == 0 {
			return 300
		}
		return 100
	})

	s := NewSmoother(Config{})
	m, err := s.Fit(context.Background(), series)
	require.NoError(t, err)

	predicted := m.Predict(14)
	byWeekday := make(map[int][]float64)
	for _, p := range predicted {
		wd := model.WeekdayIndex(p.Date.Time().Weekday())
		byWeekday[wd] = append(byWeekday[wd], p.Value)
	}
	require.NotEmpty(t, byWeekday[0])
	require.NotEmpty(t, byWeekday[1])
	assert.Greater(t, byWeekday[0][0], byWeekday[1][0])
}

func TestNewSmootherFillsDefaults(t *testing.T) {
	s := NewSmoother(Config{HolidayCountry: "TR"})
	assert.Equal(t, "multiplicative", s.cfg.SeasonalityMode)
	assert.Equal(t, 7, s.cfg.WeeklyPeriod)
	assert.InDelta(t, 30.5, s.cfg.MonthlyPeriod, 1e-9)
	assert.InDelta(t, 0.1, s.cfg.TrendFlexibility, 1e-9)
}
