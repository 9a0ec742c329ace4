package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// ErrInsufficientData marks a group skipped for having fewer daily
// observations than the configured minimum.
var ErrInsufficientData = errors.New("insufficient observations for forecasting")

// ModelError reports a per-group collaborator failure. It is logged and
// isolated; one bad fit never aborts the other groups.
type ModelError struct {
	Key model.ForecastKey
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("forecast: %s/%s/%s: %v", e.Key.ShoppingMall, e.Key.Region, e.Key.Category, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Options bounds the forecasting run.
type Options struct {
	HorizonDays     int
	MinObservations int
	MaxConcurrent   int
	FitTimeout      time.Duration
}

// BuildDailySeries groups enriched rows by (mall, region, category) and sums
// net amount per day, returning each group's date-sorted series.
func BuildDailySeries(rows []model.EnrichedRow) map[model.ForecastKey][]model.SeriesPoint {
	sums := make(map[model.ForecastKey]map[model.Date]float64)
	for _, r := range rows {
		k := model.ForecastKey{ShoppingMall: r.ShoppingMall, Region: r.Region, Category: r.Category}
		daily, ok := sums[k]
		if !ok {
			daily = make(map[model.Date]float64)
			sums[k] = daily
		}
		daily[r.Date] += r.NetAmount
	}

	series := make(map[model.ForecastKey][]model.SeriesPoint, len(sums))
	for k, daily := range sums {
		points := make([]model.SeriesPoint, 0, len(daily))
		for d, v := range daily {
			points = append(points, model.SeriesPoint{Date: d, Value: round2(v)})
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
		series[k] = points
	}
	return series
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Run forecasts every qualifying (mall, region, category) series and returns
// the sanitized forecast table: one row per group per horizon day, values
// floored at zero, dates contiguous from the day after each group's last
// observation. Groups run concurrently with no shared mutable state; the
// only returned error is context cancellation.
func Run(ctx context.Context, rows []model.EnrichedRow, f Forecaster, opts Options) ([]model.ForecastRow, error) {
	series := BuildDailySeries(rows)

	// Deterministic group order for output and logs.
	keys := make([]model.ForecastKey, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ShoppingMall != b.ShoppingMall {
			return a.ShoppingMall < b.ShoppingMall
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.Category < b.Category
	})

	results := make([][]model.ForecastRow, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	if opts.MaxConcurrent > 0 {
		g.SetLimit(opts.MaxConcurrent)
	}

	for i, k := range keys {
		i, k := i, k
		points := series[k]
		g.Go(func() error {
			if len(points) < opts.MinObservations {
				zap.L().Info("forecast: group skipped",
					zap.String("shopping_mall", k.ShoppingMall),
					zap.String("region", k.Region),
					zap.String("category", k.Category),
					zap.Int("observations", len(points)),
					zap.Int("minimum", opts.MinObservations),
					zap.Error(ErrInsufficientData),
				)
				return nil
			}

			rows, err := forecastGroup(gctx, f, k, points, opts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				zap.L().Warn("forecast: group failed", zap.Error(&ModelError{Key: k, Err: err}))
				return nil
			}
			results[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.ForecastRow
	for _, rows := range results {
		out = append(out, rows...)
	}
	zap.L().Info("forecast: run complete",
		zap.Int("groups", len(keys)),
		zap.Int("rows", len(out)),
	)
	return out, nil
}

// forecastGroup fits one group under the wall-clock budget and sanitizes its
// predictions.
func forecastGroup(ctx context.Context, f Forecaster, k model.ForecastKey, points []model.SeriesPoint, opts Options) ([]model.ForecastRow, error) {
	if opts.FitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.FitTimeout)
		defer cancel()
	}

	m, err := f.Fit(ctx, points)
	if err != nil {
		return nil, err
	}

	predicted := m.Predict(opts.HorizonDays)
	rows := make([]model.ForecastRow, 0, len(predicted))
	for _, p := range predicted {
		v := p.Value
		if v < 0 {
			v = 0
		}
		rows = append(rows, model.ForecastRow{
			ShoppingMall:    k.ShoppingMall,
			Region:          k.Region,
			Category:        k.Category,
			ForecastDate:    p.Date,
			ForecastedSales: round2(v),
		})
	}
	return rows, nil
}
