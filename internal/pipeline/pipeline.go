package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/forecast"
	"github.com/mallmetrics/analytics-cli/internal/loader"
	"github.com/mallmetrics/analytics-cli/internal/model"
	"github.com/mallmetrics/analytics-cli/internal/rfm"
)

// Options configures one pipeline run.
type Options struct {
	TransactionsPath string
	RegionsPath      string
	Forecast         forecast.Options
	SkipForecast     bool
}

// Result is everything one pipeline run derives. It is immutable once
// returned; the serving layer exposes it as an atomic snapshot.
type Result struct {
	RunID     string
	Enriched  []model.EnrichedRow
	LostRows  int
	Tables    *Aggregates
	RFM       []model.RFMRecord
	Forecasts []model.ForecastRow
	Summary   *SummaryReport
}

// Run executes the full batch pipeline: load and validate, join, preprocess,
// aggregate, RFM, forecast, summary. Loader and preprocessor failures abort
// the run; an RFM failure and per-group forecast failures are logged and
// leave the corresponding tables empty.
func Run(ctx context.Context, opts Options, forecaster forecast.Forecaster) (*Result, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("pipeline: starting run",
		zap.String("transactions", opts.TransactionsPath),
		zap.String("regions", opts.RegionsPath),
	)

	tables, err := loader.Load(opts.TransactionsPath, opts.RegionsPath)
	if err != nil {
		return nil, err
	}

	combined, lost := Join(tables.Transactions, tables.Regions)

	enriched, err := Preprocess(combined)
	if err != nil {
		return nil, err
	}

	agg := Aggregate(enriched)

	result := &Result{
		RunID:    runID,
		Enriched: enriched,
		LostRows: lost,
		Tables:   agg,
		Summary:  BuildSummary(enriched, agg),
	}

	result.RFM = computeRFM(log, enriched)

	if !opts.SkipForecast {
		forecasts, err := forecast.Run(ctx, enriched, forecaster, opts.Forecast)
		if err != nil {
			return nil, err
		}
		result.Forecasts = forecasts
	}

	log.Info("pipeline: run complete",
		zap.Int("rows", len(enriched)),
		zap.Int("rfm_customers", len(result.RFM)),
		zap.Int("forecast_rows", len(result.Forecasts)),
	)
	return result, nil
}

// computeRFM scores customers, degrading to an empty table on failure so
// the rest of the snapshot still serves.
func computeRFM(log *zap.Logger, enriched []model.EnrichedRow) []model.RFMRecord {
	records, err := rfm.Compute(enriched)
	if err != nil {
		log.Error("pipeline: rfm scoring failed, table unavailable", zap.Error(err))
		return nil
	}
	return records
}
