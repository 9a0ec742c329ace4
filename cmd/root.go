package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/config"
	"github.com/mallmetrics/analytics-cli/internal/forecast"
	"github.com/mallmetrics/analytics-cli/internal/pipeline"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "analytics-cli",
	Short: "Retail sales analytics pipeline",
	Long:  "Loads mall transaction CSVs, derives profitability and trend tables, scores customers with RFM, forecasts daily sales per group, and serves the results as a JSON API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// pipelineOptions translates the loaded config into pipeline options.
func pipelineOptions() pipeline.Options {
	return pipeline.Options{
		TransactionsPath: cfg.Data.TransactionsPath,
		RegionsPath:      cfg.Data.RegionsPath,
		Forecast: forecast.Options{
			HorizonDays:     cfg.Forecast.HorizonDays,
			MinObservations: cfg.Forecast.MinObservations,
			MaxConcurrent:   cfg.Forecast.MaxConcurrent,
			FitTimeout:      time.Duration(cfg.Forecast.FitTimeoutSecs) * time.Second,
		},
	}
}

// newForecaster builds the default smoothing forecaster from config.
func newForecaster() forecast.Forecaster {
	fc := forecast.DefaultConfig()
	fc.HolidayCountry = cfg.Forecast.HolidayCountry
	return forecast.NewSmoother(fc)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
