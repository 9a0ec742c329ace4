package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/export"
	"github.com/mallmetrics/analytics-cli/internal/model"
	"github.com/mallmetrics/analytics-cli/internal/pipeline"
)

var (
	forecastOut     string
	forecastHorizon int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast daily sales per mall, region, and category group",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if forecastHorizon > 0 {
			cfg.Forecast.HorizonDays = forecastHorizon
		}
		if err := cfg.Validate("forecast"); err != nil {
			return err
		}

		result, err := pipeline.Run(ctx, pipelineOptions(), newForecaster())
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		outDir := cfg.Output.Dir
		if forecastOut != "" {
			outDir = forecastOut
		}
		if err := export.WriteTable(outDir, export.SalesForecastFile, result.Forecasts); err != nil {
			return err
		}

		groups := make(map[model.ForecastKey]struct{})
		for _, row := range result.Forecasts {
			groups[row.Key()] = struct{}{}
		}
		zap.L().Info("forecast complete",
			zap.Int("groups", len(groups)),
			zap.Int("rows", len(result.Forecasts)),
			zap.Int("horizon_days", cfg.Forecast.HorizonDays),
		)
		return nil
	},
}

func init() {
	forecastCmd.Flags().StringVar(&forecastOut, "output", "", "output directory (default from config)")
	forecastCmd.Flags().IntVar(&forecastHorizon, "horizon", 0, "forecast horizon in days (default from config)")
	rootCmd.AddCommand(forecastCmd)
}
