package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/export"
	"github.com/mallmetrics/analytics-cli/internal/pipeline"
)

var (
	runTransactions string
	runRegions      string
	runOut          string
	runSkipForecast bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analytics pipeline and export all tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("run"); err != nil {
			return err
		}

		opts := pipelineOptions()
		if runTransactions != "" {
			opts.TransactionsPath = runTransactions
		}
		if runRegions != "" {
			opts.RegionsPath = runRegions
		}
		opts.SkipForecast = runSkipForecast

		result, err := pipeline.Run(ctx, opts, newForecaster())
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		outDir := cfg.Output.Dir
		if runOut != "" {
			outDir = runOut
		}
		if err := export.WriteAll(outDir, result); err != nil {
			return err
		}

		zap.L().Info("run complete",
			zap.String("run_id", result.RunID),
			zap.Int("rows", len(result.Enriched)),
			zap.Int("rows_lost_in_join", result.LostRows),
			zap.String("output_dir", outDir),
		)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runTransactions, "transactions", "", "transactions CSV path (default from config)")
	runCmd.Flags().StringVar(&runRegions, "regions", "", "mall regions CSV path (default from config)")
	runCmd.Flags().StringVar(&runOut, "output", "", "output directory (default from config)")
	runCmd.Flags().BoolVar(&runSkipForecast, "skip-forecast", false, "skip the forecasting stage")
	rootCmd.AddCommand(runCmd)
}
