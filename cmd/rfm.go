package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/export"
	"github.com/mallmetrics/analytics-cli/internal/pipeline"
)

var rfmOut string

var rfmCmd = &cobra.Command{
	Use:   "rfm",
	Short: "Score customers by recency, frequency, and monetary value",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("rfm"); err != nil {
			return err
		}

		opts := pipelineOptions()
		opts.SkipForecast = true

		result, err := pipeline.Run(ctx, opts, nil)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}
		if len(result.RFM) == 0 {
			return eris.New("rfm: no customers scored")
		}

		outDir := cfg.Output.Dir
		if rfmOut != "" {
			outDir = rfmOut
		}
		if err := export.WriteTable(outDir, export.RFMAnalysisFile, result.RFM); err != nil {
			return err
		}

		segments := make(map[string]int)
		for _, rec := range result.RFM {
			segments[rec.Segment]++
		}
		zap.L().Info("rfm complete",
			zap.Int("customers", len(result.RFM)),
			zap.Int("segments", len(segments)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"customers": len(result.RFM),
			"segments":  segments,
		})
	},
}

func init() {
	rfmCmd.Flags().StringVar(&rfmOut, "output", "", "output directory (default from config)")
	rootCmd.AddCommand(rfmCmd)
}
