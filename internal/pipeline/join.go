// Package pipeline implements the batch analytics stages: join, preprocess,
// aggregate, and summary. Each stage is a pure function over typed rows.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// Join inner-joins transactions to the region lookup on shopping_mall.
// Transactions without a matching region are dropped; the lost count is
// returned and logged as a warning. A duplicate shopping_mall in the region
// table keeps the first mapping and is logged — a data-quality issue for the
// caller, not a failure.
func Join(transactions []model.Transaction, regions []model.Region) ([]model.CombinedRow, int) {
	regionByMall := make(map[string]string, len(regions))
	for _, r := range regions {
		if _, ok := regionByMall[r.ShoppingMall]; ok {
			zap.L().Warn("join: duplicate shopping_mall in region table, keeping first",
				zap.String("shopping_mall", r.ShoppingMall),
			)
			continue
		}
		regionByMall[r.ShoppingMall] = r.Region
	}

	combined := make([]model.CombinedRow, 0, len(transactions))
	for _, tx := range transactions {
		region, ok := regionByMall[tx.ShoppingMall]
		if !ok {
			continue
		}
		combined = append(combined, model.CombinedRow{Transaction: tx, Region: region})
	}

	lost := len(transactions) - len(combined)
	if lost > 0 {
		zap.L().Warn("join: transactions without a matching region dropped",
			zap.Int("lost", lost),
		)
	}
	zap.L().Info("join: datasets joined",
		zap.Int("combined", len(combined)),
		zap.Int("transactions", len(transactions)),
	)

	return combined, lost
}
