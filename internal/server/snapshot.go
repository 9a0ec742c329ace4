// Package server exposes the computed analytics snapshot over a read-only
// JSON API.
package server

import (
	"sort"

	"github.com/mallmetrics/analytics-cli/internal/forecast"
	"github.com/mallmetrics/analytics-cli/internal/model"
	"github.com/mallmetrics/analytics-cli/internal/pipeline"
)

// Filters lists the distinct values a dashboard can select from.
type Filters struct {
	ShoppingMalls []string `json:"shopping_malls"`
	Regions       []string `json:"regions"`
	Categories    []string `json:"categories"`
}

// Snapshot is one immutable, fully derived view of the data. Handlers read
// it without locks; reloads build a new one and swap the pointer.
type Snapshot struct {
	Result         *pipeline.Result
	DailySeries    map[model.ForecastKey][]model.SeriesPoint
	ForecastsByKey map[model.ForecastKey][]model.ForecastRow
	Filters        Filters
}

// NewSnapshot indexes a pipeline result for serving.
func NewSnapshot(res *pipeline.Result) *Snapshot {
	byKey := make(map[model.ForecastKey][]model.ForecastRow)
	for _, r := range res.Forecasts {
		k := r.Key()
		byKey[k] = append(byKey[k], r)
	}

	malls := make(map[string]struct{})
	regions := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, r := range res.Enriched {
		malls[r.ShoppingMall] = struct{}{}
		regions[r.Region] = struct{}{}
		categories[r.Category] = struct{}{}
	}

	return &Snapshot{
		Result:         res,
		DailySeries:    forecast.BuildDailySeries(res.Enriched),
		ForecastsByKey: byKey,
		Filters: Filters{
			ShoppingMalls: sortedSet(malls),
			Regions:       sortedSet(regions),
			Categories:    sortedSet(categories),
		},
	}
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
