// Package rfm scores customers by recency, frequency, and monetary value and
// assigns each a value segment.
package rfm

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// customerAcc accumulates one customer's purchase history.
type customerAcc struct {
	lastPurchase time.Time
	frequency    int
	monetary     float64
}

// Compute builds one RFMRecord per customer. The snapshot date is the latest
// invoice date across all rows plus one day, computed once per run. Recency
// and Monetary are quartile-binned directly on value (duplicate quantile
// edges dropped); Frequency is binned on its ascending first-tie rank so
// repeated counts still split into four bins. R scores are reversed: the
// most recent quartile scores highest.
//
// An empty input is an error: the serving layer reports "data unavailable"
// rather than emitting an empty table.
func Compute(rows []model.EnrichedRow) ([]model.RFMRecord, error) {
	if len(rows) == 0 {
		return nil, eris.New("rfm: no transactions to score")
	}

	var maxDate time.Time
	byCustomer := make(map[string]*customerAcc)
	for _, r := range rows {
		d := r.Date.Time()
		if d.After(maxDate) {
			maxDate = d
		}
		acc, ok := byCustomer[r.CustomerID]
		if !ok {
			acc = &customerAcc{}
			byCustomer[r.CustomerID] = acc
		}
		if d.After(acc.lastPurchase) {
			acc.lastPurchase = d
		}
		acc.frequency++
		acc.monetary += float64(r.Quantity) * r.Price
	}
	snapshot := maxDate.AddDate(0, 0, 1)

	// Customers in id order; Frequency rank ties resolve in this order.
	ids := make([]string, 0, len(byCustomer))
	for id := range byCustomer {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	recency := make([]float64, len(ids))
	frequency := make([]float64, len(ids))
	monetary := make([]float64, len(ids))
	for i, id := range ids {
		acc := byCustomer[id]
		recency[i] = float64(int(snapshot.Sub(acc.lastPurchase).Hours() / 24))
		frequency[i] = float64(acc.frequency)
		monetary[i] = acc.monetary
	}

	fRanks := rankFirst(frequency)
	rEdges := quartileEdges(recency)
	fEdges := quartileEdges(fRanks)
	mEdges := quartileEdges(monetary)

	records := make([]model.RFMRecord, 0, len(ids))
	for i, id := range ids {
		acc := byCustomer[id]

		// Lower recency means a more recent purchase, so the bin order is
		// reversed into the score.
		rScore := binCount(rEdges) + 1 - bin(recency[i], rEdges)
		fScore := bin(fRanks[i], fEdges)
		mScore := bin(monetary[i], mEdges)
		total := rScore + fScore + mScore

		records = append(records, model.RFMRecord{
			CustomerID:    id,
			Recency:       int(recency[i]),
			Frequency:     acc.frequency,
			MonetaryValue: acc.monetary,
			RScore:        rScore,
			FScore:        fScore,
			MScore:        mScore,
			RFMScore:      total,
			Segment:       model.SegmentFor(total),
		})
	}

	zap.L().Info("rfm: customers scored",
		zap.Int("customers", len(records)),
		zap.Time("snapshot_date", snapshot),
	)
	return records, nil
}
