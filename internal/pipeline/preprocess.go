package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// invoiceDateLayout is the day-first format of the raw invoice_date column.
const invoiceDateLayout = "02-01-2006"

// MalformedDateError reports an unparseable invoice date. Date parsing is
// strict everywhere: a bad date fails the run rather than dropping the row.
type MalformedDateError struct {
	InvoiceNo string
	Value     string
	Err       error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("preprocess: invoice %s has malformed date %q: %v", e.InvoiceNo, e.Value, e.Err)
}

func (e *MalformedDateError) Unwrap() error { return e.Err }

// MalformedDiscountError reports a discount string that is not a percentage
// in [0,100].
type MalformedDiscountError struct {
	InvoiceNo string
	Value     string
}

func (e *MalformedDiscountError) Error() string {
	return fmt.Sprintf("preprocess: invoice %s has malformed discount %q", e.InvoiceNo, e.Value)
}

// round2 rounds to two decimal places. All derived numeric outputs are
// rounded at the point of derivation so exports are stable.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Preprocess derives the computed columns for every combined row. The input
// slice is not mutated; a new enriched table is returned. Deterministic and
// total: the first malformed date or discount fails the whole stage.
func Preprocess(combined []model.CombinedRow) ([]model.EnrichedRow, error) {
	enriched := make([]model.EnrichedRow, 0, len(combined))

	for _, row := range combined {
		date, err := time.Parse(invoiceDateLayout, row.InvoiceDate)
		if err != nil {
			return nil, &MalformedDateError{InvoiceNo: row.InvoiceNo, Value: row.InvoiceDate, Err: err}
		}

		fraction, err := parseDiscount(row)
		if err != nil {
			return nil, err
		}

		gross := round2(float64(row.Quantity) * row.Price)
		discount := round2(gross * fraction)
		net := round2(gross - discount)

		enriched = append(enriched, model.EnrichedRow{
			CombinedRow:      row,
			Date:             model.DateOf(date),
			DiscountFraction: fraction,
			GrossAmount:      gross,
			DiscountAmount:   discount,
			NetAmount:        net,
			Year:             date.Year(),
			Month:            int(date.Month()),
			Day:              date.Day(),
			Weekday:          model.WeekdayIndex(date.Weekday()),
			Quarter:          (int(date.Month())-1)/3 + 1,
			DayOfYear:        date.YearDay(),
			Season:           model.SeasonOf(date.Month()),
		})
	}

	zap.L().Info("preprocess: derived columns computed", zap.Int("rows", len(enriched)))
	return enriched, nil
}

// parseDiscount converts a "10%"-style string to a fraction in [0,1].
func parseDiscount(row model.CombinedRow) (float64, error) {
	raw := strings.TrimSpace(row.Discount)
	if !strings.HasSuffix(raw, "%") {
		return 0, &MalformedDiscountError{InvoiceNo: row.InvoiceNo, Value: row.Discount}
	}
	pct, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
	if err != nil || pct < 0 || pct > 100 {
		return 0, &MalformedDiscountError{InvoiceNo: row.InvoiceNo, Value: row.Discount}
	}
	return pct / 100, nil
}
