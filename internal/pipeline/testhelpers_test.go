package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// tx builds a raw transaction with sane defaults for the fields a test does
// not care about.
func tx(invoice, customer, mall, category, method, date, discount string, qty int, price float64) model.Transaction {
	return model.Transaction{
		InvoiceNo:     invoice,
		CustomerID:    customer,
		Gender:        "Female",
		Age:           30,
		Category:      category,
		Quantity:      qty,
		Price:         price,
		PaymentMethod: method,
		InvoiceDate:   date,
		ShoppingMall:  mall,
		Discount:      discount,
	}
}

// combined wraps a transaction with a region.
func combined(t model.Transaction, region string) model.CombinedRow {
	return model.CombinedRow{Transaction: t, Region: region}
}

// enrich preprocesses combined rows, failing the test on error.
func enrich(t *testing.T, rows []model.CombinedRow) []model.EnrichedRow {
	t.Helper()
	out, err := Preprocess(rows)
	require.NoError(t, err)
	return out
}
