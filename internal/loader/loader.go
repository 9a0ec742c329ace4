// Package loader reads and validates the raw transaction and region CSVs.
// Column names are bound to typed fields here; nothing downstream looks up
// columns by string.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/model"
)

// ErrMissingFile is returned when an input path does not exist.
var ErrMissingFile = errors.New("input file not found")

// SchemaError reports required columns absent from an input file's header.
type SchemaError struct {
	File    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("loader: %s is missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
}

// Required column sets for the two input files.
var (
	transactionColumns = []string{
		"invoice_no", "customer_id", "gender", "age", "category",
		"quantity", "price", "payment_method", "invoice_date",
		"shopping_mall", "Discount",
	}
	regionColumns = []string{"shopping_mall", "Region"}
)

// Tables holds the two validated input tables, unmodified beyond decoding.
type Tables struct {
	Transactions []model.Transaction
	Regions      []model.Region
}

// Load reads both input files, verifies their schemas, and runs data-quality
// checks. Missing files and missing columns are fatal; duplicates and
// out-of-range values are logged warnings.
func Load(transactionsPath, regionsPath string) (*Tables, error) {
	transactions, err := decodeFile[model.Transaction](transactionsPath, transactionColumns)
	if err != nil {
		return nil, err
	}
	regions, err := decodeFile[model.Region](regionsPath, regionColumns)
	if err != nil {
		return nil, err
	}

	zap.L().Info("loader: files loaded",
		zap.Int("transactions", len(transactions)),
		zap.Int("regions", len(regions)),
	)

	t := &Tables{Transactions: transactions, Regions: regions}
	t.validate()
	return t, nil
}

// validate logs warnings for duplicate rows and out-of-range values. These
// are data-quality signals, not failures.
func (t *Tables) validate() {
	seen := make(map[model.Transaction]int, len(t.Transactions))
	duplicates := 0
	ageOutOfRange := 0
	negativePrice := 0

	for _, tx := range t.Transactions {
		seen[tx]++
		if seen[tx] > 1 {
			duplicates++
		}
		if tx.Age < 0 || tx.Age > 120 {
			ageOutOfRange++
		}
		if tx.Price < 0 {
			negativePrice++
		}
	}

	if duplicates > 0 {
		zap.L().Warn("loader: duplicate transaction rows", zap.Int("count", duplicates))
	}
	if ageOutOfRange > 0 {
		zap.L().Warn("loader: age values outside [0,120]", zap.Int("count", ageOutOfRange))
	}
	if negativePrice > 0 {
		zap.L().Warn("loader: negative price values", zap.Int("count", negativePrice))
	}
}

// decodeFile reads a headered CSV into typed rows, failing with a
// SchemaError when required columns are absent.
func decodeFile[T any](path string, required []string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, eris.Wrapf(ErrMissingFile, "loader: %s", path)
		}
		return nil, eris.Wrapf(err, "loader: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read header of %s", path)
	}

	if missing := missingColumns(header, required); len(missing) > 0 {
		return nil, &SchemaError{File: path, Missing: missing}
	}

	dec, err := csvutil.NewDecoder(r, header...)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: build decoder for %s", path)
	}

	var rows []T
	for {
		var row T
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "loader: decode row in %s", path)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func missingColumns(header, required []string) []string {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
