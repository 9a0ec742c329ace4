// Package model defines the typed row schemas flowing through the pipeline.
package model

import "time"

// DateLayout is the calendar-day format used in exports and API payloads.
const DateLayout = "2006-01-02"

// Date is a calendar day. It marshals as YYYY-MM-DD in CSV and JSON.
type Date time.Time

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// Time returns the underlying time.Time.
func (d Date) Time() time.Time { return time.Time(d) }

// Before reports whether d is before other.
func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date { return Date(d.Time().AddDate(0, 0, n)) }

func (d Date) String() string { return d.Time().Format(DateLayout) }

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(DateLayout, string(text))
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

// Transaction is one raw retail transaction row as loaded from CSV.
// InvoiceDate and Discount stay in their raw string encodings until the
// preprocessor derives typed fields from them.
type Transaction struct {
	InvoiceNo     string  `csv:"invoice_no" json:"invoice_no"`
	CustomerID    string  `csv:"customer_id" json:"customer_id"`
	Gender        string  `csv:"gender" json:"gender"`
	Age           int     `csv:"age" json:"age"`
	Category      string  `csv:"category" json:"category"`
	Quantity      int     `csv:"quantity" json:"quantity"`
	Price         float64 `csv:"price" json:"price"`
	PaymentMethod string  `csv:"payment_method" json:"payment_method"`
	InvoiceDate   string  `csv:"invoice_date" json:"invoice_date"`
	ShoppingMall  string  `csv:"shopping_mall" json:"shopping_mall"`
	Discount      string  `csv:"Discount" json:"discount"`
}

// Region maps a store to its region. shopping_mall is unique in this table.
type Region struct {
	ShoppingMall string `csv:"shopping_mall" json:"shopping_mall"`
	Region       string `csv:"Region" json:"region"`
}

// CombinedRow is a transaction joined with its region.
type CombinedRow struct {
	Transaction
	Region string `csv:"Region" json:"region"`
}

// Season is a calendar season bucket.
type Season string

const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Fall   Season = "Fall"
	Winter Season = "Winter"
)

// Seasons lists the seasons in fixed calendar order. Seasonal aggregates are
// emitted in this order, never alphabetical.
var Seasons = []Season{Spring, Summer, Fall, Winter}

// SeasonOf maps a month to its season: Dec-Feb Winter, Mar-May Spring,
// Jun-Aug Summer, Sep-Nov Fall.
func SeasonOf(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Fall
	}
}

// WeekdayNames maps the 0-based weekday index (0 = Monday) to its name.
// Weekly aggregates are emitted in this order.
var WeekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayIndex converts time.Weekday (0 = Sunday) to the 0 = Monday index
// used across the derived tables.
func WeekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// EnrichedRow is a combined row with all preprocessor-derived fields
// appended. The raw invoice_date column is retained alongside the parsed
// Date so combined-data exports keep the source encoding.
type EnrichedRow struct {
	CombinedRow
	Date             Date    `csv:"-" json:"date"`
	DiscountFraction float64 `csv:"discount_fraction" json:"discount_fraction"`
	GrossAmount      float64 `csv:"gross_amount" json:"gross_amount"`
	DiscountAmount   float64 `csv:"discount_amount" json:"discount_amount"`
	NetAmount        float64 `csv:"net_amount" json:"net_amount"`
	Year             int     `csv:"year" json:"year"`
	Month            int     `csv:"month" json:"month"`
	Day              int     `csv:"day" json:"day"`
	Weekday          int     `csv:"weekday" json:"weekday"`
	Quarter          int     `csv:"quarter" json:"quarter"`
	DayOfYear        int     `csv:"day_of_year" json:"day_of_year"`
	Season           Season  `csv:"season" json:"season"`
}
